// Package progression maintains the learner's persistent statistics and the
// rank derived from them.
//
// The rank rule is the threshold variant: the base rank is a pure function
// of cumulative correct answers against a fixed table, and recent accuracy
// over the rolling window adjusts it by at most one step in either
// direction. The promotion/demotion rule family is deliberately not used.
package progression

import "github.com/example/vocabot/pkg/models"

// Rank is one step of the progression ladder.
type Rank struct {
	Key         string
	Name        string
	NeedCorrect int // cumulative correct answers required for the base rank
}

// Ranks is the ladder, lowest first.
var Ranks = []Rank{
	{Key: "beginner", Name: "ビギナー", NeedCorrect: 0},
	{Key: "iron", Name: "アイロン", NeedCorrect: 30},
	{Key: "bronze", Name: "ブロンズ", NeedCorrect: 90},
	{Key: "silver", Name: "シルバー", NeedCorrect: 180},
	{Key: "gold", Name: "ゴールド", NeedCorrect: 320},
	{Key: "platinum", Name: "プラチナ", NeedCorrect: 520},
	{Key: "diamond", Name: "ダイヤモンド", NeedCorrect: 780},
	{Key: "master", Name: "マスター", NeedCorrect: 1100},
}

// Recent-window accuracy bounds for the one-step rank adjustment.
const (
	promoteAccuracy = 0.88
	demoteAccuracy  = 0.60
)

// RecentAccuracy returns the fraction of correct answers in the rolling
// window, 0 when the window is empty.
func RecentAccuracy(p *models.LearnerProfile) float64 {
	if len(p.Recent) == 0 {
		return 0
	}
	ok := 0
	for _, correct := range p.Recent {
		if correct {
			ok++
		}
	}
	return float64(ok) / float64(len(p.Recent))
}

// accuracyDelta maps recent accuracy to the rank adjustment.
func accuracyDelta(acc float64) int {
	if acc >= promoteAccuracy {
		return 1
	}
	if acc <= demoteAccuracy {
		return -1
	}
	return 0
}

// baseRankIndex returns the highest rank whose threshold the cumulative
// correct count has reached.
func baseRankIndex(totalCorrect int) int {
	idx := 0
	for i, r := range Ranks {
		if totalCorrect >= r.NeedCorrect {
			idx = i
		}
	}
	return idx
}

// EffectiveRank returns the displayed rank: the base rank adjusted by the
// accuracy delta and clamped to the ladder.
func EffectiveRank(p *models.LearnerProfile) Rank {
	idx := baseRankIndex(p.TotalCorrect) + accuracyDelta(RecentAccuracy(p))
	if idx < 0 {
		idx = 0
	}
	if idx > len(Ranks)-1 {
		idx = len(Ranks) - 1
	}
	return Ranks[idx]
}

// NextRankNeed returns how many more correct answers reach the next base
// rank. The second return is false at the top of the ladder.
func NextRankNeed(p *models.LearnerProfile) (int, bool) {
	base := baseRankIndex(p.TotalCorrect)
	if base == len(Ranks)-1 {
		return 0, false
	}
	remain := Ranks[base+1].NeedCorrect - p.TotalCorrect
	if remain < 0 {
		remain = 0
	}
	return remain, true
}

// BaseProgress returns the percentage of the current base-rank interval
// already covered, for progress display. 100 at the top rank.
func BaseProgress(p *models.LearnerProfile) float64 {
	base := baseRankIndex(p.TotalCorrect)
	if base == len(Ranks)-1 {
		return 100
	}
	cur := Ranks[base].NeedCorrect
	next := Ranks[base+1].NeedCorrect
	span := next - cur
	if span < 1 {
		span = 1
	}
	pct := float64(p.TotalCorrect-cur) / float64(span) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
