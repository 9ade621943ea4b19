package models

// RecentWindowSize bounds the rolling window of answer outcomes kept on a
// profile. Only the most recent outcomes inside this bound feed the
// accuracy-based rank adjustment.
const RecentWindowSize = 50

// MissedWord is a word the learner answered incorrectly, with a running
// miss counter. Review sessions draw their question pool from these.
type MissedWord struct {
	WordEntry
	Misses int `json:"misses"`
}

// StoredConfig remembers the learner's last quiz setup so the next session
// can start from the same selection.
type StoredConfig struct {
	Level     int    `json:"level"`
	Mode      string `json:"mode"`
	Direction string `json:"direction"`
}

// LearnerProfile is the persistent per-learner state. It is mutated only by
// the progression tracker and written back whole after each mutation.
type LearnerProfile struct {
	UserID        int64                  `json:"user_id"`
	UserName      string                 `json:"user_name"`
	TotalAnswered int                    `json:"total_answered"`
	TotalCorrect  int                    `json:"total_correct"`
	Recent        []bool                 `json:"recent"` // newest last, at most RecentWindowSize
	Rank          string                 `json:"rank"`   // effective rank key, recomputed on every record
	Missed        map[string]*MissedWord `json:"missed"` // keyed by WordEntry.Key()
	LastConfig    StoredConfig           `json:"last_config"`
}

// DefaultProfile returns the zero-state profile used for new learners and as
// the recovery value when a stored profile cannot be read.
func DefaultProfile(userID int64) *LearnerProfile {
	return &LearnerProfile{
		UserID: userID,
		Rank:   "beginner",
		Missed: make(map[string]*MissedWord),
		LastConfig: StoredConfig{
			Level:     1,
			Mode:      "mc",
			Direction: "en_to_ja",
		},
	}
}

// MissedWords returns the miss ledger as a slice of plain entries.
func (p *LearnerProfile) MissedWords() []WordEntry {
	words := make([]WordEntry, 0, len(p.Missed))
	for _, m := range p.Missed {
		words = append(words, m.WordEntry)
	}
	return words
}
