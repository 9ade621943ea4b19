package progression

import (
	"log"

	"github.com/example/vocabot/pkg/models"
)

// ProfileStore persists a learner profile as a whole-object replace.
type ProfileStore interface {
	Save(p *models.LearnerProfile) error
}

// Tracker is the single mutator of a learner profile. It commits after
// every scored answer; persistence failures are logged and never affect the
// in-memory state.
type Tracker struct {
	profile *models.LearnerProfile
	store   ProfileStore
}

// NewTracker wraps a profile and its store.
func NewTracker(profile *models.LearnerProfile, store ProfileStore) *Tracker {
	if profile.Missed == nil {
		profile.Missed = make(map[string]*models.MissedWord)
	}
	return &Tracker{profile: profile, store: store}
}

// Profile returns the tracked profile for read-only use by presentation.
func (t *Tracker) Profile() *models.LearnerProfile {
	return t.profile
}

// RecordAnswer applies one scored answer: cumulative totals, the rolling
// window, the miss ledger on a wrong answer, and the recomputed rank, then
// persists the profile.
func (t *Tracker) RecordAnswer(correct bool, word models.WordEntry) {
	p := t.profile
	p.TotalAnswered++
	if correct {
		p.TotalCorrect++
	}

	p.Recent = append(p.Recent, correct)
	if over := len(p.Recent) - models.RecentWindowSize; over > 0 {
		p.Recent = p.Recent[over:]
	}

	if !correct && word.EN != "" {
		m, ok := p.Missed[word.Key()]
		if !ok {
			m = &models.MissedWord{WordEntry: word}
			p.Missed[word.Key()] = m
		}
		m.Misses++
	}

	p.Rank = EffectiveRank(p).Key
	t.save()
}

// RememberConfig stores the learner's last quiz setup on the profile.
func (t *Tracker) RememberConfig(cfg models.StoredConfig) {
	t.profile.LastConfig = cfg
	t.save()
}

// SetUserName updates the learner's display name.
func (t *Tracker) SetUserName(name string) {
	t.profile.UserName = name
	t.save()
}

// Reset restores the zero-state profile, discarding totals, the window and
// the miss ledger.
func (t *Tracker) Reset() {
	fresh := models.DefaultProfile(t.profile.UserID)
	fresh.UserName = t.profile.UserName
	*t.profile = *fresh
	t.save()
}

func (t *Tracker) save() {
	if t.store == nil {
		return
	}
	if err := t.store.Save(t.profile); err != nil {
		log.Printf("Failed to save profile for user %d: %v", t.profile.UserID, err)
	}
}
