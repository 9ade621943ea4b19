package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/vocabot/pkg/models"
)

// ProfileRepository handles database operations for learner profiles. It is
// the persistence side of the progression tracker's ProfileStore contract:
// Save replaces the whole stored profile in one transaction.
type ProfileRepository struct{}

// NewProfileRepository creates a new repository instance
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

type profileRow struct {
	UserID        int64  `db:"user_id"`
	UserName      string `db:"user_name"`
	TotalAnswered int    `db:"total_answered"`
	TotalCorrect  int    `db:"total_correct"`
	Recent        string `db:"recent"`
	Rank          string `db:"rank"`
	LastLevel     int    `db:"last_level"`
	LastMode      string `db:"last_mode"`
	LastDirection string `db:"last_direction"`
}

type missedRow struct {
	UserID   int64          `db:"user_id"`
	EN       string         `db:"en"`
	JA       string         `db:"ja"`
	Level    int            `db:"level"`
	Series   string         `db:"series"`
	BaseForm sql.NullString `db:"base_form"`
	PastForm sql.NullString `db:"past_form"`
	PPForm   sql.NullString `db:"pp_form"`
	Misses   int            `db:"misses"`
}

// Get loads the profile for a user. A missing row or an unreadable stored
// value degrades to the zero-state default profile; it never fails the
// caller over bad stored data.
func (r *ProfileRepository) Get(userID int64) (*models.LearnerProfile, error) {
	var row profileRow
	err := DB.Get(&row, DB.Rebind(`
		SELECT user_id, user_name, total_answered, total_correct, recent,
		       rank, last_level, last_mode, last_direction
		FROM profiles WHERE user_id = ?
	`), userID)
	if err == sql.ErrNoRows {
		return models.DefaultProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}

	var recent []bool
	if err := json.Unmarshal([]byte(row.Recent), &recent); err != nil {
		log.Printf("Malformed recent window for user %d, using default profile: %v", userID, err)
		return models.DefaultProfile(userID), nil
	}
	if len(recent) > models.RecentWindowSize {
		recent = recent[len(recent)-models.RecentWindowSize:]
	}

	p := &models.LearnerProfile{
		UserID:        row.UserID,
		UserName:      row.UserName,
		TotalAnswered: row.TotalAnswered,
		TotalCorrect:  row.TotalCorrect,
		Recent:        recent,
		Rank:          row.Rank,
		Missed:        make(map[string]*models.MissedWord),
		LastConfig: models.StoredConfig{
			Level:     row.LastLevel,
			Mode:      row.LastMode,
			Direction: row.LastDirection,
		},
	}

	var missed []missedRow
	err = DB.Select(&missed, DB.Rebind(`
		SELECT user_id, en, ja, level, series, base_form, past_form, pp_form, misses
		FROM missed_words WHERE user_id = ?
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get missed words: %v", err)
	}
	for _, m := range missed {
		entry := models.WordEntry{
			EN:     m.EN,
			JA:     m.JA,
			Level:  m.Level,
			Series: m.Series,
		}
		if m.BaseForm.Valid && m.PastForm.Valid && m.PPForm.Valid {
			forms := models.VerbForms{Base: m.BaseForm.String, Past: m.PastForm.String, PP: m.PPForm.String}
			if forms.Complete() {
				entry.Forms = &forms
			}
		}
		p.Missed[entry.Key()] = &models.MissedWord{WordEntry: entry, Misses: m.Misses}
	}

	return p, nil
}

// Save writes the whole profile back: the profile row is upserted and the
// missed-word rows are replaced, all in one transaction.
func (r *ProfileRepository) Save(p *models.LearnerProfile) error {
	recent, err := json.Marshal(p.Recent)
	if err != nil {
		return fmt.Errorf("failed to encode recent window: %v", err)
	}

	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(DB.Rebind(`
		INSERT INTO profiles (
			user_id, user_name, total_answered, total_correct, recent,
			rank, last_level, last_mode, last_direction
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			user_name = excluded.user_name,
			total_answered = excluded.total_answered,
			total_correct = excluded.total_correct,
			recent = excluded.recent,
			rank = excluded.rank,
			last_level = excluded.last_level,
			last_mode = excluded.last_mode,
			last_direction = excluded.last_direction
	`),
		p.UserID, p.UserName, p.TotalAnswered, p.TotalCorrect, string(recent),
		p.Rank, p.LastConfig.Level, p.LastConfig.Mode, p.LastConfig.Direction,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %v", err)
	}

	if _, err := tx.Exec(DB.Rebind("DELETE FROM missed_words WHERE user_id = ?"), p.UserID); err != nil {
		return fmt.Errorf("failed to clear missed words: %v", err)
	}
	insert := DB.Rebind(`
		INSERT INTO missed_words (user_id, en, ja, level, series, base_form, past_form, pp_form, misses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, m := range p.Missed {
		base, past, pp := formColumns(m.WordEntry)
		if _, err := tx.Exec(insert, p.UserID, m.EN, m.JA, m.Level, m.Series, base, past, pp, m.Misses); err != nil {
			return fmt.Errorf("failed to save missed word: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %v", err)
	}
	return nil
}

// GetAllUserIDs returns the IDs of every learner with a stored profile
func (r *ProfileRepository) GetAllUserIDs() ([]int64, error) {
	var ids []int64
	if err := DB.Select(&ids, "SELECT user_id FROM profiles ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("failed to get user ids: %v", err)
	}
	return ids, nil
}
