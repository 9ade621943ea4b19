package database

import (
	"database/sql"
	"fmt"

	"github.com/example/vocabot/pkg/models"
)

// WordRepository handles database operations for vocabulary words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

type wordRow struct {
	ID       int64          `db:"id"`
	EN       string         `db:"en"`
	JA       string         `db:"ja"`
	Level    int            `db:"level"`
	Series   string         `db:"series"`
	BaseForm sql.NullString `db:"base_form"`
	PastForm sql.NullString `db:"past_form"`
	PPForm   sql.NullString `db:"pp_form"`
}

func (r wordRow) toModel() models.WordEntry {
	w := models.WordEntry{
		ID:     r.ID,
		EN:     r.EN,
		JA:     r.JA,
		Level:  r.Level,
		Series: r.Series,
	}
	if r.BaseForm.Valid && r.PastForm.Valid && r.PPForm.Valid {
		forms := models.VerbForms{
			Base: r.BaseForm.String,
			Past: r.PastForm.String,
			PP:   r.PPForm.String,
		}
		if forms.Complete() {
			w.Forms = &forms
		}
	}
	return w
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formColumns(w models.WordEntry) (base, past, pp sql.NullString) {
	if w.Forms == nil {
		return
	}
	return nullString(w.Forms.Base), nullString(w.Forms.Past), nullString(w.Forms.PP)
}

// GetAll returns all stored words
func (r *WordRepository) GetAll() ([]models.WordEntry, error) {
	var rows []wordRow
	err := DB.Select(&rows, "SELECT id, en, ja, level, series, base_form, past_form, pp_form FROM words ORDER BY en")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	words := make([]models.WordEntry, 0, len(rows))
	for _, row := range rows {
		words = append(words, row.toModel())
	}
	return words, nil
}

// Count returns the number of stored words
func (r *WordRepository) Count() (int, error) {
	var count int
	if err := DB.Get(&count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %v", err)
	}
	return count, nil
}

// Upsert inserts a word or updates the stored one with the same (en, ja)
// pair. Returns true when a new row was created.
func (r *WordRepository) Upsert(w models.WordEntry) (bool, error) {
	base, past, pp := formColumns(w)

	query := DB.Rebind(`
		INSERT INTO words (en, ja, level, series, base_form, past_form, pp_form)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(en, ja) DO UPDATE SET
			level = excluded.level,
			series = excluded.series,
			base_form = excluded.base_form,
			past_form = excluded.past_form,
			pp_form = excluded.pp_form
	`)

	var existing int
	err := DB.Get(&existing, DB.Rebind("SELECT COUNT(*) FROM words WHERE en = ? AND ja = ?"), w.EN, w.JA)
	if err != nil {
		return false, fmt.Errorf("failed to check word: %v", err)
	}

	if _, err := DB.Exec(query, w.EN, w.JA, w.Level, w.Series, base, past, pp); err != nil {
		return false, fmt.Errorf("failed to upsert word: %v", err)
	}
	return existing == 0, nil
}

// DeleteAll removes every stored word
func (r *WordRepository) DeleteAll() error {
	if _, err := DB.Exec("DELETE FROM words"); err != nil {
		return fmt.Errorf("failed to delete words: %v", err)
	}
	return nil
}
