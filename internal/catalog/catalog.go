// Package catalog holds the validated, indexed vocabulary set the quiz
// engine draws questions from. A catalog is read-only after construction.
package catalog

import (
	"errors"

	"github.com/example/vocabot/pkg/models"
)

// DefaultSeries is assigned to entries that carry no category label.
const DefaultSeries = "その他"

// ErrEmptyCatalog is returned when validation leaves no usable entries.
var ErrEmptyCatalog = errors.New("catalog: no valid word entries")

// Catalog is an immutable word set indexed by level, by (level, series) and
// by verb-form eligibility.
type Catalog struct {
	words    []models.WordEntry
	byLevel  map[int][]models.WordEntry
	bySeries map[int]map[string][]models.WordEntry
	verbs    map[int][]models.WordEntry
}

// New validates the candidate entries and builds the indexes. Entries
// missing EN or JA are dropped, levels are clamped to 1..3, an empty series
// becomes DefaultSeries and duplicates on the (EN, JA) pair are collapsed.
func New(entries []models.WordEntry) (*Catalog, error) {
	c := &Catalog{
		byLevel:  make(map[int][]models.WordEntry),
		bySeries: make(map[int]map[string][]models.WordEntry),
		verbs:    make(map[int][]models.WordEntry),
	}

	seen := make(map[string]bool, len(entries))
	for _, w := range entries {
		if w.EN == "" || w.JA == "" {
			continue
		}
		if seen[w.Key()] {
			continue
		}
		seen[w.Key()] = true

		w.Level = clampLevel(w.Level)
		if w.Series == "" {
			w.Series = DefaultSeries
		}
		if w.Forms != nil && !w.Forms.Complete() {
			w.Forms = nil
		}

		c.words = append(c.words, w)
		c.byLevel[w.Level] = append(c.byLevel[w.Level], w)
		if c.bySeries[w.Level] == nil {
			c.bySeries[w.Level] = make(map[string][]models.WordEntry)
		}
		c.bySeries[w.Level][w.Series] = append(c.bySeries[w.Level][w.Series], w)
		if w.HasForms() {
			c.verbs[w.Level] = append(c.verbs[w.Level], w)
		}
	}

	if len(c.words) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// Words returns every entry in the catalog.
func (c *Catalog) Words() []models.WordEntry {
	return c.words
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.words)
}

// ByLevel returns the entries at the given level.
func (c *Catalog) ByLevel(level int) []models.WordEntry {
	return c.byLevel[level]
}

// BySeries returns the entries at the given level carrying the given
// series label.
func (c *Catalog) BySeries(level int, series string) []models.WordEntry {
	return c.bySeries[level][series]
}

// SeriesNames returns the series labels present at the given level.
func (c *Catalog) SeriesNames(level int) []string {
	names := make([]string, 0, len(c.bySeries[level]))
	for name := range c.bySeries[level] {
		names = append(names, name)
	}
	return names
}

// VerbCandidates returns the entries at the given level eligible for
// verb-form questions.
func (c *Catalog) VerbCandidates(level int) []models.WordEntry {
	return c.verbs[level]
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}
