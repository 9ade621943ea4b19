package models

// VerbForms holds the three conjugated surfaces of a verb. A word carries
// forms only when all three are known; incomplete forms are dropped during
// catalog validation.
type VerbForms struct {
	Base string `json:"base"`
	Past string `json:"past"`
	PP   string `json:"pp"`
}

// Complete reports whether all three forms are non-empty.
func (f VerbForms) Complete() bool {
	return f.Base != "" && f.Past != "" && f.PP != ""
}

// WordEntry represents one vocabulary item. Immutable once loaded into a
// catalog; identified by the (EN, JA) pair.
type WordEntry struct {
	ID     int64      `json:"id"`
	EN     string     `json:"en"`
	JA     string     `json:"ja"`
	Level  int        `json:"level"`  // 1-3
	Series string     `json:"series"` // category label
	Forms  *VerbForms `json:"forms,omitempty"`
}

// Key uniquely identifies the entry inside a catalog or miss ledger.
func (w WordEntry) Key() string {
	return w.EN + "||" + w.JA
}

// HasForms reports whether the entry is eligible for verb-form questions.
func (w WordEntry) HasForms() bool {
	return w.Forms != nil && w.Forms.Complete()
}
