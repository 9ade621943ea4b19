// Package quiz implements the session engine: question generation, answer
// evaluation and the per-run session state machine.
package quiz

import (
	"strings"

	"github.com/example/vocabot/pkg/models"
)

// Kind discriminates the question variants.
type Kind string

const (
	// KindChoice is a 4-option multiple-choice translation question.
	KindChoice Kind = "mc"
	// KindTyped asks the learner to type the translation.
	KindTyped Kind = "typing"
	// KindVerbForm asks which conjugation a shown verb surface is.
	KindVerbForm Kind = "form"
	// KindSeries asks for the English word given its category and meaning.
	KindSeries Kind = "series"
)

// Mode selects how a session's questions are generated.
type Mode string

const (
	ModeChoice Mode = "mc"
	ModeTyped  Mode = "typing"
	ModeMix    Mode = "mix"
)

// Direction selects which field is prompted and which is answered.
type Direction string

const (
	EnToJa Direction = "en_to_ja"
	JaToEn Direction = "ja_to_en"
)

// Config is the learner's quiz setup. Direction is ignored in mix mode.
type Config struct {
	Level     int
	Mode      Mode
	Direction Direction
}

// Question is one generated quiz item. Accepted holds normalized answer
// strings; it usually has one member, but verb-form questions accept every
// label whose surface form matches the shown string.
type Question struct {
	Kind      Kind
	Prompt    string
	Options   []string // choice-based kinds only, already shuffled
	Accepted  map[string]bool
	Canonical string // human-presentable correct answer for feedback
	Source    models.WordEntry
}

// HasOptions reports whether the question is answered by picking an option.
func (q Question) HasOptions() bool {
	return len(q.Options) > 0
}

// Normalize prepares a string for answer comparison: surrounding whitespace
// is trimmed, internal whitespace runs collapse to one space and letters are
// lowercased. Idempotent.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func acceptedSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[Normalize(v)] = true
	}
	return set
}
