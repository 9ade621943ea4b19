package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/example/vocabot/internal/catalog"
	"github.com/example/vocabot/pkg/models"
)

const (
	// QuestionsPerQuiz is the fixed length of a generated session.
	QuestionsPerQuiz = 10

	// minLevelPool is the smallest level pool the generator will work
	// with before widening to the whole catalog.
	minLevelPool = 6
	// minVerbPool is the smallest verb pool eligible for form questions.
	minVerbPool = 10
	// minSeriesPool is the smallest series eligible for category questions.
	minSeriesPool = 8

	distractorCount = 3
	// maxSampleAttempts caps distractor rejection sampling so an exhausted
	// pool yields a short option list instead of a hang.
	maxSampleAttempts = 3000

	formQuestionsPerMix   = 5
	seriesQuestionsPerMix = 5
)

// Verb-form option labels shown to the learner. The filler pads the option
// list to four and is never an accepted answer.
const (
	LabelBase   = "現在形"
	LabelPast   = "過去形"
	LabelPP     = "過去分詞"
	labelFiller = "（その他）"
)

// ErrEmptyPool is returned when a question pool has no entries at all, e.g.
// a review session without any missed words.
var ErrEmptyPool = errors.New("quiz: no words available for questions")

// Generator builds question sequences from a catalog.
type Generator struct {
	catalog *catalog.Catalog
	rnd     *rand.Rand
}

// NewGenerator creates a generator with a time-seeded random source.
func NewGenerator(c *catalog.Catalog) *Generator {
	return NewSeededGenerator(c, time.Now().UnixNano())
}

// NewSeededGenerator creates a generator with a fixed seed, for
// reproducible sequences.
func NewSeededGenerator(c *catalog.Catalog, seed int64) *Generator {
	return &Generator{
		catalog: c,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

// Generate builds the ordered question sequence for one session.
func (g *Generator) Generate(cfg Config) ([]Question, error) {
	return g.generateFromPool(cfg, g.levelPool(cfg.Level))
}

// GenerateReview builds a session from the learner's missed words. The pool
// is narrowed to the configured level when enough missed words carry it,
// otherwise every missed word is used.
func (g *Generator) GenerateReview(cfg Config, missed []models.WordEntry) ([]Question, error) {
	if len(missed) == 0 {
		return nil, ErrEmptyPool
	}
	var pool []models.WordEntry
	for _, w := range missed {
		if w.Level == cfg.Level {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		pool = missed
	}
	return g.generateFromPool(cfg, pool)
}

// levelPool returns the entries at the requested level, widening to the
// whole catalog when the level pool is too small to build sane options.
func (g *Generator) levelPool(level int) []models.WordEntry {
	pool := g.catalog.ByLevel(level)
	if len(pool) < minLevelPool {
		return g.catalog.Words()
	}
	return pool
}

func (g *Generator) generateFromPool(cfg Config, pool []models.WordEntry) ([]Question, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	if cfg.Mode == ModeMix {
		return g.generateMix(pool), nil
	}

	questions := make([]Question, 0, QuestionsPerQuiz)
	for _, w := range g.drawWords(pool, QuestionsPerQuiz) {
		switch cfg.Mode {
		case ModeTyped:
			questions = append(questions, g.typedQuestion(w, cfg.Direction))
		default:
			questions = append(questions, g.choiceQuestion(w, cfg.Direction, pool))
		}
	}
	return questions, nil
}

// generateMix builds 5 verb-form and 5 category questions and interleaves
// them with a single shuffle. When the pool cannot support a kind, that
// kind's slots degrade to plain en->ja multiple choice.
func (g *Generator) generateMix(pool []models.WordEntry) []Question {
	var verbs []models.WordEntry
	for _, w := range pool {
		if w.HasForms() {
			verbs = append(verbs, w)
		}
	}

	questions := make([]Question, 0, QuestionsPerQuiz)
	for i := 0; i < formQuestionsPerMix; i++ {
		if len(verbs) >= minVerbPool {
			questions = append(questions, g.verbFormQuestion(verbs))
		} else {
			questions = append(questions, g.choiceQuestion(g.pick(pool), EnToJa, pool))
		}
	}
	for i := 0; i < seriesQuestionsPerMix; i++ {
		if q, ok := g.seriesQuestion(pool); ok {
			questions = append(questions, q)
		} else {
			questions = append(questions, g.choiceQuestion(g.pick(pool), EnToJa, pool))
		}
	}

	g.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions
}

func (g *Generator) choiceQuestion(word models.WordEntry, dir Direction, pool []models.WordEntry) Question {
	prompt, correct := promptAndAnswer(word, dir)
	field := answerField(dir)
	options := g.shuffledOptions(correct, g.sampleDistractors(pool, nil, word, field, distractorCount))

	return Question{
		Kind:      KindChoice,
		Prompt:    prompt,
		Options:   options,
		Accepted:  acceptedSet(correct),
		Canonical: correct,
		Source:    word,
	}
}

func (g *Generator) typedQuestion(word models.WordEntry, dir Direction) Question {
	prompt, correct := promptAndAnswer(word, dir)
	return Question{
		Kind:      KindTyped,
		Prompt:    prompt,
		Accepted:  acceptedSet(correct),
		Canonical: correct,
		Source:    word,
	}
}

// verbFormQuestion shows one conjugated surface of a verb and asks which
// form it is. Every label whose surface matches the shown string is
// accepted; irregular verbs like cut/cut/cut make all three labels correct.
func (g *Generator) verbFormQuestion(verbs []models.WordEntry) Question {
	word := g.pick(verbs)
	forms := word.Forms

	surfaces := []struct {
		label string
		text  string
	}{
		{LabelBase, forms.Base},
		{LabelPast, forms.Past},
		{LabelPP, forms.PP},
	}
	shown := surfaces[g.rnd.Intn(len(surfaces))].text

	var labels []string
	for _, s := range surfaces {
		if Normalize(s.text) == Normalize(shown) {
			labels = append(labels, s.label)
		}
	}

	options := []string{LabelBase, LabelPast, LabelPP, labelFiller}
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		Kind:      KindVerbForm,
		Prompt:    fmt.Sprintf("「%s」はどの形？（%s：%s）", shown, word.EN, word.JA),
		Options:   options,
		Accepted:  acceptedSet(labels...),
		Canonical: strings.Join(labels, " / "),
		Source:    word,
	}
}

// seriesQuestion asks for the English word given its category and Japanese
// gloss. Distractors prefer entries from other series at the same level and
// fall back to the whole pool. Returns false when no series in the pool is
// large enough.
func (g *Generator) seriesQuestion(pool []models.WordEntry) (Question, bool) {
	groups := make(map[string][]models.WordEntry)
	for _, w := range pool {
		groups[w.Series] = append(groups[w.Series], w)
	}
	var eligible []string
	for name, members := range groups {
		if len(members) >= minSeriesPool {
			eligible = append(eligible, name)
		}
	}
	if len(eligible) == 0 {
		return Question{}, false
	}

	series := eligible[g.rnd.Intn(len(eligible))]
	word := g.pick(groups[series])

	var others []models.WordEntry
	for _, w := range pool {
		if w.Series != series {
			others = append(others, w)
		}
	}
	field := func(w models.WordEntry) string { return w.EN }
	options := g.shuffledOptions(word.EN, g.sampleDistractors(others, pool, word, field, distractorCount))

	return Question{
		Kind:      KindSeries,
		Prompt:    fmt.Sprintf("【%s】「%s」は英語で？", word.Series, word.JA),
		Options:   options,
		Accepted:  acceptedSet(word.EN),
		Canonical: word.EN,
		Source:    word,
	}, true
}

// sampleDistractors rejection-samples up to count answer-field values that
// are distinct from the correct answer and from each other after
// normalization. Sampling tries the primary pool first, then the fallback
// pool, and gives up after maxSampleAttempts so an exhausted pool returns a
// short list rather than looping forever.
func (g *Generator) sampleDistractors(primary, fallback []models.WordEntry, correct models.WordEntry, field func(models.WordEntry) string, count int) []string {
	out := make([]string, 0, count)
	seen := map[string]bool{Normalize(field(correct)): true}

	for _, pool := range [][]models.WordEntry{primary, fallback} {
		if len(pool) == 0 {
			continue
		}
		for attempts := 0; attempts < maxSampleAttempts && len(out) < count; attempts++ {
			w := pool[g.rnd.Intn(len(pool))]
			if w.Key() == correct.Key() {
				continue
			}
			v := field(w)
			if n := Normalize(v); !seen[n] {
				seen[n] = true
				out = append(out, v)
			}
		}
		if len(out) == count {
			break
		}
	}
	return out
}

// drawWords returns n entries from the pool, distinct while the pool lasts
// and reshuffled for reuse when the pool is smaller than n.
func (g *Generator) drawWords(pool []models.WordEntry, n int) []models.WordEntry {
	out := make([]models.WordEntry, 0, n)
	for len(out) < n {
		batch := g.shuffled(pool)
		if need := n - len(out); need < len(batch) {
			batch = batch[:need]
		}
		out = append(out, batch...)
	}
	return out
}

func (g *Generator) shuffled(pool []models.WordEntry) []models.WordEntry {
	out := make([]models.WordEntry, len(pool))
	copy(out, pool)
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (g *Generator) shuffledOptions(correct string, distractors []string) []string {
	options := append([]string{correct}, distractors...)
	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func (g *Generator) pick(pool []models.WordEntry) models.WordEntry {
	return pool[g.rnd.Intn(len(pool))]
}

func promptAndAnswer(word models.WordEntry, dir Direction) (string, string) {
	if dir == JaToEn {
		return "日本語：" + word.JA, word.EN
	}
	return "英単語：" + word.EN, word.JA
}

func answerField(dir Direction) func(models.WordEntry) string {
	if dir == JaToEn {
		return func(w models.WordEntry) string { return w.EN }
	}
	return func(w models.WordEntry) string { return w.JA }
}

