package quiz

import (
	"fmt"
	"testing"

	"github.com/example/vocabot/internal/catalog"
	"github.com/example/vocabot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(en, ja string, level int, series string) models.WordEntry {
	return models.WordEntry{EN: en, JA: ja, Level: level, Series: series}
}

func verb(en, ja string, level int, base, past, pp string) models.WordEntry {
	w := word(en, ja, level, "動作")
	w.Forms = &models.VerbForms{Base: base, Past: past, PP: pp}
	return w
}

// wordPool builds n distinct level-1 words in one series.
func wordPool(n int, series string) []models.WordEntry {
	words := make([]models.WordEntry, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, word(
			fmt.Sprintf("word%02d", i),
			fmt.Sprintf("単語%02d", i),
			1, series,
		))
	}
	return words
}

func newTestGenerator(t *testing.T, entries []models.WordEntry) *Generator {
	t.Helper()
	c, err := catalog.New(entries)
	require.NoError(t, err)
	return NewSeededGenerator(c, 1)
}

func TestGenerateChoiceInvariants(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	questions, err := g.Generate(Config{Level: 1, Mode: ModeChoice, Direction: EnToJa})
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerQuiz)

	for _, q := range questions {
		assert.Equal(t, KindChoice, q.Kind)
		require.Len(t, q.Options, 4)

		seen := make(map[string]bool)
		acceptedFound := false
		for _, opt := range q.Options {
			n := Normalize(opt)
			assert.False(t, seen[n], "duplicate option %q", opt)
			seen[n] = true
			if q.Accepted[n] {
				acceptedFound = true
			}
		}
		assert.True(t, acceptedFound, "accepted answer missing from options")
		assert.Equal(t, "英単語："+q.Source.EN, q.Prompt)
		assert.True(t, q.Accepted[Normalize(q.Source.JA)])
	}
}

func TestGenerateChoiceDirection(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	questions, err := g.Generate(Config{Level: 1, Mode: ModeChoice, Direction: JaToEn})
	require.NoError(t, err)

	for _, q := range questions {
		assert.Equal(t, "日本語："+q.Source.JA, q.Prompt)
		assert.True(t, q.Accepted[Normalize(q.Source.EN)])
	}
}

func TestGenerateTyped(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	questions, err := g.Generate(Config{Level: 1, Mode: ModeTyped, Direction: JaToEn})
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerQuiz)

	for _, q := range questions {
		assert.Equal(t, KindTyped, q.Kind)
		assert.False(t, q.HasOptions())
		assert.Len(t, q.Accepted, 1)
		assert.Equal(t, q.Source.EN, q.Canonical)
	}
}

func TestGenerateLevelFallback(t *testing.T) {
	// No level-3 words at all: the generator widens to the whole catalog
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	questions, err := g.Generate(Config{Level: 3, Mode: ModeChoice, Direction: EnToJa})
	require.NoError(t, err)
	assert.Len(t, questions, QuestionsPerQuiz)
}

func TestGenerateReusesSmallPool(t *testing.T) {
	// 3 words still yield a full-length session
	g := newTestGenerator(t, wordPool(3, "食べ物"))

	questions, err := g.Generate(Config{Level: 1, Mode: ModeTyped, Direction: JaToEn})
	require.NoError(t, err)
	assert.Len(t, questions, QuestionsPerQuiz)
}

func TestDistractorSamplingTerminatesOnExhaustedPool(t *testing.T) {
	// Every entry shares one translation, so no distractor is possible
	entries := []models.WordEntry{
		word("one", "同じ", 1, "その他"),
		word("two", "同じ", 1, "その他"),
		word("three", "同じ", 1, "その他"),
		word("four", "同じ", 1, "その他"),
		word("five", "同じ", 1, "その他"),
		word("six", "同じ", 1, "その他"),
	}
	g := newTestGenerator(t, entries)

	questions, err := g.Generate(Config{Level: 1, Mode: ModeChoice, Direction: EnToJa})
	require.NoError(t, err)

	for _, q := range questions {
		// only the correct option survives deduplication
		assert.Len(t, q.Options, 1)
		assert.True(t, q.Accepted[Normalize(q.Options[0])])
	}
}

func TestVerbFormQuestionAcceptsAllMatchingLabels(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	q := g.verbFormQuestion([]models.WordEntry{verb("cut", "切る", 1, "cut", "cut", "cut")})

	assert.Equal(t, KindVerbForm, q.Kind)
	assert.Len(t, q.Accepted, 3)
	for _, label := range []string{LabelBase, LabelPast, LabelPP} {
		assert.True(t, q.Accepted[Normalize(label)])
	}
	assert.False(t, q.Accepted[Normalize(labelFiller)])
	assert.ElementsMatch(t, []string{LabelBase, LabelPast, LabelPP, labelFiller}, q.Options)
	assert.Equal(t, "現在形 / 過去形 / 過去分詞", q.Canonical)
}

func TestVerbFormQuestionDistinctForms(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	for i := 0; i < 20; i++ {
		q := g.verbFormQuestion([]models.WordEntry{verb("go", "行く", 1, "go", "went", "gone")})
		assert.Len(t, q.Accepted, 1, "distinct forms accept exactly one label")
	}
}

func TestGenerateMixComposition(t *testing.T) {
	entries := wordPool(8, "食べ物")
	for i := 0; i < 10; i++ {
		entries = append(entries, verb(
			fmt.Sprintf("verb%02d", i),
			fmt.Sprintf("動詞%02d", i),
			1,
			fmt.Sprintf("base%02d", i),
			fmt.Sprintf("past%02d", i),
			fmt.Sprintf("pp%02d", i),
		))
	}
	g := newTestGenerator(t, entries)

	questions, err := g.Generate(Config{Level: 1, Mode: ModeMix})
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerQuiz)

	counts := make(map[Kind]int)
	for _, q := range questions {
		counts[q.Kind]++
	}
	assert.Equal(t, 5, counts[KindVerbForm])
	assert.Equal(t, 5, counts[KindSeries])
}

func TestGenerateMixSeriesInvariants(t *testing.T) {
	entries := wordPool(8, "食べ物")
	for i := 0; i < 10; i++ {
		entries = append(entries, verb(
			fmt.Sprintf("verb%02d", i),
			fmt.Sprintf("動詞%02d", i),
			1,
			fmt.Sprintf("base%02d", i),
			fmt.Sprintf("past%02d", i),
			fmt.Sprintf("pp%02d", i),
		))
	}
	g := newTestGenerator(t, entries)

	questions, err := g.Generate(Config{Level: 1, Mode: ModeMix})
	require.NoError(t, err)

	for _, q := range questions {
		if q.Kind != KindSeries {
			continue
		}
		require.Len(t, q.Options, 4)
		assert.Contains(t, q.Prompt, q.Source.Series)
		assert.Contains(t, q.Prompt, q.Source.JA)
		assert.True(t, q.Accepted[Normalize(q.Source.EN)])
	}
}

func TestGenerateMixVerbFallback(t *testing.T) {
	// Fewer than 10 verbs: form slots degrade to plain multiple choice
	entries := wordPool(12, "食べ物")
	entries = append(entries, verb("cut", "切る", 1, "cut", "cut", "cut"))
	g := newTestGenerator(t, entries)

	questions, err := g.Generate(Config{Level: 1, Mode: ModeMix})
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerQuiz)

	for _, q := range questions {
		assert.NotEqual(t, KindVerbForm, q.Kind)
	}
}

func TestGenerateMixSeriesFallback(t *testing.T) {
	// No series reaches the minimum pool size: series slots degrade too
	entries := wordPool(4, "食べ物")
	for i := 0; i < 4; i++ {
		entries = append(entries, word(
			fmt.Sprintf("animal%02d", i),
			fmt.Sprintf("動物%02d", i),
			1, "動物",
		))
	}
	g := newTestGenerator(t, entries)

	questions, err := g.Generate(Config{Level: 1, Mode: ModeMix})
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerQuiz)

	for _, q := range questions {
		assert.NotEqual(t, KindSeries, q.Kind)
		assert.NotEqual(t, KindVerbForm, q.Kind)
	}
}

func TestGenerateReviewFiltersByLevel(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	missed := []models.WordEntry{
		word("alpha", "アルファ", 1, "その他"),
		word("beta", "ベータ", 2, "その他"),
	}

	questions, err := g.GenerateReview(Config{Level: 2, Mode: ModeTyped, Direction: JaToEn}, missed)
	require.NoError(t, err)
	for _, q := range questions {
		assert.Equal(t, "beta", q.Source.EN)
	}
}

func TestGenerateReviewFallsBackToAllMissed(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	missed := []models.WordEntry{word("alpha", "アルファ", 1, "その他")}

	questions, err := g.GenerateReview(Config{Level: 3, Mode: ModeTyped, Direction: JaToEn}, missed)
	require.NoError(t, err)
	require.Len(t, questions, QuestionsPerQuiz)
}

func TestGenerateReviewEmptyPool(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))

	_, err := g.GenerateReview(Config{Level: 1, Mode: ModeTyped, Direction: JaToEn}, nil)
	assert.ErrorIs(t, err, ErrEmptyPool)
}
