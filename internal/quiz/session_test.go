package quiz

import (
	"strings"
	"testing"

	"github.com/example/vocabot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecorder struct {
	outcomes []bool
	words    []models.WordEntry
}

func (r *stubRecorder) RecordAnswer(correct bool, word models.WordEntry) {
	r.outcomes = append(r.outcomes, correct)
	r.words = append(r.words, word)
}

func newTestSession(t *testing.T, rec ProgressRecorder) *Session {
	t.Helper()
	g := newTestGenerator(t, wordPool(12, "食べ物"))
	s, err := New(g, Config{Level: 1, Mode: ModeTyped, Direction: JaToEn}, rec)
	require.NoError(t, err)
	return s
}

func TestSessionPerfectRun(t *testing.T) {
	rec := &stubRecorder{}
	s := newTestSession(t, rec)

	for {
		q, err := s.Current()
		require.NoError(t, err)

		v, err := s.Submit(q.Canonical)
		require.NoError(t, err)
		assert.True(t, v.Correct)

		finished, err := s.Advance()
		require.NoError(t, err)
		if finished {
			break
		}
	}

	assert.Equal(t, StatusFinished, s.Status())
	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, QuestionsPerQuiz, summary.Total)
	assert.Equal(t, QuestionsPerQuiz, summary.CorrectCount)
	assert.Len(t, summary.Answers, QuestionsPerQuiz)
	assert.Empty(t, summary.MissedWords())
	assert.Len(t, rec.outcomes, QuestionsPerQuiz)
}

func TestSessionScoresWrongAnswers(t *testing.T) {
	rec := &stubRecorder{}
	s := newTestSession(t, rec)

	for i := 0; ; i++ {
		q, err := s.Current()
		require.NoError(t, err)

		answer := q.Canonical
		if i%2 == 1 {
			answer = "definitely wrong"
		}
		v, err := s.Submit(answer)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 0, v.Correct)
		assert.Equal(t, q.Canonical, v.CanonicalAnswer)

		finished, err := s.Advance()
		require.NoError(t, err)
		if finished {
			break
		}
	}

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 5, summary.CorrectCount)
	assert.LessOrEqual(t, summary.CorrectCount, summary.Total)
	assert.NotEmpty(t, summary.MissedWords())
}

func TestSessionDoubleSubmitIsNoOp(t *testing.T) {
	rec := &stubRecorder{}
	s := newTestSession(t, rec)

	q, err := s.Current()
	require.NoError(t, err)

	first, err := s.Submit(q.Canonical)
	require.NoError(t, err)
	assert.True(t, first.Correct)

	// a second submit before advancing must not re-score
	second, err := s.Submit("something else")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, rec.outcomes, 1)
}

func TestSessionInvalidStateCalls(t *testing.T) {
	s := newTestSession(t, nil)

	// advancing before any answer is a contract violation
	_, err := s.Advance()
	assert.ErrorIs(t, err, ErrInvalidState)

	// summary only exists once finished
	_, err = s.Summary()
	assert.ErrorIs(t, err, ErrInvalidState)

	for {
		q, err := s.Current()
		require.NoError(t, err)
		_, err = s.Submit(q.Canonical)
		require.NoError(t, err)
		finished, err := s.Advance()
		require.NoError(t, err)
		if finished {
			break
		}
	}

	_, err = s.Submit("late")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.Current()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionPositionAdvances(t *testing.T) {
	s := newTestSession(t, nil)

	idx, total := s.Position()
	assert.Equal(t, 0, idx)
	assert.Equal(t, QuestionsPerQuiz, total)

	q, err := s.Current()
	require.NoError(t, err)
	_, err = s.Submit(q.Canonical)
	require.NoError(t, err)
	finished, err := s.Advance()
	require.NoError(t, err)
	assert.False(t, finished)

	idx, _ = s.Position()
	assert.Equal(t, 1, idx)
}

func TestTypedSessionWithTinyCatalog(t *testing.T) {
	// 3 words at level 1 still produce a full typed session; exact answers
	// score regardless of case and stray whitespace
	g := newTestGenerator(t, []models.WordEntry{
		word("apple", "りんご", 1, "食べ物"),
		word("banana", "バナナ", 1, "食べ物"),
		word("cherry", "さくらんぼ", 1, "食べ物"),
	})
	s, err := New(g, Config{Level: 1, Mode: ModeTyped, Direction: JaToEn}, nil)
	require.NoError(t, err)

	correct := 0
	for i := 0; ; i++ {
		q, err := s.Current()
		require.NoError(t, err)

		answer := "  " + strings.ToUpper(q.Source.EN) + " "
		if i >= 7 {
			answer = "wrong"
		}
		v, err := s.Submit(answer)
		require.NoError(t, err)
		if v.Correct {
			correct++
		}
		finished, err := s.Advance()
		require.NoError(t, err)
		if finished {
			break
		}
	}

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, QuestionsPerQuiz, summary.Total)
	assert.Equal(t, 7, correct)
	assert.Equal(t, 7, summary.CorrectCount)
}

func TestReviewSessionUsesMissedWords(t *testing.T) {
	g := newTestGenerator(t, wordPool(12, "食べ物"))
	missed := []models.WordEntry{
		word("alpha", "アルファ", 1, "その他"),
		word("beta", "ベータ", 1, "その他"),
	}

	s, err := NewReview(g, Config{Level: 1, Mode: ModeTyped, Direction: JaToEn}, missed, nil)
	require.NoError(t, err)

	for {
		q, err := s.Current()
		require.NoError(t, err)
		assert.Contains(t, []string{"alpha", "beta"}, q.Source.EN)

		_, err = s.Submit(q.Canonical)
		require.NoError(t, err)
		finished, err := s.Advance()
		require.NoError(t, err)
		if finished {
			break
		}
	}
}
