package quiz

import (
	"errors"

	"github.com/example/vocabot/pkg/models"
)

// ErrInvalidState signals a session operation outside its legal state, e.g.
// submitting after the session finished. It marks a programming error in
// the caller, not a recoverable condition.
var ErrInvalidState = errors.New("quiz: operation not valid in current session state")

// Status is the session lifecycle state.
type Status int

const (
	StatusRunning Status = iota
	StatusFinished
)

// ProgressRecorder receives each scored answer exactly once. The
// progression tracker implements it; tests substitute their own.
type ProgressRecorder interface {
	RecordAnswer(correct bool, word models.WordEntry)
}

// AnswerRecord is one entry of the per-question answer log.
type AnswerRecord struct {
	Question        Question
	Given           string
	Correct         bool
	CanonicalAnswer string
}

// Summary is the read-only result of a finished session.
type Summary struct {
	Config       Config
	CorrectCount int
	Total        int
	Answers      []AnswerRecord
}

// MissedWords returns the distinct words answered incorrectly this session.
func (s Summary) MissedWords() []models.WordEntry {
	seen := make(map[string]bool)
	var out []models.WordEntry
	for _, a := range s.Answers {
		if !a.Correct && !seen[a.Question.Source.Key()] {
			seen[a.Question.Source.Key()] = true
			out = append(out, a.Question.Source)
		}
	}
	return out
}

// Session runs one quiz: a fixed question sequence, a cursor, a running
// score and the answer log. Constructing a session is the Idle->Running
// transition; abandoning one is dropping the value.
type Session struct {
	cfg       Config
	questions []Question
	idx       int
	correct   int
	answered  bool
	log       []AnswerRecord
	status    Status
	recorder  ProgressRecorder
}

// New starts a session from the generator's regular pools.
func New(gen *Generator, cfg Config, recorder ProgressRecorder) (*Session, error) {
	questions, err := gen.Generate(cfg)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, questions, recorder), nil
}

// NewReview starts a session drawn from the learner's missed words.
func NewReview(gen *Generator, cfg Config, missed []models.WordEntry, recorder ProgressRecorder) (*Session, error) {
	questions, err := gen.GenerateReview(cfg, missed)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, questions, recorder), nil
}

func newSession(cfg Config, questions []Question, recorder ProgressRecorder) *Session {
	return &Session{
		cfg:       cfg,
		questions: questions,
		log:       make([]AnswerRecord, 0, len(questions)),
		status:    StatusRunning,
		recorder:  recorder,
	}
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	return s.status
}

// Position returns the 0-based index of the current question and the total
// question count.
func (s *Session) Position() (int, int) {
	return s.idx, len(s.questions)
}

// Current returns the question at the cursor.
func (s *Session) Current() (Question, error) {
	if s.status != StatusRunning {
		return Question{}, ErrInvalidState
	}
	return s.questions[s.idx], nil
}

// Submit evaluates the raw answer for the current question, records it in
// the log and with the progress recorder, and returns the verdict. A second
// submit before advancing is a no-op returning the verdict already
// recorded, so a question can never be scored twice.
func (s *Session) Submit(rawAnswer string) (Verdict, error) {
	if s.status != StatusRunning {
		return Verdict{}, ErrInvalidState
	}
	if s.answered {
		last := s.log[len(s.log)-1]
		return Verdict{Correct: last.Correct, CanonicalAnswer: last.CanonicalAnswer}, nil
	}

	q := s.questions[s.idx]
	verdict := Evaluate(q, rawAnswer)
	s.answered = true
	s.log = append(s.log, AnswerRecord{
		Question:        q,
		Given:           rawAnswer,
		Correct:         verdict.Correct,
		CanonicalAnswer: verdict.CanonicalAnswer,
	})
	if verdict.Correct {
		s.correct++
	}
	if s.recorder != nil {
		s.recorder.RecordAnswer(verdict.Correct, q.Source)
	}
	return verdict, nil
}

// Advance moves to the next question, or finishes the session when the
// current answered question was the last one. Returns true once finished.
func (s *Session) Advance() (bool, error) {
	if s.status != StatusRunning || !s.answered {
		return false, ErrInvalidState
	}
	s.answered = false
	if s.idx < len(s.questions)-1 {
		s.idx++
		return false, nil
	}
	s.status = StatusFinished
	return true, nil
}

// Summary returns the session result. Only valid once finished.
func (s *Session) Summary() (Summary, error) {
	if s.status != StatusFinished {
		return Summary{}, ErrInvalidState
	}
	return Summary{
		Config:       s.cfg,
		CorrectCount: s.correct,
		Total:        len(s.questions),
		Answers:      s.log,
	}, nil
}
