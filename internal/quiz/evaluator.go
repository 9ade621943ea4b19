package quiz

// Verdict is the outcome of evaluating one submitted answer.
type Verdict struct {
	Correct bool
	// CanonicalAnswer is the human-presentable correct answer, for
	// feedback after a wrong submission.
	CanonicalAnswer string
}

// Evaluate checks a raw submission against the question's accepted answers.
// The submission is normalized first, so casing and stray whitespace never
// matter. Evaluate has no side effects; recording the outcome is the
// caller's job, exactly once per question.
func Evaluate(q Question, rawAnswer string) Verdict {
	return Verdict{
		Correct:         q.Accepted[Normalize(rawAnswer)],
		CanonicalAnswer: q.Canonical,
	}
}
