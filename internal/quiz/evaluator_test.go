package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "apple pie", Normalize("  Apple   Pie "))
	assert.Equal(t, "", Normalize("   "))
	assert.Equal(t, "りんご", Normalize(" りんご　")) // ideographic space collapses too
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"  Apple ", "a  b\tc", "CUT", "過去形"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestEvaluateIgnoresCaseAndWhitespace(t *testing.T) {
	q := Question{
		Kind:      KindTyped,
		Accepted:  acceptedSet("apple"),
		Canonical: "apple",
	}

	assert.Equal(t, Evaluate(q, "  Apple "), Evaluate(q, "apple"))
	assert.True(t, Evaluate(q, "APPLE").Correct)
	assert.False(t, Evaluate(q, "apples").Correct)
	assert.False(t, Evaluate(q, "").Correct)
}

func TestEvaluateReturnsCanonicalAnswer(t *testing.T) {
	q := Question{
		Kind:      KindVerbForm,
		Accepted:  acceptedSet(LabelBase, LabelPast, LabelPP),
		Canonical: LabelBase + " / " + LabelPast + " / " + LabelPP,
	}

	v := Evaluate(q, "wrong")
	assert.False(t, v.Correct)
	assert.Equal(t, "現在形 / 過去形 / 過去分詞", v.CanonicalAnswer)

	v = Evaluate(q, "過去形")
	assert.True(t, v.Correct)
}

func TestEvaluateHasNoSideEffects(t *testing.T) {
	q := Question{Kind: KindTyped, Accepted: acceptedSet("dog"), Canonical: "dog"}
	Evaluate(q, "dog")
	Evaluate(q, "cat")
	assert.True(t, q.Accepted["dog"])
	assert.Len(t, q.Accepted, 1)
}
