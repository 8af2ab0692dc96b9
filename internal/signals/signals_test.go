package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthewbaird/crisis/internal/types"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "i want to hurt myself", Normalize("  I WANT\tto\n\nhurt   myself ", 0))
	assert.Equal(t, "", Normalize("   ", 0))
}

func TestNormalize_TruncatesOnRuneBoundary(t *testing.T) {
	// "é" is two bytes; cutting at 2 would split it.
	got := Normalize("aé", 2)
	assert.Equal(t, "a", got)
	assert.Equal(t, "abc", Normalize("abcdef", 3))
}

func TestCountUrgency(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"i feel bad sometimes", 0},
		{"i am doing it tonight", 1},
		{"tonight tonight tonight", 1},
		{"i want to do it tonight right now", 3}, // tonight, now, right now
		{"i know it is snowing", 0},
		{"before morning i will be gone", 1},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, CountUrgency(tt.text))
		})
	}
}

// Sentiment is a word-count approximation; these cases pin its arithmetic,
// not any claim about how the writer actually feels.
func TestSentiment_IsLexicalApproximation(t *testing.T) {
	assert.Equal(t, 0, Sentiment(""))
	assert.Equal(t, 2, Sentiment("i had a good day and i am happy"))
	assert.Equal(t, -3, Sentiment("i feel hopeless and worthless and alone"))
	assert.Equal(t, 0, Sentiment("i am happy but sad"))
	// "hope" inside "hopeless" is not a separate hit.
	assert.Equal(t, -1, Sentiment("hopeless"))
	// Negation is not understood.
	assert.Equal(t, 1, Sentiment("i am not happy"))
}

func TestContextual_TagsAreIndependent(t *testing.T) {
	got := Contextual.Match("i am alone tonight with the pills and nobody knows")
	assert.ElementsMatch(t, []types.Factor{
		types.FactorSocialIsolation,
		types.FactorImmediateTimeframe,
		types.FactorMethodReference,
	}, got)

	got = Contextual.Match("my friends are here for me today")
	assert.ElementsMatch(t, []types.Factor{
		types.FactorSupportAvailable,
		types.FactorImmediateTimeframe,
	}, got)

	assert.Empty(t, Contextual.Match("the weather is mild"))
}

func TestRisk(t *testing.T) {
	tests := []struct {
		text string
		want []types.Factor
	}{
		{"i have been drinking every night", []types.Factor{types.FactorSubstanceUse}},
		{"i have a plan and wrote a letter", []types.Factor{types.FactorSpecificPlanning}},
		{"nobody would notice", []types.Factor{types.FactorIsolation}},
		{"i am a burden to everyone", []types.Factor{types.FactorNegativeSelfPerception}},
		{"i planted tomatoes", []types.Factor{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Risk.Match(tt.text))
		})
	}
}

func TestProtective(t *testing.T) {
	got := Protective.Match("i feel suicidal but my therapist is helping me and my family needs me")
	assert.Equal(t, []types.Factor{
		types.FactorAmbivalence,
		types.FactorLifeResponsibilities,
		types.FactorProfessionalSupport,
	}, got)

	got = Protective.Match("i am looking forward to next week")
	assert.Equal(t, []types.Factor{types.FactorFutureOrientation}, got)

	// Word boundaries keep "cat" out of "indicate".
	assert.NotContains(t, Protective.Match("these indicate trouble"), types.FactorLifeResponsibilities)
}

func TestRuleSet_Tags(t *testing.T) {
	assert.Equal(t, []types.Factor{
		types.FactorAmbivalence,
		types.FactorLifeResponsibilities,
		types.FactorProfessionalSupport,
		types.FactorFutureOrientation,
	}, Protective.Tags())
	assert.Len(t, Contextual.Tags(), 4)
	assert.Len(t, Risk.Tags(), 4)
}

func TestExtract(t *testing.T) {
	x := Extract("i am alone tonight and i hate myself but my dog needs me")
	assert.Equal(t, 1, x.Urgency)
	assert.Equal(t, -2, x.Sentiment) // alone, hate
	assert.Contains(t, x.ContextualFactors, types.FactorSocialIsolation)
	assert.Contains(t, x.RiskFactors, types.FactorNegativeSelfPerception)
	assert.Contains(t, x.ProtectiveFactors, types.FactorLifeResponsibilities)
	assert.Contains(t, x.ProtectiveFactors, types.FactorAmbivalence)
}
