package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/crisis/internal/types"
)

var (
	emergency  = types.AnalysisResult{HasCrisisIndicators: true, SeverityLevel: types.SeverityCritical, EscalationRequired: true, EmergencyServices: true}
	escalation = types.AnalysisResult{HasCrisisIndicators: true, SeverityLevel: types.SeverityHigh, EscalationRequired: true}
	standard   = types.AnalysisResult{HasCrisisIndicators: true, SeverityLevel: types.SeverityMedium}
)

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierEmergency, TierFor(emergency))
	assert.Equal(t, TierEscalation, TierFor(escalation))
	assert.Equal(t, TierStandard, TierFor(standard))
	assert.Equal(t, TierStandard, TierFor(types.AnalysisResult{}))
}

func TestGenerate_SixDistinctTemplates(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range []types.AnalysisResult{emergency, escalation, standard} {
		for _, a := range []types.Audience{types.AudienceSeeker, types.AudienceHelper} {
			b, err := Generate(r, a)
			require.NoError(t, err)
			assert.NotEmpty(t, b.Message)
			assert.NotEmpty(t, b.Actions)
			assert.NotEmpty(t, b.Resources)
			assert.NotEmpty(t, b.FollowUp)
			seen[b.Message] = true
		}
	}
	assert.Len(t, seen, 6)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(emergency, types.AudienceHelper)
	require.NoError(t, err)
	b, err := Generate(emergency, types.AudienceHelper)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	a.Actions[0] = "changed"
	c, _ := Generate(emergency, types.AudienceHelper)
	assert.NotEqual(t, "changed", c.Actions[0], "callers must not be able to mutate templates")
}

func TestGenerate_EmergencySeekerGolden(t *testing.T) {
	b, err := Generate(emergency, types.AudienceSeeker)
	require.NoError(t, err)
	assert.Equal(t, "Call or text 988 to reach the Suicide & Crisis Lifeline", b.Actions[0])
	assert.Equal(t, "A crisis counselor is being connected with you now.", b.FollowUp)
}

func TestGenerate_UnknownAudience(t *testing.T) {
	_, err := Generate(standard, types.Audience("parent"))
	assert.Error(t, err)
}
