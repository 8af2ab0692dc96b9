package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("  HIGH ")
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, s)

	_, err = ParseSeverity("severe")
	assert.Error(t, err)
}

func TestSeverity_Escalate(t *testing.T) {
	assert.Equal(t, SeverityMedium, SeverityLow.Escalate())
	assert.Equal(t, SeverityCritical, SeverityHigh.Escalate())
	assert.Equal(t, SeverityCritical, SeverityCritical.Escalate())
}

func TestSeverity_InvalidValue(t *testing.T) {
	bad := Severity(9)
	assert.False(t, bad.Valid())
	assert.Equal(t, "severity(9)", bad.String())
	_, err := json.Marshal(bad)
	assert.Error(t, err)
}

func TestEscalationAction_EncodesTierName(t *testing.T) {
	b, err := json.Marshal(EscalationAction{Type: TierImmediate})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"immediate"`)

	var tier EscalationTier
	assert.Error(t, tier.UnmarshalText([]byte("soon")))
}

func TestCategoryAndAudience_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("weather").Valid())
	assert.True(t, AudienceHelper.Valid())
	assert.False(t, Audience("parent").Valid())
}
