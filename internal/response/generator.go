// Package response turns an analysis result into fixed, audience-specific
// guidance. Output depends only on the result's flags and the audience, so
// identical inputs always render identical bundles.
package response

import (
	"fmt"
	"slices"

	"github.com/matthewbaird/crisis/internal/types"
)

// Tier selects which template family applies to a result.
type Tier string

const (
	TierEmergency  Tier = "emergency"
	TierEscalation Tier = "escalation"
	TierStandard   Tier = "standard"
)

// TierFor classifies r into one of the three template tiers.
func TierFor(r types.AnalysisResult) Tier {
	switch {
	case r.EmergencyServices:
		return TierEmergency
	case r.EscalationRequired:
		return TierEscalation
	default:
		return TierStandard
	}
}

type templateKey struct {
	tier     Tier
	audience types.Audience
}

var templates = map[templateKey]types.ResponseBundle{
	{TierEmergency, types.AudienceSeeker}: {
		Message: "Your safety matters right now. Please reach out for immediate help. You don't have to go through this alone.",
		Actions: []string{
			"Call or text 988 to reach the Suicide & Crisis Lifeline",
			"Call 911 or go to the nearest emergency room if you are in danger",
			"Stay with someone you trust or ask someone to come to you",
			"Move away from anything you could use to hurt yourself",
		},
		Resources: []string{
			"988 Suicide & Crisis Lifeline: call or text 988",
			"Crisis Text Line: text HOME to 741741",
			"Emergency Services: 911",
		},
		FollowUp: "A crisis counselor is being connected with you now.",
	},
	{TierEmergency, types.AudienceHelper}: {
		Message: "This person may be in immediate danger. Follow the emergency protocol now.",
		Actions: []string{
			"Contact emergency services (911) or help the person call 988 immediately",
			"Do not leave the person alone and keep them talking",
			"Activate the crisis response protocol and notify your supervisor",
			"Do not promise confidentiality about safety risks",
		},
		Resources: []string{
			"988 Suicide & Crisis Lifeline: call or text 988",
			"Emergency Services: 911",
			"Crisis response protocol",
		},
		FollowUp: "Document the interaction and complete an incident report once the person is safe.",
	},
	{TierEscalation, types.AudienceSeeker}: {
		Message: "It sounds like you're going through something really hard. Talking to someone trained to help can make a difference.",
		Actions: []string{
			"Connect with a crisis counselor now",
			"Reach out to someone you trust and tell them how you're feeling",
			"Use your safety plan if you have one",
		},
		Resources: []string{
			"988 Suicide & Crisis Lifeline: call or text 988",
			"Crisis Text Line: text HOME to 741741",
		},
		FollowUp: "We'll check in with you again soon.",
	},
	{TierEscalation, types.AudienceHelper}: {
		Message: "This conversation shows significant risk. Escalate to a crisis counselor.",
		Actions: []string{
			"Escalate to a trained crisis counselor within 15 minutes",
			"Ask directly about thoughts of suicide or self-harm",
			"Help the person identify supports and a safety plan",
		},
		Resources: []string{
			"Risk assessment protocol",
			"Safety planning template",
			"988 Suicide & Crisis Lifeline: call or text 988",
		},
		FollowUp: "Schedule a follow-up check-in within 24 hours.",
	},
	{TierStandard, types.AudienceSeeker}: {
		Message: "Thank you for sharing how you feel. Support is available whenever you need it.",
		Actions: []string{
			"Talk with a peer supporter",
			"Try a grounding or breathing exercise",
			"Reach out to someone you trust",
		},
		Resources: []string{
			"Peer support chat",
			"Coping skills library",
			"Crisis Text Line: text HOME to 741741",
		},
		FollowUp: "Check in with yourself later today, and reach out if things get harder.",
	},
	{TierStandard, types.AudienceHelper}: {
		Message: "Continue offering supportive listening and watch for changes.",
		Actions: []string{
			"Listen actively and validate their feelings",
			"Gently ask how they are coping",
			"Share peer support resources",
		},
		Resources: []string{
			"Active listening guide",
			"Peer support resources",
		},
		FollowUp: "Check in again at your next scheduled contact.",
	},
}

// Generate renders the bundle for r and audience. It returns an error only
// for an unknown audience.
func Generate(r types.AnalysisResult, audience types.Audience) (types.ResponseBundle, error) {
	tpl, ok := templates[templateKey{TierFor(r), audience}]
	if !ok {
		return types.ResponseBundle{}, fmt.Errorf("unknown audience %q", audience)
	}
	return types.ResponseBundle{
		Message:   tpl.Message,
		Actions:   slices.Clone(tpl.Actions),
		Resources: slices.Clone(tpl.Resources),
		FollowUp:  tpl.FollowUp,
	}, nil
}
