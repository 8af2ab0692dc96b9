// Package escalation maps an analysis result to recommended actions and to
// the layered escalation tiers responders should act on.
package escalation

import (
	"github.com/matthewbaird/crisis/internal/types"
)

// Emergency contacts shared by the action texts and escalation tiers.
const (
	CrisisLifeline  = "988 Suicide & Crisis Lifeline (call or text 988)"
	EmergencyNumber = "Emergency Services (911)"
	CrisisTextLine  = "Crisis Text Line (text HOME to 741741)"
	SAMHSAHelpline  = "SAMHSA National Helpline (1-800-662-4357)"
)

var (
	immediateActions = []string{
		"IMMEDIATE: Contact emergency services (911) or the 988 Suicide & Crisis Lifeline",
		"IMMEDIATE: Do not leave the person alone",
		"IMMEDIATE: Activate the crisis response protocol",
	}
	urgentActions = []string{
		"Escalate to a trained crisis counselor",
		"Conduct a structured suicide and safety risk assessment",
		"Contact the person's emergency contacts",
	}
	categoryActions = []struct {
		category types.Category
		actions  []string
	}{
		{types.CategorySuicidal, []string{
			"Share suicide prevention resources, including the 988 Suicide & Crisis Lifeline",
			"Ask directly about suicidal thoughts, plans and access to means",
			"Work with the person on a written safety plan",
		}},
		{types.CategorySelfHarm, []string{
			"Offer self-harm alternatives such as holding ice, intense exercise or drawing on skin",
			"Check whether any injuries need medical attention",
		}},
		{types.CategorySubstanceAbuse, []string{
			"Share substance use support resources, including the SAMHSA National Helpline",
		}},
		{types.CategoryViolence, []string{
			"Assess the safety of anyone who may be at risk of harm",
		}},
	}
	baselineActions = []string{
		"Offer active listening and emotional support",
		"Encourage connection with a trusted person or professional",
	}
)

// Recommend returns the recommended actions for r in priority order. Results
// without crisis indicators get no actions.
func Recommend(r types.AnalysisResult) []string {
	actions := []string{}
	if !r.HasCrisisIndicators {
		return actions
	}
	switch {
	case r.EmergencyServices:
		actions = append(actions, immediateActions...)
	case r.EscalationRequired:
		actions = append(actions, urgentActions...)
	}
	for _, ca := range categoryActions {
		if r.HasCategory(ca.category) {
			actions = append(actions, ca.actions...)
		}
	}
	return append(actions, baselineActions...)
}

// Plan returns the escalation tiers that apply to r, most urgent first.
// Tiers are layered: an emergency also carries the urgent and support tiers.
func Plan(r types.AnalysisResult) []types.EscalationAction {
	out := []types.EscalationAction{}
	if !r.HasCrisisIndicators {
		return out
	}
	if r.EmergencyServices {
		out = append(out, types.EscalationAction{
			Type:        types.TierImmediate,
			Description: "Immediate emergency intervention required",
			Contacts:    []string{CrisisLifeline, EmergencyNumber, CrisisTextLine},
			Resources:   []string{"Nearest emergency department", "Mobile crisis team"},
			Timeline:    "Within 5 minutes",
		})
	}
	if r.EscalationRequired {
		out = append(out, types.EscalationAction{
			Type:        types.TierUrgent,
			Description: "Escalate to a crisis counselor for risk assessment",
			Contacts:    []string{"On-call crisis counselor", "Clinical supervisor", CrisisLifeline},
			Resources:   []string{"Risk assessment protocol", "Safety planning template"},
			Timeline:    "Within 15 minutes",
		})
	}
	if r.SeverityLevel == types.SeverityMedium || r.SeverityLevel == types.SeverityHigh {
		out = append(out, types.EscalationAction{
			Type:        types.TierMonitor,
			Description: "Increase monitoring and schedule a check-in",
			Contacts:    []string{"Assigned peer helper", "Care coordinator"},
			Resources:   []string{"Safety plan review", "Scheduled check-in"},
			Timeline:    "Within 1 hour",
		})
	}
	out = append(out, types.EscalationAction{
		Type:        types.TierSupport,
		Description: "Provide ongoing peer support",
		Contacts:    []string{"Peer support volunteers", CrisisTextLine},
		Resources:   []string{"Peer chat", "Support groups", "Coping skills library"},
		Timeline:    "Available immediately",
	})
	return out
}
