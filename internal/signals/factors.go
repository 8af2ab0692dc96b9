package signals

import (
	"regexp"

	"github.com/matthewbaird/crisis/internal/types"
)

// Rule detects one factor tag.
type Rule struct {
	Tag     types.Factor
	Pattern *regexp.Regexp
}

// Matches reports whether the rule fires on text.
func (r Rule) Matches(text string) bool {
	return r.Pattern.MatchString(text)
}

// RuleSet is one family of tags. Rules are evaluated independently; any
// number of them may fire on the same text.
type RuleSet []Rule

// Match returns the tags whose rules fire, in rule order.
func (rs RuleSet) Match(text string) []types.Factor {
	out := []types.Factor{}
	for _, r := range rs {
		if r.Matches(text) {
			out = append(out, r.Tag)
		}
	}
	return out
}

// Tags lists every tag the set can produce.
func (rs RuleSet) Tags() []types.Factor {
	out := make([]types.Factor, len(rs))
	for i, r := range rs {
		out[i] = r.Tag
	}
	return out
}

func rule(tag types.Factor, expr string) Rule {
	return Rule{Tag: tag, Pattern: regexp.MustCompile(`\b(?:` + expr + `)\b`)}
}

// Contextual describes the situation around the message.
var Contextual = RuleSet{
	rule(types.FactorSocialIsolation, `alone|lonely|isolated|no one|nobody|no friends|by myself`),
	rule(types.FactorImmediateTimeframe, `tonight|right now|today|immediately|this (?:morning|evening|weekend)|before (?:morning|tomorrow)`),
	rule(types.FactorMethodReference, `pills?|gun|rope|knife|blade|razor|bridge|jump|overdose|hang(?:ing)?|poison|tablets`),
	rule(types.FactorSupportAvailable, `friends?|family|therapist|counsell?or|talk(?:ed|ing)? to|support|helpline|hotline`),
}

// Risk raises concern independently of any single indicator.
var Risk = RuleSet{
	rule(types.FactorSubstanceUse, `drunk|drinking|alcohol|pills|drugs?|weed|cocaine|heroin|meth|overdose|using again`),
	rule(types.FactorSpecificPlanning, `plan|planned|planning|note|wrote a letter|bought|saved up|stockpil\w*|decided|figured out how`),
	rule(types.FactorIsolation, `no one|nobody|alone|isolated|cut (?:everyone|everybody) off|no friends|withdrawn`),
	rule(types.FactorNegativeSelfPerception, `worthless|useless|burden|failure|hate myself|stupid|pathetic|disgusting|not good enough`),
}

// Protective suggests reduced immediate risk. These tags inform responders
// but never lower severity or clear emergency flags.
var Protective = RuleSet{
	rule(types.FactorAmbivalence, `but|although|though|part of me|not sure`),
	rule(types.FactorLifeResponsibilities, `family|kids?|children|son|daughter|mom|mother|dad|father|parents?|pets?|dog|cat|partner|wife|husband`),
	rule(types.FactorProfessionalSupport, `therapist|counsell?or|psychiatrist|doctor|psychologist|helper|social worker|case worker|crisis line|hotline`),
	rule(types.FactorFutureOrientation, `tomorrow|next (?:week|month|year)|future|looking forward|plans for|someday|goals?|can't wait to`),
}
