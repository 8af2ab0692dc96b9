package catalog

import (
	"sync"

	"github.com/matthewbaird/crisis/internal/types"
)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. It is built on first use and shared.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = MustNew(DefaultIndicators)
	})
	return defaultCatalog
}

// DefaultIndicators is the built-in indicator registry. Keywords and context
// words are lowercase; matching runs on normalized text.
var DefaultIndicators = []types.CrisisIndicator{
	// === Suicidal ===
	{Keyword: "kill myself", Severity: types.SeverityCritical, Category: types.CategorySuicidal, ImmediateAction: true},
	{Keyword: "end my life", Severity: types.SeverityCritical, Category: types.CategorySuicidal, ImmediateAction: true},
	{Keyword: "take my own life", Severity: types.SeverityCritical, Category: types.CategorySuicidal, ImmediateAction: true},
	{
		Keyword:         "have a plan",
		Severity:        types.SeverityCritical,
		Category:        types.CategorySuicidal,
		Context:         []string{"kill", "die", "suicide", "end it", "end my life", "overdose"},
		ImmediateAction: true,
	},
	{
		Keyword:  "suicide",
		Severity: types.SeverityHigh,
		Category: types.CategorySuicidal,
		Context:  []string{"commit", "thinking about", "attempt", "plan", "want", "going to", "note"},
	},
	{Keyword: "suicidal", Severity: types.SeverityHigh, Category: types.CategorySuicidal},
	{Keyword: "want to die", Severity: types.SeverityHigh, Category: types.CategorySuicidal},
	{Keyword: "better off dead", Severity: types.SeverityHigh, Category: types.CategorySuicidal},
	{Keyword: "no reason to live", Severity: types.SeverityHigh, Category: types.CategorySuicidal},
	{Keyword: "don't want to live", Severity: types.SeverityHigh, Category: types.CategorySuicidal},
	{Keyword: "end it all", Severity: types.SeverityHigh, Category: types.CategorySuicidal},
	{
		Keyword:  "say goodbye",
		Severity: types.SeverityHigh,
		Category: types.CategorySuicidal,
		Context:  []string{"forever", "last time", "everyone", "for good"},
	},
	{
		Keyword:  "won't be here",
		Severity: types.SeverityMedium,
		Category: types.CategorySuicidal,
		Context:  []string{"tomorrow", "anymore", "much longer", "next week"},
	},

	// === Self-harm ===
	{Keyword: "hurt myself", Severity: types.SeverityHigh, Category: types.CategorySelfHarm},
	{Keyword: "cut myself", Severity: types.SeverityHigh, Category: types.CategorySelfHarm},
	{Keyword: "burn myself", Severity: types.SeverityHigh, Category: types.CategorySelfHarm},
	{Keyword: "self harm", Severity: types.SeverityHigh, Category: types.CategorySelfHarm},
	{Keyword: "self-harm", Severity: types.SeverityHigh, Category: types.CategorySelfHarm},
	{
		Keyword:  "cutting",
		Severity: types.SeverityMedium,
		Category: types.CategorySelfHarm,
		Context:  []string{"myself", "arm", "wrist", "again", "skin", "legs"},
	},
	{Keyword: "punish myself", Severity: types.SeverityMedium, Category: types.CategorySelfHarm},

	// === Substance abuse ===
	{
		Keyword:         "overdose",
		Severity:        types.SeverityCritical,
		Category:        types.CategorySubstanceAbuse,
		Context:         []string{"took", "taken", "just", "pills", "going to"},
		ImmediateAction: true,
	},
	{
		Keyword:         "took too many",
		Severity:        types.SeverityCritical,
		Category:        types.CategorySubstanceAbuse,
		Context:         []string{"pills", "tablets", "meds", "sleeping"},
		ImmediateAction: true,
	},
	{
		Keyword:  "pills",
		Severity: types.SeverityMedium,
		Category: types.CategorySubstanceAbuse,
		Context:  []string{"all the", "whole bottle", "saving", "stockpil", "swallow"},
	},
	{
		Keyword:  "relapse",
		Severity: types.SeverityMedium,
		Category: types.CategorySubstanceAbuse,
		Context:  []string{"drunk", "using", "again", "drinking", "high"},
	},
	{
		Keyword:  "drinking",
		Severity: types.SeverityLow,
		Category: types.CategorySubstanceAbuse,
		Context:  []string{"every day", "too much", "can't stop", "alone", "to cope"},
	},

	// === Violence ===
	{Keyword: "kill someone", Severity: types.SeverityCritical, Category: types.CategoryViolence, ImmediateAction: true},
	{Keyword: "hurt someone", Severity: types.SeverityHigh, Category: types.CategoryViolence},
	{
		Keyword:         "gun",
		Severity:        types.SeverityHigh,
		Category:        types.CategoryViolence,
		Context:         []string{"loaded", "bought", "shoot", "use it", "my dad's"},
		ImmediateAction: true,
	},
	{
		Keyword:  "shoot",
		Severity: types.SeverityHigh,
		Category: types.CategoryViolence,
		Context:  []string{"them", "him", "her", "everyone", "school", "myself"},
	},

	// === Emergency ===
	{Keyword: "unconscious", Severity: types.SeverityCritical, Category: types.CategoryEmergency, ImmediateAction: true},
	{
		Keyword:         "bleeding",
		Severity:        types.SeverityHigh,
		Category:        types.CategoryEmergency,
		Context:         []string{"won't stop", "a lot", "badly", "deep"},
		ImmediateAction: true,
	},
	{
		Keyword:         "not safe",
		Severity:        types.SeverityHigh,
		Category:        types.CategoryEmergency,
		Context:         []string{"right now", "at home", "tonight", "with him", "with her"},
		ImmediateAction: true,
	},

	// === General distress ===
	{Keyword: "can't go on", Severity: types.SeverityHigh, Category: types.CategoryGeneralDistress},
	{Keyword: "can't take it anymore", Severity: types.SeverityHigh, Category: types.CategoryGeneralDistress},
	{Keyword: "hopeless", Severity: types.SeverityMedium, Category: types.CategoryGeneralDistress},
	{
		Keyword:  "give up",
		Severity: types.SeverityMedium,
		Category: types.CategoryGeneralDistress,
		Context:  []string{"on life", "everything", "on myself", "trying"},
	},
	{Keyword: "worthless", Severity: types.SeverityLow, Category: types.CategoryGeneralDistress},
	{Keyword: "nobody cares", Severity: types.SeverityLow, Category: types.CategoryGeneralDistress},
	{Keyword: "panic attack", Severity: types.SeverityLow, Category: types.CategoryGeneralDistress},
}
