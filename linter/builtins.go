package linter

import (
	"fmt"

	"github.com/speclint/speclint/assert"
	"github.com/speclint/speclint/pointer"
	"github.com/speclint/speclint/rule"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/validation"
)

// DefaultRules builds the built-in rule set for one OAS dialect: the
// structural "spec" rule (bound to that dialect's NodeType table, since
// its visitors are generated from schema.Registry.TypeNames) plus the
// stylistic checks the minimal/recommended/recommended-strict presets
// draw from (rule.PresetMinimal etc.). Declarative ones are compiled here,
// rather than in package rule, since package assert already imports
// package rule for the rule.Rule/rule.Metadata it returns — compiling them
// inside package rule itself would be an import cycle.
func DefaultRules(version schema.Version) ([]Rule, error) {
	rules := []Rule{
		rule.NewSpecRule(schema.For(version)),
		rule.NewResponseFamilyRule(rule.IDOperation2xxResponse, "2", validation.SeverityWarning),
		rule.NewResponseFamilyRule(rule.IDOperation4xxResponse, "4", validation.SeverityHint),
		// Not a member of any preset ruleset: opt-in only, via a config
		// rule entry or the CLI's --strict flag explicitly enabling it.
		rule.NewStrictSchemaRule(),
	}

	for _, spec := range builtinAssertions {
		compiled, err := assert.Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("linter: built-in assertion %q: %w", spec.AssertionID, err)
		}
		rules = append(rules, compiled)
	}
	return rules, nil
}

var builtinAssertions = []assert.Spec{
	{
		Subject:     "Operation",
		Property:    "operationId",
		AssertionID: rule.IDOperationOperationID,
		Message:     "Operation must have operationId defined.",
		Severity:    validation.SeverityWarning,
		Defined:     pointer.From(true),
	},
	{
		Subject:     "Operation",
		Property:    "summary",
		AssertionID: rule.IDOperationSummary,
		Message:     "Operation must have a summary defined.",
		Severity:    validation.SeverityHint,
		Defined:     pointer.From(true),
	},
	{
		Subject:     "Info",
		Property:    "contact",
		AssertionID: rule.IDInfoContact,
		Message:     "info must have contact information.",
		Severity:    validation.SeverityWarning,
		Defined:     pointer.From(true),
	},
	{
		Subject:     "Info",
		Property:    "license",
		AssertionID: rule.IDInfoLicense,
		Message:     "info must have a license defined.",
		Severity:    validation.SeverityHint,
		Defined:     pointer.From(true),
	},
	{
		Subject:     "Info",
		Property:    "description",
		AssertionID: rule.IDInfoDescription,
		Message:     "info must have a description defined.",
		Severity:    validation.SeverityHint,
		Defined:     pointer.From(true),
	},
	{
		Subject:     "Tag",
		Property:    "description",
		AssertionID: rule.IDTagDescription,
		Message:     "Tag must have a description defined.",
		Severity:    validation.SeverityWarning,
		Defined:     pointer.From(true),
	},
}

// NewDefaultRegistry builds a Registry populated with every built-in rule
// for version plus the minimal/recommended/recommended-strict presets
// (spec.md §4.F "Built-in rules include the OAS spec shape checks ...
// plus many stylistic checks", §4.G preset names). "all" needs no explicit
// registration: Registry.GetRuleset synthesises it from every registered
// rule id.
func NewDefaultRegistry(version schema.Version) (*Registry, error) {
	registry := NewRegistry()

	rules, err := DefaultRules(version)
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		registry.Register(r)
	}

	for name, ids := range map[string][]string{
		"minimal":            rule.PresetMinimal,
		"recommended":        rule.PresetRecommended,
		"recommended-strict": rule.PresetRecommendedStrict,
	} {
		if err := registry.RegisterRuleset(name, ids); err != nil {
			return nil, fmt.Errorf("linter: preset %q: %w", name, err)
		}
	}

	return registry, nil
}
