package linter

import (
	"fmt"

	"github.com/speclint/speclint/assert"
	"github.com/speclint/speclint/rule"
)

// toSpec converts an AssertionEntry (the config-file shape) into an
// assert.Spec, resolving its string severity alias the same way RuleEntry
// does, and its plugin function reference (if any) against registry. Left
// as a standalone conversion step, rather than teaching assert.Spec to
// unmarshal YAML itself, so the assert package stays free of any knowledge
// of how configs are authored or how plugins are loaded.
func (a AssertionEntry) toSpec(registry *Registry) (assert.Spec, error) {
	spec := assert.Spec{
		Subject:     a.Subject,
		Property:    a.Property,
		Message:     a.Message,
		AssertionID: a.AssertionID,
		Defined:     a.Defined,
		Pattern:     a.Pattern,
		MinLength:   a.MinLength,
		MaxLength:   a.MaxLength,
		Enum:        a.Enum,
		Casing:      a.Casing,
		Const:       a.Const,
		Ref:         a.Ref,
	}
	if a.Severity != nil {
		sev, err := parseSeverity(*a.Severity)
		if err != nil {
			return assert.Spec{}, fmt.Errorf("assertion %q: %w", a.AssertionID, err)
		}
		spec.Severity = sev
	}
	if a.Function != "" {
		pred, err := registry.lookupPredicate(a.Function)
		if err != nil {
			return assert.Spec{}, &ConfigError{Msg: fmt.Sprintf("assertion %q: %v", a.AssertionID, err)}
		}
		spec.ExtraPredicate = pred
	}
	return spec, nil
}

// compileAssertions compiles every configured assertion into a rule.Rule,
// failing on the first one that does not compile (unknown casing style, bad
// regex, missing subject/assertionId, unresolvable plugin function —
// assert.Compile, Spec, and toSpec validate these).
func compileAssertions(entries []AssertionEntry, registry *Registry) ([]rule.Rule, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	rules := make([]rule.Rule, 0, len(entries))
	for _, entry := range entries {
		spec, err := entry.toSpec(registry)
		if err != nil {
			return nil, err
		}
		r, err := assert.Compile(spec)
		if err != nil {
			return nil, fmt.Errorf("assertion %q: %w", entry.AssertionID, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
