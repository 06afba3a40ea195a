package linter

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/linter/format"
	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/rule"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/validation"
)

// Linter is the main linting engine. It resolves which rules are enabled
// from its Config/Registry and drives a single engine.Walker pass over the
// document, rather than walking the tree once per rule: every enabled rule
// shares one traversal, so enabling more rules costs dispatch overhead, not
// additional tree walks.
type Linter struct {
	config   *Config
	registry *Registry
	resolver *resolver.Resolver

	Preprocessors []engine.Preprocessor
	Decorators    []engine.Decorator

	assertOnce  sync.Once
	assertRules []rule.Rule
	assertErr   error
}

// NewLinter creates a new linter with the given configuration, rule
// registry, and reference resolver (with nil, the walker follows no $refs
// and reports no finding for them).
func NewLinter(config *Config, registry *Registry, res *resolver.Resolver) *Linter {
	return &Linter{config: config, registry: registry, resolver: res}
}

// Registry returns the rule registry for documentation generation
func (l *Linter) Registry() *Registry {
	return l.registry
}

// Lint runs all configured rules against the document
func (l *Linter) Lint(ctx context.Context, doc *Document, preExistingErrors []error, opts *LintOptions) (*Output, error) {
	var allErrs []error

	if len(preExistingErrors) > 0 {
		allErrs = append(allErrs, preExistingErrors...)
	}

	lintErrs, err := l.runRules(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	allErrs = append(allErrs, lintErrs...)

	allErrs = l.applySeverityOverrides(allErrs)
	validation.SortValidationErrors(allErrs)

	return l.formatOutput(allErrs), nil
}

func (l *Linter) runRules(ctx context.Context, doc *Document, opts *LintOptions) ([]error, error) {
	versionFilter := versionString(doc.Version)
	if opts != nil && opts.VersionFilter != nil && *opts.VersionFilter != "" {
		versionFilter = *opts.VersionFilter
	}

	enabledRules := l.getEnabledRules(versionFilter)

	assertRules, err := l.assertionRules()
	if err != nil {
		return nil, err
	}

	engineRules := make([]engine.Rule, 0, len(enabledRules)+len(assertRules))
	for _, r := range enabledRules {
		engineRules = append(engineRules, r)
	}
	for _, r := range assertRules {
		engineRules = append(engineRules, r)
	}

	w := &engine.Walker{
		Registry:      schema.For(doc.Version),
		Resolver:      l.resolver,
		Rules:         engineRules,
		Preprocessors: append(append([]engine.Preprocessor{}, l.Preprocessors...), l.registry.PluginPreprocessors()...),
		Decorators:    append(append([]engine.Decorator{}, l.Decorators...), l.registry.PluginDecorators()...),
	}

	result, err := w.Walk(ctx, doc.URI, doc.Root, doc.Version)
	if err != nil {
		return nil, err
	}
	return result.Problems, nil
}

// assertionRules compiles l.config.Assertions exactly once per Linter and
// caches the result (and any compile error), since the config is frozen
// before any walk and compilation is pure.
func (l *Linter) assertionRules() ([]rule.Rule, error) {
	l.assertOnce.Do(func() {
		l.assertRules, l.assertErr = compileAssertions(l.config.Assertions, l.registry)
	})
	return l.assertRules, l.assertErr
}

func (l *Linter) getEnabledRules(versionFilter string) []Rule {
	ruleStatus := make(map[string]bool)

	// Each extends entry fully replaces the enabled set with its own
	// ruleset's membership, rather than unioning with earlier entries: for
	// extends:["minimal","recommended"] the resolved set equals
	// "recommended" alone, and the reversed list resolves to "minimal"
	// alone. Presets are meant to be selected, not additively combined;
	// combining rulesets deliberately is what per-rule/per-category entries
	// (layered below) are for.
	for _, ruleset := range l.config.Extends {
		ids, ok := l.registry.GetRuleset(ruleset)
		if !ok {
			continue
		}
		member := make(map[string]bool, len(ids))
		for _, id := range ids {
			member[id] = true
		}
		for _, r := range l.registry.AllRules() {
			ruleStatus[r.ID()] = member[r.ID()]
		}
	}

	for _, rule := range l.registry.AllRules() {
		if catConfig, ok := l.config.Categories[rule.Metadata().Category]; ok {
			if catConfig.Enabled != nil {
				ruleStatus[rule.ID()] = *catConfig.Enabled
			}
		}
	}

	for _, entry := range l.config.Rules {
		if entry.Disabled != nil {
			ruleStatus[entry.ID] = !*entry.Disabled
		}
	}

	var enabled []Rule
	for id, enabledFlag := range ruleStatus {
		if !enabledFlag {
			continue
		}
		rule, ok := l.registry.GetRule(id)
		if !ok {
			continue
		}
		if !versionApplies(rule.Metadata().Versions, versionFilter) {
			continue
		}
		enabled = append(enabled, rule)
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].ID() < enabled[j].ID()
	})

	return enabled
}

// versionApplies reports whether a rule scoped to ruleVersions (nil/empty
// means all versions) applies to docVersion ("3.0", "3.0.3", "2.0", ...).
// A rule version matches either exactly or as a dotted prefix of the
// document version, so a rule scoped to "3.0" also covers "3.0.3".
func versionApplies(ruleVersions []string, docVersion string) bool {
	if len(ruleVersions) == 0 {
		return true
	}
	for _, rv := range ruleVersions {
		if rv == docVersion {
			return true
		}
		if len(docVersion) > len(rv) && docVersion[:len(rv)] == rv {
			return true
		}
	}
	return false
}

// versionString renders a schema.Version in the dotted form ("3.0", "3.1",
// "2.0") rule.Metadata.Versions entries and lint.yaml version filters use.
func versionString(v schema.Version) string {
	switch v {
	case schema.Oas2:
		return "2.0"
	case schema.Oas3_0:
		return "3.0"
	case schema.Oas3_1:
		return "3.1"
	default:
		return string(v)
	}
}

func (l *Linter) ruleEntry(id string) (RuleEntry, bool) {
	for _, entry := range l.config.Rules {
		if entry.ID == id {
			return entry, true
		}
	}
	return RuleEntry{}, false
}

func (l *Linter) getRuleConfig(ruleID string) RuleConfig {
	config := RuleConfig{}

	if rule, ok := l.registry.GetRule(ruleID); ok {
		if catConfig, ok := l.config.Categories[rule.Metadata().Category]; ok {
			if catConfig.Severity != nil {
				config.Severity = catConfig.Severity
			}
		}
	}

	if entry, ok := l.ruleEntry(ruleID); ok {
		if entry.Severity != nil {
			config.Severity = entry.Severity
		}
		if entry.Match != nil {
			config.Match = entry.Match
		}
	}

	return config
}

func (l *Linter) applySeverityOverrides(errs []error) []error {
	filtered := errs[:0]
	for _, err := range errs {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			config := l.getRuleConfig(vErr.Rule)
			if config.Match != nil && !config.Match.MatchString(vErr.Error()) {
				continue
			}
			if config.Severity != nil {
				vErr.Severity = *config.Severity
			}
		}
		filtered = append(filtered, err)
	}
	return filtered
}

func (l *Linter) formatOutput(errs []error) *Output {
	return &Output{
		Results: errs,
		Format:  l.config.OutputFormat,
	}
}

// Output represents the result of linting
type Output struct {
	Results []error
	Format  OutputFormat
}

func (o *Output) HasErrors() bool {
	for _, err := range o.Results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			if vErr.Severity == validation.SeverityError {
				return true
			}
		} else {
			return true
		}
	}
	return false
}

func (o *Output) ErrorCount() int {
	count := 0
	for _, err := range o.Results {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			if vErr.Severity == validation.SeverityError {
				count++
			}
		} else {
			count++
		}
	}
	return count
}

func (o *Output) FormatText() string {
	f := format.NewTextFormatter()
	s, _ := f.Format(o.Results)
	return s
}

func (o *Output) FormatJSON() string {
	f := format.NewJSONFormatter()
	s, _ := f.Format(o.Results)
	return s
}
