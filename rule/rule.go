// Package rule implements the built-in and declarative-assertion rules that
// plug into the walker (engine.Rule), plus the documentation metadata the
// "rules" CLI subcommand and the doc generator surface alongside them
// (component F of the engine, spec.md §4.F).
package rule

import (
	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/validation"
)

// Metadata is the static documentation a rule carries beyond its ID and
// default severity: category, human-readable summary/description, and
// optional extras (rationale, examples, a fix-availability flag, and the
// OAS versions it applies to).
type Metadata struct {
	Category     string
	Summary      string
	Description  string
	Rationale    string
	Link         string
	GoodExample  string
	BadExample   string
	FixAvailable bool
	// Versions restricts the rule to the given OAS dialects ("2.0", "3.0",
	// "3.1"); nil/empty means all versions.
	Versions []string
}

// Rule is an engine.Rule with the documentation metadata the linter's
// config resolver, doc generator, and "rules" subcommand need. Every
// built-in and compiled-assertion rule in this package implements it.
type Rule interface {
	engine.Rule
	Metadata() Metadata
}

// base provides the engine.Rule/Metadata boilerplate shared by every rule
// in this package; concrete rules embed it and set Visitors themselves.
type base struct {
	id       string
	severity validation.Severity
	meta     Metadata
	visitors map[string]engine.Visitor
}

func (b *base) ID() string                          { return b.id }
func (b *base) DefaultSeverity() validation.Severity { return b.severity }
func (b *base) Metadata() Metadata                   { return b.meta }
func (b *base) Visitors() map[string]engine.Visitor  { return b.visitors }
