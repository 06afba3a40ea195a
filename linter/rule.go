package linter

import "github.com/speclint/speclint/rule"

// Rule is the interface every lint rule registered with this package's
// Registry satisfies: an engine.Rule (ID/DefaultSeverity/Visitors) plus the
// documentation metadata the "rules" CLI subcommand and doc generator need.
// Aliased rather than redeclared so a linter.Rule and a rule.Rule are the
// same type — callers never need to know which package minted a given rule.
type Rule = rule.Rule

// Metadata is a rule's static documentation (category, summary, examples).
type Metadata = rule.Metadata
