package engine

import "github.com/speclint/speclint/validation"

// VisitFunc is one phase of a rule's handling of a NodeType: an enter
// callback (run before descending into children) or a leave callback (run
// after). Returning a non-nil error is a RuleError (spec.md §7): the walk
// continues, but the failure is surfaced to the driver separately from
// Problem findings reported via ctx.Report.
type VisitFunc func(ctx *RuleContext) error

// Visitor pairs the enter/leave callbacks a Rule registers for one
// NodeType name. Either field may be nil.
type Visitor struct {
	Enter VisitFunc
	Leave VisitFunc
}

// Rule is a built-in or plugin-exported visitor-based check (spec.md §4.F).
// Compiled assertions are also exposed as Rules (see package rule).
type Rule interface {
	// ID is the rule's identifier; plugin rules are namespaced
	// "<pluginId>/<name>" by the config resolver before reaching the walker.
	ID() string
	// DefaultSeverity is used for findings this rule reports without an
	// explicit WithSeverity override.
	DefaultSeverity() validation.Severity
	// Visitors maps NodeType name to the callbacks this rule runs there.
	// A rule absent from a given NodeType's dispatch table is simply never
	// called for nodes of that type.
	Visitors() map[string]Visitor
}

// Preprocessor rewrites a node before rule callbacks see it (spec.md §4.E
// phase 1). Process may mutate ctx.Node's content in place.
type Preprocessor interface {
	ID() string
	Process(ctx *NodeContext) error
}

// Decorator rewrites a node for emission after rule callbacks have run
// (spec.md §4.E phase 5), used by the bundler/normalizer.
type Decorator interface {
	ID() string
	Decorate(ctx *NodeContext) error
}
