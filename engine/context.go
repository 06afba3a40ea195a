// Package engine implements the walker (component E): it traverses a
// resolved document guided by the schema registry (package schema),
// dispatching enter/leave callbacks to registered rules, running
// preprocessors and decorators, following $ref boundaries through the
// resolver, and collecting the resulting Problem records (validation.Error).
//
// This generalizes the teacher's walk package, whose LocationContext/
// MatchFunc generics were built for a typed Go-struct document model, to a
// single concrete walker over *yaml.Node trees, since a NodeType-described
// schema (not a generated struct per OAS version) is this engine's document
// model (spec.md §9 "Dynamic objects -> tagged schema + variant nodes").
package engine

import (
	speclinterrors "github.com/speclint/speclint/errors"
	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// ErrNoResolver is returned by RuleContext.Resolve when the walk was run
// without a resolver attached (e.g. linting a single self-contained
// document with external refs disallowed).
const ErrNoResolver = speclinterrors.Error("engine: walk has no resolver attached")

// NodeContext describes the node currently being visited: its governing
// NodeType, its place in the tree, and its full location chain back to the
// walk's root (spec.md §4.E "Context passed to callbacks").
type NodeContext struct {
	Type       *schema.NodeType
	Node       *yaml.Node
	KeyNode    *yaml.Node // nil when this node is an array element, not a mapping value
	Parent     *yaml.Node
	Key        string
	Index      int // -1 when this node is a mapping value, not an array element
	SourceURI  string
	Pointer    string
	Location   []validation.LocationStep
	OASVersion schema.Version
	From       *validation.LocationStep
}

// LocationStep returns the LocationStep this node itself contributes. It is
// Location[0] of each child's context; this node's own Location holds only
// the steps of its ancestors.
func (nc *NodeContext) LocationStep() validation.LocationStep {
	return validation.LocationStep{SourceURI: nc.SourceURI, Pointer: nc.Pointer}
}

// RuleContext is the per-rule view of a NodeContext: Report and Skip are
// bound to the rule that owns this callback invocation, so rule code never
// has to pass its own id or default severity around.
type RuleContext struct {
	*NodeContext

	ruleID   string
	severity validation.Severity
	state    *walkState
}

// ReportOption customizes a single call to RuleContext.Report.
type ReportOption func(*reportOpts)

type reportOpts struct {
	severity    *validation.Severity
	node        *yaml.Node
	reportOnKey bool
	pointer     *string
	suggest     []string
	fix         validation.Fix
}

// WithSeverity overrides the rule's default severity for one finding.
func WithSeverity(s validation.Severity) ReportOption {
	return func(o *reportOpts) { o.severity = &s }
}

// WithNode reports against node instead of the context's own node (e.g. a
// specific child value rather than the object being visited).
func WithNode(node *yaml.Node) ReportOption {
	return func(o *reportOpts) { o.node = node }
}

// ReportOnKey marks the finding as belonging to the node's key, not its
// value (spec.md §3 LocationStep.reportOnKey).
func ReportOnKey() ReportOption {
	return func(o *reportOpts) { o.reportOnKey = true }
}

// WithPointer overrides the JSON pointer recorded for the finding (both its
// DocumentLocation and its own LocationStep), for rules that report against
// a child field rather than the node currently being visited.
func WithPointer(pointer string) ReportOption {
	return func(o *reportOpts) { o.pointer = &pointer }
}

// WithSuggest attaches suggested replacement text to the finding.
func WithSuggest(suggestions ...string) ReportOption {
	return func(o *reportOpts) { o.suggest = suggestions }
}

// WithFix attaches an automatic or interactive fix to the finding.
func WithFix(fix validation.Fix) ReportOption {
	return func(o *reportOpts) { o.fix = fix }
}

// Report records a finding at the current node (or an overridden node/
// location), filling in the rule id, default severity, and location chain
// automatically (spec.md §4.E: "report accepts partial problems; the walker
// fills ruleId, default severity, and appends the current location
// automatically").
func (c *RuleContext) Report(err error, opts ...ReportOption) {
	o := reportOpts{}
	for _, opt := range opts {
		opt(&o)
	}

	severity := c.severity
	if o.severity != nil {
		severity = *o.severity
	}

	node := c.Node
	if o.node != nil {
		node = o.node
	}
	if o.reportOnKey && c.KeyNode != nil {
		node = c.KeyNode
	}

	pointer := c.Pointer
	if o.pointer != nil {
		pointer = *o.pointer
	}

	vErr := validation.NewValidationError(severity, c.ruleID, err, node)
	vErr.Suggest = o.suggest
	vErr.Fix = o.fix
	vErr.Location = append([]validation.LocationStep{{SourceURI: c.SourceURI, Pointer: pointer}}, c.Location...)
	vErr.DocumentLocation = c.SourceURI + "#" + pointer
	if c.From != nil {
		vErr = vErr.WithFrom(*c.From)
	}

	c.state.addProblem(vErr)
}

// Skip marks the subtree rooted at the current node as skipped for this
// rule only; other rules continue to run over it (spec.md §4.E "Skip
// semantics").
func (c *RuleContext) Skip() {
	c.state.skip(c.ruleID, c.Pointer)
}

// Resolve follows ref (relative to the current node's source) through the
// walk's resolver, for rules that need to inspect
// a ref target directly rather than relying on walker-driven traversal.
func (c *RuleContext) Resolve(ref string) (*resolver.ResolvedRef, error) {
	if c.state.resolver == nil {
		return nil, ErrNoResolver
	}
	return c.state.resolver.Resolve(c.state.ctx, c.SourceURI, ref)
}
