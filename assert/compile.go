package assert

import (
	"fmt"

	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/rule"
	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// Spec is the declarative form of one assertion as it appears in config
// (spec.md §4.F): a NodeType to attach to, an optional property expression
// to extract the checked value from, and the predicate fields to evaluate
// against it. Exactly the predicate fields that are non-nil/non-empty are
// evaluated; all of them must pass.
type Spec struct {
	Subject     string // NodeType name the assertion's rule attaches to
	Property    string // "" means the node itself
	Message     string
	Severity    validation.Severity
	AssertionID string

	Defined   *bool
	Pattern   string
	MinLength *int
	MaxLength *int
	Enum      []string
	Casing    string
	Const     string
	// Ref, if set, requires the extracted value be a $ref string that
	// resolves successfully; checked via the walk's resolver rather than as
	// a plain Predicate since it needs RuleContext.Resolve.
	Ref bool
	// ExtraPredicate is an already-resolved predicate function, used for
	// plugin-exported assertion functions ("<pluginId>/<fn>" in config):
	// the caller resolves the name against its plugin registry and hands
	// Compile the resulting Predicate directly, since this package has no
	// knowledge of how plugins are loaded or named.
	ExtraPredicate Predicate
}

// Compile turns a Spec into a rule.Rule whose single Visitor entry (keyed
// by Spec.Subject) runs every predicate the Spec declares and reports a
// validation.Error keyed by AssertionID on the first failure (spec.md §4.F
// "a failed assertion reports ruleId = assertionId").
func Compile(spec Spec) (rule.Rule, error) {
	if spec.Subject == "" {
		return nil, fmt.Errorf("assert: subject is required")
	}
	if spec.AssertionID == "" {
		return nil, fmt.Errorf("assert: assertionId is required")
	}

	subject, err := CompileSubject(spec.Property)
	if err != nil {
		return nil, err
	}

	predicates, err := compilePredicates(spec)
	if err != nil {
		return nil, err
	}

	return &compiledAssertion{
		id: spec.AssertionID,
		// Severity's zero value is SeverityError, so an unset Spec.Severity
		// already defaults correctly without special-casing.
		severity:   spec.Severity,
		subjectVis: spec.Subject,
		property:   subject,
		predicates: predicates,
		message:    spec.Message,
		ref:        spec.Ref,
		meta: rule.Metadata{
			Category:    "assertion",
			Summary:     spec.Message,
			Description: fmt.Sprintf("Declarative assertion on %s%s.", spec.Subject, propertySuffix(spec.Property)),
		},
	}, nil
}

func propertySuffix(property string) string {
	if property == "" {
		return ""
	}
	return fmt.Sprintf(" (property %q)", property)
}

func compilePredicates(spec Spec) ([]Predicate, error) {
	var predicates []Predicate

	if spec.Defined != nil {
		predicates = append(predicates, Defined(*spec.Defined))
	}
	if spec.Pattern != "" {
		p, err := Pattern(spec.Pattern)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}
	if spec.MinLength != nil {
		predicates = append(predicates, MinLength(*spec.MinLength))
	}
	if spec.MaxLength != nil {
		predicates = append(predicates, MaxLength(*spec.MaxLength))
	}
	if len(spec.Enum) > 0 {
		predicates = append(predicates, Enum(spec.Enum))
	}
	if spec.Casing != "" {
		p, err := Casing(spec.Casing)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}
	if spec.Const != "" {
		predicates = append(predicates, Const(spec.Const))
	}
	if spec.ExtraPredicate != nil {
		predicates = append(predicates, spec.ExtraPredicate)
	}

	return predicates, nil
}

type compiledAssertion struct {
	id         string
	severity   validation.Severity
	subjectVis string
	property   Queryable
	predicates []Predicate
	message    string
	ref        bool
	meta       rule.Metadata
}

func (a *compiledAssertion) ID() string                          { return a.id }
func (a *compiledAssertion) DefaultSeverity() validation.Severity { return a.severity }
func (a *compiledAssertion) Metadata() rule.Metadata              { return a.meta }

func (a *compiledAssertion) Visitors() map[string]engine.Visitor {
	return map[string]engine.Visitor{
		a.subjectVis: {Enter: a.enter},
	}
}

func (a *compiledAssertion) enter(ctx *engine.RuleContext) error {
	matches := a.property.Query(ctx.Node)

	if len(matches) == 0 {
		a.checkOne(ctx, nil)
		return nil
	}
	for _, node := range matches {
		a.checkOne(ctx, node)
	}
	return nil
}

func (a *compiledAssertion) checkOne(ctx *engine.RuleContext, node *yaml.Node) {
	for _, predicate := range a.predicates {
		if ok, reason := predicate(node); !ok {
			a.report(ctx, node, reason)
			return
		}
	}
	if a.ref && node != nil {
		if _, err := ctx.Resolve(node.Value); err != nil {
			a.report(ctx, node, fmt.Sprintf("does not resolve: %v", err))
		}
	}
}

func (a *compiledAssertion) report(ctx *engine.RuleContext, node *yaml.Node, reason string) {
	message := a.message
	if message == "" {
		message = reason
	}
	opts := []engine.ReportOption{engine.WithSeverity(a.severity)}
	if node != nil {
		opts = append(opts, engine.WithNode(node))
	} else {
		opts = append(opts, engine.ReportOnKey())
	}
	ctx.Report(fmt.Errorf("%s", message), opts...)
}
