package rule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/jsonpointer"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// NewSpecRule builds the structural rule (spec.md §4.F "policy" half of the
// walker/rule split, see DESIGN.md): it owns every required-field,
// unexpected-property, shape-rule, and union-variant-mismatch finding,
// registering the same Enter callback against every NodeType the registry
// declares since the check only depends on the NodeType each node carries,
// never on its name.
func NewSpecRule(registry *schema.Registry) Rule {
	r := &base{
		id:       "spec",
		severity: validation.SeverityError,
		meta: Metadata{
			Category:    "validation",
			Summary:     "Checks every node against the shape its OpenAPI/Swagger version declares.",
			Description: "Reports missing required fields, properties not declared anywhere on the object, violated shape constraints, and values at a polymorphic position that match none of its expected shapes.",
		},
	}

	visitors := make(map[string]engine.Visitor, len(registry.TypeNames()))
	for _, name := range registry.TypeNames() {
		visitors[name] = engine.Visitor{Enter: specEnter}
	}
	r.visitors = visitors
	return r
}

func specEnter(ctx *engine.RuleContext) error {
	switch ctx.Type.Kind {
	case schema.KindObject:
		checkObjectShape(ctx)
	case schema.KindUnion:
		checkUnionShape(ctx)
	case schema.KindScalar:
		checkScalarEnum(ctx)
	}
	return nil
}

func checkObjectShape(ctx *engine.RuleContext) {
	present := presentKeys(ctx)

	for name, field := range ctx.Type.Properties {
		if field.Required && !present[name] {
			ctx.Report(fmt.Errorf("The field `%s` must be present on this level.", name),
				engine.WithSeverity(validation.SeverityError),
				engine.ReportOnKey())
		}
	}

	for key := range present {
		if _, known := ctx.Type.ClassifyField(key); !known {
			ctx.Report(fmt.Errorf("unexpected property %q", key),
				engine.WithSeverity(validation.SeverityWarning))
		}
	}

	for _, rule := range ctx.Type.ShapeRules {
		if !rule.Check(present) {
			opts := []engine.ReportOption{engine.WithSeverity(validation.SeverityError)}
			if rule.ReportOnKey {
				opts = append(opts, engine.ReportOnKey())
			}
			if rule.ReportField != "" {
				if keyNode, valueNode, ok := fieldNodes(ctx.Node, rule.ReportField); ok {
					target := valueNode
					if rule.ReportOnKey {
						target = keyNode
					}
					opts = append(opts, engine.WithNode(target),
						engine.WithPointer(ctx.Pointer+"/"+jsonpointer.EscapeString(rule.ReportField)))
				}
			}
			ctx.Report(fmt.Errorf("%s", rule.Message), opts...)
		}
	}
}

// checkScalarEnum reports a value outside a Scalar NodeType's declared
// vocabulary (spec.md §3 Scalar(primitiveKind, enum?)). A sequence node
// (OAS 3.1 `type: [a, b]`) is walked element-by-element by the engine, so
// this only ever sees a true scalar value here.
func checkScalarEnum(ctx *engine.RuleContext) {
	if len(ctx.Type.Enum) == 0 {
		return
	}
	node := ctx.Node
	if node == nil || node.Kind != yaml.ScalarNode {
		return
	}
	if slices.Contains(ctx.Type.Enum, node.Value) {
		return
	}

	label := ctx.Type.EnumLabel
	if label == "" {
		label = ctx.Type.Name
	}
	ctx.Report(fmt.Errorf("`%s` can be one of the following only: %s.", label, quotedEnum(ctx.Type.Enum)),
		engine.WithSeverity(validation.SeverityError))
}

func quotedEnum(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

// fieldNodes returns the key and value nodes of key on a mapping node.
func fieldNodes(node *yaml.Node, key string) (keyNode, valueNode *yaml.Node, ok bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i], node.Content[i+1], true
		}
	}
	return nil, nil, false
}

func checkUnionShape(ctx *engine.RuleContext) {
	present := presentKeys(ctx)
	discriminatorValue := ""
	if ctx.Type.Discriminator != "" {
		discriminatorValue = scalarValue(ctx, ctx.Type.Discriminator)
	}
	if _, ok := ctx.Type.SelectVariant(discriminatorValue, present); !ok {
		ctx.Report(fmt.Errorf("value does not match any expected shape for %s", ctx.Type.Name))
	}
}

func presentKeys(ctx *engine.RuleContext) map[string]bool {
	node := ctx.Node
	if node == nil {
		return nil
	}
	keys := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}
	return keys
}

func scalarValue(ctx *engine.RuleContext, key string) string {
	node := ctx.Node
	if node == nil {
		return ""
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1].Value
		}
	}
	return ""
}
