package rule

import (
	"fmt"
	"strings"

	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/fix"
	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// NewResponseFamilyRule builds a rule that fires on Operation nodes missing
// any response code in the given family ("2", "4", ...) or the "default"
// catch-all. Response keys live directly on the Responses mapping, one
// level below Operation, so the rule attaches to "Responses" rather than
// "Operation" itself and reads its own node's keys the way rule.specEnter
// reads an object's present keys.
func NewResponseFamilyRule(id, family string, severity validation.Severity) Rule {
	r := &base{
		id:       id,
		severity: severity,
		meta: Metadata{
			Category:    "style",
			Summary:     fmt.Sprintf("Operation responses must include a %sxx response.", family),
			Description: fmt.Sprintf("Reports operations whose responses object declares no %sxx status code (nor \"default\").", family),
		},
	}
	r.visitors = map[string]engine.Visitor{
		"Responses": {Enter: func(ctx *engine.RuleContext) error {
			if !hasResponseFamily(ctx, family) {
				node := ctx.Node
				code := family + "00"
				ctx.Report(fmt.Errorf("operation must define at least one %sxx response", family),
					engine.ReportOnKey(),
					engine.WithFix(fix.Fix[*yaml.Node]{
						Desc: fmt.Sprintf("add a placeholder %s response", code),
						ApplyFunc: func(*yaml.Node) error {
							appendResponse(node, code)
							return nil
						},
					}),
				)
			}
			return nil
		}},
	}
	return r
}

// appendResponse adds a minimal "<code>: {description: ...}" entry to a
// Responses mapping node, the fix applied when no response in the family
// is declared. The fix's ApplyFunc ignores the document root it's handed
// and mutates the captured Responses node directly, since that's the only
// node the edit touches.
func appendResponse(responses *yaml.Node, code string) {
	description := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "description"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "Response"},
	}}
	responses.Content = append(responses.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: code},
		description,
	)
}

func hasResponseFamily(ctx *engine.RuleContext, family string) bool {
	node := ctx.Node
	if node == nil {
		return true // malformed responses object is the spec rule's concern, not this one's
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		code := node.Content[i].Value
		if code == "default" || strings.HasPrefix(code, family) {
			return true
		}
	}
	return false
}
