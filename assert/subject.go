// Package assert compiles declarative assertion configuration into
// engine.Rule/rule.Rule instances: the "assertion engine" half of component
// F (spec.md §4.F). An Assertion names a NodeType to attach to, an optional
// property path to extract a value from, and one or more predicate checks
// that value must satisfy.
package assert

import (
	"fmt"

	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath/config"
	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"gopkg.in/yaml.v3"
)

// Queryable selects zero or more nodes from a value node, used to extract
// the subject of an assertion's predicate checks.
type Queryable interface {
	Query(node *yaml.Node) []*yaml.Node
}

type directProperty struct{ key string }

func (d directProperty) Query(node *yaml.Node) []*yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == d.key {
			return []*yaml.Node{node.Content[i+1]}
		}
	}
	return nil
}

type selfQuery struct{}

func (selfQuery) Query(node *yaml.Node) []*yaml.Node {
	if node == nil {
		return nil
	}
	return []*yaml.Node{node}
}

type rfcJSONPath struct{ path *jsonpath.JSONPath }

func (q rfcJSONPath) Query(node *yaml.Node) []*yaml.Node { return q.path.Query(node) }

type legacyYAMLPath struct{ path *yamlpath.Path }

func (q legacyYAMLPath) Query(node *yaml.Node) []*yaml.Node {
	result, _ := q.path.Find(node)
	return result
}

// CompileSubject compiles an assertion's "property" expression into a
// Queryable evaluated against the node the owning NodeType matched. An
// empty property means "the node itself". A bare identifier (no JSONPath
// metacharacters) is resolved as a direct mapping-key lookup without
// invoking either path engine, since that covers the overwhelming majority
// of assertions ("operationId must be camelCase") and keeps the common case
// free of path-compilation overhead. Anything else is tried first as an
// RFC 9535 JSONPath expression, then as a legacy yaml-jsonpath expression
// for configs carried over from a Redocly-style `$..` subject (SPEC §11).
func CompileSubject(property string) (Queryable, error) {
	if property == "" {
		return selfQuery{}, nil
	}
	if isBareIdentifier(property) {
		return directProperty{key: property}, nil
	}
	if p, err := jsonpath.NewPath(property, config.WithPropertyNameExtension()); err == nil {
		return rfcJSONPath{path: p}, nil
	}
	p, err := yamlpath.NewPath(property)
	if err != nil {
		return nil, fmt.Errorf("assert: invalid subject expression %q: %w", property, err)
	}
	return legacyYAMLPath{path: p}, nil
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(i > 0 && isDigit) {
			return false
		}
	}
	return true
}
