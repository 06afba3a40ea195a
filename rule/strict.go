package rule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// schemaObjectMetaSchemaID names the in-process resource the compiled
// validator is registered under. It isn't a resolvable URL; AddResource
// only needs a stable identifier to compile and later reference against.
const schemaObjectMetaSchemaID = "speclint://schema-object.json"

// schemaObjectMetaSchema is a JSON Schema describing the keyword-level
// shape every OAS2/3 Schema Object must respect (type enum, required as a
// string array, properties/items/additionalProperties recursing into
// further schemas, and so on). The retrieval pack shipped only the .go
// files of the teacher's jsonschema/oas3 package, not the schema30/31/32
// dialect and meta JSON documents its go:embed directives pull in, so
// there is nothing to embed verbatim; this is a hand-authored subset of
// those official dialects covering the keywords speclint's own NodeType
// table for "Schema" already exposes. Swapping in the full upstream
// dialect/meta documents (https://spec.openapis.org/oas/3.1/dialect/...)
// is a drop-in replacement once they're available.
const schemaObjectMetaSchema = `{
  "$id": "speclint://schema-object.json",
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "type": {
      "anyOf": [
        {"enum": ["string", "number", "integer", "boolean", "array", "object", "null"]},
        {"type": "array", "items": {"enum": ["string", "number", "integer", "boolean", "array", "object", "null"]}}
      ]
    },
    "format": {"type": "string"},
    "required": {"type": "array", "items": {"type": "string"}, "uniqueItems": true},
    "enum": {"type": "array", "minItems": 1},
    "default": {},
    "title": {"type": "string"},
    "description": {"type": "string"},
    "multipleOf": {"type": "number", "exclusiveMinimum": 0},
    "maximum": {"type": "number"},
    "minimum": {"type": "number"},
    "maxLength": {"type": "integer", "minimum": 0},
    "minLength": {"type": "integer", "minimum": 0},
    "pattern": {"type": "string"},
    "maxItems": {"type": "integer", "minimum": 0},
    "minItems": {"type": "integer", "minimum": 0},
    "uniqueItems": {"type": "boolean"},
    "maxProperties": {"type": "integer", "minimum": 0},
    "minProperties": {"type": "integer", "minimum": 0},
    "nullable": {"type": "boolean"},
    "readOnly": {"type": "boolean"},
    "writeOnly": {"type": "boolean"},
    "deprecated": {"type": "boolean"},
    "properties": {"type": "object", "additionalProperties": {"$ref": "speclint://schema-object.json"}},
    "items": {"$ref": "speclint://schema-object.json"},
    "additionalProperties": {"anyOf": [{"type": "boolean"}, {"$ref": "speclint://schema-object.json"}]},
    "allOf": {"type": "array", "items": {"$ref": "speclint://schema-object.json"}},
    "oneOf": {"type": "array", "items": {"$ref": "speclint://schema-object.json"}},
    "anyOf": {"type": "array", "items": {"$ref": "speclint://schema-object.json"}},
    "not": {"$ref": "speclint://schema-object.json"}
  }
}`

var (
	strictValidatorOnce sync.Once
	strictValidator     *jsValidator.Schema
	strictValidatorErr  error
)

func compiledSchemaObjectValidator() (*jsValidator.Schema, error) {
	strictValidatorOnce.Do(func() {
		resource, err := jsValidator.UnmarshalJSON(bytes.NewBufferString(schemaObjectMetaSchema))
		if err != nil {
			strictValidatorErr = fmt.Errorf("strict mode: parse built-in schema-object meta-schema: %w", err)
			return
		}
		c := jsValidator.NewCompiler()
		if err := c.AddResource(schemaObjectMetaSchemaID, resource); err != nil {
			strictValidatorErr = fmt.Errorf("strict mode: register schema-object meta-schema: %w", err)
			return
		}
		compiled, err := c.Compile(schemaObjectMetaSchemaID)
		if err != nil {
			strictValidatorErr = fmt.Errorf("strict mode: compile schema-object meta-schema: %w", err)
			return
		}
		strictValidator = compiled
	})
	return strictValidator, strictValidatorErr
}

// NewStrictSchemaRule builds the "--strict" companion to the spec rule: a
// JSON Schema cross-check of every "Schema" NodeType node against the
// keyword-level shape OAS2/3 Schema Objects must respect. It supplements
// the structural NodeType checks NewSpecRule already performs rather
// than replacing them - the registry-driven checks remain the source of
// truth for what fields exist on which object.
func NewStrictSchemaRule() Rule {
	r := &base{
		id:       "strict-schema-meta",
		severity: validation.SeverityError,
		meta: Metadata{
			Category:    "validation",
			Summary:     "Validates Schema Objects against the OpenAPI JSON Schema dialect.",
			Description: "Cross-checks every Schema node's keywords (type, properties, items, enum, and the rest) against a JSON Schema meta-schema, catching malformed combinations the structural NodeType checks don't model keyword-by-keyword.",
		},
	}
	r.visitors = map[string]engine.Visitor{
		"Schema": {Enter: strictSchemaEnter},
	}
	return r
}

func strictSchemaEnter(ctx *engine.RuleContext) error {
	validator, err := compiledSchemaObjectValidator()
	if err != nil {
		return err
	}

	instance, err := nodeToJSONAny(ctx.Node)
	if err != nil {
		ctx.Report(fmt.Errorf("strict mode: schema is not representable as JSON: %w", err))
		return nil
	}

	if err := validator.Validate(instance); err != nil {
		var valErr *jsValidator.ValidationError
		if errors.As(err, &valErr) {
			ctx.Report(fmt.Errorf("schema violates the OpenAPI JSON Schema dialect: %s", valErr.Error()))
			return nil
		}
		ctx.Report(fmt.Errorf("schema violates the OpenAPI JSON Schema dialect: %w", err))
	}
	return nil
}

// nodeToJSONAny decodes node the way the rest of this codebase decodes YAML
// subtrees (yaml.Node.Decode), then round-trips the result through
// encoding/json so numeric scalars land as float64 the way jsonschema/v6
// expects from a real JSON decode, rather than the int/string typing
// yaml.Node.Decode alone would produce.
func nodeToJSONAny(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	var generic any
	if err := node.Decode(&generic); err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(jsonBytes, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}
