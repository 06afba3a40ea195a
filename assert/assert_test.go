package assert_test

import (
	"context"
	"testing"

	"github.com/speclint/speclint/assert"
	"github.com/speclint/speclint/engine"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/validation"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseDoc(t *testing.T, yml string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(yml), &doc))
	return doc.Content[0]
}

func walk(t *testing.T, root *yaml.Node, rules ...engine.Rule) *engine.Result {
	t.Helper()
	registry := schema.For(schema.Oas3_0)
	w := &engine.Walker{Registry: registry, Rules: rules}
	result, err := w.Walk(context.Background(), "mem://doc.yaml", root, schema.Oas3_0)
	require.NoError(t, err)
	return result
}

func TestCompile_CasingViolationReportsAssertionID(t *testing.T) {
	t.Parallel()

	root := parseDoc(t, "openapi: 3.0.3\ninfo:\n  title: t\n  version: \"1\"\npaths:\n  /pets:\n    get:\n      operationId: Get_Pets\n      responses: {}\n")

	r, err := assert.Compile(assert.Spec{
		Subject:     "Operation",
		Property:    "operationId",
		AssertionID: "operation-id-camel-case",
		Casing:      "camelCase",
		Message:     "operationId must be camelCase",
	})
	require.NoError(t, err)

	result := walk(t, root, r)
	require.Len(t, result.Problems, 1)

	var vErr *validation.Error
	require.ErrorAs(t, result.Problems[0], &vErr)
	require.Equal(t, "operation-id-camel-case", vErr.Rule)
	require.Contains(t, vErr.Error(), "camelCase")
}

func TestCompile_CasingPassesForWellFormedIdentifier(t *testing.T) {
	t.Parallel()

	root := parseDoc(t, "openapi: 3.0.3\ninfo:\n  title: t\n  version: \"1\"\npaths:\n  /pets:\n    get:\n      operationId: getPets\n      responses: {}\n")

	r, err := assert.Compile(assert.Spec{
		Subject:     "Operation",
		Property:    "operationId",
		AssertionID: "operation-id-camel-case",
		Casing:      "camelCase",
	})
	require.NoError(t, err)

	result := walk(t, root, r)
	require.Empty(t, result.Problems)
}

func TestCompile_DefinedRequiresPropertyPresence(t *testing.T) {
	t.Parallel()

	root := parseDoc(t, "openapi: 3.0.3\ninfo:\n  title: t\n  version: \"1\"\n  contact: {}\npaths: {}\n")

	want := true
	r, err := assert.Compile(assert.Spec{
		Subject:     "Contact",
		Property:    "email",
		AssertionID: "contact-email-required",
		Defined:     &want,
	})
	require.NoError(t, err)

	result := walk(t, root, r)
	require.Len(t, result.Problems, 1)

	var vErr *validation.Error
	require.ErrorAs(t, result.Problems[0], &vErr)
	require.Equal(t, "contact-email-required", vErr.Rule)
}

func TestCompile_PatternChecksScalarValue(t *testing.T) {
	t.Parallel()

	root := parseDoc(t, "openapi: 3.0.3\ninfo:\n  title: t\n  version: v1.0\npaths: {}\n")

	r, err := assert.Compile(assert.Spec{
		Subject:     "Info",
		Property:    "version",
		AssertionID: "info-version-semver",
		Pattern:     `^\d+\.\d+\.\d+$`,
	})
	require.NoError(t, err)

	result := walk(t, root, r)
	require.Len(t, result.Problems, 1)
}

func TestCompile_JSONPathPropertyExpression(t *testing.T) {
	t.Parallel()

	root := parseDoc(t, "openapi: 3.0.3\ninfo:\n  title: t\n  version: v1.0\npaths: {}\n")

	// "$.version" is not a bare identifier, so CompileSubject takes the
	// JSONPath branch instead of the direct-property fast path, exercising
	// the same resolution speakeasy-api/jsonpath performs for overlay
	// actions (see overlay/jsonpath.go).
	r, err := assert.Compile(assert.Spec{
		Subject:     "Info",
		Property:    "$.version",
		AssertionID: "info-version-semver-jsonpath",
		Pattern:     `^\d+\.\d+\.\d+$`,
	})
	require.NoError(t, err)

	result := walk(t, root, r)
	require.Len(t, result.Problems, 1)
}

func TestCompile_RejectsEmptySubject(t *testing.T) {
	t.Parallel()

	_, err := assert.Compile(assert.Spec{AssertionID: "x", Defined: boolPtr(true)})
	require.Error(t, err)
}

func boolPtr(b bool) *bool { return &b }
