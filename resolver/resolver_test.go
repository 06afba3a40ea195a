package resolver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestResolver_ResolveWithinDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "doc.yaml", "components:\n  schemas:\n    Pet:\n      type: object\n")

	st := source.NewStore(nil, nil)
	rv := resolver.New(st)

	rr, err := rv.Resolve(context.Background(), path, "#/components/schemas/Pet")
	require.NoError(t, err)
	require.NotNil(t, rr.Node)
	assert.Nil(t, rr.Circular)
	assert.Equal(t, "object", rr.Node.Content[1].Value)
}

func TestResolver_ResolveExternalFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "pet.yaml", "type: object\nproperties:\n  name:\n    type: string\n")
	root := writeFile(t, dir, "root.yaml", "components:\n  schemas: {}\n")

	st := source.NewStore(nil, nil)
	rv := resolver.New(st)

	rr, err := rv.Resolve(context.Background(), root, "pet.yaml#/properties/name")
	require.NoError(t, err)
	require.NotNil(t, rr.Node)
	assert.Equal(t, "type", rr.Node.Content[0].Value)
}

func TestResolver_ChasesChainOfRefs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "type: string\n")
	writeFile(t, dir, "mid.yaml", "$ref: base.yaml\n")
	root := writeFile(t, dir, "root.yaml", "components:\n  schemas: {}\n")

	st := source.NewStore(nil, nil)
	rv := resolver.New(st)

	rr, err := rv.Resolve(context.Background(), root, "mid.yaml")
	require.NoError(t, err)
	require.NotNil(t, rr.Node)
	assert.Nil(t, rr.Circular)
	assert.Equal(t, []string{"base.yaml"}, rr.ResolvedVia)
}

func TestResolver_DetectsCircularRef(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "$ref: b.yaml\n")
	writeFile(t, dir, "b.yaml", "$ref: a.yaml\n")

	st := source.NewStore(nil, nil)
	rv := resolver.New(st)

	aPath := filepath.Join(dir, "a.yaml")
	rr, err := rv.Resolve(context.Background(), aPath, "")
	require.NoError(t, err)
	require.NotNil(t, rr.Circular)
}

func TestResolver_CachesRepeatedResolution(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := writeFile(t, dir, "root.yaml", "components:\n  schemas:\n    Pet:\n      type: object\n")

	st := source.NewStore(nil, nil)
	rv := resolver.New(st)

	a, err := rv.Resolve(context.Background(), root, "#/components/schemas/Pet")
	require.NoError(t, err)
	b, err := rv.Resolve(context.Background(), root, "#/components/schemas/Pet")
	require.NoError(t, err)
	assert.Equal(t, a.Node, b.Node)
}

func TestResolver_MissingPointerIsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	root := writeFile(t, dir, "root.yaml", "components:\n  schemas: {}\n")

	st := source.NewStore(nil, nil)
	rv := resolver.New(st)

	_, err := rv.Resolve(context.Background(), root, "#/components/schemas/Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, resolver.ErrResolve)
}
