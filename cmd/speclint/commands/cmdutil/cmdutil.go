// Package cmdutil provides shared CLI utilities for every speclint command
// group: document loading (source.Store + resolver.Resolver + version
// detection) and the stderr-and-exit helpers every RunE ultimately funnels
// errors through.
package cmdutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/source"
	"gopkg.in/yaml.v3"
)

// Die prints an error to stderr and exits with code 1.
func Die(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Loaded is one root document opened and version-detected, ready to hand to
// the walker/linter/bundler.
type Loaded struct {
	URI     string
	Root    *yaml.Node // the mapping node, unwrapped from its DocumentNode
	Version schema.Version
}

// Load opens path through store, detects its OAS/Swagger dialect from the
// root mapping's openapi/swagger field, and returns it ready to walk. When
// one store is shared across every root loaded in one CLI invocation, a
// source opened for one root is reused rather than re-read for the next.
func Load(ctx context.Context, store *source.Store, path string) (*Loaded, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %q: %w", path, err)
	}

	src, err := store.Open(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	root := src.Root
	if root.Kind == yaml.DocumentNode {
		root = root.Content[0]
	}

	version, ok := schema.DetectVersion(scalarField(root, "openapi"), scalarField(root, "swagger"))
	if !ok {
		return nil, fmt.Errorf("%s: unrecognized or missing openapi/swagger version field", path)
	}

	return &Loaded{URI: src.URI, Root: root, Version: version}, nil
}

// NewResolver builds a Resolver backed by store, for callers that need one
// directly (bundling, dereferencing) rather than through a Linter.
func NewResolver(store *source.Store) *resolver.Resolver {
	return resolver.New(store)
}

func scalarField(node *yaml.Node, key string) string {
	if node == nil || node.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			if node.Content[i+1].Kind == yaml.ScalarNode {
				return node.Content[i+1].Value
			}
			return ""
		}
	}
	return ""
}
