package linter

import (
	"github.com/speclint/speclint/schema"
	"gopkg.in/yaml.v3"
)

// Index maps RFC 6901 pointers within a document to the yaml.Node found
// there, letting rules look up a referenced location (e.g. an operationId
// target, a named schema) without re-walking the tree.
type Index struct {
	NodesByPointer map[string]*yaml.Node
}

// Lookup returns the node at pointer, if the document was indexed at that
// location.
func (i *Index) Lookup(pointer string) (*yaml.Node, bool) {
	if i == nil {
		return nil, false
	}
	n, ok := i.NodesByPointer[pointer]
	return n, ok
}

// Document is a parsed document ready to lint: its root node, the absolute
// URI it was loaded from (used to resolve relative $refs), its detected OAS
// dialect, and an optional precomputed pointer index.
type Document struct {
	// Root is the document's top-level node.
	Root *yaml.Node

	// URI is the absolute location (URL or file path) of the document. Used
	// for resolving relative references.
	URI string

	// Version is the OAS/Swagger dialect that governs the document; it
	// selects the schema.Registry the walker dispatches against.
	Version schema.Version

	// Index contains an index of various nodes from the provided document
	Index *Index
}

// NewDocument creates a new Document with the given root, location, and
// detected version.
func NewDocument(root *yaml.Node, uri string, version schema.Version) *Document {
	return &Document{Root: root, URI: uri, Version: version}
}

// NewDocumentWithIndex creates a new Document with a pre-computed index.
func NewDocumentWithIndex(root *yaml.Node, uri string, version schema.Version, index *Index) *Document {
	return &Document{Root: root, URI: uri, Version: version, Index: index}
}

// LintOptions contains runtime options for linting.
type LintOptions struct {
	// VersionFilter, if set, overrides the version string used to match
	// against each rule's Metadata().Versions; defaults to the Document's
	// own detected Version.
	VersionFilter *string
}
