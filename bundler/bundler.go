// Package bundler implements the bundler/dereferencer (component I): it
// rewrites a parsed document's $ref graph for emission, using the same
// resolver.Resolver cache every lint walk uses so bundling a document the
// walker has already visited costs no extra fetches. It follows the
// teacher's yaml.Node-native tree-rewriting style from package overlay
// (clone/splice in place) rather than re-marshaling through an intermediate
// typed model.
package bundler

import (
	"context"
	"fmt"
	"sort"

	speclinterrors "github.com/speclint/speclint/errors"
	"github.com/speclint/speclint/hashing"
	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/schema"
	"gopkg.in/yaml.v3"
)

// ErrCircularJSON is fatal only when the caller asked for a fully
// dereferenced document (spec.md §7): a bundle leaves circular refs as
// local $refs, but a dereference has nowhere to stop inlining.
const ErrCircularJSON = speclinterrors.Error("CircularJSONNotSupportedError")

// sectionPath maps a component/definition bucket name to the
// top-level key it lives under for a given OAS dialect, since OAS 2 calls
// its reusable-schema bucket "definitions" at the document root while OAS 3
// nests every bucket under "components".
func sectionPath(v schema.Version, section string) []string {
	if v == schema.Oas2 {
		switch section {
		case "schemas":
			return []string{"definitions"}
		case "parameters":
			return []string{"parameters"}
		case "responses":
			return []string{"responses"}
		case "securitySchemes":
			return []string{"securityDefinitions"}
		default:
			return []string{"definitions"}
		}
	}
	return []string{"components", section}
}

// Bundle inlines every non-circular external $ref reachable from root into
// a renamed slot under the document's reusable-component bucket, leaving
// internal refs and circular external refs untouched apart from the
// rename. root is not mutated; Bundle returns a new tree.
//
// Warnings collects non-fatal issues (an external ref that could not be
// resolved becomes a warning, not a failure, mirroring how the walker
// reports RuleNoUnresolvedRefs as a problem rather than aborting the run).
func Bundle(ctx context.Context, res *resolver.Resolver, rootURI string, root *yaml.Node, version schema.Version) (*yaml.Node, []string, error) {
	b := &bundleOp{
		res:        res,
		rootURI:    rootURI,
		version:    version,
		resultRoot: clone(root),
		named:      map[string]string{}, // cacheKey -> local name assigned (also the cycle guard)
		used:       map[string]bool{},   // section/name -> taken
	}
	if err := b.rewrite(ctx, b.resultRoot, rootURI); err != nil {
		return nil, b.warnings, err
	}
	return b.resultRoot, b.warnings, nil
}

type bundleOp struct {
	res        *resolver.Resolver
	rootURI    string
	version    schema.Version
	resultRoot *yaml.Node
	named      map[string]string
	used       map[string]bool
	warnings   []string
}

// rewrite walks node in place, replacing every external $ref it finds with
// a local one into the bundle's component section. named doubles as the
// cycle guard: a ref's local name is recorded in b.named before rewrite
// descends into its target, so a ref chain that loops back to the same
// (uri,pointer) finds it already named on the way back down and simply
// points at it rather than recursing forever — exactly the "leave circular
// refs as $ref into the bundled components section" behaviour spec.md §4.I
// asks for, with no separate in-flight bookkeeping needed.
func (b *bundleOp) rewrite(ctx context.Context, node *yaml.Node, sourceURI string) error {
	if node == nil {
		return nil
	}

	if refValue, ok := refString(node); ok {
		rr, err := b.res.Resolve(ctx, sourceURI, refValue)
		if err != nil {
			b.warnings = append(b.warnings, fmt.Sprintf("could not resolve %q: %v", refValue, err))
			return nil
		}
		if rr.Circular != nil {
			setRef(node, fmt.Sprintf("#%s", rr.Circular.Pointer))
			return nil
		}
		if rr.Source.URI == b.rootURI {
			// Internal ref: left exactly as authored.
			return nil
		}

		key := rr.Source.URI + "#" + rr.Pointer
		localRef, already := b.named[key]
		if !already {
			section, name := componentName(rr.Pointer, rr.Source.URI)
			localName := b.reserveName(section, name, rr.Node)
			localRef = fmt.Sprintf("#/%s", jsonPath(append(sectionPath(b.version, section), localName)))
			b.named[key] = localRef

			inlined := clone(rr.Node)
			b.splice(section, localName, inlined)
			if err := b.rewrite(ctx, inlined, rr.Source.URI); err != nil {
				return err
			}
		}
		setRef(node, localRef)
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode, yaml.DocumentNode:
		for _, child := range node.Content {
			if err := b.rewrite(ctx, child, sourceURI); err != nil {
				return err
			}
		}
	}
	return nil
}

// reserveName picks a name for a bundled component, appending a
// content-hash suffix on collision with a different payload already
// occupying that name (spec.md §4.I "renaming on collision with a
// deterministic suffix scheme").
func (b *bundleOp) reserveName(section, name string, content *yaml.Node) string {
	candidate := name
	if b.used[section+"/"+candidate] {
		candidate = fmt.Sprintf("%s_%s", name, hashing.Hash(content)[:8])
	}
	b.used[section+"/"+candidate] = true
	return candidate
}

func (b *bundleOp) splice(section, name string, content *yaml.Node) {
	path := sectionPath(b.version, section)
	parent := ensurePath(b.resultRoot, path)
	setMapField(parent, name, content)
}

// Dereference inlines every $ref reachable from root, internal and
// external alike, at its use site. A ref cycle has no finite inlining and
// is rejected with ErrCircularJSON, matching the original ecosystem's
// dereference behaviour for JSON output (spec.md §4.I, §7).
func Dereference(ctx context.Context, res *resolver.Resolver, rootURI string, root *yaml.Node) (*yaml.Node, error) {
	d := &dereferenceOp{res: res, rootURI: rootURI}
	out := clone(root)
	if err := d.rewrite(ctx, out, rootURI, map[string]bool{}); err != nil {
		return nil, err
	}
	return out, nil
}

type dereferenceOp struct {
	res     *resolver.Resolver
	rootURI string
}

func (d *dereferenceOp) rewrite(ctx context.Context, node *yaml.Node, sourceURI string, visiting map[string]bool) error {
	if node == nil {
		return nil
	}

	if refValue, ok := refString(node); ok {
		rr, err := d.res.Resolve(ctx, sourceURI, refValue)
		if err != nil {
			return fmt.Errorf("dereference: %w", err)
		}
		if rr.Circular != nil {
			return fmt.Errorf("%w: %s", ErrCircularJSON, rr.Circular.Error())
		}

		key := rr.Source.URI + "#" + rr.Pointer
		if visiting[key] {
			return fmt.Errorf("%w: %s#%s", ErrCircularJSON, rr.Source.URI, rr.Pointer)
		}
		visiting[key] = true
		inlined := clone(rr.Node)
		if err := d.rewrite(ctx, inlined, rr.Source.URI, visiting); err != nil {
			return err
		}
		delete(visiting, key)

		*node = *inlined
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode, yaml.DocumentNode:
		for _, child := range node.Content {
			if err := d.rewrite(ctx, child, sourceURI, visiting); err != nil {
				return err
			}
		}
	}
	return nil
}

// Normalize reorders root's top-level mapping keys into the canonical order
// spec.md §6 names for version, leaving every other part of the tree (key
// order within nested mappings, array order, scalar values) untouched, so
// parse -> normalize -> emit -> parse is a semantic identity (spec.md §8
// property 4).
func Normalize(root *yaml.Node, version schema.Version) *yaml.Node {
	out := clone(root)
	target := out
	if target.Kind == yaml.DocumentNode && len(target.Content) > 0 {
		target = target.Content[0]
	}
	if target.Kind != yaml.MappingNode {
		return out
	}

	canonical := schema.CanonicalTopLevelKeys(version)
	rank := make(map[string]int, len(canonical))
	for i, k := range canonical {
		rank[k] = i
	}

	type pair struct {
		key, value *yaml.Node
		order      int
	}
	pairs := make([]pair, 0, len(target.Content)/2)
	for i := 0; i+1 < len(target.Content); i += 2 {
		key := target.Content[i]
		order, known := rank[key.Value]
		if !known {
			order = len(canonical)
		}
		pairs = append(pairs, pair{key: key, value: target.Content[i+1], order: order})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].order < pairs[j].order
	})

	content := make([]*yaml.Node, 0, len(target.Content))
	for _, p := range pairs {
		content = append(content, p.key, p.value)
	}
	target.Content = content
	return out
}

// refString reports whether node is a $ref object (a mapping whose only
// semantically meaningful key, besides $ref, is summary/description, per
// spec.md §4.E) and, if so, its $ref value.
func refString(node *yaml.Node) (string, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "$ref" {
			return node.Content[i+1].Value, true
		}
	}
	return "", false
}

func setRef(node *yaml.Node, ref string) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "$ref" {
			node.Content[i+1].Value = ref
			node.Content[i+1].Tag = "!!str"
			return
		}
	}
}

// componentName derives a bundled component's (section, name) pair from
// the pointer it was found at in its source document (the common case,
// "#/components/schemas/Foo" or "#/definitions/Foo", yields section
// "schemas"/"definitions" and name "Foo") or, when the ref points at a
// whole document with no pointer, from the source URI's basename.
func componentName(pointer, sourceURI string) (section, name string) {
	segments := splitPointer(pointer)
	if len(segments) >= 2 {
		return segments[len(segments)-2], segments[len(segments)-1]
	}
	if len(segments) == 1 {
		return "schemas", segments[0]
	}
	return "schemas", baseName(sourceURI)
}

func splitPointer(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	var parts []string
	start := 0
	p := pointer
	if p[0] == '/' {
		p = p[1:]
	}
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			parts = append(parts, unescapePointerSegment(p[start:i]))
			start = i + 1
		}
	}
	return parts
}

func unescapePointerSegment(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '~' && i+1 < len(s) {
			switch s[i+1] {
			case '1':
				out = append(out, '/')
				i++
				continue
			case '0':
				out = append(out, '~')
				i++
				continue
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

func baseName(uri string) string {
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' {
			return uri[i+1:]
		}
	}
	return uri
}

func jsonPath(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// ensurePath returns the mapping node at path under root, creating any
// missing intermediate mappings (and the document's own top-level mapping,
// if root is a bare DocumentNode) along the way.
func ensurePath(root *yaml.Node, path []string) *yaml.Node {
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			node.Content = []*yaml.Node{newMapping()}
		}
		node = node.Content[0]
	}
	for _, key := range path {
		node = ensureMapField(node, key)
	}
	return node
}

func ensureMapField(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	child := newMapping()
	node.Content = append(node.Content, newScalar(key), child)
	return child
}

func setMapField(node *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			node.Content[i+1] = value
			return
		}
	}
	node.Content = append(node.Content, newScalar(key), value)
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// clone deep-copies node, the same field set package overlay's own clone
// helper copies, so a bundled/dereferenced/normalized tree never aliases
// the source document's nodes.
func clone(node *yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}
	out := &yaml.Node{
		Kind:        node.Kind,
		Style:       node.Style,
		Tag:         node.Tag,
		Value:       node.Value,
		Anchor:      node.Anchor,
		HeadComment: node.HeadComment,
		LineComment: node.LineComment,
		FootComment: node.FootComment,
	}
	if node.Alias != nil {
		out.Alias = clone(node.Alias)
	}
	if node.Content != nil {
		out.Content = make([]*yaml.Node, len(node.Content))
		for i, child := range node.Content {
			out.Content[i] = clone(child)
		}
	}
	return out
}
