package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/speclint/speclint/jsonpointer"
	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/schema"
	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// RuleNoUnresolvedRefs is the walker-owned rule id used when a $ref cannot
// be resolved; it is not a registrable Rule since resolution failure blocks
// the walker's own traversal decision rather than expressing rule policy
// (spec.md §4.D). It reuses the validation package's built-in rule taxonomy
// so "rules" CLI output and formatters document it like any other rule.
const RuleNoUnresolvedRefs = validation.RuleValidationInvalidReference

// Walker traverses a document tree guided by a schema.Registry, dispatching
// to registered Rules/Preprocessors/Decorators and following $ref
// boundaries through a resolver.Resolver (spec.md §4.E).
type Walker struct {
	Registry      *schema.Registry
	Resolver      *resolver.Resolver
	Rules         []Rule
	Preprocessors []Preprocessor
	Decorators    []Decorator
}

// Result is the outcome of one Walk.
type Result struct {
	Problems []error
}

type dispatchEntry struct {
	rule    Rule
	visitor Visitor
}

// Walk traverses root (the document at sourceURI, already parsed and
// version-detected) and returns the findings reported by every rule that
// fired, sorted per spec.md §4.E ordering.
func (w *Walker) Walk(ctx context.Context, sourceURI string, root *yaml.Node, version schema.Version) (*Result, error) {
	dispatch := w.buildDispatch()

	state := &walkState{
		ctx:      ctx,
		resolver: w.Resolver,
		skipped:  map[string][]string{},
	}

	rootType := w.Registry.MustLookup(w.Registry.RootTypeName())
	nc := &NodeContext{
		Type:       rootType,
		Node:       root,
		SourceURI:  sourceURI,
		Pointer:    "",
		OASVersion: version,
	}

	w.visit(state, dispatch, nc)

	validation.SortValidationErrors(state.problems)
	return &Result{Problems: state.problems}, nil
}

func (w *Walker) buildDispatch() map[string][]dispatchEntry {
	m := map[string][]dispatchEntry{}
	for _, r := range w.Rules {
		for typeName, v := range r.Visitors() {
			m[typeName] = append(m[typeName], dispatchEntry{rule: r, visitor: v})
		}
	}
	return m
}

// walkState is the mutable state shared across one Walk call: accumulated
// problems, per-rule skip markers, and the resolver used for ref crossing.
type walkState struct {
	ctx      context.Context
	resolver *resolver.Resolver

	mu       sync.Mutex
	problems []error
	skipped  map[string][]string // ruleID -> pointers whose subtree it asked to skip
}

func (s *walkState) addProblem(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append(s.problems, err)
}

func (s *walkState) skip(ruleID, pointer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped[ruleID] = append(s.skipped[ruleID], pointer)
}

func (s *walkState) isSkipped(ruleID, pointer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.skipped[ruleID] {
		if pointer == p || strings.HasPrefix(pointer, p+"/") {
			return true
		}
	}
	return false
}

// visit runs the full enter/descend/leave/decorate cycle for one node
// (spec.md §4.E phases 1-5).
func (w *Walker) visit(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	for _, p := range w.Preprocessors {
		if err := p.Process(nc); err != nil {
			state.addProblem(fmt.Errorf("preprocessor %s at %s: %w", p.ID(), nc.Pointer, err))
		}
	}

	entries := dispatch[nc.Type.Name]

	for _, e := range entries {
		if e.visitor.Enter == nil || state.isSkipped(e.rule.ID(), nc.Pointer) {
			continue
		}
		rc := &RuleContext{NodeContext: nc, ruleID: e.rule.ID(), severity: e.rule.DefaultSeverity(), state: state}
		if err := e.visitor.Enter(rc); err != nil {
			state.addProblem(fmt.Errorf("rule %s at %s: %w", e.rule.ID(), nc.Pointer, err))
		}
	}

	w.descend(state, dispatch, nc)

	for _, e := range entries {
		if e.visitor.Leave == nil || state.isSkipped(e.rule.ID(), nc.Pointer) {
			continue
		}
		rc := &RuleContext{NodeContext: nc, ruleID: e.rule.ID(), severity: e.rule.DefaultSeverity(), state: state}
		if err := e.visitor.Leave(rc); err != nil {
			state.addProblem(fmt.Errorf("rule %s at %s: %w", e.rule.ID(), nc.Pointer, err))
		}
	}

	for _, d := range w.Decorators {
		if err := d.Decorate(nc); err != nil {
			state.addProblem(fmt.Errorf("decorator %s at %s: %w", d.ID(), nc.Pointer, err))
		}
	}
}

// descend recurses into nc's children according to nc.Type.Kind.
func (w *Walker) descend(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	switch nc.Type.Kind {
	case schema.KindObject:
		w.descendObject(state, dispatch, nc)
	case schema.KindMapOf:
		w.descendMapOf(state, dispatch, nc)
	case schema.KindArray:
		w.descendArray(state, dispatch, nc)
	case schema.KindUnion:
		w.descendUnion(state, dispatch, nc)
	case schema.KindScalar:
		w.descendScalar(state, dispatch, nc)
	}
}

// descendScalar handles OAS 3.1's `type` keyword, which may hold either a
// single scalar value (the common case, a true leaf) or a sequence of
// primitive names. When the node is a sequence, each element is visited
// under the same NodeType so it gets its own pointer (.../type/1) and the
// scalar's Enter visitor fires once per element.
func (w *Walker) descendScalar(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	if nc.Node == nil || nc.Node.Kind != yaml.SequenceNode {
		return
	}
	for i, elem := range nc.Node.Content {
		w.visitChild(state, dispatch, nc, elem, nil, "", i, nc.Type.Name)
	}
}

func (w *Walker) descendObject(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	for _, pair := range mappingPairs(nc.Node) {
		key := pair.key.Value
		typeName, known := nc.Type.ClassifyField(key)
		if !known {
			continue // unexpected-property reporting is the spec rule's job
		}
		if typeName == "" {
			continue // recognized but untyped (vendor extension / any additional property)
		}
		w.visitChild(state, dispatch, nc, pair.value, pair.key, key, -1, typeName)
	}
}

func (w *Walker) descendMapOf(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	for _, pair := range mappingPairs(nc.Node) {
		w.visitChild(state, dispatch, nc, pair.value, pair.key, pair.key.Value, -1, nc.Type.ElementType)
	}
}

func (w *Walker) descendArray(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	if nc.Node.Kind != yaml.SequenceNode {
		return
	}
	for i, elem := range nc.Node.Content {
		w.visitChild(state, dispatch, nc, elem, nil, "", i, nc.Type.ElementType)
	}
}

func (w *Walker) descendUnion(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext) {
	fields := presentFieldsOf(nc.Node)
	discriminatorValue := ""
	if nc.Type.Discriminator != "" {
		discriminatorValue = scalarField(nc.Node, nc.Type.Discriminator)
	}

	variant, ok := nc.Type.SelectVariant(discriminatorValue, fields)
	if !ok {
		return // "not expected here" reporting is the spec rule's job
	}

	if variant.Type == "Reference" {
		w.followRef(state, dispatch, nc, fields)
		return
	}

	variantType, ok := w.Registry.Lookup(variant.Type)
	if !ok {
		return
	}

	variantNC := *nc
	variantNC.Type = variantType
	w.visit(state, dispatch, &variantNC)
}

// followRef resolves the $ref on a Reference-shaped node and, on success,
// continues the walk into the target typed as the Union's other variant
// (spec.md §4.E "Ref traversal").
func (w *Walker) followRef(state *walkState, dispatch map[string][]dispatchEntry, nc *NodeContext, fields map[string]bool) {
	_ = fields

	refValue := scalarField(nc.Node, "$ref")
	if refValue == "" || state.resolver == nil {
		return
	}

	targetTypeName, ok := siblingNonReferenceVariant(nc.Type)
	if !ok {
		return
	}
	targetType, ok := w.Registry.Lookup(targetTypeName)
	if !ok {
		return
	}

	rr, err := state.resolver.Resolve(state.ctx, nc.SourceURI, refValue)
	if err != nil {
		state.addProblem(validation.NewValueError(validation.SeverityError, RuleNoUnresolvedRefs,
			fmt.Sprintf("could not resolve reference %q: %v", refValue, err), nc.Node))
		return
	}
	if rr.Circular != nil {
		return
	}

	from := nc.LocationStep()
	childNC := &NodeContext{
		Type:       targetType,
		Node:       rr.Node,
		SourceURI:  rr.Source.URI,
		Pointer:    rr.Pointer,
		Location:   append([]validation.LocationStep{nc.LocationStep()}, nc.Location...),
		OASVersion: nc.OASVersion,
		From:       &from,
	}
	w.visit(state, dispatch, childNC)
}

// siblingNonReferenceVariant returns the single non-"Reference" variant type
// name of a Union, the pattern every ref-capable position in the schema
// registries uses (a two-way union of {Reference, ConcreteType}).
func siblingNonReferenceVariant(union *schema.NodeType) (string, bool) {
	var found string
	count := 0
	for _, v := range union.Variants {
		if v.Type != "Reference" {
			found = v.Type
			count++
		}
	}
	if count != 1 {
		return "", false
	}
	return found, true
}

func (w *Walker) visitChild(state *walkState, dispatch map[string][]dispatchEntry, parent *NodeContext, node, keyNode *yaml.Node, key string, index int, typeName string) {
	childType, ok := w.Registry.Lookup(typeName)
	if !ok {
		return
	}

	pointer := childPointer(parent.Pointer, key, index)

	childNC := &NodeContext{
		Type:       childType,
		Node:       node,
		KeyNode:    keyNode,
		Parent:     parent.Node,
		Key:        key,
		Index:      index,
		SourceURI:  parent.SourceURI,
		Pointer:    pointer,
		Location:   append([]validation.LocationStep{parent.LocationStep()}, parent.Location...),
		OASVersion: parent.OASVersion,
		From:       parent.From,
	}

	w.visit(state, dispatch, childNC)
}

func childPointer(parentPointer, key string, index int) string {
	if index >= 0 {
		return parentPointer + "/" + strconv.Itoa(index)
	}
	return parentPointer + "/" + jsonpointer.EscapeString(key)
}

type kv struct {
	key   *yaml.Node
	value *yaml.Node
}

// mappingPairs returns a mapping node's (key, value) pairs in document
// order; nil/non-mapping nodes yield no pairs.
func mappingPairs(node *yaml.Node) []kv {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([]kv, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, kv{key: node.Content[i], value: node.Content[i+1]})
	}
	return pairs
}

func presentFieldsOf(node *yaml.Node) map[string]bool {
	pairs := mappingPairs(node)
	fields := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		fields[p.key.Value] = true
	}
	return fields
}

func scalarField(node *yaml.Node, key string) string {
	for _, p := range mappingPairs(node) {
		if p.key.Value == key {
			return p.value.Value
		}
	}
	return ""
}
