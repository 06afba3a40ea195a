package schema

import "fmt"

// Registry is a version-indexed table of NodeTypes, keyed by name. Lookups
// are lazy so that self-referential NodeTypes (e.g. Schema referring to
// itself via allOf/items) are representable without constructing them eagerly.
type Registry struct {
	version Version
	types   map[string]*NodeType
}

func newRegistry(v Version) *Registry {
	return &Registry{version: v, types: map[string]*NodeType{}}
}

func (r *Registry) register(types ...*NodeType) {
	for _, t := range types {
		r.types[t.Name] = t
	}
}

// Version returns the OAS dialect this registry governs.
func (r *Registry) Version() Version {
	return r.version
}

// Lookup resolves a NodeType by name. ok is false for an unknown name, which
// the walker treats as an engine bug (registries are closed, built at init).
func (r *Registry) Lookup(name string) (*NodeType, bool) {
	t, ok := r.types[name]
	return t, ok
}

// MustLookup is Lookup but panics on an unknown name; used only for names
// the registry itself declares (internal wiring, never user input).
func (r *Registry) MustLookup(name string) *NodeType {
	t, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("schema: unknown node type %q in %s registry", name, r.version))
	}
	return t
}

// TypeNames returns every NodeType name this registry declares, in no
// particular order. Used by rules (e.g. the structural spec rule) that need
// to register a callback against every shape in the registry rather than a
// fixed list of names.
func (r *Registry) TypeNames() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

// RootTypeName is the NodeType name every document in this registry is
// checked against.
func (r *Registry) RootTypeName() string {
	switch r.version {
	case Oas2:
		return "Document2"
	default:
		return "Document3"
	}
}

var registries = map[Version]*Registry{
	Oas2:   buildOas2Registry(),
	Oas3_0: buildOas3Registry(Oas3_0),
	Oas3_1: buildOas3Registry(Oas3_1),
}

// For gets the registry for the given version. The three supported versions
// are always present; For panics on an unrecognised Version, which should
// never reach it past DetectVersion.
func For(v Version) *Registry {
	r, ok := registries[v]
	if !ok {
		panic(fmt.Sprintf("schema: no registry for version %q", v))
	}
	return r
}
