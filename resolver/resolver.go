// Package resolver implements the reference resolver (component D): it
// fetches and caches external $ref targets, walks JSON pointers against the
// resulting node trees, and detects reference cycles. It sits directly on
// top of package source for fetching/caching raw documents and package
// jsonpointer for pointer navigation, generalizing the teacher's generic
// Resolve[T] (references/resolution.go) from a typed-document result to a
// plain *yaml.Node result, since the engine's document model is yaml.Node
// throughout.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	speclinterrors "github.com/speclint/speclint/errors"
	"github.com/speclint/speclint/internal/utils"
	"github.com/speclint/speclint/jsonpointer"
	"github.com/speclint/speclint/references"
	"github.com/speclint/speclint/source"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

const (
	// ErrResolve is returned, wrapped with detail, for any reference that
	// cannot be resolved: a malformed ref string, an unreachable source, or
	// a pointer that does not exist in its target.
	ErrResolve = speclinterrors.Error("reference resolution error")

	// DefaultFetchTimeout bounds a single source fetch, per spec.md §5.
	DefaultFetchTimeout = 60 * time.Second
)

// CircularRef is the sentinel the walker receives in place of a resolved
// node when following a $ref would revisit a (uri, pointer) pair already on
// the resolution stack. It is not an error in the Go sense (resolution
// "succeeds" with this marker); rules that care about cycles inspect it.
type CircularRef struct {
	URI     string
	Pointer string
	// Chain is the sequence of ref strings followed from the walk's entry
	// point to the point the cycle was detected, for diagnostics.
	Chain []string
}

func (c *CircularRef) Error() string {
	return fmt.Sprintf("circular reference back to %s#%s", c.URI, c.Pointer)
}

// ResolvedRef is the result of resolving a single $ref site: the source it
// landed in, the pointer within that source, the node found there, and the
// chain of ref strings followed to reach it (spec.md §3 ResolvedRef).
type ResolvedRef struct {
	Source      *source.Source
	Pointer     string
	Node        *yaml.Node
	ResolvedVia []string
	// Circular is set instead of Node when resolution detected a cycle.
	Circular *CircularRef
}

// Resolver resolves $ref strings encountered while walking documents opened
// through the same source.Store, caching resolutions by the absolute
// (uri, pointer) pair they normalize to and de-duplicating concurrent
// resolutions of the same pair within a run (spec.md §5 "at-most-one fetch
// per URI per run").
type Resolver struct {
	store *source.Store

	mu    sync.Mutex
	cache map[string]*ResolvedRef

	group singleflight.Group

	// Backoff builds the retry policy used for each fetch; overridable in
	// tests. Defaults to an exponential backoff capped by DefaultFetchTimeout.
	Backoff func() backoff.BackOff
}

// New creates a Resolver backed by store. A nil store is invalid; callers
// construct their own source.Store to control its VirtualFS/HTTP client.
func New(store *source.Store) *Resolver {
	return &Resolver{
		store: store,
		cache: map[string]*ResolvedRef{},
		Backoff: func() backoff.BackOff {
			return backoff.WithMaxElapsedTime(backoff.NewExponentialBackOff(), DefaultFetchTimeout)
		},
	}
}

// Resolve resolves ref (an RFC 3986 URI with an optional "#/json/pointer"
// fragment) relative to fromURI, per spec.md §4.D. fromURI is the absolute
// URI of the document the $ref site appears in.
func (r *Resolver) Resolve(ctx context.Context, fromURI string, ref string) (*ResolvedRef, error) {
	reference := references.Reference(ref)
	if err := reference.Validate(); err != nil {
		return nil, ErrResolve.Wrap(fmt.Errorf("%s: %w", ref, err))
	}

	absURI, err := r.absoluteURI(fromURI, reference.GetURI())
	if err != nil {
		return nil, ErrResolve.Wrap(err)
	}

	pointer := string(reference.GetJSONPointer())

	return r.resolveChain(ctx, map[string]bool{}, nil, absURI, pointer)
}

// absoluteURI normalizes a reference's own URI part against the document it
// was found in. An empty uri part means "the same document as fromURI".
func (r *Resolver) absoluteURI(fromURI, uri string) (string, error) {
	if uri == "" {
		return fromURI, nil
	}
	if utils.IsURL(uri) {
		return uri, nil
	}
	return utils.JoinReference(fromURI, uri)
}

func cacheKey(uri, pointer string) string {
	return uri + "#" + pointer
}

// resolveChain performs one step of resolution, following through nested
// $ref targets until it lands on a non-ref node, a resolve failure, or a
// cycle. visited holds every (uri,pointer) pair seen so far on this
// resolution's chain (not shared across unrelated Resolve calls); chain
// accumulates the ref strings followed for diagnostics.
func (r *Resolver) resolveChain(ctx context.Context, visited map[string]bool, chain []string, uri, pointer string) (*ResolvedRef, error) {
	key := cacheKey(uri, pointer)

	if visited[key] {
		return &ResolvedRef{
			Pointer:     pointer,
			ResolvedVia: chain,
			Circular:    &CircularRef{URI: uri, Pointer: pointer, Chain: chain},
		}, nil
	}
	visited[key] = true

	if cached := r.cached(key); cached != nil {
		return cached, nil
	}

	resultAny, err, _ := r.group.Do(key, func() (any, error) {
		return r.resolveUncached(ctx, uri, pointer)
	})
	if err != nil {
		return nil, err
	}
	resolved := resultAny.(*ResolvedRef)

	r.store1(key, resolved)

	// If the target node is itself a $ref object, chase it transparently.
	// Any other keys beside $ref on that mapping are not checked.
	if target := resolved.Node; target != nil {
		if nestedRef, ok := refString(target); ok {
			nestedAbs, joinErr := r.absoluteURI(uri, references.Reference(nestedRef).GetURI())
			if joinErr != nil {
				return nil, ErrResolve.Wrap(joinErr)
			}
			nestedPointer := string(references.Reference(nestedRef).GetJSONPointer())
			return r.resolveChain(ctx, visited, append(chain, nestedRef), nestedAbs, nestedPointer)
		}
	}

	return &ResolvedRef{
		Source:      resolved.Source,
		Pointer:     pointer,
		Node:        resolved.Node,
		ResolvedVia: chain,
	}, nil
}

func (r *Resolver) cached(key string) *ResolvedRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[key]
}

// CacheSize reports the number of resolved (uri, pointer) pairs currently
// cached. Exposed for cache.Manager's global cache statistics.
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// ClearCache drops every cached resolution, forcing the next Resolve call
// for each (uri, pointer) pair to fetch again. Exposed for cache.Manager's
// global cache reset, primarily useful between test runs.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = map[string]*ResolvedRef{}
}

func (r *Resolver) store1(key string, rr *ResolvedRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = rr
}

func (r *Resolver) resolveUncached(ctx context.Context, uri, pointer string) (*ResolvedRef, error) {
	var src *source.Source
	err := backoff.Retry(func() error {
		var openErr error
		src, openErr = r.store.Open(ctx, uri)
		return openErr
	}, backoff.WithContext(r.Backoff(), ctx))
	if err != nil {
		return nil, ErrResolve.Wrap(fmt.Errorf("%s: %w", uri, err))
	}

	if pointer == "" {
		return &ResolvedRef{Source: src, Pointer: pointer, Node: documentRoot(src.Root)}, nil
	}

	target, err := jsonpointer.GetTarget(src.Root, jsonpointer.JSONPointer(pointer))
	if err != nil {
		return nil, ErrResolve.Wrap(fmt.Errorf("%s#%s: %w", uri, pointer, err))
	}

	node, ok := target.(*yaml.Node)
	if !ok {
		return nil, ErrResolve.Wrap(fmt.Errorf("%s#%s: expected a node, got %T", uri, pointer, target))
	}

	return &ResolvedRef{Source: src, Pointer: pointer, Node: node}, nil
}

// documentRoot unwraps a yaml.v3 DocumentNode to the actual root value, so
// callers always receive the same kind of node GetTarget would have handed
// back for a non-empty pointer.
func documentRoot(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

// refString reports whether node is a $ref object and, if so, returns its
// $ref value.
func refString(node *yaml.Node) (string, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if key.Value == "$ref" && strings.TrimSpace(key.Value) != "" {
			return node.Content[i+1].Value, true
		}
	}
	return "", false
}
