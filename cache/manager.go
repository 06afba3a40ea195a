// Package cache provides centralized visibility into the process's caches,
// for the "lint --cache-stats" / "lint --no-cache" CLI surfaces.
//
// There is exactly one truly global cache left in the system: the URL
// parsing cache in internal/utils. The reference resolution cache
// (resolver.Resolver) is deliberately per-run, not global — a long-lived
// process (a server, a watch-mode CLI) must not let resolutions from one
// document bleed into another, so each Linter run owns its own Resolver.
// Manager tracks the resolvers currently in play so "clear all caches" and
// "report cache stats" still have something to report on without reaching
// back into a global that no longer exists.
package cache

import (
	"sync"

	"github.com/speclint/speclint/internal/utils"
	"github.com/speclint/speclint/resolver"
)

// Manager provides centralized cache management for all caches in the
// system, both the process-global URL cache and whichever resolver.Resolver
// instances callers have registered as currently active.
type Manager struct {
	mu        sync.Mutex
	resolvers []*resolver.Resolver
}

// NewManager creates an empty Manager tracking no resolvers.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds res to the set of resolvers this Manager clears/reports on.
// Safe to call with a resolver already registered; it is simply tracked
// again and cleared/counted twice, which is harmless since ClearCache and
// CacheSize are idempotent.
func (m *Manager) Register(res *resolver.Resolver) {
	if res == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers = append(m.resolvers, res)
}

// ClearAllCaches clears the global URL parsing cache and every registered
// resolver's reference cache. Useful for tests and for a CLI --no-cache flag
// to force a completely fresh run.
func (m *Manager) ClearAllCaches() {
	ClearURLCache()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, res := range m.resolvers {
		res.ClearCache()
	}
}

// ClearURLCache clears the global URL parsing cache.
// This cache stores parsed URL objects to avoid repeated parsing of the same URLs.
func ClearURLCache() {
	utils.ClearGlobalURLCache()
}

// CacheStats reports sizes of all caches in the system.
type CacheStats struct {
	URLCacheSize       int64
	ReferenceCacheSize int
}

// Stats returns statistics about the global URL cache and the combined size
// of every registered resolver's reference cache.
func (m *Manager) Stats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var refSize int
	for _, res := range m.resolvers {
		refSize += res.CacheSize()
	}
	return CacheStats{
		URLCacheSize:       utils.GetURLCacheStats().Size,
		ReferenceCacheSize: refSize,
	}
}
