// Package plugin is the static registry compiled-in plugins register
// themselves into (spec.md §4.G "Plugins"). An OpenAPI ecosystem linter
// typically loads plugins as untrusted modules at runtime; Go has no safe
// in-process loader for arbitrary untrusted code, so plugins here are
// ordinary Go values an init function (or main) registers before any config
// is resolved, mirroring the teacher's registry-based rule lookup rather
// than a dynamic module loader.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/speclint/speclint/linter"
)

var (
	mu      sync.RWMutex
	plugins = map[string]linter.Plugin{}
)

// Register adds p to the global plugin registry under p.ID. Intended to be
// called from an init function in the package that defines the plugin, so
// every plugin a binary links in is available by the time config resolution
// (which names plugins by ID in a config's "plugins" list) runs. Panics on
// a duplicate ID or empty ID, the same way flag/http.DefaultServeMux treat
// a conflicting registration: a dependency wiring mistake, not a runtime
// condition callers should need to check for.
func Register(p linter.Plugin) {
	if p.ID == "" {
		panic("plugin: Register called with empty plugin ID")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := plugins[p.ID]; exists {
		panic(fmt.Sprintf("plugin: %q already registered", p.ID))
	}
	plugins[p.ID] = p
}

// Get looks up a registered plugin by ID.
func Get(id string) (linter.Plugin, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := plugins[id]
	return p, ok
}

// All returns every registered plugin, ordered by ID.
func All() []linter.Plugin {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(plugins))
	for id := range plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]linter.Plugin, 0, len(ids))
	for _, id := range ids {
		out = append(out, plugins[id])
	}
	return out
}

// Resolve looks up a list of plugin IDs named in a config's "plugins" list
// (spec.md §6), returning a fatal linter.ConfigError naming the first one
// not found.
func Resolve(ids []string) ([]linter.Plugin, error) {
	out := make([]linter.Plugin, 0, len(ids))
	for _, id := range ids {
		p, ok := Get(id)
		if !ok {
			return nil, &linter.ConfigError{Msg: fmt.Sprintf("plugin %q is not registered", id)}
		}
		out = append(out, p)
	}
	return out, nil
}

// BindAll registers every resolved plugin's rules into registry, so the
// plugins named in a config's "plugins" list become available to
// Registry.GetRule/AllRules/lookupPredicate under their namespaced IDs.
func BindAll(registry *linter.Registry, plugins []linter.Plugin) error {
	for _, p := range plugins {
		if err := registry.RegisterPlugin(p); err != nil {
			return &linter.ConfigError{Msg: err.Error()}
		}
	}
	return nil
}
