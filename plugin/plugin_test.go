package plugin_test

import (
	"testing"

	"github.com/speclint/speclint/linter"
	"github.com/speclint/speclint/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	p := linter.Plugin{ID: "pkg-test-register-and-get"}
	plugin.Register(p)

	got, ok := plugin.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)
}

func TestGet_Unregistered(t *testing.T) {
	_, ok := plugin.Get("pkg-test-definitely-not-registered")
	assert.False(t, ok)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	p := linter.Plugin{ID: "pkg-test-duplicate"}
	plugin.Register(p)

	assert.Panics(t, func() { plugin.Register(p) })
}

func TestRegister_EmptyIDPanics(t *testing.T) {
	assert.Panics(t, func() { plugin.Register(linter.Plugin{}) })
}

func TestAll_IncludesRegistered(t *testing.T) {
	p := linter.Plugin{ID: "pkg-test-all-includes"}
	plugin.Register(p)

	var found bool
	for _, got := range plugin.All() {
		if got.ID == p.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_MissingPluginIsConfigError(t *testing.T) {
	_, err := plugin.Resolve([]string{"pkg-test-resolve-missing"})
	require.Error(t, err)
	var cfgErr *linter.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestResolve_Found(t *testing.T) {
	p := linter.Plugin{ID: "pkg-test-resolve-found"}
	plugin.Register(p)

	resolved, err := plugin.Resolve([]string{p.ID})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, p.ID, resolved[0].ID)
}

func TestBindAll_PluginWithoutRules(t *testing.T) {
	registry := linter.NewRegistry()
	p := linter.Plugin{ID: "pkg-test-bindall"}

	err := plugin.BindAll(registry, []linter.Plugin{p})
	require.NoError(t, err)
}
