package linter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/speclint/speclint/internal/utils"
	"github.com/speclint/speclint/source"
	"gopkg.in/yaml.v3"
)

// ConfigError marks a fatal failure resolving a config cascade: a malformed
// fetched config, a missing plugin, an unknown assertion predicate, or an
// extends cycle (spec.md §4.G, §7 "ConfigError").
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// presetNames are the built-in rulesets extends entries may name directly,
// as opposed to a path or URL to another config document.
var presetNames = map[string]bool{
	"minimal":            true,
	"recommended":        true,
	"recommended-strict": true,
	"all":                true,
}

// APIConfig is one entry of a RootConfig's apis mapping: the API's own root
// document and an optional styleguide overriding the root config's.
type APIConfig struct {
	Root       string  `yaml:"root" json:"root"`
	Styleguide *Config `yaml:"styleguide,omitempty" json:"styleguide,omitempty"`
}

// RootConfig is the raw shape of a top-level lint config file: either a flat
// styleguide (extends/rules/categories/assertions at the top level) or one
// nested under a "styleguide" key, plus apis, plugins, and the theme/org/
// region fields every api may default to (spec.md §6 "Configuration file").
type RootConfig struct {
	Config

	Apis         map[string]APIConfig `yaml:"apis,omitempty" json:"apis,omitempty"`
	Plugins      []string             `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	Theme        string               `yaml:"theme,omitempty" json:"theme,omitempty"`
	Organization string               `yaml:"organization,omitempty" json:"organization,omitempty"`
	Region       string               `yaml:"region,omitempty" json:"region,omitempty"`
}

// UnmarshalYAML decodes both shapes of a root config: flat top-level
// rules/extends fields, and/or a nested "styleguide" object, merging the two
// with the nested styleguide taking precedence over the flat fields (the
// same "innermost wins" precedence the extends cascade applies everywhere
// else).
func (rc *RootConfig) UnmarshalYAML(value *yaml.Node) error {
	var rootFields struct {
		Apis         map[string]APIConfig `yaml:"apis,omitempty"`
		Styleguide   *Config              `yaml:"styleguide,omitempty"`
		Plugins      []string             `yaml:"plugins,omitempty"`
		Theme        string               `yaml:"theme,omitempty"`
		Organization string               `yaml:"organization,omitempty"`
		Region       string               `yaml:"region,omitempty"`
	}
	if err := value.Decode(&rootFields); err != nil {
		return err
	}

	var flat Config
	if err := value.Decode(&flat); err != nil {
		return err
	}

	if rootFields.Styleguide != nil {
		merged, err := mergeConfigs(flat, *rootFields.Styleguide)
		if err != nil {
			return err
		}
		merged.Extends = append(append([]string{}, flat.Extends...), rootFields.Styleguide.Extends...)
		flat = *merged
	}

	rc.Config = flat
	rc.Apis = rootFields.Apis
	rc.Plugins = rootFields.Plugins
	rc.Theme = rootFields.Theme
	rc.Organization = rootFields.Organization
	rc.Region = rootFields.Region
	return nil
}

// Resolved is one API's fully-folded configuration: its effective Config,
// ready to bind to a Registry via NewLinter, plus the diagnostics spec.md
// §4.G's "output shape" calls for.
type Resolved struct {
	Config              *Config
	ExtendPaths         []string // absolute URIs of every non-preset extends visited, in order, de-duplicated
	PluginPaths         []string // plugin ids referenced, in order, de-duplicated
	RecommendedFallback bool
}

// ConfigResolver resolves a RootConfig's extends cascade (presets, local
// paths, and HTTP(S) URLs) into one effective Config per API alias,
// memoising fetched configs by their absolute URI and rejecting extends
// cycles outright (spec.md §4.G).
type ConfigResolver struct {
	store *source.Store
}

// NewConfigResolver creates a resolver backed by store, so fetched extends
// documents share the run's Source cache instead of re-fetching.
func NewConfigResolver(store *source.Store) *ConfigResolver {
	return &ConfigResolver{store: store}
}

// ResolveRoot folds root's own extends chain, returning the root's resolved
// styleguide. rootURI is root's absolute location, used to resolve relative
// extends paths and to seed cycle detection.
func (r *ConfigResolver) ResolveRoot(ctx context.Context, root *RootConfig, rootURI string) (*Resolved, error) {
	resolved, err := r.resolve(ctx, &root.Config, rootURI, nil)
	if err != nil {
		return nil, err
	}
	resolved.PluginPaths = dedupAppend(resolved.PluginPaths, root.Plugins...)
	if err := r.loadCustomRules(ctx, resolved.Config, rootURI); err != nil {
		return nil, err
	}
	// Materialized into Assertions above; clearing it stops ResolveAPI's
	// merge from loading the same paths a second time on the API's behalf.
	resolved.Config.CustomRules = nil
	return resolved, nil
}

// ResolveAPI folds the named API's effective styleguide: the API's own
// styleguide (if any) layered over the root's resolved config, per spec.md
// §4.G "Per-API apis[name].styleguide overrides the root."
func (r *ConfigResolver) ResolveAPI(ctx context.Context, root *RootConfig, rootURI, apiAlias string) (*Resolved, error) {
	api, ok := root.Apis[apiAlias]
	if !ok {
		return nil, configErrorf("unknown api %q", apiAlias)
	}

	rootResolved, err := r.ResolveRoot(ctx, root, rootURI)
	if err != nil {
		return nil, err
	}
	if api.Styleguide == nil {
		return rootResolved, nil
	}

	apiResolved, err := r.resolve(ctx, api.Styleguide, rootURI, nil)
	if err != nil {
		return nil, err
	}

	merged, err := mergeConfigs(*rootResolved.Config, *apiResolved.Config)
	if err != nil {
		return nil, err
	}
	merged.Extends = apiResolved.Config.Extends
	if len(merged.Extends) == 0 {
		merged.Extends = rootResolved.Config.Extends
	}

	if err := r.loadCustomRules(ctx, merged, rootURI); err != nil {
		return nil, err
	}
	merged.CustomRules = nil

	return &Resolved{
		Config:              merged,
		ExtendPaths:          dedupAppend(rootResolved.ExtendPaths, apiResolved.ExtendPaths...),
		PluginPaths:          dedupAppend(rootResolved.PluginPaths, root.Plugins...),
		RecommendedFallback: rootResolved.RecommendedFallback && apiResolved.RecommendedFallback,
	}, nil
}

// customRulesFile is the shape a custom_rules path resolves to on disk: a
// document built the same way an inline "assertions:" config block is,
// kept as its own type so loadCustomRules can decode just that one field
// without pulling in the rest of Config (extends/rules there would be
// confusing to support from a custom rule file and aren't honored).
type customRulesFile struct {
	Assertions []AssertionEntry `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// loadCustomRules resolves cfg.CustomRules.Paths (local glob patterns, plain
// paths, or URLs, per spec.md §4.G "custom_rules.paths") against baseURI,
// loads each as a customRulesFile, and appends its assertions onto cfg's own
// so they flow into compileAssertions alongside every other declarative
// rule already configured (linter/assertions.go), rather than needing a
// second rule-compilation path.
func (r *ConfigResolver) loadCustomRules(ctx context.Context, cfg *Config, baseURI string) error {
	if cfg.CustomRules == nil {
		return nil
	}

	for _, pattern := range cfg.CustomRules.Paths {
		uris, err := r.expandCustomRulePath(baseURI, pattern)
		if err != nil {
			return configErrorf("custom_rules %q: %v", pattern, err)
		}
		for _, uri := range uris {
			src, err := r.store.Open(ctx, uri)
			if err != nil {
				return configErrorf("custom_rules %q: %v", pattern, err)
			}
			var file customRulesFile
			if err := src.Root.Decode(&file); err != nil {
				return configErrorf("custom_rules %q: invalid rule file %s: %v", pattern, uri, err)
			}
			cfg.Assertions = mergeAssertionEntries(cfg.Assertions, file.Assertions)
		}
	}
	return nil
}

// expandCustomRulePath resolves one custom_rules path entry to one or more
// absolute URIs. A pattern containing a glob meta-character is expanded
// against the local filesystem (custom rule files are authored alongside a
// project's config, never fetched remotely as a glob); anything else is
// resolved the same way an extends entry is, so a bare path or an http(s)
// URL both work.
func (r *ConfigResolver) expandCustomRulePath(baseURI, pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		absURI, err := resolveExtendsURI(baseURI, pattern)
		if err != nil {
			return nil, err
		}
		return []string{absURI}, nil
	}

	dir := filepath.Dir(baseURI)
	if utils.IsURL(baseURI) {
		return nil, fmt.Errorf("glob pattern %q cannot be resolved against remote config %s", pattern, baseURI)
	}
	abs := filepath.Join(dir, pattern)
	matches, err := filepath.Glob(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	return matches, nil
}

func (r *ConfigResolver) resolve(ctx context.Context, cfg *Config, configURI string, visiting map[string]bool) (*Resolved, error) {
	if visiting == nil {
		visiting = map[string]bool{}
	}

	// The cascade is a pure fold: work against a local copy so a node's own
	// config (which may be shared by the caller, e.g. root.Config) is never
	// mutated by fallback synthesis.
	local := *cfg
	applyFallback(&local)

	folded := &Config{Categories: map[string]CategoryConfig{}}
	var presets []string
	var extendPaths []string

	for _, ext := range local.Extends {
		if presetNames[ext] {
			presets = append(presets, ext)
			continue
		}

		absURI, err := resolveExtendsURI(configURI, ext)
		if err != nil {
			return nil, configErrorf("extends %q: %v", ext, err)
		}
		if visiting[absURI] {
			return nil, configErrorf("extends cycle detected at %s", absURI)
		}

		src, err := r.store.Open(ctx, absURI)
		if err != nil {
			return nil, configErrorf("extends %q: %v", ext, err)
		}
		var child Config
		if err := src.Root.Decode(&child); err != nil {
			return nil, configErrorf("extends %q: invalid config: %v", ext, err)
		}

		visiting[absURI] = true
		childResolved, err := r.resolve(ctx, &child, absURI, visiting)
		delete(visiting, absURI)
		if err != nil {
			return nil, err
		}

		presets = append(presets, childResolved.Config.Extends...)
		extendPaths = dedupAppend(extendPaths, absURI)
		extendPaths = dedupAppend(extendPaths, childResolved.ExtendPaths...)

		childCopy := *childResolved.Config
		childCopy.Extends = nil
		merged, err := mergeConfigs(*folded, childCopy)
		if err != nil {
			return nil, err
		}
		folded = merged
	}

	ownCopy := local
	ownCopy.Extends = nil
	merged, err := mergeConfigs(*folded, ownCopy)
	if err != nil {
		return nil, err
	}
	merged.Extends = dedupStrings(presets)

	return &Resolved{
		Config:              merged,
		ExtendPaths:          extendPaths,
		RecommendedFallback: local.recommendedFallback,
	}, nil
}

// applyFallback implements spec.md §4.G's "Preset fallback": when a config
// neither extends any preset nor defines any rule of its own, it implicitly
// extends "recommended" rather than linting with no rules enabled at all.
func applyFallback(cfg *Config) {
	if len(cfg.Rules) > 0 || len(cfg.Assertions) > 0 {
		return
	}
	for _, ext := range cfg.Extends {
		if presetNames[ext] {
			return
		}
	}
	cfg.Extends = append(cfg.Extends, "recommended")
	cfg.recommendedFallback = true
}

func resolveExtendsURI(fromURI, ref string) (string, error) {
	if utils.IsURL(ref) {
		return ref, nil
	}
	return utils.JoinReference(fromURI, ref)
}

func dedupStrings(in []string) []string {
	return dedupAppend(nil, in...)
}

func dedupAppend(base []string, in ...string) []string {
	seen := make(map[string]bool, len(base))
	out := make([]string, 0, len(base)+len(in))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// mergeConfigs combines base and override into a single Config, with
// override's entries taking precedence (spec.md §4.G "later entries
// override earlier"). Rules and Assertions merge by ID so a later config
// can override one rule's severity without dropping every other rule an
// earlier config configured; Categories merges per-category via mergo,
// since CategoryConfig's own fields (Enabled/Severity) should independently
// override rather than replace the whole struct. Extends is left for
// callers to manage explicitly (it carries preset names and consumed
// paths/URLs, which have no meaning once resolution has progressed past
// them).
func mergeConfigs(base, override Config) (*Config, error) {
	merged := base
	merged.Rules = mergeRuleEntries(base.Rules, override.Rules)
	merged.Assertions = mergeAssertionEntries(base.Assertions, override.Assertions)
	merged.CustomRules = mergeCustomRules(base.CustomRules, override.CustomRules)
	merged.Extends = nil

	merged.Categories = make(map[string]CategoryConfig, len(base.Categories)+len(override.Categories))
	for k, v := range base.Categories {
		merged.Categories[k] = v
	}
	for k, v := range override.Categories {
		existing, ok := merged.Categories[k]
		if !ok {
			merged.Categories[k] = v
			continue
		}
		if err := mergo.Merge(&existing, v, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge category %q: %w", k, err)
		}
		merged.Categories[k] = existing
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	return &merged, nil
}

func mergeRuleEntries(base, override []RuleEntry) []RuleEntry {
	byID := make(map[string]RuleEntry, len(base)+len(override))
	var order []string
	for _, e := range base {
		if _, ok := byID[e.ID]; !ok {
			order = append(order, e.ID)
		}
		byID[e.ID] = e
	}
	for _, e := range override {
		if _, ok := byID[e.ID]; !ok {
			order = append(order, e.ID)
		}
		byID[e.ID] = e
	}
	if len(order) == 0 {
		return nil
	}
	result := make([]RuleEntry, 0, len(order))
	for _, id := range order {
		result = append(result, byID[id])
	}
	return result
}

func mergeAssertionEntries(base, override []AssertionEntry) []AssertionEntry {
	byID := make(map[string]AssertionEntry, len(base)+len(override))
	var order []string
	for _, e := range base {
		if _, ok := byID[e.AssertionID]; !ok {
			order = append(order, e.AssertionID)
		}
		byID[e.AssertionID] = e
	}
	for _, e := range override {
		if _, ok := byID[e.AssertionID]; !ok {
			order = append(order, e.AssertionID)
		}
		byID[e.AssertionID] = e
	}
	if len(order) == 0 {
		return nil
	}
	result := make([]AssertionEntry, 0, len(order))
	for _, id := range order {
		result = append(result, byID[id])
	}
	return result
}

func mergeCustomRules(base, override *CustomRulesConfig) *CustomRulesConfig {
	if base == nil && override == nil {
		return nil
	}
	var paths []string
	if base != nil {
		paths = dedupAppend(paths, base.Paths...)
	}
	if override != nil {
		paths = dedupAppend(paths, override.Paths...)
	}
	return &CustomRulesConfig{Paths: paths}
}
