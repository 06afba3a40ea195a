package linter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/speclint/speclint/source"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads lint configuration from a YAML reader.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Extends) == 0 {
		cfg.Extends = []string{"all"}
	}
	if cfg.Categories == nil {
		cfg.Categories = make(map[string]CategoryConfig)
	}
	if cfg.Rules == nil {
		cfg.Rules = []RuleEntry{}
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = OutputFormatText
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadConfigFromFile loads lint configuration from a YAML file.
func LoadConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}

// ResolveConfigFile loads path as a root config and folds its full extends
// cascade (local paths, HTTP(S) URLs, and preset names) into one effective
// Config, using store to fetch and cache every document the cascade visits.
// Unlike LoadConfig/LoadConfigFromFile, which read a single flat file as-is,
// this is the entry point for configs that use "extends" to pull in other
// config documents rather than just a named preset.
func ResolveConfigFile(ctx context.Context, store *source.Store, path string) (*Resolved, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", path, err)
	}

	src, err := store.Open(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var root RootConfig
	if err := src.Root.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := root.Config.Validate(); err != nil {
		return nil, err
	}

	resolver := NewConfigResolver(store)
	resolved, err := resolver.ResolveRoot(ctx, &root, absPath)
	if err != nil {
		return nil, err
	}
	if err := resolved.Config.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// ResolveAPIConfigFile is ResolveConfigFile's per-API counterpart: it folds
// the named API's effective styleguide (its own styleguide, if any, layered
// over the root's resolved cascade).
func ResolveAPIConfigFile(ctx context.Context, store *source.Store, path, apiAlias string) (*Resolved, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", path, err)
	}

	src, err := store.Open(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var root RootConfig
	if err := src.Root.Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	resolver := NewConfigResolver(store)
	resolved, err := resolver.ResolveAPI(ctx, &root, absPath, apiAlias)
	if err != nil {
		return nil, err
	}
	if err := resolved.Config.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}
