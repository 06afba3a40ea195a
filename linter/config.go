package linter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/speclint/speclint/validation"
	"gopkg.in/yaml.v3"
)

// Config represents the linter configuration
type Config struct {
	// Extends specifies rulesets or config presets to extend (e.g.,
	// "recommended", "all", a path/URL to another config file).
	Extends []string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Rules contains per-rule configuration
	Rules []RuleEntry `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Categories contains per-category configuration
	Categories map[string]CategoryConfig `yaml:"categories,omitempty" json:"categories,omitempty"`

	// CustomRules points at externally-authored rule sources (e.g. compiled
	// assertion files) to load in addition to the built-in registry.
	CustomRules *CustomRulesConfig `yaml:"custom_rules,omitempty" json:"custom_rules,omitempty"`

	// Assertions declares declarative rule expressions (spec.md §4.F) that
	// compile into synthetic rules attached directly to the walk, bypassing
	// the extends/category enable machinery that governs built-in rules.
	Assertions []AssertionEntry `yaml:"assertions,omitempty" json:"assertions,omitempty"`

	// OutputFormat specifies the output format
	OutputFormat OutputFormat `yaml:"output_format,omitempty" json:"output_format,omitempty"`

	// recommendedFallback records whether ConfigResolver synthesised an
	// implicit extends:["recommended"] for this config because neither it
	// nor its chain declared any preset or rule of its own. Unexported: not
	// part of the YAML shape, set only by ConfigResolver.resolve's
	// applyFallback.
	recommendedFallback bool
}

// AssertionEntry is an assertion's config-file shape: the same fields as
// assert.Spec, but with a string severity (aliased the same way rule
// severities are) so it round-trips through YAML without importing the
// assert package into the config's decode path.
type AssertionEntry struct {
	Subject     string   `yaml:"subject" json:"subject"`
	Property    string   `yaml:"property,omitempty" json:"property,omitempty"`
	Message     string   `yaml:"message,omitempty" json:"message,omitempty"`
	Severity    *string  `yaml:"severity,omitempty" json:"severity,omitempty"`
	AssertionID string   `yaml:"assertionId" json:"assertionId"`
	Defined     *bool    `yaml:"defined,omitempty" json:"defined,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	MinLength   *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength   *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Enum        []string `yaml:"enum,omitempty" json:"enum,omitempty"`
	Casing      string   `yaml:"casing,omitempty" json:"casing,omitempty"`
	Const       string   `yaml:"const,omitempty" json:"const,omitempty"`
	Ref         bool     `yaml:"ref,omitempty" json:"ref,omitempty"`
	// Function references a plugin-exported predicate as "<pluginId>/<fn>"
	// (spec.md §4.G). Resolved against the Linter's registered plugins at
	// assertion-compile time; a missing plugin or function name is a fatal
	// ConfigError.
	Function string `yaml:"function,omitempty" json:"function,omitempty"`
}

// CustomRulesConfig names extra rule sources a config pulls in alongside the
// built-in registry and any extended rulesets.
type CustomRulesConfig struct {
	Paths []string `yaml:"paths,omitempty" json:"paths,omitempty"`
}

// UnmarshalYAML supports "extends" as string or list and severity aliases.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Extends      yaml.Node                 `yaml:"extends,omitempty"`
		Rules        []RuleEntry               `yaml:"rules,omitempty"`
		Categories   map[string]CategoryConfig `yaml:"categories,omitempty"`
		CustomRules  *CustomRulesConfig        `yaml:"custom_rules,omitempty"`
		Assertions   []AssertionEntry          `yaml:"assertions,omitempty"`
		OutputFormat OutputFormat              `yaml:"output_format,omitempty"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Extends.Kind != 0 {
		switch raw.Extends.Kind {
		case yaml.ScalarNode:
			switch raw.Extends.Tag {
			case "!!null":
				c.Extends = nil
			case "!!str", "":
				c.Extends = []string{raw.Extends.Value}
			default:
				return errors.New("extends must be a string or list of strings")
			}
		case yaml.SequenceNode:
			var list []string
			if err := raw.Extends.Decode(&list); err != nil {
				return err
			}
			c.Extends = list
		default:
			return errors.New("extends must be a string or list of strings")
		}
	}

	c.Rules = raw.Rules
	c.Categories = raw.Categories
	c.CustomRules = raw.CustomRules
	c.Assertions = raw.Assertions
	c.OutputFormat = raw.OutputFormat
	return nil
}

// Validate checks the config for structural mistakes LoadConfig should
// reject outright rather than let surface later as a confusing "rule not
// found" at lint time.
func (c *Config) Validate() error {
	for i, entry := range c.Rules {
		if entry.ID == "" {
			return fmt.Errorf("rule entry missing id (index %d)", i)
		}
	}
	for i, a := range c.Assertions {
		if a.Subject == "" {
			return fmt.Errorf("assertion entry missing subject (index %d)", i)
		}
		if a.AssertionID == "" {
			return fmt.Errorf("assertion entry missing assertionId (index %d)", i)
		}
	}
	return nil
}

// RuleEntry configures rule behavior in lint.yaml.
type RuleEntry struct {
	ID       string               `yaml:"id" json:"id"`
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
	Disabled *bool                `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// Match restricts the entry to findings whose message matches this
	// regular expression, letting a config narrow a built-in rule ("only
	// flag missing titles") without forking it into a custom rule.
	Match *regexp.Regexp `yaml:"match,omitempty" json:"-"`
}

// UnmarshalYAML allows severity aliases (warn, info) in rule entries.
func (r *RuleEntry) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID       string  `yaml:"id"`
		Severity *string `yaml:"severity,omitempty"`
		Disabled *bool   `yaml:"disabled,omitempty"`
		Match    *string `yaml:"match,omitempty"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	r.ID = raw.ID
	r.Disabled = raw.Disabled
	if raw.Severity != nil {
		sev, err := parseSeverity(*raw.Severity)
		if err != nil {
			return err
		}
		r.Severity = &sev
	}
	if raw.Match != nil {
		re, err := regexp.Compile(*raw.Match)
		if err != nil {
			return fmt.Errorf("rule %q: invalid match pattern: %w", raw.ID, err)
		}
		r.Match = re
	}
	return nil
}

// RuleConfig configures a specific rule
type RuleConfig struct {
	// Enabled controls whether the rule is active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Match, when set, restricts findings to those whose message matches it.
	Match *regexp.Regexp `yaml:"-" json:"-"`
}

// GetSeverity returns the effective severity, falling back to default if not overridden
func (c *RuleConfig) GetSeverity(defaultSeverity validation.Severity) validation.Severity {
	if c != nil && c.Severity != nil {
		return *c.Severity
	}
	return defaultSeverity
}

// CategoryConfig configures an entire category of rules
type CategoryConfig struct {
	// Enabled controls whether all rules in the category are active
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Severity overrides the default severity for all rules in the category
	Severity *validation.Severity `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// UnmarshalYAML allows severity aliases (warn, info) in categories.
func (c *CategoryConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Enabled  *bool   `yaml:"enabled,omitempty"`
		Severity *string `yaml:"severity,omitempty"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Severity != nil {
		sev, err := parseSeverity(*raw.Severity)
		if err != nil {
			return err
		}
		c.Severity = &sev
	}
	c.Enabled = raw.Enabled
	return nil
}

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// NewConfig creates a new default configuration
func NewConfig() *Config {
	return &Config{
		Extends:      []string{"all"},
		Rules:        []RuleEntry{},
		Categories:   make(map[string]CategoryConfig),
		OutputFormat: OutputFormatText,
	}
}

func parseSeverity(value string) (validation.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return validation.SeverityError, nil
	case "warn", "warning":
		return validation.SeverityWarning, nil
	case "hint", "info":
		return validation.SeverityHint, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", value)
	}
}
