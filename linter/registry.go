package linter

import (
	"fmt"
	"sort"
)

// Registry holds registered rules
type Registry struct {
	rules    map[string]Rule
	rulesets map[string][]string // ruleset name -> rule IDs
	plugins  map[string]Plugin   // plugin ID -> plugin, for namespaced predicate lookups
}

// NewRegistry creates a new rule registry
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]Rule),
		rulesets: make(map[string][]string),
	}
}

// Register registers a rule
func (r *Registry) Register(rule Rule) {
	r.rules[rule.ID()] = rule
}

// RegisterRuleset registers a ruleset
func (r *Registry) RegisterRuleset(name string, ruleIDs []string) error {
	if _, exists := r.rulesets[name]; exists {
		return fmt.Errorf("ruleset %q already registered", name)
	}

	for _, id := range ruleIDs {
		if _, exists := r.rules[id]; !exists {
			return fmt.Errorf("rule %q in ruleset %q not found", id, name)
		}
	}

	r.rulesets[name] = ruleIDs
	return nil
}

// GetRule returns a rule by ID
func (r *Registry) GetRule(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// GetRuleset returns rule IDs for a ruleset
func (r *Registry) GetRuleset(name string) ([]string, bool) {
	if name == "all" {
		return r.AllRuleIDs(), true
	}
	ids, ok := r.rulesets[name]
	return ids, ok
}

// AllRules returns all registered rules
func (r *Registry) AllRules() []Rule {
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})
	return rules
}

// AllRuleIDs returns all registered rule IDs
func (r *Registry) AllRuleIDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AllCategories returns all unique categories
func (r *Registry) AllCategories() []string {
	categories := make(map[string]bool)
	for _, rule := range r.rules {
		categories[rule.Metadata().Category] = true
	}

	cats := make([]string, 0, len(categories))
	for cat := range categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// AllRulesets returns all registered ruleset names
func (r *Registry) AllRulesets() []string {
	names := make([]string, 0, len(r.rulesets)+1)
	names = append(names, "all")
	for name := range r.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RulesetsContaining returns names of rulesets that contain the given rule ID
func (r *Registry) RulesetsContaining(ruleID string) []string {
	var sets []string
	sets = append(sets, "all")

	for name, ids := range r.rulesets {
		for _, id := range ids {
			if id == ruleID {
				sets = append(sets, name)
				break
			}
		}
	}
	sort.Strings(sets)
	return sets
}
