// Package rules wires the "speclint rules" command: list every built-in
// rule, its category, default severity, and the presets it belongs to.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/speclint/speclint/linter"
	"github.com/speclint/speclint/schema"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	category     string
	ruleset      string
)

// Cmd is the "rules" subcommand.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "List built-in linting rules",
	RunE:  run,
}

// Apply registers the rules command on rootCmd.
func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(Cmd)
}

func init() {
	Cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text|json")
	Cmd.Flags().StringVar(&category, "category", "", "filter by category")
	Cmd.Flags().StringVar(&ruleset, "ruleset", "", "filter by ruleset (minimal|recommended|recommended-strict|all)")
}

type ruleInfo struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	DefaultSeverity string   `json:"defaultSeverity"`
	Summary         string   `json:"summary"`
	Rulesets        []string `json:"rulesets"`
}

func run(cmd *cobra.Command, _ []string) error {
	// The registry is version-bound only through its "spec" rule; every
	// stylistic rule and preset is identical across dialects, so OAS 3.0 is
	// as good a registry to list from as any.
	registry, err := linter.NewDefaultRegistry(schema.Oas3_0)
	if err != nil {
		return err
	}

	var infos []ruleInfo
	for _, r := range registry.AllRules() {
		meta := r.Metadata()
		if category != "" && meta.Category != category {
			continue
		}
		sets := registry.RulesetsContaining(r.ID())
		if ruleset != "" && !contains(sets, ruleset) {
			continue
		}
		infos = append(infos, ruleInfo{
			ID:              r.ID(),
			Category:        meta.Category,
			DefaultSeverity: r.DefaultSeverity().String(),
			Summary:         meta.Summary,
			Rulesets:        sets,
		})
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	return printText(infos, registry.AllCategories())
}

func printText(infos []ruleInfo, categories []string) error {
	if len(infos) == 0 {
		fmt.Println("No rules found matching the specified filters.")
		return nil
	}

	byCategory := make(map[string][]ruleInfo)
	for _, info := range infos {
		byCategory[info.Category] = append(byCategory[info.Category], info)
	}

	for _, cat := range categories {
		matches, ok := byCategory[cat]
		if !ok {
			continue
		}
		fmt.Printf("\n%s (%d rules)\n", strings.ToUpper(cat), len(matches))
		fmt.Println(strings.Repeat("-", 60))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, info := range matches {
			fmt.Fprintf(w, "  %s\t%s\t[%s]\n", info.ID, info.Summary, info.DefaultSeverity)
			fmt.Fprintf(w, "  \trulesets: %s\n", strings.Join(info.Rulesets, ", "))
		}
		w.Flush()
	}

	fmt.Printf("\n%d rules total\n", len(infos))
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
