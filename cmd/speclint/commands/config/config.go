// Package config wires the "speclint config lint" command: resolve a
// styleguide config's full extends cascade and report whether it's valid
// without linting any document against it.
package config

import (
	"errors"
	"fmt"

	"github.com/speclint/speclint/linter"
	"github.com/speclint/speclint/source"
	"github.com/spf13/cobra"
)

// Apply registers the "config" command group on rootCmd.
func Apply(rootCmd *cobra.Command) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate speclint configuration",
	}
	configCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(configCmd)
}

var lintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Validate a styleguide config file in isolation",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigLint,
}

func runConfigLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := source.NewStore(nil, nil)

	resolved, err := linter.ResolveConfigFile(ctx, store, args[0])
	if err != nil {
		var cfgErr *linter.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("%s: %w", args[0], cfgErr)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Printf("%s is valid\n", args[0])
	fmt.Printf("  extends: %d resolved document(s)\n", len(resolved.ExtendPaths))
	fmt.Printf("  plugins: %d\n", len(resolved.PluginPaths))
	if resolved.RecommendedFallback {
		fmt.Println("  note: no extends specified, falling back to \"recommended\"")
	}
	return nil
}
