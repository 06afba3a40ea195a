// Package bundle wires the "speclint bundle", "speclint dereference", and
// "speclint normalize" commands onto the bundler package.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/speclint/speclint/bundler"
	"github.com/speclint/speclint/cmd/speclint/commands/cmdutil"
	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/source"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Apply registers the bundle, dereference, and normalize commands on rootCmd.
func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(bundleCmd, dereferenceCmd, normalizeCmd)
}

var bundleOutput, bundleExt string

var bundleCmd = &cobra.Command{
	Use:   "bundle <root>",
	Short: "Inline external $refs into the document's own components",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundle,
}

func init() {
	bundleCmd.Flags().StringVarP(&bundleOutput, "output", "o", "", "output file path (defaults to stdout)")
	bundleCmd.Flags().StringVar(&bundleExt, "ext", "yaml", "output encoding: yaml|json")
}

func runBundle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := source.NewStore(nil, nil)
	res := resolver.New(store)

	loaded, err := cmdutil.Load(ctx, store, args[0])
	if err != nil {
		return err
	}

	bundled, warnings, err := bundler.Bundle(ctx, res, loaded.URI, loaded.Root, loaded.Version)
	if err != nil {
		return fmt.Errorf("bundle %q: %w", args[0], err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	return writeNode(bundled, bundleOutput, bundleExt)
}

var dereferenceOutput string

var dereferenceCmd = &cobra.Command{
	Use:   "dereference <root>",
	Short: "Inline every $ref into a fully self-contained document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDereference,
}

func init() {
	dereferenceCmd.Flags().StringVarP(&dereferenceOutput, "output", "o", "", "output file path (defaults to stdout)")
}

func runDereference(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := source.NewStore(nil, nil)
	res := resolver.New(store)

	loaded, err := cmdutil.Load(ctx, store, args[0])
	if err != nil {
		return err
	}

	dereferenced, err := bundler.Dereference(ctx, res, loaded.URI, loaded.Root)
	if err != nil {
		return fmt.Errorf("dereference %q: %w", args[0], err)
	}

	return writeNode(dereferenced, dereferenceOutput, "yaml")
}

var normalizeOutput string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <root>",
	Short: "Rewrite the document's top-level key order to a canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "output file path (defaults to stdout)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := source.NewStore(nil, nil)

	loaded, err := cmdutil.Load(ctx, store, args[0])
	if err != nil {
		return err
	}

	normalized := bundler.Normalize(loaded.Root, loaded.Version)
	return writeNode(normalized, normalizeOutput, "yaml")
}

func writeNode(node *yaml.Node, outputPath, ext string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec
		if err != nil {
			return fmt.Errorf("create output file %q: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}

	if ext == "json" {
		data, err := yaml.Marshal(node)
		if err != nil {
			return err
		}
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(generic)
	}

	return yaml.NewEncoder(out).Encode(node)
}
