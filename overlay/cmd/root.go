// Package cmd wires the overlay package's Parse/ApplyTo/Validate into a
// cobra command group, the same "Apply(rootCmd) registers its subcommands"
// shape cmd/speclint uses for every other command group, so `speclint
// overlay apply|validate` reuses exactly the library code tested in
// package overlay rather than re-implementing overlay handling in the CLI
// layer.
package cmd

import (
	"fmt"
	"os"

	"github.com/speclint/speclint/overlay/loader"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Apply registers the overlay command group (apply, validate) on rootCmd.
func Apply(rootCmd *cobra.Command) {
	overlayCmd := &cobra.Command{
		Use:   "overlay",
		Short: "Apply or validate OpenAPI Overlay documents",
	}
	overlayCmd.AddCommand(applyCmd, validateCmd)
	rootCmd.AddCommand(overlayCmd)
}

var applyOutFlag string

var applyCmd = &cobra.Command{
	Use:   "apply <overlay> <document>",
	Short: "Apply an overlay to an OpenAPI document and print the result",
	Args:  cobra.ExactArgs(2),
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyOutFlag, "out", "o", "", "output file path (defaults to stdout)")
}

func runApply(_ *cobra.Command, args []string) error {
	overlayPath, docPath := args[0], args[1]

	o, err := loader.LoadOverlay(overlayPath)
	if err != nil {
		return fmt.Errorf("failed to load overlay %q: %w", overlayPath, err)
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid overlay %q: %w", overlayPath, err)
	}

	doc, err := loader.LoadSpecification(docPath)
	if err != nil {
		return fmt.Errorf("failed to load document %q: %w", docPath, err)
	}

	if err := o.ApplyTo(doc); err != nil {
		return fmt.Errorf("failed to apply overlay %q to %q: %w", overlayPath, docPath, err)
	}

	out := os.Stdout
	if applyOutFlag != "" {
		f, err := os.Create(applyOutFlag) //nolint:gosec
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", applyOutFlag, err)
		}
		defer f.Close()
		out = f
	}

	return yaml.NewEncoder(out).Encode(doc)
}

var validateCmd = &cobra.Command{
	Use:   "validate <overlay>",
	Short: "Validate an overlay document's shape and actions",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	o, err := loader.LoadOverlay(args[0])
	if err != nil {
		return fmt.Errorf("failed to load overlay %q: %w", args[0], err)
	}
	if err := o.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "overlay is valid")
	return nil
}
