// Command speclint lints and transforms OpenAPI/Swagger documents.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	bundlecmd "github.com/speclint/speclint/cmd/speclint/commands/bundle"
	configcmd "github.com/speclint/speclint/cmd/speclint/commands/config"
	lintcmd "github.com/speclint/speclint/cmd/speclint/commands/lint"
	rulescmd "github.com/speclint/speclint/cmd/speclint/commands/rules"
	"github.com/speclint/speclint/overlay/cmd"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "speclint",
	Short:   "Lint and transform OpenAPI and Swagger documents",
	Version: getVersionInfo(),
	PersistentPreRun: func(c *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostic logging")

	lintcmd.Apply(rootCmd)
	bundlecmd.Apply(rootCmd)
	rulescmd.Apply(rootCmd)
	configcmd.Apply(rootCmd)
	cmd.Apply(rootCmd)
}

// getVersionInfo resolves the binary's version: an ldflags-injected value if
// this is a release build, otherwise the VCS revision embedded by the Go
// toolchain in module-aware builds.
func getVersionInfo() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return "dev"
}

// version is set via -ldflags "-X main.version=..." for release builds.
var version string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
