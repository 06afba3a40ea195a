// Package lint wires the "speclint lint" command: load one or more root
// documents in parallel, run the configured rule set over each, merge and
// format the findings.
package lint

import (
	"context"
	"fmt"
	"os"

	"github.com/speclint/speclint/cache"
	"github.com/speclint/speclint/cmd/speclint/commands/cmdutil"
	"github.com/speclint/speclint/linter"
	"github.com/speclint/speclint/linter/format"
	"github.com/speclint/speclint/overlay"
	"github.com/speclint/speclint/overlay/loader"
	"github.com/speclint/speclint/plugin"
	"github.com/speclint/speclint/pointer"
	"github.com/speclint/speclint/resolver"
	"github.com/speclint/speclint/source"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	configFile  string
	formatName  string
	maxProblems int
	overlayFile string
	ignoreFile  string
	cacheStats  bool
	strict      bool
)

// Cmd is the "lint" subcommand.
var Cmd = &cobra.Command{
	Use:   "lint <root...>",
	Short: "Lint one or more OpenAPI/Swagger documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

// Apply registers the lint command on rootCmd.
func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(Cmd)
}

func init() {
	Cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a lint styleguide config (default: built-in \"recommended\")")
	Cmd.Flags().StringVarP(&formatName, "format", "f", "text", "output format: text|json|checkstyle|summary")
	Cmd.Flags().IntVar(&maxProblems, "max-problems", 0, "stop reporting after N problems (0 = unlimited)")
	Cmd.Flags().StringVar(&overlayFile, "overlay", "", "apply an OpenAPI Overlay to each root before linting")
	Cmd.Flags().StringVar(&ignoreFile, "ignore-file", "", "path to a .speclint-ignore.yaml suppressing known findings")
	Cmd.Flags().BoolVar(&cacheStats, "cache-stats", false, "print URL/reference cache statistics to stderr after linting")
	Cmd.Flags().BoolVar(&strict, "strict", false, "additionally validate Schema objects against the OpenAPI JSON Schema dialect")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var ov *overlay.Overlay
	if overlayFile != "" {
		loaded, err := loader.LoadOverlay(overlayFile)
		if err != nil {
			return fmt.Errorf("load overlay %q: %w", overlayFile, err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid overlay %q: %w", overlayFile, err)
		}
		ov = loaded
	}

	var ig linter.IgnoreFile
	if ignoreFile != "" {
		loaded, err := linter.LoadIgnoreFile(ignoreFile)
		if err != nil {
			return err
		}
		ig = loaded
	}

	store := source.NewStore(nil, nil)
	res := resolver.New(store)

	mgr := cache.NewManager()
	mgr.Register(res)

	results, err := lintRoots(ctx, store, res, args, ov)
	if err != nil {
		return err
	}

	kept, ignored := ig.Apply(results)
	if maxProblems > 0 && len(kept) > maxProblems {
		kept = kept[:maxProblems]
	}

	formatter, err := format.New(formatName)
	if err != nil {
		return err
	}
	rendered, err := formatter.Format(kept)
	if err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	fmt.Println(rendered)

	if ignored > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s) suppressed by %s\n", ignored, ignoreFile)
	}
	if cacheStats {
		stats := mgr.Stats()
		fmt.Fprintf(os.Stderr, "cache: %d URL(s), %d resolved reference(s)\n", stats.URLCacheSize, stats.ReferenceCacheSize)
	}

	out := &linter.Output{Results: kept}
	if out.HasErrors() {
		return fmt.Errorf("linting found %d error(s)", out.ErrorCount())
	}
	return nil
}

// resolvedConfig is the per-run styleguide plus the plugin ids it named,
// separated out since styleguide construction (built-in default vs a
// resolved extends cascade) and plugin resolution both happen once per
// invocation, shared by every root linted.
type resolvedConfig struct {
	styleguide *linter.Config
	plugins    []string
}

func loadConfig(ctx context.Context, store *source.Store) (*resolvedConfig, error) {
	var rc *resolvedConfig
	if configFile == "" {
		rc = &resolvedConfig{styleguide: &linter.Config{Extends: []string{"recommended"}}}
	} else {
		resolved, err := linter.ResolveConfigFile(ctx, store, configFile)
		if err != nil {
			return nil, err
		}
		rc = &resolvedConfig{styleguide: resolved.Config, plugins: resolved.PluginPaths}
	}

	if strict {
		rc.styleguide.Rules = append(rc.styleguide.Rules, linter.RuleEntry{ID: "strict-schema-meta", Disabled: pointer.From(false)})
	}
	return rc, nil
}

func lintRoots(ctx context.Context, store *source.Store, res *resolver.Resolver, roots []string, ov *overlay.Overlay) ([]error, error) {
	config, err := loadConfig(ctx, store)
	if err != nil {
		return nil, err
	}

	plugins, err := plugin.Resolve(config.plugins)
	if err != nil {
		return nil, err
	}

	resultsPerRoot := make([][]error, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, rootPath := range roots {
		i, rootPath := i, rootPath
		g.Go(func() error {
			loaded, err := cmdutil.Load(gctx, store, rootPath)
			if err != nil {
				return err
			}

			if ov != nil {
				if err := ov.ApplyTo(wrapDocument(loaded.Root)); err != nil {
					return fmt.Errorf("%s: apply overlay: %w", rootPath, err)
				}
			}

			registry, err := linter.NewDefaultRegistry(loaded.Version)
			if err != nil {
				return err
			}
			if err := plugin.BindAll(registry, plugins); err != nil {
				return err
			}

			lntr := linter.NewLinter(config.styleguide, registry, res)
			doc := linter.NewDocument(loaded.Root, loaded.URI, loaded.Version)
			output, err := lntr.Lint(gctx, doc, nil, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", rootPath, err)
			}
			resultsPerRoot[i] = output.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []error
	for _, r := range resultsPerRoot {
		all = append(all, r...)
	}
	return all, nil
}

// wrapDocument re-wraps a bare mapping node in a DocumentNode, the shape
// overlay.Overlay.ApplyTo expects (it walks from a document root, the same
// shape loader.LoadSpecification returns), since cmdutil.Load already
// unwrapped the DocumentNode for the walker's benefit.
func wrapDocument(root *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}
