// Package cli implements the adlayout command-line interface.
//
// The CLI composes ads from flags, generates ranked variations, inspects
// grids, templates and colors, and serves the HTTP API. It is built with
// cobra; human output is styled with lipgloss and logs go through
// charmbracelet/log.
//
// # Commands
//
//   - compose: compose one ad (or one per format, or one per archetype)
//   - generate: orchestrate variations, optionally pick one interactively
//   - templates: list archetypes ranked for a campaign context
//   - grid: show the grid of an output format
//   - contrast: check and fix a color pair
//   - analyze: analyze a product image
//   - documents: list, show and delete saved documents
//   - serve: run the HTTP API
//   - cache: manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context and into the runner and engine.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adlayout/pkg/buildinfo"
	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/config"
	"github.com/matzehuels/adlayout/pkg/pipeline"
	"github.com/matzehuels/adlayout/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "adlayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with default settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "adlayout composes display ads from content and brand colors",
		Long:         `adlayout places headlines, product images and calls to action on a responsive grid, keeps text readable and generates ranked design variations.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/adlayout/config.toml)")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.contrastCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.documentsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc := c.Config.Cache
	if noCache {
		cc.Backend = config.CacheNone
	}
	ch, err := cc.OpenCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cc.NewKeyer(), loggerFromContext(ctx))
	r.Analyzer = c.Config.Vision.NewAnalyzer()
	r.Variation = c.Config.Variation
	r.VisionTimeout = c.Config.Vision.Timeout.Duration
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newEngine creates a composition engine with the configured balance weights.
func (c *CLI) newEngine() *compose.Engine {
	e := compose.NewEngine(nil, c.Logger)
	e.Balance = c.Config.Balance
	return e
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return c.Config.Store.OpenStore(ctx)
}

// applyComposeDefaults fills input fields left empty from the config.
func (c *CLI) applyComposeDefaults(in *compose.Input) {
	d := c.Config.Compose
	if in.CTAText == "" {
		in.CTAText = d.CTAText
	}
	if in.Format == "" {
		in.Format = d.Format
	}
	if in.EnforceAccessibility == nil {
		enforce := d.EnforceAccessibility
		in.EnforceAccessibility = &enforce
	}
	if in.TargetBalance == 0 {
		in.TargetBalance = d.TargetBalance
	}
}
