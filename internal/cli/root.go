// Package cli provides the interior command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/planetary-interior/core"
	"github.com/signalsfoundry/planetary-interior/internal/config"
	"github.com/signalsfoundry/planetary-interior/internal/logging"
	"github.com/signalsfoundry/planetary-interior/internal/store"
	"github.com/signalsfoundry/planetary-interior/model"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     logging.Logger
	cache   *store.SQLiteCache
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{log: logging.Noop()}

	rootCmd := &cobra.Command{
		Use:   "interior",
		Short: "Planetary interior density and mass calculations",
		Long: `interior builds layered planet models from YAML definitions and reports
their volumes, masses, mean densities and radial density profiles.

Layer densities may be constant, derived from a known mass, or interpolated
from a depth/density CSV table.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.cfg = cfg
			a.log = logging.New(logging.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Writer: cmd.ErrOrStderr(),
			})
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	pf.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	pf.String("log-format", config.DefaultLogFormat, "Log format (text|json)")
	pf.StringP("output", "o", config.DefaultOutput, "Output format (table|json)")
	pf.String("cache-path", "", "SQLite file caching tabulated mean densities (empty disables)")
	pf.Float64("step", core.DefaultStep, "Default integration step in metres for tabulated layers")
	pf.Int("workers", 0, "Concurrent workers for profile sweeps (default GOMAXPROCS)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newSummaryCommand(a))
	rootCmd.AddCommand(newDensityCommand(a))
	rootCmd.AddCommand(newProfileCommand(a))
	rootCmd.AddCommand(newCompositionCommand(a))
	rootCmd.AddCommand(newMolarMassCommand(a))
	rootCmd.AddCommand(newCacheCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) openCache(ctx context.Context) (*store.SQLiteCache, error) {
	if a.cache != nil || a.cfg == nil || a.cfg.CachePath == "" {
		return a.cache, nil
	}
	if dir := filepath.Dir(a.cfg.CachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	c, err := store.Open(ctx, a.cfg.CachePath)
	if err != nil {
		return nil, err
	}
	a.log.Debug(ctx, "opened mean density cache", logging.String("path", a.cfg.CachePath))
	a.cache = c
	return c, nil
}

func (a *app) close() error {
	if a.cache == nil {
		return nil
	}
	err := a.cache.Close()
	a.cache = nil
	return err
}

func (a *app) buildPlanet(ctx context.Context, path string) (*core.Planet, *model.PlanetDefinition, error) {
	opts := []core.BuildOption{core.WithDefaultStep(a.cfg.Step)}
	cache, err := a.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cache != nil {
		opts = append(opts, core.WithMeanDensityCache(cache, func(err error) {
			a.log.Warn(ctx, "mean density cache unavailable", logging.Err(err))
		}))
	}
	p, def, err := core.BuildPlanetFromFile(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug(ctx, "built planet",
		logging.String("path", path),
		logging.String("name", p.Name),
		logging.Int("layers", len(p.Layers)),
	)
	return p, def, nil
}

func (a *app) renderer(cmd *cobra.Command) *renderer {
	format := config.DefaultOutput
	if a.cfg != nil {
		format = a.cfg.Output
	}
	return &renderer{w: cmd.OutOrStdout(), format: format}
}
