package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the root marquee command.
func NewRootCmd() *cobra.Command {
	var g globalOptions

	root := &cobra.Command{
		Use:   "marquee",
		Short: "Movie catalog analyzer with clock and race time tools",
		Long: `Marquee serves and analyzes a Netflix-style movie catalog.

It loads the catalog from a CSV export or a SQL database, exposes CRUD and
analyzer reports over HTTP, and ships the wall clock and race time
utilities as commands of their own.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to config file (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newServeCmd(&g),
		newAnalyzeCmd(&g),
		newMenuCmd(&g),
		newClockCmd(),
		newRaceTimeCmd(),
		newImportCmd(&g),
		newGenerateCmd(),
		newReplayCmd(&g),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// load resolves the effective config: defaults, then the config file, then
// MARQUEE_* environment variables, then the persistent log flags. It also
// installs the configured logger as the slog default.
func (g *globalOptions) load(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		cfg, err = config.LoadFile(g.configPath)
		if err != nil {
			return cfg, nil, err
		}
	}
	if err := config.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
