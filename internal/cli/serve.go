package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/analyzer"
	"github.com/acs560/marquee/internal/clock"
	"github.com/acs560/marquee/internal/config"
	"github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/server"
	"github.com/acs560/marquee/internal/service"
)

type serveOptions struct {
	addr        string
	metricsAddr string
	bodyLimit   string
	journalPath string
}

func (o *serveOptions) applyConfigIfUnset(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("addr") {
		o.addr = cfg.Server.Addr
	}
	if !cmd.Flags().Changed("metrics-addr") {
		o.metricsAddr = cfg.Server.MetricsAddr
	}
	if !cmd.Flags().Changed("body-limit") {
		o.bodyLimit = cfg.Server.BodyLimit
	}
	if !cmd.Flags().Changed("journal") {
		o.journalPath = cfg.Journal.Path
	}
}

func newServeCmd(g *globalOptions) *cobra.Command {
	var (
		opts    serveOptions
		catalog storeOptions
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the marquee HTTP server",
		Long: `Starts the catalog HTTP server.

Endpoints:
  GET  /                          Server info and current time
  GET  /health                    Health check with build version
  GET  /ui/                       Catalog editor
  WS   /ws                        Live feed of catalog changes
  *    /api/v1/movies/...         Movie lookup and CRUD
  GET  /api/v1/moviesAnalyzer/... countMoviesVsTVShows, avgMovies, countries
  *    /api/v1/types/...          Type CRUD
  GET  /api/v1/clock              Wall clock formatting
  GET  /api/v1/racetime/...       Race time parse and render

Metrics are served on a separate listener at /metrics.`,
		Example: `  marquee serve --csv netflix_data.csv
  marquee serve --database-url sqlite://marquee.sqlite --cache redis --redis-url redis://localhost:6379/0
  marquee serve --config marquee.yaml --journal changes.ndjson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			opts.applyConfigIfUnset(cmd, cfg)
			catalog.applyConfigIfUnset(cmd, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := catalog.openStore(ctx, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			reports, closeCache, err := catalog.openCache(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			hub := server.NewHub(logger)
			sinks := journal.Tee{hub}
			var rec *journal.Recorder
			if opts.journalPath != "" {
				f, err := os.OpenFile(opts.journalPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("opening journal: %w", err)
				}
				defer f.Close()
				rec = journal.NewStreamRecorder(f)
				sinks = append(sinks, rec)
				logger.Info("journaling catalog changes", "path", opts.journalPath)
			}

			clk := clock.NewRealSource()
			svcOpts := service.Options{Sink: sinks, Clock: clk, Logger: logger}
			srv := server.New(server.Config{
				Addr:      opts.addr,
				BodyLimit: opts.bodyLimit,
				Logger:    logger,
				Clock:     clk,
				Movies:    service.NewMovies(st, svcOpts),
				Types:     service.NewTypes(st, svcOpts),
				Analyzer:  analyzer.New(st, reports, logger),
				Hub:       hub,
			})

			if opts.metricsAddr != "" {
				ln, err := net.Listen("tcp", opts.metricsAddr)
				if err != nil {
					return fmt.Errorf("metrics listener: %w", err)
				}
				go func() {
					if err := server.RunMetrics(ctx, ln, logger); err != nil {
						logger.Error("metrics server failed", "err", err)
					}
				}()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  Marquee\n")
			fmt.Fprintf(out, "  ────────────────────────────────────\n")
			fmt.Fprintf(out, "  UI:         http://localhost%s/ui/\n", opts.addr)
			fmt.Fprintf(out, "  API:        http://localhost%s/api/v1/movies\n", opts.addr)
			fmt.Fprintf(out, "  WebSocket:  ws://localhost%s/ws\n", opts.addr)
			if opts.metricsAddr != "" {
				fmt.Fprintf(out, "  Metrics:    http://localhost%s/metrics\n", opts.metricsAddr)
			}
			fmt.Fprintf(out, "  ────────────────────────────────────\n\n")

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				if rec != nil {
					logger.Info("journal closed", "events", rec.Len())
				}
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&opts.addr, "addr", def.Server.Addr, "address to listen on")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", def.Server.MetricsAddr, "address for the /metrics listener (empty disables it)")
	cmd.Flags().StringVar(&opts.bodyLimit, "body-limit", def.Server.BodyLimit, "maximum request body size")
	cmd.Flags().StringVar(&opts.journalPath, "journal", "", "append catalog changes to this NDJSON file")
	catalog.addFlags(cmd)

	return cmd
}
