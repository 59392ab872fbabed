package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/analyzer"
	"github.com/acs560/marquee/internal/journal"
	"github.com/acs560/marquee/internal/movie"
)

func newReplayCmd(g *globalOptions) *cobra.Command {
	var (
		catalog    storeOptions
		file       string
		speed      float64
		kinds      []string
		entities   []string
		ids        []int
		after      string
		before     string
		output     string
		reports    bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Apply a journal of catalog changes to a catalog",
		Long: `Replays a recorded journal onto a catalog with speed control.

Events are applied in timestamp order. A virtual clock advances to match
the gaps between events, so the replay reproduces the original session
at any speed you choose. Movies added by the journal receive fresh ids in
the target catalog, and later events are redirected to them.

Speed: 0 = instant, 1 = real-time, 10 = 10x, 100 = 100x`,
		Example: `  marquee replay --file journal.json --csv= --output catalog.csv
  marquee replay --file changes.ndjson --database-url sqlite://marquee.sqlite
  marquee replay --file journal.json --kinds add,update --speed 100 --reports
  marquee replay --file journal.json --csv netflix_data.csv --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			catalog.applyConfigIfUnset(cmd, cfg)

			filter, err := buildFilter(kinds, entities, ids, after, before)
			if err != nil {
				return err
			}

			events, err := journal.LoadFile(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := catalog.openStore(ctx, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if !outputJSON {
				fmt.Fprintf(out, "Replaying %s at %.0fx speed...\n\n", file, speed)
			}

			var results []journal.Result
			r := journal.NewReplayer(st, nil, speed, filter)
			summary, err := r.Run(ctx, events, func(res journal.Result) {
				if outputJSON {
					results = append(results, res)
					return
				}
				status := "OK  "
				if res.Err != "" {
					status = "FAIL"
				}
				fmt.Fprintf(out, "  [%s] %s %-6s %-5s id=%d %s\n",
					status,
					res.Time.Format("15:04:05"),
					res.Event.Kind,
					res.Event.Entity,
					res.Event.SubjectID(),
					res.Err)
			})
			if err != nil {
				return err
			}

			if output != "" {
				if err := exportCatalog(cmd, st, output); err != nil {
					return err
				}
			}

			if outputJSON {
				return writeJSON(out, map[string]any{
					"results": results,
					"summary": summary,
				})
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "--- Replay Summary ---")
			fmt.Fprintf(out, "  Total events:   %d\n", summary.TotalEvents)
			fmt.Fprintf(out, "  Filtered:       %d\n", summary.Filtered)
			fmt.Fprintf(out, "  Applied:        %d\n", summary.Applied)
			fmt.Fprintf(out, "  Failed:         %d\n", summary.Failed)
			fmt.Fprintf(out, "  Virtual time:   %s\n", summary.Duration)
			fmt.Fprintf(out, "  Wall time:      %s\n", summary.WallDuration.Round(time.Millisecond))
			for _, k := range []journal.Kind{journal.KindAdd, journal.KindUpdate, journal.KindDelete} {
				if n := summary.PerKind[k]; n > 0 {
					fmt.Fprintf(out, "    %-6s %d\n", k, n)
				}
			}
			if output != "" {
				fmt.Fprintf(out, "  Catalog written to %s\n", output)
			}

			if reports {
				a := analyzer.New(st, nil, logger)
				fmt.Fprintln(out)
				return a.WriteAll(ctx, func(_, body string) error {
					_, err := fmt.Fprintln(out, body)
					return err
				})
			}
			return nil
		},
	}

	catalog.addFlags(cmd)
	cmd.Flags().StringVar(&file, "file", "", "path to a journal file, JSON array or NDJSON (required)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "replay speed (0=instant, 1=real-time, 10=10x)")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "filter by kinds: add, update, delete (comma-separated)")
	cmd.Flags().StringSliceVar(&entities, "entities", nil, "filter by entities: movie, type (comma-separated)")
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "filter by movie or type ids (comma-separated)")
	cmd.Flags().StringVar(&after, "after", "", "only events after this RFC 3339 time")
	cmd.Flags().StringVar(&before, "before", "", "only events before this RFC 3339 time")
	cmd.Flags().StringVar(&output, "output", "", "write the resulting catalog to this CSV file")
	cmd.Flags().BoolVar(&reports, "reports", false, "print the analyzer reports after replaying")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")

	return cmd
}

func buildFilter(kinds, entities []string, ids []int, after, before string) (journal.Filter, error) {
	f := journal.Filter{IDs: ids}
	for _, k := range kinds {
		switch kind := journal.Kind(strings.ToLower(strings.TrimSpace(k))); kind {
		case journal.KindAdd, journal.KindUpdate, journal.KindDelete:
			f.Kinds = append(f.Kinds, kind)
		default:
			return f, fmt.Errorf("unknown kind %q, must be one of: add, update, delete", k)
		}
	}
	for _, e := range entities {
		switch entity := journal.Entity(strings.ToLower(strings.TrimSpace(e))); entity {
		case journal.EntityMovie, journal.EntityType:
			f.Entities = append(f.Entities, entity)
		default:
			return f, fmt.Errorf("unknown entity %q, must be one of: movie, type", e)
		}
	}
	var err error
	if after != "" {
		if f.After, err = time.Parse(time.RFC3339, after); err != nil {
			return f, fmt.Errorf("parsing --after: %w", err)
		}
	}
	if before != "" {
		if f.Before, err = time.Parse(time.RFC3339, before); err != nil {
			return f, fmt.Errorf("parsing --before: %w", err)
		}
	}
	return f, nil
}

func exportCatalog(cmd *cobra.Command, st movie.Store, path string) error {
	movies, err := st.All(cmd.Context())
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	if err := movie.WriteCSV(f, movies); err != nil {
		f.Close()
		return fmt.Errorf("writing catalog: %w", err)
	}
	return f.Close()
}
