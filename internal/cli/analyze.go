package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/analyzer"
)

// reportFiles are the output file names for each report.
var reportFiles = map[string]string{
	analyzer.ReportTypes:     "count_movies_vs_tv_shows.txt",
	analyzer.ReportAverage:   "average_movies_per_year.txt",
	analyzer.ReportCountries: "unique_countries_counts.txt",
}

func newAnalyzeCmd(g *globalOptions) *cobra.Command {
	var (
		catalog storeOptions
		outDir  string
		format  string
		reports []string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute catalog reports",
		Long: `Computes the catalog reports:

  countMoviesVsTVShows  Count of movies against TV shows
  avgMovies             Average number of movies per release year
  countries             Entries per country

Reports are printed to stdout, or written to one file each with --out-dir.`,
		Example: `  marquee analyze --csv netflix_data.csv
  marquee analyze --csv netflix_data.csv --out-dir reports
  marquee analyze --database-url sqlite://marquee.sqlite --report countries --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			catalog.applyConfigIfUnset(cmd, cfg)

			ctx := cmd.Context()
			st, err := catalog.openStore(ctx, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			a := analyzer.New(st, nil, logger)
			if len(reports) == 0 {
				reports = analyzer.Reports
			}

			out := cmd.OutOrStdout()
			for _, name := range reports {
				body, err := a.Report(ctx, name, analyzer.Format(format))
				if err != nil {
					return err
				}
				if outDir == "" {
					fmt.Fprintln(out, body)
					continue
				}
				path, err := writeReport(outDir, name, format, body)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Results written to %s\n", path)
			}
			return nil
		},
	}

	catalog.addFlags(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", "", "write each report to a file in this directory")
	cmd.Flags().StringVar(&format, "format", string(analyzer.FormatText), "report format (text, json)")
	cmd.Flags().StringSliceVar(&reports, "report", nil, "reports to compute (default all)")

	return cmd
}

// writeReport writes body to the report's file in dir and returns the path.
func writeReport(dir, name, format, body string) (string, error) {
	file, ok := reportFiles[name]
	if !ok {
		file = name + ".txt"
	}
	if format == string(analyzer.FormatJSON) {
		file = file[:len(file)-len(filepath.Ext(file))] + ".json"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// runReport prints one text report to w and also writes it to its file in
// dir.
func runReport(ctx context.Context, a *analyzer.Analyzer, name, dir string, w io.Writer) error {
	body, err := a.Report(ctx, name, analyzer.FormatText)
	if err != nil {
		return err
	}
	fmt.Fprint(w, body)
	path, err := writeReport(dir, name, string(analyzer.FormatText), body)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Results written to %s\n\n", path)
	return nil
}
