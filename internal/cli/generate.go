package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/config"
	"github.com/acs560/marquee/internal/generate"
	"github.com/acs560/marquee/internal/journal"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample catalogs and journals",
		Long: `Generates sample data for testing and experimentation.

Use "generate catalog" to create a synthetic catalog CSV.
Use "generate journal" to create a journal of catalog edits for replay.`,
	}
	cmd.AddCommand(newGenerateCatalogCmd(), newGenerateJournalCmd())
	return cmd
}

func newGenerateCatalogCmd() *cobra.Command {
	var (
		output string
		opts   = generate.DefaultCatalogOptions()
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Generate a synthetic catalog CSV",
		Long: `Creates a catalog in the Netflix export layout, filled with fake titles,
directors and countries. The same --seed always yields the same file.`,
		Example: `  marquee generate catalog --output catalog.csv --count 500
  marquee generate catalog --output small.csv --count 20 --tv-ratio 0.5 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			defer f.Close()

			n, err := generate.WriteCatalog(f, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d catalog entries to %s\n", n, output)
			fmt.Fprintf(out, "  Years:    %d-%d\n", opts.MinYear, opts.MaxYear)
			fmt.Fprintf(out, "  TV ratio: %.2f\n", opts.TVShowRatio)
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&output, "output", "catalog.csv", "output file path")
	cmd.Flags().IntVar(&opts.Count, "count", opts.Count, "number of entries to generate")
	cmd.Flags().Float64Var(&opts.TVShowRatio, "tv-ratio", opts.TVShowRatio, "fraction of entries that are TV shows")
	cmd.Flags().IntVar(&opts.MinYear, "min-year", opts.MinYear, "earliest release year")
	cmd.Flags().IntVar(&opts.MaxYear, "max-year", opts.MaxYear, "latest release year")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")

	return cmd
}

func newGenerateJournalCmd() *cobra.Command {
	var (
		output string
		opts   = generate.DefaultJournalOptions()
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Generate a journal of catalog edits",
		Long: `Creates a realistic edit session: movies are added, then updated and
deleted, with timestamps spread over --duration.

Patterns:
  steady    Evenly distributed edits
  burst     Concentrated bursts with quiet periods
  ramp      Gradually increasing edit rate`,
		Example: `  marquee generate journal --output journal.json --count 100
  marquee generate journal --output burst.json --count 200 --pattern burst --duration 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := generate.Journal(opts)
			if err != nil {
				return err
			}

			rec := journal.NewRecorder(nil)
			for _, e := range events {
				if err := rec.Record(e); err != nil {
					return err
				}
			}
			if err := rec.ExportFile(output); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d journal events to %s\n", len(events), output)
			fmt.Fprintf(out, "  Duration: %s\n", opts.Duration)
			fmt.Fprintf(out, "  Pattern:  %s\n", opts.Pattern)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "journal.json", "output file path")
	cmd.Flags().IntVar(&opts.Count, "count", opts.Count, "number of events to generate")
	cmd.Flags().DurationVar(&opts.Duration, "duration", opts.Duration, "time span of the session")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", opts.Pattern, "edit pattern (steady, burst, ramp)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")

	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage marquee config files",
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		Example: `  marquee config init --output marquee.json
  marquee config init --output marquee.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVar(&output, "output", "marquee.json", "output file path (.json, .yaml or .yml)")

	cmd.AddCommand(initCmd)
	return cmd
}
