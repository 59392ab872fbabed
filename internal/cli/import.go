package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/movie"
	"github.com/acs560/marquee/internal/store"
)

func newImportCmd(g *globalOptions) *cobra.Command {
	var (
		databaseURL    string
		maxConnections int
		batchSize      int
	)

	cmd := &cobra.Command{
		Use:   "import CSV",
		Short: "Load a catalog CSV into the SQL backend",
		Long: `Reads a Netflix-layout catalog CSV and inserts every row into the SQL
catalog. Each distinct type in the file is registered as well.`,
		Example: `  marquee import netflix_data.csv --database-url sqlite://marquee.sqlite
  MARQUEE_DATABASE_URL=postgres://marquee@localhost/marquee marquee import netflix_data.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("database-url") {
				databaseURL = cfg.Store.DatabaseURL
			}
			if !cmd.Flags().Changed("db-max-connections") {
				maxConnections = cfg.Store.MaxConnections
			}
			if databaseURL == "" {
				return fmt.Errorf("--database-url or MARQUEE_DATABASE_URL is required")
			}
			if batchSize <= 0 {
				return fmt.Errorf("--batch-size must be positive, got %d", batchSize)
			}

			movies, err := movie.LoadCSVFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := store.OpenSQL(ctx, databaseURL, maxConnections, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			added := 0
			seen := make(map[string]bool)
			for _, m := range movies {
				if m.Type == "" || seen[m.Type] {
					continue
				}
				seen[m.Type] = true
				if _, err := st.AddType(ctx, movie.Type{Name: m.Type}); err != nil {
					if !errors.Is(err, movie.ErrAlreadyExists) {
						return err
					}
					continue
				}
				added++
			}

			if err := st.AddBatch(ctx, movies, batchSize); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies and %d new types from %s\n", len(movies), added, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "database URL (sqlite://path or postgres://...)")
	cmd.Flags().IntVar(&maxConnections, "db-max-connections", 0, "maximum open database connections (0 = driver default)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 500, "rows per insert statement")

	return cmd
}
