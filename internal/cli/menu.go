package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/analyzer"
)

// menuChoices maps the menu numbers to reports. 4 exits.
var menuChoices = map[int]string{
	1: analyzer.ReportTypes,
	2: analyzer.ReportAverage,
	3: analyzer.ReportCountries,
}

func newMenuCmd(g *globalOptions) *cobra.Command {
	var (
		catalog storeOptions
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive console menu for the catalog reports",
		Long: `Prompts for a report, prints it and writes it to a text file, until
option 4 is chosen.`,
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

			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprintln(out, "Welcome! To the Netflix Analyzer.")
			for {
				fmt.Fprintln(out, "Here are few things I can help you with:")
				fmt.Fprintln(out, "1. Count of Movies vs TV Shows")
				fmt.Fprintln(out, "2. Average number of Movies per year")
				fmt.Fprintln(out, "3. Unique Countries and their Counts")
				fmt.Fprintln(out, "4. Exit")
				fmt.Fprint(out, "Please enter your choice: ")

				if !in.Scan() {
					fmt.Fprintln(out)
					return in.Err()
				}
				choice, err := strconv.Atoi(strings.TrimSpace(in.Text()))
				if err != nil {
					fmt.Fprintln(out, "Invalid choice. Please try again.")
					fmt.Fprintln(out)
					continue
				}
				if choice == 4 {
					fmt.Fprintln(out, "Exiting the application. Goodbye!")
					return nil
				}
				name, ok := menuChoices[choice]
				if !ok {
					fmt.Fprintln(out, "Invalid choice. Please try again.")
					fmt.Fprintln(out)
					continue
				}
				if err := runReport(ctx, a, name, outDir, out); err != nil {
					return err
				}
			}
		},
	}

	catalog.addFlags(cmd)
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory the report files are written to")

	return cmd
}
