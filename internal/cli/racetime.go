package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/acs560/marquee/internal/racetime"
)

func newRaceTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "racetime",
		Short: "Parse and render race times",
	}

	parseCmd := &cobra.Command{
		Use:     "parse TIME",
		Short:   "Parse MM:SS or HH:MM:SS into minutes",
		Example: `  marquee racetime parse 25:37
  marquee racetime parse 1:25:37`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := racetime.Parse(args[0])
			if err != nil {
				return err
			}
			printRaceTime(cmd, t)
			return nil
		},
	}

	renderCmd := &cobra.Command{
		Use:     "render MINUTES",
		Short:   "Render a minute count as m:ss or h:mm:ss",
		Example: `  marquee racetime render 85.6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("minutes must be a number, got %q", args[0])
			}
			t, err := racetime.FromMinutes(v)
			if err != nil {
				return err
			}
			printRaceTime(cmd, t)
			return nil
		},
	}

	cmd.AddCommand(parseCmd, renderCmd)
	return cmd
}

func printRaceTime(cmd *cobra.Command, t racetime.Time) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Time:    %s\n", t)
	fmt.Fprintf(out, "Minutes: %.4f\n", t.Value())
	fmt.Fprintf(out, "Parts:   %dh %dm %ds\n", t.Hours(), t.Minutes(), t.Seconds())
}
