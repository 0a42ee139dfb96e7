package cmd

import (
	"fmt"
	"strings"

	"github.com/suderio/rpdice/internal/engine"
	"github.com/suderio/rpdice/internal/parser"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <expression>...",
	Short: "Roll an expression many times and print its distribution",
	Long: `Evaluates the same expression --rolls times against one generator and prints
the smallest, largest and mean total followed by a histogram of every total seen.
Advantage and repeats are applied before tallying, so "d20ra" tallies the kept result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rolls, _ := cmd.Flags().GetInt("rolls")
		width, _ := cmd.Flags().GetInt("width")
		quiet, _ := cmd.Flags().GetBool("quiet")
		expr := strings.Join(args, " ")

		if rolls < 1 {
			return fmt.Errorf("--rolls must be at least 1, got %d", rolls)
		}

		app, log, err := newSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		// Reject bad input before drawing the progress bar.
		first, err := app.Roll(expr)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), parser.MapError(err))
			return errRejected
		}

		tally := engine.NewTally()
		tally.Add(first.Total)

		bar := progressbar.NewOptions(rolls,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription(fmt.Sprintf("Rolling %s", expr)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetVisibility(!quiet),
		)
		_ = bar.Add(1)

		for i := 1; i < rolls; i++ {
			out, err := app.Roll(expr)
			if err != nil {
				return err
			}
			tally.Add(out.Total)
			_ = bar.Add(1)
		}
		_ = bar.Finish()

		log.Debug("simulation finished", zap.String("expr", expr), zap.Int("rolls", rolls))

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Rolls: %d\n", tally.Count)
		fmt.Fprintf(w, "Min: %d\n", tally.Min)
		fmt.Fprintf(w, "Max: %d\n", tally.Max)
		fmt.Fprintf(w, "Mean: %.2f\n", tally.Mean())
		for _, line := range tally.Histogram(width) {
			fmt.Fprintln(w, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntP("rolls", "n", 10000, "number of times to roll the expression")
	simulateCmd.Flags().Int("width", 40, "width of the histogram bars")
	simulateCmd.Flags().BoolP("quiet", "q", false, "hide the progress bar")
}
