/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive line-oriented shell (default)",
	Long: `Starts the read-eval-print loop. Each line is one roll:
	> 4d6kh3+2d4-1
	> d20+5ra
	> @fireball
	> ?roll("d20+5") >= 15
Type q to quit.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func runREPL(cmd *cobra.Command, args []string) error {
	app, log, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Debug("starting repl", zap.Int("macros", app.Macros().Len()))
	return app.Run(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func init() {
	rootCmd.AddCommand(replCmd)
}
