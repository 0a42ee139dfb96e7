/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/suderio/rpdice/internal/session"

	"github.com/spf13/cobra"
)

var rollCmd = &cobra.Command{
	Use:   "roll <expression>...",
	Short: "Roll a single expression and exit",
	Long: `Evaluates one dice expression and prints the breakdown. Arguments are joined,
so "rpdice roll 4d6kh3 r6" and "rpdice roll 4d6kh3r6" are the same roll.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeOnce(cmd, strings.Join(args, " "))
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <cel-expression>",
	Short: "Evaluate a CEL predicate over rolls",
	Long: `Evaluates a CEL expression where roll("<dice>") rolls an expression and
returns its total, e.g.

	rpdice check 'roll("d20+5") >= 15'
	rpdice check 'math.greatest(roll("2d6"), roll("d12"))'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeOnce(cmd, session.CheckPrefix+strings.Join(args, " "))
	},
}

func executeOnce(cmd *cobra.Command, line string) error {
	app, log, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reply := app.Execute(line)
	for _, l := range reply.Lines {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	if reply.Err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), reply.ErrLine)
		return errRejected
	}
	return nil
}

func init() {
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(checkCmd)
}
