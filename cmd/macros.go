/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/suderio/rpdice/internal/macros"

	"github.com/spf13/cobra"
)

// macrosCmd lists the macros loaded from the configured YAML files
var macrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List the configured roll macros",
	Long: `Loads every file given with --macros (or the "macros" config key) and prints
the resulting name/expression table. Later files override earlier ones.

A macro file looks like:

	macros:
	  fireball: 8d6
	  stats: 4d6kh3 r6

and is used in the shell as @fireball or @fireball+2.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := newSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		book := app.Macros()
		if book.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No macros loaded.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range book.Names() {
			expr, _ := book.Get(name)
			fmt.Fprintf(w, "%s%s\t%s\n", macros.Prefix, name, expr)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(macrosCmd)
}
