package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"go-stylize/filters"
)

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "List available effects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range filters.Effects.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(effectsCmd)
}

// foldedIs reports whether effect names a and b match ignoring case.
func foldedIs(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
