package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/spf13/cobra"
)

func newTablesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the configured table kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tGROUP\tLABEL\tREQUIRED COLUMNS")
			for _, def := range core.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					def.Info.Kind, def.Info.Group, def.Info.Label, strings.Join(def.RequiredColumns, ", "))
			}
			return tw.Flush()
		},
	}
}
