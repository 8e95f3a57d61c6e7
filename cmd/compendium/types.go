package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the relationship type vocabulary",
		Long:  "Lists the fixed relationship type tags in display-priority order.",
		RunE:  runTypes,
	}
}

func runTypes(cmd *cobra.Command, args []string) error {
	return withStoreDeps(func(d *Deps) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tDESCRIPTION")
		for _, info := range d.Relationships.HandleTypes() {
			fmt.Fprintf(w, "%s\t%s\n", info.Type, info.Description)
		}
		w.Flush()

		return nil
	})
}
