package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phobologic/docsteward/internal/extract"
	"github.com/phobologic/docsteward/internal/report"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List declarations and their docstring status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := extract.File(args[0])
			if err != nil {
				return err
			}
			entities := report.Flatten(inv)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tSTART\tEND\tDOCUMENTED")
			for _, e := range entities {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n",
					e.Name, e.Kind, e.StartLine, e.EndLine, e.HasDoc)
			}
			return w.Flush()
		},
	}
}
