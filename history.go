package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent coverage report snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := openHistory(opts)
			if h == nil {
				return fmt.Errorf("history store unavailable")
			}
			defer h.Close()

			snaps, err := h.Recent(limit)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no recorded reports")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tFILES\tCOVERAGE")
			for _, s := range snaps {
				fmt.Fprintf(w, "%s\t%d\t%.2f%%\n",
					s.Created.Format(time.DateTime), s.Files, s.Coverage)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of snapshots to show")
	return cmd
}
