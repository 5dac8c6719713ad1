package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/docsteward/internal/metrics"
)

func newMetricsCmd(opts *rootOptions) *cobra.Command {
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "metrics <file>",
		Short: "Show raw line counts, complexity and maintainability",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			rep, err := metrics.Analyze(path)
			if err != nil {
				return err
			}
			scores, err := metrics.FunctionComplexity(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "maintainability index: %.2f\n", rep.MaintainabilityIndex)
			fmt.Fprintf(out, "loc=%d lloc=%d sloc=%d comments=%d multi=%d blank=%d\n",
				rep.Raw.LOC, rep.Raw.LLOC, rep.Raw.SLOC,
				rep.Raw.Comments, rep.Raw.Multi, rep.Raw.Blank)

			w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLINE\tCOMPLEXITY\tDOCUMENTED")
			for _, s := range scores {
				fmt.Fprintf(w, "%s\t%d\t%d\t%t\n", s.Name, s.Line, s.Complexity, s.HasDoc)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if jsonPath != "" {
				if err := metrics.WriteJSON(rep.MaintainabilityIndex, scores, jsonPath); err != nil {
					return err
				}
				log.Info().Str("path", jsonPath).Msg("metrics written")
			}
			return nil
		},
	}

	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().StringVar(&jsonPath, "json", "", "also write metrics to this JSON path")
	return cmd
}
