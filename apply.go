package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/docsteward/internal/extract"
	"github.com/phobologic/docsteward/internal/insert"
)

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file>...",
		Short: "Insert placeholder docstrings for undocumented declarations",
		Long: `Rewrite each file in place, adding a Google-style placeholder
docstring to every module, class, function and method that lacks one.
Files that fail to parse or write are reported and skipped; the other
files are still processed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				inv, err := extract.File(path)
				if err != nil {
					log.Error().Str("file", path).Err(err).Msg("cannot analyze file")
					failed++
					continue
				}
				n, err := insert.Apply(path, inv)
				if err != nil {
					log.Error().Str("file", path).Err(err).Msg("cannot rewrite file")
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d docstrings added\n", path, n)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}
