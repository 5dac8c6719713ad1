package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/docsteward/internal/discover"
	"github.com/phobologic/docsteward/internal/model"
	"github.com/phobologic/docsteward/internal/report"
	"github.com/phobologic/docsteward/internal/store"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		output    string
		skipTests bool
		noPersist bool
	)

	cmd := &cobra.Command{
		Use:   "report [root | files...]",
		Short: "Generate a docstring coverage report",
		Long: `Analyze the given files (or every Python file under the given
directory, default ".") and print a coverage report as JSON. The report
is also written to the configured output path and, when history is
enabled, recorded in the history database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := selectFiles(args, opts, skipTests)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no analyzable files found")
			}

			rep := report.Generate(files)

			data, err := json.MarshalIndent(rep, "", "    ")
			if err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))

			if noPersist {
				return nil
			}
			if output == "" {
				output = opts.cfg.OutputOrDefault()
			}
			if err := report.WriteJSON(rep, output); err != nil {
				return err
			}
			log.Info().Str("path", output).Msg("report written")

			if opts.cfg.History.Enabled {
				recordHistory(opts, rep)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report JSON destination (overrides config)")
	cmd.Flags().BoolVar(&skipTests, "skip-tests", false, "exclude test files from the report")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "print the report without writing it anywhere")
	return cmd
}

// selectFiles resolves command arguments into a concrete file list.
// No arguments or a single directory argument triggers discovery;
// explicit file arguments are passed through untouched so that the
// aggregator's best-effort skip policy applies to them.
func selectFiles(args []string, opts *rootOptions, skipTests bool) ([]string, error) {
	root := "."
	switch {
	case len(args) == 0:
	case len(args) == 1 && isDir(args[0]):
		root = args[0]
	default:
		return args, nil
	}

	entries, err := discover.Files(root, []string{"python"})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	entries = discover.FilterBySize(root, entries, opts.cfg.Analyze.MaxFileSizeOrDefault())

	var files []string
	for _, e := range entries {
		if skipTests && discover.IsTestFile(e.Path) {
			continue
		}
		files = append(files, filepath.Join(root, e.Path))
	}
	return files, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// recordHistory appends the report to the history database. History is
// auxiliary: failures are logged and never fail the run.
func recordHistory(opts *rootOptions, rep *model.CoverageReport) {
	h := openHistory(opts)
	defer h.Close()
	h.Record(rep)
}

func openHistory(opts *rootOptions) *store.History {
	dbPath := opts.cfg.HistoryPath()
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn().Err(err).Msg("history store unavailable")
			return nil
		}
	}
	h, err := store.Open(dbPath)
	if err != nil {
		log.Warn().Err(err).Msg("history store unavailable")
		return nil
	}
	return h
}
