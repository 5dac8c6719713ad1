// Package report projects inventories into flat entity lists and
// aggregates docstring coverage over file sets.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/phobologic/docsteward/internal/extract"
	"github.com/phobologic/docsteward/internal/model"
)

// Flatten projects an inventory into a flat, display-ready entity
// list in depth-first pre-order: module-level callables and classes in
// source order, each class immediately before its methods. The module
// itself is not listed. Output is deterministic for identical input.
func Flatten(inv *model.Inventory) []model.Entity {
	var entities []model.Entity
	for i := range inv.Module.Children {
		c := &inv.Module.Children[i]
		entities = append(entities, toEntity(c))
		for j := range c.Children {
			entities = append(entities, toEntity(&c.Children[j]))
		}
	}
	return entities
}

func toEntity(d *model.Declaration) model.Entity {
	return model.Entity{
		Name:      d.Name,
		Kind:      d.Kind,
		StartLine: d.StartLine,
		EndLine:   d.EndLine,
		HasDoc:    d.HasDoc,
	}
}

// Generate analyzes the given files and produces a coverage report.
// Files that cannot be read or parsed are skipped with a warning and
// do not count toward FilesAnalyzed: the file set may be a glob that
// changed between selection and read, so the report is best effort.
//
// Per-file analyses share no state and run on a worker pool; the merge
// is plain addition, so worker completion order cannot affect the
// result. Overall coverage is computed from the raw summed counts, not
// from per-file percentages, to avoid bias toward small files.
func Generate(files []string) *model.CoverageReport {
	report := &model.CoverageReport{
		PerFile: make(map[string]model.FileCoverage, len(files)),
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan string, len(files))
	results := make(chan fileCount, len(files))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				results <- countFile(path)
			}
		}()
	}

	for _, f := range files {
		work <- f
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if !r.ok {
			continue
		}
		report.FilesAnalyzed++
		report.TotalEntities += r.total
		report.DocumentedEntities += r.documented
		report.PerFile[r.path] = model.FileCoverage{
			Coverage:   ratio(r.documented, r.total),
			Total:      r.total,
			Documented: r.documented,
		}
	}

	report.OverallCoverage = ratio(report.DocumentedEntities, report.TotalEntities)
	return report
}

type fileCount struct {
	path       string
	total      int
	documented int
	ok         bool
}

func countFile(path string) fileCount {
	r := fileCount{path: path}
	inv, err := extract.File(path)
	if err != nil {
		log.Warn().Str("file", path).Err(err).Msg("skipping unreadable file")
		return r
	}
	inv.Walk(func(d *model.Declaration) {
		r.total++
		if d.HasDoc {
			r.documented++
		}
	})
	r.ok = true
	return r
}

// ratio returns documented/total as a percentage rounded to 2 decimal
// places, or 0.0 when total is zero.
func ratio(documented, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(documented)/float64(total)*100*100) / 100
}

// WriteJSON persists a report as an indented JSON snapshot, creating
// parent directories as needed.
func WriteJSON(r *model.CoverageReport, path string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
