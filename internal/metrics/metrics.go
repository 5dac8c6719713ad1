// Package metrics computes raw line counts, cyclomatic complexity and
// a maintainability index for Python source files. The formulas follow
// radon's definitions; Halstead volume is approximated from token
// counts.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/phobologic/docsteward/internal/extract"
	"github.com/phobologic/docsteward/internal/lang"
	"github.com/phobologic/docsteward/internal/model"
)

// Raw holds line-count metrics for one file.
type Raw struct {
	LOC      int `json:"loc"`
	LLOC     int `json:"lloc"`
	SLOC     int `json:"sloc"`
	Comments int `json:"comments"`
	Multi    int `json:"multi"`
	Blank    int `json:"blank"`
}

// Block is a per-declaration complexity score.
type Block struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Line       int    `json:"line"`
	Complexity int    `json:"complexity"`
	Rank       string `json:"rank"`
}

// Report bundles all metrics for one file.
type Report struct {
	Raw                  Raw     `json:"raw"`
	Complexity           []Block `json:"complexity"`
	MaintainabilityIndex float64 `json:"maintainability_index"`
}

// FunctionScore pairs a callable with its complexity and docstring
// status, keyed by name against the complexity blocks.
type FunctionScore struct {
	Name       string `json:"name"`
	Complexity int    `json:"complexity"`
	Line       int    `json:"line"`
	HasDoc     bool   `json:"has_docstring"`
}

// Analyze computes all metrics for a file.
func Analyze(path string) (*Report, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return AnalyzeSource(source)
}

// AnalyzeSource computes all metrics from raw source text.
func AnalyzeSource(source []byte) (*Report, error) {
	py := lang.Languages["python"]
	parser := py.NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	raw := rawCounts(root, source)
	blocks := complexityBlocks(root, source)

	total := 0
	for _, b := range blocks {
		total += b.Complexity
	}

	return &Report{
		Raw:                  raw,
		Complexity:           blocks,
		MaintainabilityIndex: maintainability(halsteadVolume(root, source), total, raw),
	}, nil
}

// FunctionComplexity returns every callable in the file with its
// complexity score, line and docstring status, sorted by line. A
// callable without a matching complexity block scores 1.
func FunctionComplexity(path string) ([]FunctionScore, error) {
	rep, err := Analyze(path)
	if err != nil {
		return nil, err
	}
	inv, err := extract.File(path)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(rep.Complexity))
	for _, b := range rep.Complexity {
		byName[b.Name] = b.Complexity
	}

	var scores []FunctionScore
	inv.Walk(func(d *model.Declaration) {
		if !d.Kind.Callable() {
			return
		}
		cc, ok := byName[d.Name]
		if !ok {
			cc = 1
		}
		scores = append(scores, FunctionScore{
			Name:       d.Name,
			Complexity: cc,
			Line:       d.StartLine,
			HasDoc:     d.HasDoc,
		})
	})
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Line < scores[j].Line })
	return scores, nil
}

// WriteJSON persists the maintainability index and per-function
// complexity to an indented JSON document.
func WriteJSON(mi float64, scores []FunctionScore, path string) error {
	doc := struct {
		MaintainabilityIndex float64         `json:"maintainability_index"`
		FunctionComplexity   []FunctionScore `json:"function_complexity"`
	}{math.Round(mi*100) / 100, scores}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
