// Package model defines core data structures for docsteward.
package model

// Kind indicates the syntactic kind of a declaration.
type Kind string

const (
	Module   Kind = "module"
	Class    Kind = "class"
	Function Kind = "function"
	Method   Kind = "method"
)

// Callable reports whether the kind is a function or method.
func (k Kind) Callable() bool {
	return k == Function || k == Method
}

// Declaration is a single named entity found in a source file.
// StartLine and EndLine are 1-based and inclusive. Params never
// contains implicit receiver names (self, cls). The module root's
// Children are classes and module-level callables; a class's Children
// are its methods. Callables never carry Children.
type Declaration struct {
	Name      string
	Kind      Kind
	StartLine int
	EndLine   int
	HasDoc    bool
	Params    []string
	Children  []Declaration
}

// Inventory is the full declaration tree produced for one file by one
// analysis pass. Module is always the root and starts at line 1; its
// Children hold classes and module-level callables in source order.
type Inventory struct {
	Path   string
	Module Declaration
}

// Walk visits every declaration depth-first in source order: the
// module first, then each child, with a class visited immediately
// before its methods. This is the canonical iteration order for all
// downstream consumers.
func (inv *Inventory) Walk(fn func(d *Declaration)) {
	fn(&inv.Module)
	for i := range inv.Module.Children {
		c := &inv.Module.Children[i]
		fn(c)
		for j := range c.Children {
			fn(&c.Children[j])
		}
	}
}

// Entity is a flat, display-ready projection of a Declaration.
type Entity struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	HasDoc    bool   `json:"has_documentation"`
}

// FileCoverage holds per-file docstring statistics.
type FileCoverage struct {
	Coverage   float64 `json:"coverage"`
	Total      int     `json:"total"`
	Documented int     `json:"documented"`
}

// CoverageReport aggregates docstring coverage over a set of files.
// Constructed fresh per invocation and never mutated afterwards.
type CoverageReport struct {
	FilesAnalyzed      int                     `json:"files_analyzed"`
	TotalEntities      int                     `json:"total_entities"`
	DocumentedEntities int                     `json:"documented_entities"`
	PerFile            map[string]FileCoverage `json:"per_file"`
	OverallCoverage    float64                 `json:"overall_coverage"`
}
