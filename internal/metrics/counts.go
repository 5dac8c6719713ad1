package metrics

import (
	"math"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/docsteward/internal/lang"
)

// statementTypes are the node types counted as one logical line each.
var statementTypes = map[string]bool{
	"expression_statement":    true,
	"return_statement":        true,
	"pass_statement":          true,
	"break_statement":         true,
	"continue_statement":      true,
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"raise_statement":         true,
	"global_statement":        true,
	"nonlocal_statement":      true,
	"assert_statement":        true,
	"delete_statement":        true,
	"if_statement":            true,
	"elif_clause":             true,
	"else_clause":             true,
	"for_statement":           true,
	"while_statement":         true,
	"try_statement":           true,
	"except_clause":           true,
	"finally_clause":          true,
	"with_statement":          true,
	"match_statement":         true,
	"case_clause":             true,
	"function_definition":     true,
	"class_definition":        true,
}

// decisionTypes increment cyclomatic complexity by one each.
var decisionTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"boolean_operator":       true,
	"conditional_expression": true,
	"assert_statement":       true,
	"if_clause":              true,
	"case_clause":            true,
}

// rawCounts classifies every physical line of the file. A line is
// counted once, with multiline strings taking precedence over code.
func rawCounts(root *sitter.Node, source []byte) Raw {
	lines := strings.Split(string(source), "\n")
	loc := len(lines)
	if loc > 0 && lines[loc-1] == "" {
		loc-- // trailing newline does not open a new line
		lines = lines[:loc]
	}

	commentLines := make(map[int]bool)
	multiLines := make(map[int]bool)
	lloc := 0

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		t := n.Type()
		if statementTypes[t] {
			lloc++
		}
		switch t {
		case "comment":
			commentLines[int(n.StartPoint().Row)] = true
		case "string":
			start, end := int(n.StartPoint().Row), int(n.EndPoint().Row)
			if end > start {
				for l := start; l <= end; l++ {
					multiLines[l] = true
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)

	raw := Raw{LOC: loc, LLOC: lloc}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			raw.Blank++
		case multiLines[i]:
			raw.Multi++
		case commentLines[i] && strings.HasPrefix(trimmed, "#"):
			raw.Comments++
		default:
			raw.SLOC++
		}
	}
	return raw
}

// complexityBlocks scores every function and method. Nested defs are
// scored as their own blocks and excluded from the enclosing score.
func complexityBlocks(root *sitter.Node, source []byte) []Block {
	var blocks []Block

	var visit func(n *sitter.Node, inClass bool)
	visit = func(n *sitter.Node, inClass bool) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "function_definition":
				kind := "function"
				if inClass {
					kind = "method"
				}
				cc := 1 + countDecisions(child.ChildByFieldName("body"))
				blocks = append(blocks, Block{
					Type:       kind,
					Name:       nodeName(child, source),
					Line:       int(child.StartPoint().Row) + 1,
					Complexity: cc,
					Rank:       rank(cc),
				})
				if body := child.ChildByFieldName("body"); body != nil {
					visit(body, false)
				}
			case "class_definition":
				if body := child.ChildByFieldName("body"); body != nil {
					visit(body, true)
				}
			default:
				visit(child, inClass)
			}
		}
	}
	visit(root, false)
	return blocks
}

// countDecisions counts decision points in a subtree, stopping at
// nested function definitions.
func countDecisions(n *sitter.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "function_definition" {
			continue
		}
		if decisionTypes[child.Type()] {
			count++
		}
		count += countDecisions(child)
	}
	return count
}

// rank maps a complexity score to radon's letter scale.
func rank(cc int) string {
	switch {
	case cc <= 5:
		return "A"
	case cc <= 10:
		return "B"
	case cc <= 20:
		return "C"
	case cc <= 30:
		return "D"
	case cc <= 40:
		return "E"
	default:
		return "F"
	}
}

// halsteadVolume approximates Halstead volume from leaf tokens:
// identifiers and literals are operands, everything else an operator.
func halsteadVolume(root *sitter.Node, source []byte) float64 {
	operators := make(map[string]int)
	operands := make(map[string]int)

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.ChildCount() == 0 {
			switch t := n.Type(); t {
			case "comment":
			case "identifier", "integer", "float", "string_content",
				"true", "false", "none":
				operands[lang.NodeText(n, source)]++
			default:
				operators[t]++
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)

	n1, n2 := len(operators), len(operands)
	var total int
	for _, c := range operators {
		total += c
	}
	for _, c := range operands {
		total += c
	}
	if n1+n2 == 0 || total == 0 {
		return 0
	}
	return float64(total) * math.Log2(float64(n1+n2))
}

// maintainability applies radon's normalized maintainability index
// formula, clamped to [0, 100].
func maintainability(volume float64, complexity int, raw Raw) float64 {
	sloc := float64(raw.SLOC + raw.Multi)
	if sloc == 0 {
		return 100
	}
	var commentRadians float64
	if raw.SLOC > 0 {
		percent := float64(raw.Comments) / float64(raw.SLOC) * 100
		commentRadians = percent * math.Pi / 180
	}
	lnV := 0.0
	if volume > 0 {
		lnV = math.Log(volume)
	}
	mi := 171 - 5.2*lnV - 0.23*float64(complexity) - 16.2*math.Log(sloc) +
		50*math.Sin(math.Sqrt(2.4*commentRadians))
	mi = mi * 100 / 171
	return math.Max(0, math.Min(100, mi))
}

func nodeName(node *sitter.Node, source []byte) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return lang.NodeText(n, source)
	}
	return ""
}
