// Package insert rewrites source files to add missing docstrings.
package insert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phobologic/docsteward/internal/docgen"
	"github.com/phobologic/docsteward/internal/model"
)

// indentStep is the standard Python indent added below a header line.
const indentStep = 4

// pending is one synthesized block waiting to be spliced in. Line is
// the 1-based header start line of the declaration, or 0 for the
// module block at the top of the file.
type pending struct {
	line  int
	block string
}

// Apply synthesizes a docstring for every undocumented declaration in
// the inventory and rewrites the file in place, returning the number
// of blocks inserted. Running it again on the rewritten file inserts
// nothing.
//
// Insertions are applied in descending line order: splicing at a lower
// line first would shift every higher line and invalidate the
// remaining positions.
func Apply(path string, inv *model.Inventory) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	lines := splitLines(string(data))

	var todo []pending
	inv.Walk(func(d *model.Declaration) {
		if d.HasDoc {
			return
		}
		if d.Kind == model.Module {
			// Trailing newline yields a blank line between the module
			// docstring and the first statement.
			todo = append(todo, pending{line: 0, block: docgen.ModuleDocstring(path) + "\n"})
			return
		}
		indent := headerIndent(lines, d.StartLine) + indentStep
		block := docgen.Docstring(d.Name, d.Params, d.Kind == model.Class, indent)
		todo = append(todo, pending{line: d.StartLine, block: block})
	})
	if len(todo) == 0 {
		return 0, nil
	}

	sort.Slice(todo, func(i, j int) bool { return todo[i].line > todo[j].line })

	for _, p := range todo {
		if p.line == 0 {
			lines = splice(lines, 0, p.block+"\n")
			continue
		}
		lines = splice(lines, insertionIndex(lines, p.line), p.block+"\n")
	}

	if err := writeAtomic(path, strings.Join(lines, "")); err != nil {
		return 0, err
	}
	log.Debug().Str("file", path).Int("inserted", len(todo)).Msg("docstrings applied")
	return len(todo), nil
}

// insertionIndex finds the slice index immediately after the last
// physical line of a declaration header starting at headerLine. A
// header may wrap across several lines, so scan forward until the
// line carrying the terminating colon.
func insertionIndex(lines []string, headerLine int) int {
	idx := headerLine - 1
	for idx < len(lines) && !strings.Contains(lines[idx], ":") {
		idx++
	}
	return idx + 1
}

// headerIndent returns the leading whitespace width of the header line.
func headerIndent(lines []string, headerLine int) int {
	if headerLine < 1 || headerLine > len(lines) {
		return 0
	}
	s := lines[headerLine-1]
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

// splitLines splits text keeping line terminators, like readlines().
func splitLines(text string) []string {
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			if text != "" {
				lines = append(lines, text)
			}
			return lines
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
}

func splice(lines []string, idx int, line string) []string {
	if idx > len(lines) {
		idx = len(lines)
	}
	lines = append(lines, "")
	copy(lines[idx+1:], lines[idx:])
	lines[idx] = line
	return lines
}

// writeAtomic replaces the file contents via a temp file and rename,
// so a crash mid-write cannot leave a truncated file behind.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode())
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
