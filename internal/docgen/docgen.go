// Package docgen generates placeholder Google-style docstrings.
package docgen

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Docstring builds a baseline Google-style docstring block for a
// declaration. The first line is the name as a phrase (underscores
// replaced by spaces, capitalized) followed by a period; callables get
// an Args section per parameter and, unless isClass, a generic Returns
// section. Every line is indented by indent spaces. The block carries
// no trailing newline.
//
// This is template generation only: no attempt is made to infer real
// parameter or return semantics.
func Docstring(name string, params []string, isClass bool, indent int) string {
	prefix := strings.Repeat(" ", indent)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(`"""`)
	b.WriteString(phrase(name))
	b.WriteString(".\n\n")

	if len(params) > 0 {
		b.WriteString(prefix)
		b.WriteString("Args:\n")
		for _, p := range params {
			b.WriteString(prefix)
			b.WriteString("    ")
			b.WriteString(p)
			b.WriteString(": Description of ")
			b.WriteString(p)
			b.WriteString(".\n")
		}
	}

	if !isClass {
		b.WriteString("\n")
		b.WriteString(prefix)
		b.WriteString("Returns:\n")
		b.WriteString(prefix)
		b.WriteString("    Description of the return value.\n")
	}

	b.WriteString(prefix)
	b.WriteString(`"""`)
	return b.String()
}

// ModuleDocstring builds the single-line placeholder inserted at the
// top of an undocumented file. The file's base name is kept verbatim
// apart from capitalization.
func ModuleDocstring(path string) string {
	return `"""` + capitalize(filepath.Base(path)) + ` module."""`
}

// phrase turns an identifier into a human-readable phrase: underscores
// become spaces, the first rune is uppered and the rest lowered.
func phrase(name string) string {
	return capitalize(strings.ReplaceAll(name, "_", " "))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
