package docgen

import (
	"strings"
	"testing"
)

func TestDocstringFunction(t *testing.T) {
	t.Parallel()

	got := Docstring("add_numbers", []string{"a", "b"}, false, 4)
	want := `    """Add numbers.

    Args:
        a: Description of a.
        b: Description of b.

    Returns:
        Description of the return value.
    """`
	if got != want {
		t.Errorf("Docstring mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDocstringClass(t *testing.T) {
	t.Parallel()

	got := Docstring("RecordKeeper", nil, true, 4)
	if strings.Contains(got, "Returns:") {
		t.Error("class docstring must not contain a Returns section")
	}
	if strings.Contains(got, "Args:") {
		t.Error("class docstring without params must not contain Args")
	}
	if !strings.HasPrefix(got, `    """Recordkeeper.`) {
		t.Errorf("unexpected first line: %q", got)
	}
}

func TestDocstringNoParams(t *testing.T) {
	t.Parallel()

	got := Docstring("run", nil, false, 8)
	if strings.Contains(got, "Args:") {
		t.Error("Args section present without params")
	}
	if !strings.Contains(got, "        Returns:\n") {
		t.Errorf("Returns section missing or mis-indented:\n%s", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if line != "" && !strings.HasPrefix(line, "        ") {
			t.Errorf("line %q not indented to 8", line)
		}
	}
}

func TestModuleDocstring(t *testing.T) {
	t.Parallel()

	got := ModuleDocstring("lib/sample_a.py")
	want := `"""Sample_a.py module."""`
	if got != want {
		t.Errorf("ModuleDocstring = %q, want %q", got, want)
	}
}
