package extract

import (
	"errors"
	"testing"

	"github.com/phobologic/docsteward/internal/model"
)

func mustExtract(t *testing.T, source string) *model.Inventory {
	t.Helper()
	inv, err := Source("test.py", []byte(source))
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	return inv
}

func TestExtractFunction(t *testing.T) {
	t.Parallel()

	inv := mustExtract(t, "def hello(name):\n    pass\n")

	if got := len(inv.Module.Children); got != 1 {
		t.Fatalf("expected 1 child, got %d", got)
	}
	d := inv.Module.Children[0]
	if d.Name != "hello" {
		t.Errorf("name = %q, want hello", d.Name)
	}
	if d.Kind != model.Function {
		t.Errorf("kind = %q, want function", d.Kind)
	}
	if d.StartLine != 1 || d.EndLine != 2 {
		t.Errorf("span = %d-%d, want 1-2", d.StartLine, d.EndLine)
	}
	if d.HasDoc {
		t.Error("HasDoc = true for undocumented function")
	}
	if len(d.Params) != 1 || d.Params[0] != "name" {
		t.Errorf("params = %v, want [name]", d.Params)
	}
}

func TestExtractClassWithMethods(t *testing.T) {
	t.Parallel()

	source := `class Greeter:
    """Says hello."""

    def greet(self, name):
        """Greets."""
        return name

    def silent(self, quietly=True):
        pass
`
	inv := mustExtract(t, source)

	if got := len(inv.Module.Children); got != 1 {
		t.Fatalf("expected 1 class, got %d", got)
	}
	cls := inv.Module.Children[0]
	if cls.Kind != model.Class || cls.Name != "Greeter" {
		t.Fatalf("got %s %q, want class Greeter", cls.Kind, cls.Name)
	}
	if !cls.HasDoc {
		t.Error("class docstring not detected")
	}
	if len(cls.Children) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(cls.Children))
	}

	greet := cls.Children[0]
	if greet.Kind != model.Method {
		t.Errorf("kind = %q, want method", greet.Kind)
	}
	if !greet.HasDoc {
		t.Error("method docstring not detected")
	}
	if len(greet.Params) != 1 || greet.Params[0] != "name" {
		t.Errorf("params = %v, want [name] (self excluded)", greet.Params)
	}

	silent := cls.Children[1]
	if silent.HasDoc {
		t.Error("HasDoc = true for undocumented method")
	}
	if len(silent.Params) != 1 || silent.Params[0] != "quietly" {
		t.Errorf("params = %v, want [quietly]", silent.Params)
	}
}

func TestExtractModuleDocstring(t *testing.T) {
	t.Parallel()

	inv := mustExtract(t, "\"\"\"A module.\"\"\"\n\nx = 1\n")
	if !inv.Module.HasDoc {
		t.Error("module docstring not detected")
	}
	if inv.Module.StartLine != 1 {
		t.Errorf("module start = %d, want 1", inv.Module.StartLine)
	}
	if inv.Module.Kind != model.Module {
		t.Errorf("module kind = %q", inv.Module.Kind)
	}
}

func TestCommentIsNotDocstring(t *testing.T) {
	t.Parallel()

	inv := mustExtract(t, "# a comment, not a docstring\ndef f():\n    # still a comment\n    pass\n")
	if inv.Module.HasDoc {
		t.Error("comment counted as module docstring")
	}
	if inv.Module.Children[0].HasDoc {
		t.Error("comment counted as function docstring")
	}
}

func TestExtractAsyncAndDecorated(t *testing.T) {
	t.Parallel()

	source := `import functools

@functools.cache
def cached(key):
    pass

async def fetch(url, timeout=5):
    pass
`
	inv := mustExtract(t, source)

	if got := len(inv.Module.Children); got != 2 {
		t.Fatalf("expected 2 callables, got %d", got)
	}
	cached := inv.Module.Children[0]
	if cached.Name != "cached" {
		t.Errorf("name = %q, want cached", cached.Name)
	}
	// The declaration starts at the def line, not the decorator.
	if cached.StartLine != 4 {
		t.Errorf("start = %d, want 4", cached.StartLine)
	}

	fetch := inv.Module.Children[1]
	if fetch.Name != "fetch" || fetch.Kind != model.Function {
		t.Errorf("got %s %q, want function fetch", fetch.Kind, fetch.Name)
	}
	if len(fetch.Params) != 2 || fetch.Params[0] != "url" || fetch.Params[1] != "timeout" {
		t.Errorf("params = %v, want [url timeout]", fetch.Params)
	}
}

func TestSplatAndTypedParams(t *testing.T) {
	t.Parallel()

	inv := mustExtract(t, "def f(a: int, b=2, *args, **kwargs):\n    pass\n")
	got := inv.Module.Children[0].Params
	want := []string{"a", "b", "args", "kwargs"}
	if len(got) != len(want) {
		t.Fatalf("params = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("param %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClsExcluded(t *testing.T) {
	t.Parallel()

	source := `class C:
    @classmethod
    def make(cls, value):
        pass
`
	inv := mustExtract(t, source)
	params := inv.Module.Children[0].Children[0].Params
	if len(params) != 1 || params[0] != "value" {
		t.Errorf("params = %v, want [value]", params)
	}
}

func TestNestedDefNotExtracted(t *testing.T) {
	t.Parallel()

	source := `def outer():
    def inner():
        pass
    return inner
`
	inv := mustExtract(t, source)
	if got := len(inv.Module.Children); got != 1 {
		t.Fatalf("expected 1 function, got %d", got)
	}
	if inv.Module.Children[0].Name != "outer" {
		t.Errorf("name = %q, want outer", inv.Module.Children[0].Name)
	}
}

func TestDeclarationOrderPreserved(t *testing.T) {
	t.Parallel()

	source := `def first():
    pass

class Second:
    def method(self):
        pass

def third():
    pass
`
	inv := mustExtract(t, source)
	var names []string
	inv.Walk(func(d *model.Declaration) {
		names = append(names, d.Name)
	})
	want := []string{"Module", "first", "Second", "method", "third"}
	if len(names) != len(want) {
		t.Fatalf("walk = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("walk[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSyntaxErrorReturnsParseError(t *testing.T) {
	t.Parallel()

	_, err := Source("broken.py", []byte("def f(:\n"))
	if err == nil {
		t.Fatal("expected error for broken source")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Path != "broken.py" {
		t.Errorf("path = %q, want broken.py", pe.Path)
	}
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := File("does/not/exist.py"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
