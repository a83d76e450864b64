package calf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const googleDoc = `Do something interesting.

	Spanning multiple lines.

	Args:
		var1: (-i) this is var1
		var2: (-f) var2 is a flag
		var3: (-v) var3 has a default
			and a long description
		var4: (-x) var4 is command line only

	Returns:
		nothing useful
	`

func TestGoogleDocParser(t *testing.T) {
	summary, infos := GoogleDocParser(googleDoc)
	if want := "Do something interesting.\n\nSpanning multiple lines.\n\n"; summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}
	wantNames := []string{"var1", "var2", "var3", "var4"}
	for _, n := range wantNames {
		if _, ok := infos[n]; !ok {
			t.Errorf("missing info for %s", n)
		}
	}
	if len(infos) != len(wantNames) {
		t.Errorf("got %d infos, want %d", len(infos), len(wantNames))
	}
	if got := infos["var1"].Desc; got != "(-i) this is var1" {
		t.Errorf("var1 desc = %q", got)
	}
	if got := infos["var3"].Desc; got != "(-v) var3 has a default and a long description" {
		t.Errorf("var3 desc = %q", got)
	}
}

func TestGoogleDocParserTypedNames(t *testing.T) {
	doc := `Summary.

Args:
    count (int): how many
    name str: who
`
	_, infos := GoogleDocParser(doc)
	want := map[string]*ParamInfo{
		"count": {Desc: "how many"},
		"name":  {Desc: "who"},
	}
	if diff := cmp.Diff(want, infos); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGoogleDocParserNoArgsSection(t *testing.T) {
	summary, infos := GoogleDocParser("Just a summary.\n\nReturns:\n    a value\n")
	if summary != "Just a summary.\n\n" {
		t.Errorf("summary = %q", summary)
	}
	if len(infos) != 0 {
		t.Errorf("got %d infos, want none", len(infos))
	}
}

func TestPlainDocParser(t *testing.T) {
	summary, infos := PlainDocParser("\n\tIndented summary.\n\n\tMore text.\n\n")
	if want := "Indented summary.\n\nMore text."; summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}
	if len(infos) != 0 {
		t.Errorf("got %d infos, want none", len(infos))
	}
}

func TestSphinxDocParser(t *testing.T) {
	doc := `Frobnicate the widget.

:param alpha: the first thing
:param beta: the second thing,
    continued on the next line
:returns: the result
:raises ValueError: sometimes
`
	summary, infos := SphinxDocParser(doc)
	if want := "Frobnicate the widget.\n\n"; summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}
	want := map[string]*ParamInfo{
		"alpha": {Desc: "the first thing"},
		"beta":  {Desc: "the second thing, continued on the next line"},
	}
	if diff := cmp.Diff(want, infos); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSphinxDocParserEpydocMarkers(t *testing.T) {
	doc := `Summary.

@param gamma: with at-sign
`
	_, infos := SphinxDocParser(doc)
	if info, ok := infos["gamma"]; !ok || info.Desc != "with at-sign" {
		t.Errorf("infos = %+v", infos)
	}
}

func TestNumpyDocParser(t *testing.T) {
	doc := `Compute things.

Parameters
----------
x : int
    the first input
y : str
    the second input,
    wrapped

Returns
-------
int
    the answer
`
	summary, infos := NumpyDocParser(doc)
	if summary != "Compute things." {
		t.Errorf("summary = %q", summary)
	}
	want := map[string]*ParamInfo{
		"x": {Desc: "the first input"},
		"y": {Desc: "the second input, wrapped"},
	}
	if diff := cmp.Diff(want, infos); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNumpyDocParserNoSections(t *testing.T) {
	summary, infos := NumpyDocParser("Only a summary here.")
	if summary != "Only a summary here." {
		t.Errorf("summary = %q", summary)
	}
	if len(infos) != 0 {
		t.Errorf("got %d infos, want none", len(infos))
	}
}

func TestAllParsersEmptyInput(t *testing.T) {
	parsers := map[string]DocParser{
		"plain": PlainDocParser, "google": GoogleDocParser,
		"sphinx": SphinxDocParser, "numpy": NumpyDocParser,
	}
	for name, p := range parsers {
		t.Run(name, func(t *testing.T) {
			summary, infos := p("")
			if summary != "" {
				t.Errorf("summary = %q, want empty", summary)
			}
			if len(infos) != 0 {
				t.Errorf("infos = %v, want empty", infos)
			}
		})
	}
}

func TestDocParserRegistry(t *testing.T) {
	for _, name := range []string{"plain", "google", "sphinx", "numpy"} {
		if _, err := DocParserByName(name); err != nil {
			t.Errorf("DocParserByName(%q): %v", name, err)
		}
	}
	if _, err := DocParserByName("nope"); err == nil {
		t.Error("expected error for unregistered parser")
	}
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line", "  hello  ", "hello  "},
		{"common margin removed", "first\n    a\n      b\n", "first\na\n  b"},
		{"first line ignored for margin", "        first\n  a\n", "first\na"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanDoc(tt.in); got != tt.want {
				t.Errorf("cleanDoc(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
