package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"baml/internal/ast"
	"baml/internal/lexer"
	"baml/internal/parser"
	"baml/internal/source"
	"baml/internal/token"
)

func lexParse(t *testing.T, input string) (*source.FileSet, []token.Token, *ast.Document) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("dump.baml", []byte(input))
	toks, err := lexer.Tokenize(fs.Get(id))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := parser.Parse(toks)
	if err != nil {
		t.Fatal(err)
	}
	return fs, toks, doc
}

func TestFormatTokensPretty(t *testing.T) {
	fs, toks, _ := lexParse(t, `p.x "hi"`)
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"  1: Ident       \"p\" at 1:1-1:2\n" +
		"  2: Dot         at 1:2-1:3\n" +
		"  3: Ident       \"x\" at 1:3-1:4\n" +
		"  4: DString     \"hi\" at 1:5-1:9\n" +
		"  5: EOF         at 1:9-1:9\n"
	if buf.String() != want {
		t.Fatalf("mismatch:\nwant %q\ngot  %q", want, buf.String())
	}
}

func TestFormatTokensJSON(t *testing.T) {
	_, toks, _ := lexParse(t, "br")
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Kind != "Ident" || out[0].Text != "br" || out[1].Kind != "EOF" {
		t.Fatalf("unexpected tokens %+v", out)
	}
}

func TestFormatASTPretty(t *testing.T) {
	_, _, doc := lexParse(t, `ul.menu { li "a"; br; }`+"\n")
	var buf bytes.Buffer
	// без FileSet спаны печатаются байтовыми смещениями
	if err := FormatASTPretty(&buf, doc, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Document (span: span(",
		"└─ Tag ul (span: span(0-",
		"   ├─ Attr class = \"menu\"",
		"   ├─ Tag li",
		"   │  └─ Expr DString \"a\"",
		"   └─ Tag br (span: span(18-20)) self-closing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatASTJSON(t *testing.T) {
	_, _, doc := lexParse(t, `a href=${url} "go"`)
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, doc); err != nil {
		t.Fatal(err)
	}
	var out ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Children) != 1 {
		t.Fatalf("expected one child, got %+v", out)
	}
	a := out.Children[0]
	if a.Name != "a" || len(a.Attrs) != 1 || a.Attrs[0].Values[0] != "url" {
		t.Fatalf("unexpected tag %+v", a)
	}
	if len(a.Children) != 1 || a.Children[0].Text != "go" || a.Children[0].Source != "DString" {
		t.Fatalf("unexpected children %+v", a.Children)
	}
}
