package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"baml/internal/ast"
	"baml/internal/lexer"
	"baml/internal/parser"
	"baml/internal/source"
	"baml/internal/token"
)

func parseDoc(t *testing.T, input string) *ast.Document {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("render.baml", []byte(input))
	toks, err := lexer.Tokenize(fs.Get(id))
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	doc, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func renderPretty(t *testing.T, input string) string {
	t.Helper()
	out, err := String(parseDoc(t, input), Options{})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return out
}

func expectRender(t *testing.T, input string, lines ...string) {
	t.Helper()
	want := strings.Join(lines, "\n") + "\n"
	if diff := cmp.Diff(want, renderPretty(t, input)); diff != "" {
		t.Fatalf("render %q mismatch (-want +got):\n%s", input, diff)
	}
}

func TestRenderSelfClosing(t *testing.T) {
	expectRender(t, "br", "<br />")
	expectRender(t, "br\nhr", "<br />", "<hr />")
}

func TestRenderEmptyBlock(t *testing.T) {
	expectRender(t, "div { }", "<div>", "</div>")
	expectRender(t, "ul { li { } }", "<ul>", "  <li>", "  </li>", "</ul>")
}

func TestRenderRepeatedClass(t *testing.T) {
	expectRender(t, "div.a.b", `<div class="a b" />`)
}

func TestRenderAttributes(t *testing.T) {
	expectRender(t, `a#home.nav href="/" title=${page.title}`,
		`<a id="home" class="nav" href="/" title="page.title" />`)
}

func TestRenderNoEscaping(t *testing.T) {
	expectRender(t, `p title="a<b" "x & <y>"`, `<p title="a<b">x & <y></p>`)
}

func TestRenderNesting(t *testing.T) {
	expectRender(t, `outer { inner "text" }`,
		"<outer>",
		"  <inner>text</inner>",
		"</outer>",
	)
}

func TestRenderHelloWorld(t *testing.T) {
	got := renderPretty(t, `html { head { title "Hello World" } body { h1 "Hello World" } } `)
	want := "<html>\n" +
		"  <head>\n" +
		"    <title>Hello World</title>\n" +
		"  </head>\n" +
		"  <body>\n" +
		"    <h1>Hello World</h1>\n" +
		"  </body>\n" +
		"</html>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hello world mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderExprInBlockPosition(t *testing.T) {
	// грамматика такого не строит, но узел должен печататься
	outer := ast.NewTag("div", source.Span{})
	outer.SetChildren([]ast.Node{
		ast.NewExpr(token.Token{Kind: token.DString, Text: "one"}),
		ast.NewExpr(token.Token{Kind: token.Expansion, Text: "two"}),
	})
	doc := &ast.Document{Nodes: []ast.Node{
		outer,
		ast.NewExpr(token.Token{Kind: token.SString, Text: "top"}),
	}}
	got, err := String(doc, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n  one\n  two\n</div>\ntop\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIndentOptions(t *testing.T) {
	doc := parseDoc(t, "ul { li { } }")
	got, err := String(doc, Options{IndentWidth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got != "<ul>\n    <li>\n    </li>\n</ul>\n" {
		t.Fatalf("unexpected 4-space output %q", got)
	}
	got, err = String(doc, Options{UseTabs: true})
	if err != nil {
		t.Fatal(err)
	}
	if got != "<ul>\n\t<li>\n\t</li>\n</ul>\n" {
		t.Fatalf("unexpected tab output %q", got)
	}
}

func TestRenderCompact(t *testing.T) {
	doc := parseDoc(t, `html { body.main { h1 "Hi"; br; p title="a<b" ${x} } }`)
	var buf bytes.Buffer
	if err := Render(&buf, doc, Options{Mode: ModeCompact}); err != nil {
		t.Fatal(err)
	}
	want := `<html><body class="main"><h1>Hi</h1><br><p title="a<b">x</p></body></html>`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("compact mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderWriterPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, parseDoc(t, "br"), Options{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<br />\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestRenderNilDocument(t *testing.T) {
	if err := Render(&bytes.Buffer{}, nil, Options{}); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModePretty, "pretty": ModePretty, "compact": ModeCompact} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("xml"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
