package render

import (
	"strings"
	"testing"

	"github.com/hpungsan/crib/internal/config"
)

func TestRenderer_DocumentSections(t *testing.T) {
	r := NewWith(Basic{}, false)
	out, err := r.Document("pre\n## A\n**Def:** x is a value\n## <B>\nbody")
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	for _, want := range []string{
		`<div class="section"><h2>Introduction</h2><div class="section-content"><p>pre</p>`,
		`<h2>A</h2><div class="section-content"><div class="def"><strong>Def:</strong> x is a value</div>`,
		`<h2>&lt;B&gt;</h2>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Document() missing %q in:\n%s", want, out)
		}
	}
	if n := strings.Count(out, `<div class="section">`); n != 3 {
		t.Errorf("section count = %d, want 3", n)
	}
}

func TestRenderer_Sections(t *testing.T) {
	r := NewWith(nil, false)
	sections, err := r.Sections("## One\n- a\n## Two")
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}
	if len(sections) != 2 || sections[0].Title != "One" || sections[1].Title != "Two" {
		t.Fatalf("Sections() = %+v", sections)
	}
	if sections[0].HTML != "<ul><li>a</li></ul>\n" {
		t.Errorf("section One html = %q", sections[0].HTML)
	}
	if sections[1].HTML != "" {
		t.Errorf("section Two html = %q, want empty", sections[1].HTML)
	}
}

func TestNew_EngineSelection(t *testing.T) {
	basic := config.DefaultConfig()
	basic.MarkdownEngine = config.EngineBasic

	out, err := New(basic).Fragment("**Def:** y")
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	if !strings.Contains(out, `class="def"`) {
		t.Errorf("basic engine not selected: %q", out)
	}

	out, err = New(nil).Fragment("**Def:** y")
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	if strings.Contains(out, `class="def"`) || !strings.Contains(out, "<strong>Def:</strong>") {
		t.Errorf("goldmark engine not selected: %q", out)
	}
}

func TestGoldmark_CodeAndHardWraps(t *testing.T) {
	r := New(config.DefaultConfig())
	out, err := r.Fragment("line one\nline two\n\n```go\nfmt.Println(\"$x$\")\n```")
	if err != nil {
		t.Fatalf("Fragment() error = %v", err)
	}
	if !strings.Contains(out, "<br") {
		t.Errorf("hard wraps missing: %s", out)
	}
	if !strings.Contains(out, `data-lang="go"`) || !strings.Contains(out, "hljs") {
		t.Errorf("code block not annotated: %s", out)
	}
	if strings.Contains(out, "math-inline") {
		t.Errorf("math wrapped inside code: %s", out)
	}
}

func TestGoldmark_RawHTML(t *testing.T) {
	safe, err := NewGoldmark(true, false).Render("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(safe, "<script>") {
		t.Errorf("raw HTML passed through without allow_html: %s", safe)
	}

	unsafe, _ := NewGoldmark(true, true).Render("<em>kept</em>")
	if !strings.Contains(unsafe, "<em>kept</em>") {
		t.Errorf("raw HTML dropped with allow_html: %s", unsafe)
	}
}

func TestGoldmark_GFMTable(t *testing.T) {
	out, err := NewGoldmark(false, false).Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered: %s", out)
	}
}
