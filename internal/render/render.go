package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/sheet"
)

// Section is a rendered sheet section.
type Section struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// Renderer splits sheet content into sections and renders each one.
type Renderer struct {
	engine      Engine
	postProcess bool
}

// New builds a Renderer from configuration.
func New(cfg *config.Config) *Renderer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var engine Engine
	switch cfg.MarkdownEngine {
	case config.EngineBasic:
		engine = Basic{HardWraps: cfg.HardWrapsEnabled()}
	default:
		engine = NewGoldmark(cfg.HardWrapsEnabled(), cfg.AllowHTML)
	}
	return NewWith(engine, cfg.PostProcessEnabled())
}

// NewWith builds a Renderer around an explicit engine. A nil engine
// selects the Basic fallback.
func NewWith(engine Engine, postProcess bool) *Renderer {
	if engine == nil {
		engine = Basic{HardWraps: true}
	}
	return &Renderer{engine: engine, postProcess: postProcess}
}

// Fragment renders one Markdown fragment.
func (r *Renderer) Fragment(markdown string) (string, error) {
	out, err := r.engine.Render(markdown)
	if err != nil {
		return "", err
	}
	if r.postProcess {
		return PostProcess(out)
	}
	return out, nil
}

// Sections splits content and renders each section body.
func (r *Renderer) Sections(content string) ([]Section, error) {
	parts := sheet.Split(content)
	out := make([]Section, 0, len(parts))
	for _, p := range parts {
		body, err := r.Fragment(p.Content())
		if err != nil {
			return nil, err
		}
		out = append(out, Section{Title: p.Title, HTML: body})
	}
	return out, nil
}

// Document renders content as a sequence of section cards.
func (r *Renderer) Document(content string) (string, error) {
	sections, err := r.Sections(content)
	if err != nil {
		return "", err
	}
	return Wrap(sections), nil
}

// Wrap joins rendered sections into section cards with escaped titles.
func Wrap(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(`<div class="section"><h2>`)
		b.WriteString(html.EscapeString(s.Title))
		b.WriteString(`</h2><div class="section-content">`)
		b.WriteString(s.HTML)
		b.WriteString("</div></div>\n")
	}
	return b.String()
}
