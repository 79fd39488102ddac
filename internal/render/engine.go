// Package render turns cheatsheet Markdown into HTML sections.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Engine converts a Markdown fragment to HTML.
type Engine interface {
	Render(markdown string) (string, error)
}

// Goldmark is the full Markdown engine (GFM).
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark builds a goldmark engine. hardWraps renders single newlines
// as <br>; unsafe passes raw HTML through.
func NewGoldmark(hardWraps, unsafe bool) *Goldmark {
	var rendererOptions []renderer.Option
	if hardWraps {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}
	if unsafe {
		rendererOptions = append(rendererOptions, gmhtml.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &Goldmark{md: goldmark.New(engineOptions...)}
}

// Render implements Engine.
func (g *Goldmark) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}
