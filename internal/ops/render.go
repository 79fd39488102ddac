package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/render"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// RenderInput contains parameters for the Render operation.
type RenderInput struct {
	ID      string
	Section string // optional; render only this section
}

// RenderOutput contains the result of the Render operation.
type RenderOutput struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	HTML     string           `json:"html"`
	Sections []render.Section `json:"sections"`
}

// Render renders a sheet to HTML section cards.
func Render(sheets *store.Collection, r *render.Renderer, input RenderInput) (*RenderOutput, error) {
	s, err := getSheet(sheets, input.ID)
	if err != nil {
		return nil, err
	}

	content := s.Content
	if name := strings.TrimSpace(input.Section); name != "" {
		parts := sheet.Split(content)
		found := sheet.FindSection(parts, name)
		if found == nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("section %q not found; available: %s",
				name, strings.Join(sheet.SectionTitles(parts), ", ")))
		}
		content = found.Content()
		if found.Title != sheet.IntroductionTitle {
			// Re-add the heading so the section keeps its title
			content = "## " + found.Title + "\n" + content
		}
	}

	sections, err := r.Sections(content)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &RenderOutput{
		ID:       s.ID,
		Title:    s.Title,
		HTML:     render.Wrap(sections),
		Sections: sections,
	}, nil
}
