package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID          string
	IncludeText *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	sheet.Sheet
	Sections []string `json:"sections"`
	Chars    int      `json:"chars"`
}

// Fetch retrieves a sheet by ID.
func Fetch(sheets *store.Collection, input FetchInput) (*FetchOutput, error) {
	s, err := getSheet(sheets, input.ID)
	if err != nil {
		return nil, err
	}

	out := &FetchOutput{
		Sheet:    s,
		Sections: sheet.SectionTitles(sheet.Split(s.Content)),
		Chars:    sheet.CountChars(s.Content),
	}
	if input.IncludeText != nil && !*input.IncludeText {
		out.Content = ""
	}
	return out, nil
}

// SectionsInput contains parameters for the Sections operation.
type SectionsInput struct {
	ID      string
	Section string // optional; return only this section (case-insensitive)
}

// SectionItem is one section of a sheet body.
type SectionItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Chars   int    `json:"chars"`
}

// SectionsOutput contains the result of the Sections operation.
type SectionsOutput struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Sections []SectionItem `json:"sections"`
}

// Sections splits a sheet into its level-2 sections.
func Sections(sheets *store.Collection, input SectionsInput) (*SectionsOutput, error) {
	s, err := getSheet(sheets, input.ID)
	if err != nil {
		return nil, err
	}

	parts := sheet.Split(s.Content)
	if name := strings.TrimSpace(input.Section); name != "" {
		found := sheet.FindSection(parts, name)
		if found == nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("section %q not found; available: %s",
				name, strings.Join(sheet.SectionTitles(parts), ", ")))
		}
		parts = []sheet.Section{*found}
	}

	items := make([]SectionItem, len(parts))
	for i, p := range parts {
		content := p.Content()
		items[i] = SectionItem{Title: p.Title, Content: content, Chars: sheet.CountChars(content)}
	}
	return &SectionsOutput{ID: s.ID, Title: s.Title, Sections: items}, nil
}
