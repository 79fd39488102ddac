package sheet

import (
	"strings"
	"time"
)

// PreviewMaxChars is the rune length of a list preview before it is cut.
const PreviewMaxChars = 100

// Summary is a sheet without its body, used by list views.
type Summary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Edited   bool      `json:"edited"`
	Chars    int       `json:"chars"`
	Preview  string    `json:"preview"`
}

// ToSummary converts a Sheet to a Summary by stripping the content.
func (s *Sheet) ToSummary() Summary {
	return Summary{
		ID:       s.ID,
		Title:    s.Title,
		Created:  s.Created,
		Modified: s.Modified,
		Edited:   s.Edited(),
		Chars:    CountChars(s.Content),
		Preview:  Preview(s.Content),
	}
}

// Preview returns the first line of content cut to PreviewMaxChars runes,
// always followed by "...".
func Preview(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	runes := []rune(first)
	if len(runes) > PreviewMaxChars {
		runes = runes[:PreviewMaxChars]
	}
	return string(runes) + "..."
}
