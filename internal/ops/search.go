package ops

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"unicode"

	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// Search limits
const (
	MaxQueryLength    = 200
	SnippetRadiusRune = 60
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string // required
	Limit  int    // default: 50, max: 500
	Offset int
}

// SearchResultItem wraps a Summary with a match snippet.
type SearchResultItem struct {
	sheet.Summary
	// Snippet is HTML-safe: content is escaped; only <b>...</b> highlight tags are present.
	Snippet    string `json:"snippet"`
	TitleMatch bool   `json:"title_match"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []SearchResultItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
	Sort       string             `json:"sort"`
}

// Search finds sheets whose title or content contains the query
// (case-insensitive). Title matches rank first; ties keep stored order.
func Search(sheets *store.Collection, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if sheet.CountChars(query) > MaxQueryLength {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryLength))
	}
	needle := foldRunes(query)

	var matches []SearchResultItem
	for _, s := range sheets.List() {
		titleMatch := runeIndex(foldRunes(s.Title), needle) >= 0
		content := []rune(s.Content)
		at := runeIndex(foldRunes(s.Content), needle)
		if !titleMatch && at < 0 {
			continue
		}
		item := SearchResultItem{Summary: s.ToSummary(), TitleMatch: titleMatch}
		if at >= 0 {
			item.Snippet = snippet(content, at, len(needle))
		} else {
			item.Snippet = html.EscapeString(strings.TrimSuffix(item.Preview, "..."))
		}
		matches = append(matches, item)
	}

	slices.SortStableFunc(matches, func(a, b SearchResultItem) int {
		switch {
		case a.TitleMatch == b.TitleMatch:
			return 0
		case a.TitleMatch:
			return -1
		default:
			return 1
		}
	})

	page, start, end := paginate(input.Limit, input.Offset, len(matches))
	items := make([]SearchResultItem, 0, end-start)
	items = append(items, matches[start:end]...)

	return &SearchOutput{
		Items:      items,
		Pagination: page,
		Sort:       "relevance",
	}, nil
}

// foldRunes lowercases rune by rune so indexes line up with the original.
func foldRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// snippet returns escaped context around content[at:at+n] with the match in <b>.
func snippet(content []rune, at, n int) string {
	start := max(at-SnippetRadiusRune, 0)
	end := min(at+n+SnippetRadiusRune, len(content))

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(html.EscapeString(flatten(content[start:at])))
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(flatten(content[at : at+n])))
	b.WriteString("</b>")
	b.WriteString(html.EscapeString(flatten(content[at+n : end])))
	if end < len(content) {
		b.WriteString("...")
	}
	return b.String()
}

// flatten collapses newlines so snippets stay on one line.
func flatten(r []rune) string {
	return strings.ReplaceAll(string(r), "\n", " ")
}
