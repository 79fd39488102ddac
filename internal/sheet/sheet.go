package sheet

import (
	"crypto/rand"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// IDPrefix is prepended to every generated cheatsheet ID.
const IDPrefix = "cs_"

// Sheet is a single stored cheatsheet.
type Sheet struct {
	// ID is "cs_" followed by a ULID, unique within the collection
	ID string `json:"id"`

	// Title is the display title
	Title string `json:"title"`

	// Content is the raw Markdown body
	Content string `json:"content"`

	// Created is when the sheet was first saved (UTC)
	Created time.Time `json:"created"`

	// Modified is refreshed on every edit (UTC)
	Modified time.Time `json:"modified"`
}

// NewID returns a fresh cheatsheet ID.
func NewID() string {
	return IDPrefix + ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Edited reports whether the sheet was modified after creation.
func (s *Sheet) Edited() bool {
	return !s.Modified.Equal(s.Created)
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// importExtensions are stripped from file names when deriving titles.
var importExtensions = []string{".md", ".markdown", ".txt"}

// ImportExtensions returns the file extensions accepted for import.
func ImportExtensions() []string {
	return append([]string(nil), importExtensions...)
}

// TitleFromFilename derives a title from a file name by dropping the
// directory and a recognised extension. Other extensions are kept.
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	for _, e := range importExtensions {
		if strings.EqualFold(ext, e) {
			return strings.TrimSpace(base[:len(base)-len(ext)])
		}
	}
	return strings.TrimSpace(base)
}
