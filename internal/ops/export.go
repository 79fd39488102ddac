package ops

import (
	"path/filepath"
	"strings"

	"github.com/hpungsan/crib/internal/store"
)

// ExportExtension is the extension of exported cheatsheet files.
const ExportExtension = ".md"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	ID   string // required
	Path string // optional; full destination path
	Dir  string // optional; destination directory when Path is empty
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// ExportFileName returns the download/export filename for a title.
func ExportFileName(title string) string {
	return SanitizeForFilename(title) + ExportExtension
}

// Export writes a cheatsheet's content to a markdown file. Without Path the
// file is named after the title inside Dir (default ~/.crib/exports).
func Export(sheets *store.Collection, input ExportInput) (*ExportOutput, error) {
	s, err := getSheet(sheets, input.ID)
	if err != nil {
		return nil, err
	}

	path := strings.TrimSpace(input.Path)
	if path == "" {
		dir := strings.TrimSpace(input.Dir)
		if dir == "" {
			dir, err = DefaultExportsDir()
			if err != nil {
				return nil, err
			}
		}
		path = filepath.Join(dir, ExportFileName(s.Title))
	}

	if err := ValidatePath(path, PathCheckWrite, []string{ExportExtension, ".markdown", ".txt"}); err != nil {
		return nil, err
	}

	data := []byte(s.Content)
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}

	return &ExportOutput{
		ID:    s.ID,
		Title: s.Title,
		Path:  path,
		Bytes: len(data),
	}, nil
}
