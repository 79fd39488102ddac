package ops

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// ImportInput contains parameters for importing a cheatsheet from disk.
type ImportInput struct {
	Path  string // required; .md, .markdown or .txt
	Title string // optional; overrides the derived title
}

// ImportDataInput contains parameters for importing already-read file data.
type ImportDataInput struct {
	Name  string // original filename; drives the extension check and title
	Data  []byte
	Title string
}

// ImportOutput contains the result of an import.
type ImportOutput struct {
	SaveOutput
	Source string `json:"source"`
}

// frontMatter holds the fields read from a leading metadata block.
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// Import reads a markdown or text file and saves it as a new cheatsheet.
func Import(ctx context.Context, sheets *store.Collection, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if err := ValidatePath(input.Path, PathCheckRead, sheet.ImportExtensions()); err != nil {
		return nil, err
	}

	// Characters can take up to four bytes
	limit := int64(maxChars(cfg)) * utf8.UTFMax
	data, tooLarge, err := readFileLimited(input.Path, limit)
	if err != nil {
		return nil, err
	}
	if tooLarge {
		return nil, errors.NewContentTooLarge(maxChars(cfg), int(limit)+1)
	}

	return ImportData(ctx, sheets, cfg, ImportDataInput{
		Name:  filepath.Base(input.Path),
		Data:  data,
		Title: input.Title,
	})
}

// ImportData saves file data as a new cheatsheet.
func ImportData(ctx context.Context, sheets *store.Collection, cfg *config.Config, input ImportDataInput) (*ImportOutput, error) {
	draft, err := ParseImport(input)
	if err != nil {
		return nil, err
	}

	out, err := Save(ctx, sheets, cfg, SaveInput{Title: draft.Title, Content: draft.Content})
	if err != nil {
		return nil, err
	}
	return &ImportOutput{SaveOutput: *out, Source: draft.Source}, nil
}

// ImportDraft is an imported file ready for review before saving.
type ImportDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// ParseImport checks file data and derives its title without saving. The
// title comes from input.Title, then a front matter "title" field, then the
// filename with its extension removed. Content is kept as read.
func ParseImport(input ImportDataInput) (*ImportDraft, error) {
	name := filepath.Base(strings.TrimSpace(input.Name))
	if !hasExtension(name, sheet.ImportExtensions()) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unsupported file type %q: expected one of %s",
			filepath.Ext(name), strings.Join(sheet.ImportExtensions(), ", ")))
	}
	if !utf8.Valid(input.Data) {
		return nil, errors.NewInvalidRequest("file is not valid UTF-8 text")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = frontMatterTitle(input.Data)
	}
	if title == "" {
		title = sheet.TitleFromFilename(name)
	}

	return &ImportDraft{Title: title, Content: string(input.Data), Source: name}, nil
}

// frontMatterTitle returns the title field of a leading front matter
// block, or "" when there is none.
func frontMatterTitle(data []byte) string {
	var fm frontMatter
	if _, err := frontmatter.Parse(bytes.NewReader(data), &fm); err != nil {
		return ""
	}
	return strings.TrimSpace(fm.Title)
}
