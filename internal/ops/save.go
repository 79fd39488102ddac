package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	ID      string // optional; when set the existing sheet is updated
	Title   string // required
	Content string // required
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	New      bool      `json:"new"`
	Chars    int       `json:"chars"`
}

// Save creates a sheet, or updates one when ID is set. Title and content
// are trimmed; both must be non-empty.
func Save(ctx context.Context, sheets *store.Collection, cfg *config.Config, input SaveInput) (*SaveOutput, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	if title == "" || content == "" {
		return nil, errors.NewInvalidRequest("please provide both title and content")
	}

	limit := maxChars(cfg)
	if n := sheet.CountChars(content); n > limit {
		return nil, errors.NewContentTooLarge(limit, n)
	}

	var (
		s     sheet.Sheet
		isNew bool
	)
	if id := strings.TrimSpace(input.ID); id != "" {
		updated, found, err := sheets.Update(ctx, id, title, content)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.NewNotFound(id)
		}
		s = updated
	} else {
		created, err := sheets.Create(ctx, title, content)
		if err != nil {
			return nil, err
		}
		s = created
		isNew = true
	}

	return &SaveOutput{
		ID:       s.ID,
		Title:    s.Title,
		Created:  s.Created,
		Modified: s.Modified,
		New:      isNew,
		Chars:    sheet.CountChars(s.Content),
	}, nil
}
