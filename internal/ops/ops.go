package ops

import (
	"strings"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// Pagination limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// paginate clamps limit/offset and returns the window bounds for total items.
func paginate(limit, offset, total int) (Pagination, int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset = max(offset, 0)
	start := min(offset, total)
	end := min(start+limit, total)
	return Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
		Total:   total,
	}, start, end
}

// requireID trims id and rejects empty values.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// getSheet returns the sheet with id or a NOT_FOUND error.
func getSheet(sheets *store.Collection, id string) (sheet.Sheet, error) {
	id, err := requireID(id)
	if err != nil {
		return sheet.Sheet{}, err
	}
	s, ok := sheets.Get(id)
	if !ok {
		return sheet.Sheet{}, errors.NewNotFound(id)
	}
	return s, nil
}

// maxChars returns the configured content limit.
func maxChars(cfg *config.Config) int {
	if cfg == nil || cfg.SheetMaxChars <= 0 {
		return config.DefaultConfig().SheetMaxChars
	}
	return cfg.SheetMaxChars
}
