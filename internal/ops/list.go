package ops

import (
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/store"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 50, max: 500
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []sheet.Summary `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Sort       string          `json:"sort"`
}

// List returns sheet summaries in stored order.
func List(sheets *store.Collection, input ListInput) (*ListOutput, error) {
	all := sheets.List()
	page, start, end := paginate(input.Limit, input.Offset, len(all))

	items := make([]sheet.Summary, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, all[i].ToSummary())
	}

	return &ListOutput{
		Items:      items,
		Pagination: page,
		Sort:       "stored",
	}, nil
}
