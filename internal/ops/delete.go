package ops

import (
	"context"

	"github.com/hpungsan/crib/internal/store"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a sheet. Deleting an unknown ID is not an error and
// reports deleted=false.
func Delete(ctx context.Context, sheets *store.Collection, input DeleteInput) (*DeleteOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	found, err := sheets.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: found, ID: id}, nil
}
