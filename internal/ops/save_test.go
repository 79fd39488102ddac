package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
)

func TestSave_Create(t *testing.T) {
	sheets, _ := testStores(t)

	out, err := Save(context.Background(), sheets, config.DefaultConfig(), SaveInput{
		Title:   "  Git  ",
		Content: "\n" + sampleSheet + "\n\n",
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !out.New {
		t.Error("New = false, want true")
	}
	if !strings.HasPrefix(out.ID, "cs_") {
		t.Errorf("ID = %q, want cs_ prefix", out.ID)
	}
	if out.Title != "Git" {
		t.Errorf("Title = %q, want trimmed", out.Title)
	}
	if !out.Created.Equal(out.Modified) {
		t.Error("Created != Modified on a new sheet")
	}

	s, ok := sheets.Get(out.ID)
	if !ok {
		t.Fatal("saved sheet not in collection")
	}
	if s.Content != strings.TrimSpace(sampleSheet) {
		t.Errorf("Content = %q, want trimmed input", s.Content)
	}
}

func TestSave_Update(t *testing.T) {
	sheets, _ := testStores(t)
	ctx := context.Background()
	id := mustSave(t, sheets, "Git", sampleSheet)
	before, _ := sheets.Get(id)

	out, err := Save(ctx, sheets, config.DefaultConfig(), SaveInput{ID: id, Title: "Git 2", Content: "## New\nbody"})
	if err != nil {
		t.Fatalf("Save(update) error = %v", err)
	}
	if out.New {
		t.Error("New = true, want false on update")
	}
	if out.ID != id {
		t.Errorf("ID = %q, want %q", out.ID, id)
	}
	if !out.Created.Equal(before.Created) {
		t.Error("Created changed on update")
	}
	if sheets.Len() != 1 {
		t.Errorf("Len() = %d, want 1", sheets.Len())
	}
}

func TestSave_RequiresTitleAndContent(t *testing.T) {
	sheets, _ := testStores(t)

	tests := []struct {
		name  string
		input SaveInput
	}{
		{"empty title", SaveInput{Title: "", Content: "x"}},
		{"blank title", SaveInput{Title: "  \t", Content: "x"}},
		{"empty content", SaveInput{Title: "x", Content: ""}},
		{"blank content", SaveInput{Title: "x", Content: "\n\n "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Save(context.Background(), sheets, config.DefaultConfig(), tc.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("Save() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
	if sheets.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after rejected saves", sheets.Len())
	}
}

func TestSave_ContentTooLarge(t *testing.T) {
	sheets, _ := testStores(t)
	cfg := &config.Config{SheetMaxChars: 5}

	// Five runes, more than five bytes
	if _, err := Save(context.Background(), sheets, cfg, SaveInput{Title: "t", Content: "ééééé"}); err != nil {
		t.Fatalf("Save(at limit) error = %v", err)
	}

	_, err := Save(context.Background(), sheets, cfg, SaveInput{Title: "t", Content: "123456"})
	if !errors.Is(err, errors.ErrContentTooLarge) {
		t.Fatalf("Save() error = %v, want CONTENT_TOO_LARGE", err)
	}
	cErr := err.(*errors.CribError)
	if cErr.Details["actual_chars"] != 6 {
		t.Errorf("actual_chars = %v, want 6", cErr.Details["actual_chars"])
	}
}

func TestSave_UpdateUnknownID(t *testing.T) {
	sheets, _ := testStores(t)

	_, err := Save(context.Background(), sheets, config.DefaultConfig(), SaveInput{ID: "cs_missing", Title: "t", Content: "c"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Save() error = %v, want NOT_FOUND", err)
	}
	if sheets.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sheets.Len())
	}
}
