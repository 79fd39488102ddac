package ops

import (
	"testing"

	"github.com/hpungsan/crib/internal/errors"
)

func TestFetch(t *testing.T) {
	sheets, _ := testStores(t)
	id := mustSave(t, sheets, "Git", sampleSheet)

	out, err := Fetch(sheets, FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if out.Title != "Git" {
		t.Errorf("Title = %q, want Git", out.Title)
	}
	if out.Content == "" {
		t.Error("Content empty, want text by default")
	}
	want := []string{"Introduction", "Branches", "Remotes"}
	if len(out.Sections) != len(want) {
		t.Fatalf("Sections = %v, want %v", out.Sections, want)
	}
	for i := range want {
		if out.Sections[i] != want[i] {
			t.Errorf("Sections[%d] = %q, want %q", i, out.Sections[i], want[i])
		}
	}
	if out.Chars == 0 {
		t.Error("Chars = 0")
	}
}

func TestFetch_ExcludeText(t *testing.T) {
	sheets, _ := testStores(t)
	id := mustSave(t, sheets, "Git", sampleSheet)

	out, err := Fetch(sheets, FetchInput{ID: id, IncludeText: boolPtr(false)})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if out.Content != "" {
		t.Errorf("Content = %q, want empty", out.Content)
	}
	if out.Chars == 0 {
		t.Error("Chars = 0, want count of stored content")
	}

	// The stored sheet is untouched
	s, _ := sheets.Get(id)
	if s.Content == "" {
		t.Error("stored content cleared by Fetch")
	}
}

func TestFetch_NotFound(t *testing.T) {
	sheets, _ := testStores(t)

	if _, err := Fetch(sheets, FetchInput{ID: "cs_nope"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Fetch() error = %v, want NOT_FOUND", err)
	}
	if _, err := Fetch(sheets, FetchInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Fetch(no id) error = %v, want INVALID_REQUEST", err)
	}
}

func TestSections_All(t *testing.T) {
	sheets, _ := testStores(t)
	id := mustSave(t, sheets, "Git", sampleSheet)

	out, err := Sections(sheets, SectionsInput{ID: id})
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}
	if len(out.Sections) != 3 {
		t.Fatalf("len(Sections) = %d, want 3", len(out.Sections))
	}
	if out.Sections[1].Title != "Branches" || out.Sections[1].Content != "- git switch -c name\n" {
		t.Errorf("Sections[1] = %+v", out.Sections[1])
	}
}

func TestSections_Named(t *testing.T) {
	sheets, _ := testStores(t)
	id := mustSave(t, sheets, "Git", sampleSheet)

	out, err := Sections(sheets, SectionsInput{ID: id, Section: "remotes"})
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}
	if len(out.Sections) != 1 || out.Sections[0].Title != "Remotes" {
		t.Errorf("Sections = %+v, want only Remotes", out.Sections)
	}

	_, err = Sections(sheets, SectionsInput{ID: id, Section: "Tags"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Sections(unknown) error = %v, want INVALID_REQUEST", err)
	}
}
