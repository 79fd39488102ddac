package ops

import (
	"strings"
	"testing"

	"github.com/hpungsan/crib/internal/errors"
)

func TestSearch_TitleMatchesRankFirst(t *testing.T) {
	sheets, _ := testStores(t)
	body := mustSave(t, sheets, "Shell", "use docker ps to list containers")
	title := mustSave(t, sheets, "Docker", "images and volumes")
	mustSave(t, sheets, "Python", "list comprehension")

	out, err := Search(sheets, SearchInput{Query: "DOCKER"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(out.Items))
	}
	if out.Items[0].ID != title || !out.Items[0].TitleMatch {
		t.Errorf("Items[0] = %+v, want title match %s", out.Items[0].Summary, title)
	}
	if out.Items[1].ID != body || out.Items[1].TitleMatch {
		t.Errorf("Items[1] = %+v, want body match %s", out.Items[1].Summary, body)
	}
	if out.Sort != "relevance" {
		t.Errorf("Sort = %q", out.Sort)
	}
}

func TestSearch_SnippetHighlightsAndEscapes(t *testing.T) {
	sheets, _ := testStores(t)
	mustSave(t, sheets, "HTML", "wrap in <div> then Flexbox\nlayout")

	out, err := Search(sheets, SearchInput{Query: "flexbox"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(out.Items))
	}
	snip := out.Items[0].Snippet
	if !strings.Contains(snip, "<b>Flexbox</b>") {
		t.Errorf("Snippet = %q, want highlighted original case", snip)
	}
	if !strings.Contains(snip, "&lt;div&gt;") {
		t.Errorf("Snippet = %q, want escaped markup", snip)
	}
	if strings.Contains(snip, "\n") {
		t.Errorf("Snippet = %q, want single line", snip)
	}
}

func TestSearch_SnippetTruncates(t *testing.T) {
	sheets, _ := testStores(t)
	pad := strings.Repeat("x", SnippetRadiusRune*2)
	mustSave(t, sheets, "Long", pad+"needle"+pad)

	out, _ := Search(sheets, SearchInput{Query: "needle"})
	snip := out.Items[0].Snippet
	if !strings.HasPrefix(snip, "...") || !strings.HasSuffix(snip, "...") {
		t.Errorf("Snippet = %q, want ellipses on both sides", snip)
	}
}

func TestSearch_NonASCII(t *testing.T) {
	sheets, _ := testStores(t)
	mustSave(t, sheets, "Notes", "Ünïcode ÄPFEL here")

	out, err := Search(sheets, SearchInput{Query: "äpfel"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Items) != 1 || !strings.Contains(out.Items[0].Snippet, "<b>ÄPFEL</b>") {
		t.Errorf("Items = %+v", out.Items)
	}
}

func TestSearch_Validation(t *testing.T) {
	sheets, _ := testStores(t)

	if _, err := Search(sheets, SearchInput{Query: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Search(blank) error = %v, want INVALID_REQUEST", err)
	}
	long := strings.Repeat("q", MaxQueryLength+1)
	if _, err := Search(sheets, SearchInput{Query: long}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Search(long) error = %v, want INVALID_REQUEST", err)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	sheets, _ := testStores(t)
	mustSave(t, sheets, "Git", sampleSheet)

	out, err := Search(sheets, SearchInput{Query: "kubernetes"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(out.Items) != 0 || out.Pagination.Total != 0 {
		t.Errorf("out = %+v, want no items", out)
	}
}
