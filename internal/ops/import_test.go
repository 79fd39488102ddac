package ops

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestImport_TitleFromFilename(t *testing.T) {
	sheets, _ := testStores(t)

	tests := []struct {
		file  string
		title string
	}{
		{"git basics.md", "git basics"},
		{"Notes.TXT", "Notes"},
		{"vim.markdown", "vim"},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			path := writeTemp(t, tc.file, sampleSheet)
			out, err := Import(context.Background(), sheets, config.DefaultConfig(), ImportInput{Path: path})
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if out.Title != tc.title {
				t.Errorf("Title = %q, want %q", out.Title, tc.title)
			}
			if !out.New {
				t.Error("New = false, want true")
			}
			if out.Source != tc.file {
				t.Errorf("Source = %q, want %q", out.Source, tc.file)
			}
		})
	}
}

func TestImport_TitleOverride(t *testing.T) {
	sheets, _ := testStores(t)
	path := writeTemp(t, "file.md", sampleSheet)

	out, err := Import(context.Background(), sheets, config.DefaultConfig(), ImportInput{Path: path, Title: "Custom"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if out.Title != "Custom" {
		t.Errorf("Title = %q, want Custom", out.Title)
	}
}

func TestImportData_FrontMatterTitle(t *testing.T) {
	sheets, _ := testStores(t)
	content := "---\ntitle: Kubectl\n---\n## Pods\n- kubectl get pods\n"

	out, err := ImportData(context.Background(), sheets, config.DefaultConfig(), ImportDataInput{
		Name: "k8s.md",
		Data: []byte(content),
	})
	if err != nil {
		t.Fatalf("ImportData() error = %v", err)
	}
	if out.Title != "Kubectl" {
		t.Errorf("Title = %q, want Kubectl", out.Title)
	}

	// Content is kept as written, front matter included
	s, _ := sheets.Get(out.ID)
	if s.Content != "---\ntitle: Kubectl\n---\n## Pods\n- kubectl get pods" {
		t.Errorf("Content = %q", s.Content)
	}
}

func TestImportData_Rejects(t *testing.T) {
	sheets, _ := testStores(t)
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		input ImportDataInput
		code  errors.ErrorCode
	}{
		{"wrong extension", ImportDataInput{Name: "a.pdf", Data: []byte("x")}, errors.ErrInvalidRequest},
		{"no extension", ImportDataInput{Name: "README", Data: []byte("x")}, errors.ErrInvalidRequest},
		{"invalid utf8", ImportDataInput{Name: "a.md", Data: []byte{0xff, 0xfe}}, errors.ErrInvalidRequest},
		{"empty file", ImportDataInput{Name: "a.md", Data: []byte("  \n")}, errors.ErrInvalidRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportData(context.Background(), sheets, cfg, tc.input)
			if !errors.Is(err, tc.code) {
				t.Errorf("ImportData() error = %v, want %s", err, tc.code)
			}
		})
	}
	if sheets.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sheets.Len())
	}
}

func TestImport_MissingFile(t *testing.T) {
	sheets, _ := testStores(t)
	path := filepath.Join(t.TempDir(), "missing.md")

	_, err := Import(context.Background(), sheets, config.DefaultConfig(), ImportInput{Path: path})
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("Import() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestImport_TooLarge(t *testing.T) {
	sheets, _ := testStores(t)
	cfg := &config.Config{SheetMaxChars: 2}
	path := writeTemp(t, "big.md", "0123456789")

	_, err := Import(context.Background(), sheets, cfg, ImportInput{Path: path})
	if !errors.Is(err, errors.ErrContentTooLarge) {
		t.Errorf("Import() error = %v, want CONTENT_TOO_LARGE", err)
	}
}

func TestImport_SymlinkRejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}
	sheets, _ := testStores(t)
	target := writeTemp(t, "real.md", sampleSheet)
	link := filepath.Join(t.TempDir(), "link.md")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	_, err := Import(context.Background(), sheets, config.DefaultConfig(), ImportInput{Path: link})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Import() error = %v, want INVALID_REQUEST", err)
	}
}

func TestParseImport_DoesNotSave(t *testing.T) {
	sheets, _ := testStores(t)

	draft, err := ParseImport(ImportDataInput{Name: "dir/Regex.txt", Data: []byte("\\d digit\n")})
	if err != nil {
		t.Fatalf("ParseImport() error = %v", err)
	}
	if draft.Title != "Regex" || draft.Source != "Regex.txt" {
		t.Errorf("draft = %+v", draft)
	}
	if draft.Content != "\\d digit\n" {
		t.Errorf("Content = %q, want verbatim", draft.Content)
	}
	if sheets.Len() != 0 {
		t.Errorf("Len() = %d, want 0", sheets.Len())
	}
}
