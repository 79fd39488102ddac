package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/crib/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // for import (read file)
	PathCheckWrite                      // for export (write file)
)

// ValidatePath validates a file path for import/export operations.
// It checks:
// 1. Extension (one of exts, case-insensitive)
// 2. Write mode: the parent is a directory (when it exists)
// 3. Read mode: the file exists and is not a directory
// 4. Symlink safety (the file itself must not be a symlink)
func ValidatePath(path string, mode PathCheckMode, exts []string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewInvalidRequest("path is required")
	}

	cleaned := filepath.Clean(path)
	if !hasExtension(cleaned, exts) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have one of the extensions: %s", strings.Join(exts, ", ")))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if mode == PathCheckWrite {
		if parent, err := os.Stat(filepath.Dir(absPath)); err == nil && !parent.IsDir() {
			return errors.NewInvalidRequest("parent path is not a directory")
		}
	}

	info, err := os.Lstat(absPath)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		return errors.NewInvalidRequest("path must not be a symlink")
	case err == nil && info.IsDir():
		return errors.NewInvalidRequest("path is a directory")
	case os.IsNotExist(err) && mode == PathCheckRead:
		return errors.NewFileNotFound(path)
	case err != nil && !os.IsNotExist(err):
		return errors.NewInternal(err)
	}

	return nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// DefaultExportsDir returns the default exports directory (~/.crib/exports).
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".crib", "exports"), nil
}

// SanitizeForFilename sanitizes a string for safe use in a filename.
// Path separators, ".." sequences and characters reserved on common
// filesystems become dashes; control characters are removed.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "..", "-")

	var result strings.Builder
	for _, r := range s {
		switch {
		case r < 32 || r == 127:
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result.WriteRune('-')
		default:
			result.WriteRune(r)
		}
	}
	s = result.String()

	// Collapse multiple dashes
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	s = strings.Trim(strings.TrimSpace(s), "-.")
	if s == "" {
		s = "untitled"
	}
	return s
}
