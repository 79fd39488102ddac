// Package editor runs the user's $EDITOR on a temporary Markdown file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EditorCommand returns $EDITOR, falling back to vi.
func EditorCommand() string {
	if v := os.Getenv("EDITOR"); v != "" {
		return v
	}
	return "vi"
}

// EditCmd builds the command that opens path in the editor. The editor
// value may carry flags, e.g. "code --wait".
func EditCmd(ctx context.Context, path string) (*exec.Cmd, error) {
	editor := strings.TrimSpace(EditorCommand())
	if editor == "" {
		return nil, errors.New("EDITOR is empty")
	}

	parts := strings.Fields(editor)
	name := parts[0]
	args := append(parts[1:], path)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Edit writes initial to a temporary .md file, waits for the editor to
// exit and returns the file's new contents. The file is removed afterwards.
func Edit(ctx context.Context, initial string) (string, error) {
	f, err := os.CreateTemp("", "crib-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	cmd, err := EditCmd(ctx, path)
	if err != nil {
		return "", err
	}
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %q: %w", cmd.Path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(data), nil
}
