package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// SourceProvider determines and retrieves the source content.
type SourceProvider struct {
	stdin         *os.File
	fromClipboard bool
}

// New creates a new SourceProvider. When fromClipboard is set the
// clipboard is read even if stdin is piped.
func New(fromClipboard bool) *SourceProvider {
	return &SourceProvider{stdin: os.Stdin, fromClipboard: fromClipboard}
}

// IsPiped reports whether stdin is a pipe or a file rather than a terminal.
func (sp *SourceProvider) IsPiped() bool {
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
func (sp *SourceProvider) GetContent() (string, error) {
	if !sp.fromClipboard && sp.IsPiped() {
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	return content, nil
}

// WriteClipboard replaces the clipboard content.
func WriteClipboard(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}

// ReadFile returns the content of path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile replaces the content of path, keeping its permissions.
func WriteFile(path, content string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
