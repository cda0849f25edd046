package jsonsort

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sokinpui/jsonsort.go/cli"
	"github.com/sokinpui/jsonsort.go/internal/transform"
	"github.com/sokinpui/jsonsort.go/model"
)

// Config for using jsonsort as a library.
type Config struct {
	// Spaces per indentation level. Zero produces compact output.
	Indent int
	// Indent with tabs instead of spaces.
	Tabs bool
	// Sort only the ```json code blocks of a Markdown document.
	Markdown bool
	// Sort only these ranges instead of the whole content.
	Selections []model.Range
	// Receives diagnostics for regions that failed. Discarded when nil.
	Logger *slog.Logger
}

// Sort sorts the object keys of the JSON in content and returns the new
// content. When some region is not valid JSON, the other regions are still
// sorted, the failed ones are kept as they were, and the error wraps
// ErrSortFailed.
func Sort(content string, config Config) (string, error) {
	if config.Indent < 0 {
		return content, fmt.Errorf("negative indent %d", config.Indent)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cliCfg := &cli.Config{
		Indent:     config.Indent,
		Tabs:       config.Tabs,
		Markdown:   config.Markdown,
		Selections: config.Selections,
	}

	app, err := New(cliCfg, logger)
	if err != nil {
		return content, fmt.Errorf("failed to initialize jsonsort app: %w", err)
	}

	var message string
	notifier := transform.NotifierFunc(func(m string) { message = m })
	sorted, outcome, err := app.SortDocument(content, notifier)
	if err != nil {
		return content, err
	}
	if outcome.Failed {
		return sorted, fmt.Errorf("%w: %d region(s): %s", ErrSortFailed, outcome.Errors, message)
	}
	return sorted, nil
}
