package jsonsort

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sokinpui/jsonsort.go/cli"
	"github.com/sokinpui/jsonsort.go/internal/document"
	"github.com/sokinpui/jsonsort.go/internal/nvim"
	"github.com/sokinpui/jsonsort.go/internal/parser"
	"github.com/sokinpui/jsonsort.go/internal/source"
	"github.com/sokinpui/jsonsort.go/internal/transform"
	"github.com/sokinpui/jsonsort.go/internal/ui"
	"github.com/sokinpui/jsonsort.go/model"
)

// ErrSortFailed is returned when at least one region could not be sorted.
var ErrSortFailed = errors.New("json sort failed")

const stdinName = "<stdin>"

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	logger           *slog.Logger
	sourceProvider   *source.SourceProvider
	out              io.Writer
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance. A nil logger uses slog.Default.
func New(cfg *cli.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("missing configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:            cfg,
		logger:         logger,
		sourceProvider: source.New(cfg.Clipboard),
		out:            os.Stdout,
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetOutput redirects results and diffs, which go to stdout by default.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Nvim:
		return a.sortNvimBuffer()
	case len(a.cfg.Files) > 0:
		return a.processFiles()
	default:
		return a.processSource()
	}
}

// SortDocument sorts the JSON in content according to the configuration
// and returns the new content. Failed regions are left as they were and
// reported through notifier, once.
func (a *App) SortDocument(content string, notifier transform.Notifier) (string, transform.Outcome, error) {
	doc := document.New(content)

	selections := a.cfg.Selections
	if a.cfg.Markdown {
		blocks, err := parser.JSONBlockRanges(doc)
		if err != nil {
			return content, transform.Outcome{}, err
		}
		if len(blocks) == 0 {
			return content, transform.Outcome{}, nil
		}
		selections = blocks
	}

	editor := document.NewEditor(doc, selections, a.cfg.Indentation())
	outcome := transform.New(notifier, transform.WithLogger(a.logger)).Run(editor)
	if err := editor.Commit(); err != nil {
		return content, outcome, fmt.Errorf("failed to apply edits: %w", err)
	}
	return doc.String(), outcome, nil
}

// processSource sorts content read from stdin or the clipboard and
// writes the result to stdout or back to the clipboard.
func (a *App) processSource() (model.Summary, error) {
	content, err := a.sourceProvider.GetContent()
	if err != nil {
		return model.Summary{}, err
	}
	if content == "" {
		return model.Summary{Message: "Source is empty. Nothing to process."}, nil
	}

	sorted, outcome, err := a.SortDocument(content, ui.Notifier{})
	if err != nil {
		return model.Summary{}, err
	}

	summary := model.Summary{}
	switch {
	case outcome.Failed:
		summary.Failed = []string{stdinName}
	case sorted == content:
		summary.Unchanged = []string{stdinName}
	default:
		summary.Sorted = []string{stdinName}
	}

	switch {
	case a.cfg.Diff:
		fmt.Fprint(a.out, ui.ColorDiff(ui.Diff(stdinName, content, sorted)))
	case a.cfg.Clipboard:
		if err := source.WriteClipboard(sorted); err != nil {
			return summary, err
		}
		summary.Message = "Clipboard updated."
	default:
		fmt.Fprint(a.out, sorted)
	}
	return summary, nil
}

// processFiles sorts every file of the configuration in order.
func (a *App) processFiles() (model.Summary, error) {
	var summary model.Summary
	total := len(a.cfg.Files)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	for i, path := range a.cfg.Files {
		switch status := a.processFile(path); status {
		case fileSorted:
			summary.Sorted = append(summary.Sorted, path)
		case fileUnchanged:
			summary.Unchanged = append(summary.Unchanged, path)
		default:
			summary.Failed = append(summary.Failed, path)
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

type fileStatus int

const (
	fileFailed fileStatus = iota
	fileSorted
	fileUnchanged
)

func (a *App) processFile(path string) fileStatus {
	content, err := source.ReadFile(path)
	if err != nil {
		a.logger.Error("read failed", "path", path, "err", err)
		return fileFailed
	}

	failed := false
	notifier := transform.NotifierFunc(func(string) { failed = true })
	sorted, _, err := a.SortDocument(content, notifier)
	if err != nil {
		a.logger.Error("sort failed", "path", path, "err", err)
		return fileFailed
	}

	switch {
	case a.cfg.Diff:
		fmt.Fprint(a.out, ui.ColorDiff(ui.Diff(path, content, sorted)))
	case a.cfg.Write:
		if sorted != content {
			if err := source.WriteFile(path, sorted); err != nil {
				a.logger.Error("write failed", "path", path, "err", err)
				return fileFailed
			}
		}
	default:
		fmt.Fprint(a.out, sorted)
	}

	switch {
	case failed:
		return fileFailed
	case sorted == content:
		return fileUnchanged
	default:
		return fileSorted
	}
}

// sortNvimBuffer sorts the current buffer of the Neovim instance this
// process runs in.
func (a *App) sortNvimBuffer() (model.Summary, error) {
	manager, err := nvim.New()
	if err != nil {
		return model.Summary{}, err
	}
	defer manager.Close()

	session, err := manager.Snapshot()
	if err != nil {
		return model.Summary{}, err
	}
	editor := session.Editor(a.cfg.Selections)
	outcome := transform.New(manager, transform.WithLogger(a.logger)).Run(editor)
	if err := session.Commit(); err != nil {
		return model.Summary{}, err
	}

	const name = "nvim buffer"
	switch {
	case outcome.Failed:
		return model.Summary{Failed: []string{name}}, nil
	case outcome.Replaced == 0:
		return model.Summary{Unchanged: []string{name}}, nil
	default:
		return model.Summary{Sorted: []string{name}}, nil
	}
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	makeRelative := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			if !filepath.IsAbs(p) {
				out[i] = p
				continue
			}
			rel, err := filepath.Rel(wd, p)
			if err != nil {
				out[i] = p // Fallback to absolute path
			} else {
				out[i] = rel
			}
		}
		return out
	}

	summary.Sorted = makeRelative(summary.Sorted)
	summary.Unchanged = makeRelative(summary.Unchanged)
	summary.Failed = makeRelative(summary.Failed)
}
