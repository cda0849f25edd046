package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sokinpui/jsonsort.go/model"
)

// Config holds all the command-line flag values.
type Config struct {
	Files       []string
	Write       bool
	Clipboard   bool
	Diff        bool
	Markdown    bool
	Tabs        bool
	Indent      int
	NoAnimation bool
	Nvim        bool
	Selections  []model.Range
	LogLevel    string
	LogFormat   string
	LogFile     string
}

// Indentation returns the indent preference selected by the flags.
func (c *Config) Indentation() model.Indentation {
	return model.Indentation{InsertSpaces: !c.Tabs, TabSize: c.Indent}
}

// Parse defines and parses command-line flags using pflag.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	var selections []string

	flags := pflag.NewFlagSet("jsonsort", pflag.ContinueOnError)
	flags.BoolVarP(&cfg.Write, "write", "w", false, "Write the result back to the given files instead of printing it.")
	flags.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Read from and write the result back to the clipboard.")
	flags.BoolVarP(&cfg.Diff, "diff", "d", false, "Print a unified diff of the changes instead of the result.")
	flags.BoolVarP(&cfg.Markdown, "markdown", "m", false, "Treat input as Markdown and sort every ```json code block.")
	flags.BoolVarP(&cfg.Tabs, "tabs", "t", false, "Indent with one tab per level.")
	flags.IntVarP(&cfg.Indent, "indent", "i", 2, "Number of spaces per indentation level (0 for compact output).")
	flags.StringArrayVarP(&selections, "select", "s", []string{}, "Sort only the range LINE:COL-LINE:COL (1-based, end exclusive). Repeatable.")
	flags.BoolVar(&cfg.Nvim, "nvim", false, "Sort the current buffer of the Neovim instance this runs in ($NVIM).")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable loading spinner and progress updates.")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Diagnostic log level (debug, info, warn, error).")
	flags.StringVar(&cfg.LogFormat, "log-format", "text", "Diagnostic log format (text, json).")
	flags.StringVar(&cfg.LogFile, "log-file", "-", "Diagnostic log destination, '-' for stderr.")

	// Errors are returned to the caller, which reports them once.
	flags.SetOutput(io.Discard)
	flags.Usage = func() {
		fmt.Println("Usage: jsonsort [flags] [file...]")
		fmt.Println("\nSort JSON object keys from files, stdin (pipe) or the clipboard.")
		fmt.Println("\nExample: pbpaste | jsonsort -i 4")
		fmt.Println("\nFlags:")
		fmt.Print(flags.FlagUsages())
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.Files = flags.Args()

	for _, s := range selections {
		r, err := ParseRange(s)
		if err != nil {
			return nil, err
		}
		cfg.Selections = append(cfg.Selections, r)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Indent < 0:
		return fmt.Errorf("error: --indent must not be negative")
	case c.Write && len(c.Files) == 0:
		return fmt.Errorf("error: --write needs at least one file")
	case c.Write && c.Diff:
		return fmt.Errorf("error: --write and --diff are mutually exclusive")
	case c.Clipboard && len(c.Files) > 0:
		return fmt.Errorf("error: --clipboard cannot be combined with files")
	case c.Nvim && (len(c.Files) > 0 || c.Clipboard):
		return fmt.Errorf("error: --nvim cannot be combined with files or --clipboard")
	case c.Nvim && (c.Diff || c.Markdown):
		return fmt.Errorf("error: --nvim edits the buffer in place and takes no --diff or --markdown")
	case c.Markdown && len(c.Selections) > 0:
		return fmt.Errorf("error: --markdown and --select are mutually exclusive")
	}
	return nil
}

// ParseRange parses LINE:COL-LINE:COL with 1-based lines and columns into
// a zero-based range.
func ParseRange(s string) (model.Range, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return model.Range{}, fmt.Errorf("invalid selection %q: expected LINE:COL-LINE:COL", s)
	}
	start, err := parsePosition(startStr)
	if err != nil {
		return model.Range{}, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	end, err := parsePosition(endStr)
	if err != nil {
		return model.Range{}, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	if end.Before(start) {
		return model.Range{}, fmt.Errorf("invalid selection %q: end before start", s)
	}
	return model.Range{Start: start, End: end}, nil
}

func parsePosition(s string) (model.Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return model.Position{}, fmt.Errorf("position %q is not LINE:COL", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return model.Position{}, fmt.Errorf("bad line %q", lineStr)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return model.Position{}, fmt.Errorf("bad column %q", colStr)
	}
	return model.Position{Line: line - 1, Column: col - 1}, nil
}
