package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
)

// Output is where messages go. Tests may swap it.
var Output io.Writer = os.Stderr

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Output, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Output, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Output, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Output, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Output, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Output, "  "+format+"\n", a...)
}

// Notifier prints transformer notifications as errors.
type Notifier struct{}

func (Notifier) Notify(message string) {
	Error("%s", message)
}

// --- Diffs ---

// Diff returns a unified diff between two versions of name. It is empty
// when the contents are equal.
func Diff(name, oldContent, newContent string) string {
	edits := udiff.Strings(oldContent, newContent)
	unified, err := udiff.ToUnifiedDiff("a/"+name, "b/"+name, oldContent, edits, udiff.DefaultContextLines)
	if err != nil {
		return ""
	}
	return unified.String()
}

// ColorDiff adds ANSI colors to diff output.
func ColorDiff(diff string) string {
	if diff == "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++"):
			b.WriteString(HeaderColor.Sprint(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(ErrorColor.Sprint(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(SuccessColor.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(InfoColor.Sprint(line))
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}

// --- Summaries ---

func PrintSortSummary(sorted, unchanged, failed []string) {
	Header("\n--- Sort Summary ---")

	if len(sorted) == 0 && len(unchanged) == 0 && len(failed) == 0 {
		Info("No files were processed.")
		return
	}

	if len(sorted) > 0 {
		Success("Sorted %d file(s):", len(sorted))
		for _, f := range sorted {
			fmt.Fprintf(Output, "  - %s\n", f)
		}
	}
	if len(unchanged) > 0 {
		Info("%d file(s) already sorted:", len(unchanged))
		for _, f := range unchanged {
			fmt.Fprintf(Output, "  - %s\n", f)
		}
	}
	if len(failed) > 0 {
		Error("Failed to sort %d file(s):", len(failed))
		for _, f := range failed {
			fmt.Fprintf(Output, "  - %s\n", f)
		}
	}
}
