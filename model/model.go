package model

import (
	"fmt"
	"strings"
)

// Position is a location in a document. Line and Column are zero-based;
// Column counts bytes within the line.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Range is a half-open span of document text.
type Range struct {
	Start Position
	End   Position
}

// IsEmpty reports whether the range selects no text, e.g. a bare cursor.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Region is a span targeted for sorting together with the text it held
// when the command started.
type Region struct {
	Range Range
	Text  string
}

// Edit replaces the text of Range, expressed in the coordinates of the
// unmodified document.
type Edit struct {
	Range Range
	Text  string
}

// Indentation is the editor's indent preference for one invocation.
type Indentation struct {
	InsertSpaces bool
	TabSize      int
}

// DefaultIndentation is two spaces per level.
var DefaultIndentation = Indentation{InsertSpaces: true, TabSize: 2}

// Unit returns the string emitted once per nesting level. An empty unit
// means compact output.
func (i Indentation) Unit() string {
	if !i.InsertSpaces {
		return "\t"
	}
	if i.TabSize <= 0 {
		return ""
	}
	return strings.Repeat(" ", i.TabSize)
}

// Summary holds the results of a run for display.
type Summary struct {
	Sorted    []string
	Unchanged []string
	Failed    []string
	Message   string
}
