package document

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sokinpui/jsonsort.go/model"
)

var (
	// ErrOutOfRange is returned for a position outside the document.
	ErrOutOfRange = errors.New("position out of range")
	// ErrOverlap is returned when two edits touch the same text.
	ErrOverlap = errors.New("overlapping edits")
)

// Document is an editable text buffer addressed by line and byte column.
type Document struct {
	lines []string
	// eol records a final newline, which is kept out of the editable text.
	eol bool
}

// New splits content into lines.
func New(content string) *Document {
	d := &Document{}
	if strings.HasSuffix(content, "\n") {
		d.eol = true
		content = strings.TrimSuffix(content, "\n")
	}
	d.lines = strings.Split(content, "\n")
	return d
}

// FromLines builds a document from buffer lines without a trailing newline.
func FromLines(lines []string) *Document {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Document{lines: slices.Clone(lines)}
}

// Lines returns a copy of the document lines.
func (d *Document) Lines() []string {
	return slices.Clone(d.lines)
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns line n, or "" when n is out of range.
func (d *Document) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return d.lines[n]
}

// Text returns the full document content without the trailing newline.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// String returns the content as it would be written back to disk.
func (d *Document) String() string {
	if d.eol {
		return d.Text() + "\n"
	}
	return d.Text()
}

// End returns the position just past the last character.
func (d *Document) End() model.Position {
	last := len(d.lines) - 1
	return model.Position{Line: last, Column: len(d.lines[last])}
}

// Offset converts a position into a byte offset within Text.
func (d *Document) Offset(p model.Position) (int, error) {
	if p.Line < 0 || p.Line >= len(d.lines) || p.Column < 0 || p.Column > len(d.lines[p.Line]) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, p)
	}
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(d.lines[i]) + 1
	}
	return off + p.Column, nil
}

// PositionAt converts a byte offset within Text into a position.
func (d *Document) PositionAt(offset int) (model.Position, error) {
	if offset < 0 {
		return model.Position{}, fmt.Errorf("%w: offset %d", ErrOutOfRange, offset)
	}
	for i, line := range d.lines {
		if offset <= len(line) {
			return model.Position{Line: i, Column: offset}, nil
		}
		offset -= len(line) + 1
	}
	return model.Position{}, fmt.Errorf("%w: offset past end", ErrOutOfRange)
}

// TextIn returns the text covered by r. Out of range spans yield "".
func (d *Document) TextIn(r model.Range) string {
	start, err := d.Offset(r.Start)
	if err != nil {
		return ""
	}
	end, err := d.Offset(r.End)
	if err != nil || end < start {
		return ""
	}
	return d.Text()[start:end]
}

// Apply replaces every edit's range with its text. All ranges refer to the
// document as it was before the call; the edits are applied as a unit, so
// on error the document is left unchanged.
func (d *Document) Apply(edits []model.Edit) error {
	if len(edits) == 0 {
		return nil
	}

	type span struct {
		start, end int
		text       string
	}
	spans := make([]span, 0, len(edits))
	for _, e := range edits {
		start, err := d.Offset(e.Range.Start)
		if err != nil {
			return err
		}
		end, err := d.Offset(e.Range.End)
		if err != nil {
			return err
		}
		if end < start {
			return fmt.Errorf("%w: range %s is reversed", ErrOutOfRange, e.Range)
		}
		spans = append(spans, span{start: start, end: end, text: e.Text})
	}

	slices.SortFunc(spans, func(a, b span) int { return b.start - a.start })
	for i := 1; i < len(spans); i++ {
		if spans[i].end > spans[i-1].start {
			return ErrOverlap
		}
	}

	text := d.Text()
	for _, s := range spans {
		text = text[:s.start] + s.text + text[s.end:]
	}
	d.lines = strings.Split(text, "\n")
	return nil
}
