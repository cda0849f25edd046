package nvim

import (
	"slices"
	"unicode/utf8"

	"github.com/sokinpui/jsonsort.go/internal/document"
	"github.com/sokinpui/jsonsort.go/model"
)

const blockwiseMode = "\x16" // CTRL-V

// VisualState is the last visual selection of a buffer: visualmode() and
// the '< and '> marks as returned by nvim_buf_get_mark (1-based row,
// 0-based byte column).
type VisualState struct {
	Mode  string
	Start [2]int
	End   [2]int
}

// LineSelections maps an Ex line range to selections. A range covering
// the whole buffer is a bare cursor, which sorts the whole document.
func LineSelections(doc *document.Document, rng [2]int) []model.Range {
	first, last := rng[0], rng[1]
	if first > last {
		first, last = last, first
	}
	if first <= 1 && (last >= doc.LineCount() || last <= 0) {
		return []model.Range{{}}
	}
	startLine := clampLine(doc, first-1)
	endLine := clampLine(doc, last-1)
	return []model.Range{{
		Start: model.Position{Line: startLine},
		End:   model.Position{Line: endLine, Column: len(doc.Line(endLine))},
	}}
}

// VisualSelections maps the last visual selection to selections:
// charwise and linewise give one, blockwise gives one per line.
// Without a visual selection the result is empty.
func VisualSelections(doc *document.Document, vis VisualState) []model.Range {
	if vis.Start[0] <= 0 || vis.End[0] <= 0 {
		return nil
	}
	startLine := clampLine(doc, vis.Start[0]-1)
	endLine := clampLine(doc, vis.End[0]-1)

	switch vis.Mode {
	case "v":
		start := model.Position{Line: startLine, Column: min(vis.Start[1], len(doc.Line(startLine)))}
		end := model.Position{Line: endLine, Column: charEnd(doc.Line(endLine), vis.End[1])}
		return []model.Range{{Start: start, End: end}}
	case blockwiseMode:
		lo, hi := min(vis.Start[1], vis.End[1]), max(vis.Start[1], vis.End[1])
		var ranges []model.Range
		for l := startLine; l <= endLine; l++ {
			line := doc.Line(l)
			s := min(lo, len(line))
			ranges = append(ranges, model.Range{
				Start: model.Position{Line: l, Column: s},
				End:   model.Position{Line: l, Column: max(s, charEnd(line, hi))},
			})
		}
		return ranges
	default:
		return []model.Range{{
			Start: model.Position{Line: startLine},
			End:   model.Position{Line: endLine, Column: len(doc.Line(endLine))},
		}}
	}
}

// charEnd returns the byte column just past the character at col.
func charEnd(line string, col int) int {
	if col >= len(line) {
		return len(line)
	}
	_, size := utf8.DecodeRuneInString(line[col:])
	return col + size
}

func clampLine(doc *document.Document, n int) int {
	return max(0, min(n, doc.LineCount()-1))
}

// lineReplacement replaces buffer lines [Start, End) with Lines.
type lineReplacement struct {
	Start int
	End   int
	Lines []string
}

// lineReplacements turns edits into whole-line replacements that can be
// sent one after another without shifting each other: edits sharing a
// line are merged and the result is ordered bottom to top.
func lineReplacements(lines []string, edits []model.Edit) ([]lineReplacement, error) {
	if len(edits) == 0 {
		return nil, nil
	}
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b model.Edit) int {
		if a.Range.Start.Line != b.Range.Start.Line {
			return a.Range.Start.Line - b.Range.Start.Line
		}
		return a.Range.Start.Column - b.Range.Start.Column
	})

	type cluster struct {
		first, last int
		edits       []model.Edit
	}
	var clusters []cluster
	for _, e := range sorted {
		n := len(clusters)
		if n > 0 && e.Range.Start.Line <= clusters[n-1].last {
			clusters[n-1].last = max(clusters[n-1].last, e.Range.End.Line)
			clusters[n-1].edits = append(clusters[n-1].edits, e)
			continue
		}
		clusters = append(clusters, cluster{first: e.Range.Start.Line, last: e.Range.End.Line, edits: []model.Edit{e}})
	}

	out := make([]lineReplacement, 0, len(clusters))
	for i := len(clusters) - 1; i >= 0; i-- {
		c := clusters[i]
		if c.first < 0 || c.last >= len(lines) {
			return nil, document.ErrOutOfRange
		}
		sub := document.FromLines(lines[c.first : c.last+1])
		shifted := make([]model.Edit, len(c.edits))
		for j, e := range c.edits {
			e.Range.Start.Line -= c.first
			e.Range.End.Line -= c.first
			shifted[j] = e
		}
		if err := sub.Apply(shifted); err != nil {
			return nil, err
		}
		out = append(out, lineReplacement{Start: c.first, End: c.last + 1, Lines: sub.Lines()})
	}
	return out, nil
}
