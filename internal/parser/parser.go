package parser

import (
	"fmt"
	"strings"

	"github.com/sokinpui/jsonsort.go/internal/document"
	"github.com/sokinpui/jsonsort.go/model"
)

// JSONBlockRanges returns the content range of every fenced code block
// tagged json, in document order. Each range becomes one selection.
// Blocks with a blank body are left out: an empty selection would stand
// for the whole document.
func JSONBlockRanges(doc *document.Document) ([]model.Range, error) {
	src := doc.Text()
	blocks, err := ExtractCodeBlocks([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	var ranges []model.Range
	for _, block := range blocks {
		if !strings.EqualFold(block.Lang, "json") {
			continue
		}
		if strings.TrimSpace(src[block.Start:block.Stop]) == "" {
			continue
		}
		start, err := doc.PositionAt(block.Start)
		if err != nil {
			return nil, err
		}
		end, err := doc.PositionAt(block.Stop)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, model.Range{Start: start, End: end})
	}
	return ranges, nil
}
