package parser

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock represents a parsed code block from markdown content.
type CodeBlock struct {
	// Lang is the language identifier of the code block (e.g., "json", "go").
	Lang string
	// Start and Stop are byte offsets of the block body within the
	// source, with the final line break excluded.
	Start int
	Stop  int
}

// ExtractCodeBlocks uses a markdown AST to find all fenced code blocks.
func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := fencedCodeBlock.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		var block CodeBlock
		block.Lang = string(fencedCodeBlock.Language(source))

		block.Start = lines.At(0).Start
		block.Stop = lines.At(lines.Len() - 1).Stop
		for block.Stop > block.Start && (source[block.Stop-1] == '\n' || source[block.Stop-1] == '\r') {
			block.Stop--
		}

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	return blocks, nil
}
