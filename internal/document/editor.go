package document

import (
	"slices"

	"github.com/sokinpui/jsonsort.go/model"
)

// Editor is an editing context over a Document. Replacements are queued
// and only reach the document on Commit, as one operation.
type Editor struct {
	doc        *Document
	selections []model.Range
	indent     model.Indentation
	edits      []model.Edit
}

// NewEditor returns an editor for doc. With no selections the editor
// behaves like a bare cursor at the start of the document.
func NewEditor(doc *Document, selections []model.Range, indent model.Indentation) *Editor {
	if len(selections) == 0 {
		selections = []model.Range{{}}
	}
	return &Editor{
		doc:        doc,
		selections: slices.Clone(selections),
		indent:     indent,
	}
}

func (e *Editor) Document() *Document { return e.doc }
func (e *Editor) Text() string { return e.doc.Text() }
func (e *Editor) TextIn(r model.Range) string { return e.doc.TextIn(r) }
func (e *Editor) End() model.Position { return e.doc.End() }
func (e *Editor) Selections() []model.Range { return slices.Clone(e.selections) }
func (e *Editor) Indentation() model.Indentation { return e.indent }
func (e *Editor) Replace(r model.Range, text string) { e.edits = append(e.edits, model.Edit{Range: r, Text: text}) }

// Edits returns the replacements queued since the last Commit.
func (e *Editor) Edits() []model.Edit {
	return slices.Clone(e.edits)
}

// Commit applies the queued replacements to the document.
func (e *Editor) Commit() error {
	edits := e.edits
	e.edits = nil
	return e.doc.Apply(edits)
}
