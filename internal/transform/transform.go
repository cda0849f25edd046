// Package transform applies canonical JSON sorting to the regions of an
// editing context: the whole document, or every non-empty selection.
package transform

import (
	"fmt"
	"log/slog"
	"unicode/utf16"

	"github.com/sokinpui/jsonsort.go/internal/canonical"
	"github.com/sokinpui/jsonsort.go/model"
)

// ErrorMessage is shown once per run when any region failed to sort.
const ErrorMessage = "Error during JSON sort. See JavaScript console for details (Help => Toggle Developer Tools)."

// minLength is the size of the shortest JSON documents, "" and {}, in
// UTF-16 code units as editors count text length.
const minLength = 2

// Editor is the editing context a run operates on. Replace calls are
// expressed against the unmodified text; the host commits them together.
type Editor interface {
	Text() string
	TextIn(r model.Range) string
	End() model.Position
	Selections() []model.Range
	Indentation() model.Indentation
	Replace(r model.Range, text string)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Outcome summarizes one run.
type Outcome struct {
	// Failed is set when at least one region could not be sorted.
	Failed   bool
	Replaced int
	Skipped  int
	Errors   int
}

// Transformer sorts the JSON regions of an editor.
type Transformer struct {
	notifier  Notifier
	logger    *slog.Logger
	message   string
	serialize SerializeFunc
}

// SerializeFunc turns the text of one region into canonical JSON.
type SerializeFunc func(text string, indent model.Indentation) canonical.Result

// Option configures a Transformer.
type Option func(*Transformer)

// WithMessage replaces the failure notification text.
func WithMessage(msg string) Option {
	return func(t *Transformer) { t.message = msg }
}

// WithLogger sets the destination of per-region diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transformer) { t.logger = logger }
}

// WithSerializer swaps the canonical serializer.
func WithSerializer(fn SerializeFunc) Option {
	return func(t *Transformer) { t.serialize = fn }
}

// New creates a Transformer that reports failures through notifier.
func New(notifier Notifier, opts ...Option) *Transformer {
	t := &Transformer{
		notifier:  notifier,
		logger:    slog.Default(),
		message:   ErrorMessage,
		serialize: canonical.Serialize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Regions lists the spans a run would process. A single empty selection
// means the whole document; otherwise empty selections are dropped.
func Regions(e Editor) []model.Region {
	selections := e.Selections()
	if len(selections) == 1 && selections[0].IsEmpty() {
		whole := model.Range{End: e.End()}
		return []model.Region{{Range: whole, Text: e.Text()}}
	}

	regions := make([]model.Region, 0, len(selections))
	for _, sel := range selections {
		if sel.IsEmpty() {
			continue
		}
		regions = append(regions, model.Region{Range: sel, Text: e.TextIn(sel)})
	}
	return regions
}

// regionState is where a region ended up. Every region starts pending
// and finishes in exactly one of the other states.
type regionState int

const (
	pending regionState = iota
	skippedTooShort
	replaced
	failedUnchanged
)

// Run sorts every region of e, queueing a replacement for each success.
// A failed region is left alone and does not stop the others; if any
// failed, the notifier is called exactly once.
func (t *Transformer) Run(e Editor) Outcome {
	var out Outcome
	indent := e.Indentation()

	for _, region := range Regions(e) {
		switch t.process(e, region, indent) {
		case skippedTooShort:
			out.Skipped++
		case replaced:
			out.Replaced++
		case failedUnchanged:
			out.Failed = true
			out.Errors++
		}
	}

	if out.Failed && t.notifier != nil {
		t.notifier.Notify(t.message)
	}
	return out
}

func (t *Transformer) process(e Editor, region model.Region, indent model.Indentation) (state regionState) {
	if textLength(region.Text) < minLength {
		return skippedTooShort
	}

	defer func() {
		if r := recover(); r != nil {
			t.logFailure(region, fmt.Errorf("internal panic: %v", r))
			state = failedUnchanged
		}
	}()

	res := t.serialize(region.Text, indent)
	if !res.Success {
		t.logFailure(region, res.Err)
		return failedUnchanged
	}
	e.Replace(region.Range, res.Text)
	return replaced
}

// textLength counts UTF-16 code units, so a character outside the BMP
// counts as two.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += max(1, len(utf16.Encode([]rune{r})))
	}
	return n
}

func (t *Transformer) logFailure(region model.Region, err error) {
	t.logger.Error("Error doing stable stringify of JSON content",
		"line", region.Range.Start.Line+1,
		"char", region.Range.Start.Column+1,
		"err", err,
		"content", region.Text,
	)
}
