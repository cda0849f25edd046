package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/jsonsort.go/jsonsort"
	"github.com/sokinpui/jsonsort.go/model"
)

type fakeRunner struct {
	summary model.Summary
	err     error
	cb      jsonsort.ProgressUpdate
}

func (f *fakeRunner) Execute() (model.Summary, error) {
	if f.cb != nil {
		f.cb(1, 1)
	}
	return f.summary, f.err
}

func (f *fakeRunner) SetProgressCallback(cb jsonsort.ProgressUpdate) {
	f.cb = cb
}

func TestSummaryView(t *testing.T) {
	runner := &fakeRunner{summary: model.Summary{
		Sorted:    []string{"a.json"},
		Unchanged: []string{"b.json"},
		Failed:    []string{"c.json"},
	}}
	m := New(runner)

	_, cmd := m.Update(m.runApp())
	if cmd == nil {
		t.Fatal("expected the program to quit after the summary")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit command")
	}

	view := m.View()
	for _, want := range []string{"Sorted:", "a.json", "Already sorted:", "b.json", "Failed:", "c.json"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q:\n%s", want, view)
		}
	}
	if len(m.Summary().Failed) != 1 {
		t.Errorf("unexpected summary: %+v", m.Summary())
	}
}

func TestProgressView(t *testing.T) {
	m := New(&fakeRunner{})
	m.Update(progressMsg{current: 2, total: 5})
	if view := m.View(); !strings.Contains(view, "Sorting 2/5 files...") {
		t.Errorf("unexpected progress view: %q", view)
	}
}

func TestErrorView(t *testing.T) {
	m := New(&fakeRunner{err: errors.New("boom")})
	m.Update(m.runApp())
	if m.Err() == nil || !strings.Contains(m.View(), "boom") {
		t.Errorf("unexpected error view: %q", m.View())
	}
}

func TestEmptySummary(t *testing.T) {
	m := New(&fakeRunner{})
	m.Update(m.runApp())
	if !strings.Contains(m.View(), "Nothing to do.") {
		t.Errorf("unexpected view: %q", m.View())
	}
}
