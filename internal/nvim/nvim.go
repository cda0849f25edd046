package nvim

import (
	"fmt"
	"os"

	"github.com/neovim/go-client/nvim"

	"github.com/sokinpui/jsonsort.go/internal/document"
	"github.com/sokinpui/jsonsort.go/model"
)

const notifyLua = `local msg = ...
vim.notify(msg, vim.log.levels.ERROR)`

// Manager handles the connection and interaction with a Neovim instance.
type Manager struct {
	nvim   *nvim.Nvim
	dialed bool
}

// New connects to the Neovim instance that started the current process,
// found through $NVIM or $NVIM_LISTEN_ADDRESS.
func New() (*Manager, error) {
	for _, name := range []string{"NVIM", "NVIM_LISTEN_ADDRESS"} {
		addr := os.Getenv(name)
		if addr == "" {
			continue
		}
		v, err := nvim.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
		}
		return &Manager{nvim: v, dialed: true}, nil
	}
	return nil, fmt.Errorf("no running nvim found: $NVIM is not set. Run this from a Neovim terminal")
}

// Attach wraps an existing client, e.g. the one of a remote plugin.
func Attach(v *nvim.Nvim) *Manager {
	return &Manager{nvim: v}
}

// Close disconnects from Neovim if the connection was dialed by New.
func (m *Manager) Close() {
	if m.dialed && m.nvim != nil {
		m.nvim.Close()
	}
}

// Session is a snapshot of the current buffer taken at command start.
type Session struct {
	m      *Manager
	buffer nvim.Buffer
	lines  []string
	editor *document.Editor
	visual VisualState
}

// Snapshot reads the current buffer, its indent options and the last
// visual selection in a single round trip.
func (m *Manager) Snapshot() (*Session, error) {
	buf, err := m.nvim.CurrentBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to get current buffer: %w", err)
	}

	var (
		raw        [][]byte
		expandTab  bool
		shiftWidth int
		tabStop    int
		vis        VisualState
	)
	b := m.nvim.NewBatch()
	b.BufferLines(buf, 0, -1, true, &raw)
	b.BufferOption(buf, "expandtab", &expandTab)
	b.BufferOption(buf, "shiftwidth", &shiftWidth)
	b.BufferOption(buf, "tabstop", &tabStop)
	b.BufferMark(buf, "<", &vis.Start)
	b.BufferMark(buf, ">", &vis.End)
	b.Call("visualmode", &vis.Mode)
	if err := b.Execute(); err != nil {
		return nil, fmt.Errorf("failed to read buffer state: %w", err)
	}

	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(l)
	}
	indent := model.Indentation{InsertSpaces: expandTab, TabSize: shiftWidth}
	if shiftWidth == 0 {
		indent.TabSize = tabStop
	}

	return &Session{
		m:      m,
		buffer: buf,
		lines:  lines,
		visual: vis,
		editor: document.NewEditor(document.FromLines(lines), nil, indent),
	}, nil
}

// Document returns the snapshot of the buffer.
func (s *Session) Document() *document.Document {
	return s.editor.Document()
}

// Editor returns an editor over the snapshot with the given selections.
func (s *Session) Editor(selections []model.Range) *document.Editor {
	s.editor = document.NewEditor(s.editor.Document(), selections, s.editor.Indentation())
	return s.editor
}

// Visual returns the last visual selection of the buffer.
func (s *Session) Visual() VisualState {
	return s.visual
}

// Commit writes the queued replacements to the buffer in one batch.
func (s *Session) Commit() error {
	replacements, err := lineReplacements(s.lines, s.editor.Edits())
	if err != nil {
		return fmt.Errorf("invalid edits: %w", err)
	}
	if len(replacements) == 0 {
		return nil
	}

	b := s.m.nvim.NewBatch()
	for _, r := range replacements {
		content := make([][]byte, len(r.Lines))
		for i, l := range r.Lines {
			content[i] = []byte(l)
		}
		b.SetBufferLines(s.buffer, r.Start, r.End, true, content)
	}
	if err := b.Execute(); err != nil {
		return fmt.Errorf("failed to update buffer: %w", err)
	}
	return s.editor.Commit()
}

// Notify shows message as an error in Neovim.
func (m *Manager) Notify(message string) {
	if err := m.nvim.ExecLua(notifyLua, nil, message); err != nil {
		m.nvim.WritelnErr(message)
	}
}
