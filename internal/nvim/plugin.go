package nvim

import (
	"log/slog"

	"github.com/neovim/go-client/nvim/plugin"

	"github.com/sokinpui/jsonsort.go/internal/transform"
	"github.com/sokinpui/jsonsort.go/model"
)

// Commands registered by Register.
const (
	SortCommand       = "JsonSort"
	SortVisualCommand = "JsonSortVisual"
)

// Register adds :JsonSort and :JsonSortVisual to the plugin.
//
// :JsonSort sorts the whole buffer, or the given lines when called with a
// partial range. :JsonSortVisual sorts the last visual selection and is
// meant for an xmap; it ignores its range.
func Register(p *plugin.Plugin, logger *slog.Logger, logPath string) {
	h := &handler{m: Attach(p.Nvim), logger: logger, logPath: logPath}

	p.HandleCommand(&plugin.CommandOptions{Name: SortCommand, Range: "%"}, func(rng [2]int) error {
		return h.run(func(s *Session) []model.Range {
			return LineSelections(s.Document(), rng)
		})
	})
	p.HandleCommand(&plugin.CommandOptions{Name: SortVisualCommand, Range: "%"}, func(rng [2]int) error {
		return h.run(func(s *Session) []model.Range {
			sel := VisualSelections(s.Document(), s.Visual())
			if len(sel) == 0 {
				return LineSelections(s.Document(), rng)
			}
			return sel
		})
	})
}

type handler struct {
	m       *Manager
	logger  *slog.Logger
	logPath string
}

func (h *handler) run(selections func(*Session) []model.Range) error {
	session, err := h.m.Snapshot()
	if err != nil {
		h.logger.Error("snapshot failed", "err", err)
		return err
	}

	t := transform.New(h.m,
		transform.WithLogger(h.logger),
		transform.WithMessage("Error during JSON sort. See "+h.logPath+" for details."),
	)
	editor := session.Editor(selections(session))
	outcome := t.Run(editor)
	h.logger.Debug("sort finished",
		"replaced", outcome.Replaced,
		"skipped", outcome.Skipped,
		"errors", outcome.Errors,
	)

	if err := session.Commit(); err != nil {
		h.logger.Error("commit failed", "err", err)
		return err
	}
	return nil
}
