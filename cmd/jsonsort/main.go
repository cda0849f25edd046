package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sokinpui/jsonsort.go/cli"
	"github.com/sokinpui/jsonsort.go/internal/platform"
	"github.com/sokinpui/jsonsort.go/internal/tui"
	"github.com/sokinpui/jsonsort.go/internal/ui"
	"github.com/sokinpui/jsonsort.go/jsonsort"
	"github.com/sokinpui/jsonsort.go/model"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the command and returns its exit status. Deferred cleanup
// runs before main exits.
func execute(args []string) int {
	cfg, err := cli.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logOut, err := platform.OpenLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logOut.Close()
	logger, err := platform.ConfigureLogger(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	app, err := jsonsort.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	return run(app, cfg)
}

func run(app *jsonsort.App, cfg *cli.Config) int {
	// Only --write keeps stdout free for the TUI.
	if cfg.Write && !cfg.NoAnimation && isatty.IsTerminal(os.Stdout.Fd()) {
		m := tui.New(app)
		p := tea.NewProgram(m)
		m.SetProgram(p)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
			return 1
		}
		if m.Err() != nil {
			return 1
		}
		return exitCode(m.Summary())
	}

	summary, err := app.Execute()
	if err != nil {
		ui.Error("Error: %v", err)
		var detailed *jsonsort.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		return 1
	}
	if summary.Message != "" {
		ui.Info("%s", summary.Message)
	}
	if cfg.Write {
		ui.PrintSortSummary(summary.Sorted, summary.Unchanged, summary.Failed)
	}
	return exitCode(summary)
}

func exitCode(summary model.Summary) int {
	if len(summary.Failed) > 0 {
		return 1
	}
	return 0
}
