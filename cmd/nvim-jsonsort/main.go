// Command nvim-jsonsort is a Neovim remote plugin providing :JsonSort and
// :JsonSortVisual.
//
//	call remote#host#RegisterPlugin('nvim-jsonsort', '0', [
//	      \ {'type': 'command', 'name': 'JsonSort', 'sync': 1, 'opts': {'range': '%'}},
//	      \ {'type': 'command', 'name': 'JsonSortVisual', 'sync': 1, 'opts': {'range': '%'}},
//	      \ ])
package main

import (
	"os"

	"github.com/neovim/go-client/nvim/plugin"

	"github.com/sokinpui/jsonsort.go/internal/nvim"
	"github.com/sokinpui/jsonsort.go/internal/platform"
)

func main() {
	logPath := os.Getenv("JSONSORT_LOG_FILE")
	if logPath == "" {
		logPath = platform.DefaultLogPath()
	}
	level := os.Getenv("JSONSORT_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	plugin.Main(func(p *plugin.Plugin) error {
		out, err := platform.OpenLogFile(logPath)
		if err != nil {
			return err
		}
		logger, err := platform.ConfigureLogger(level, "text", out)
		if err != nil {
			return err
		}
		nvim.Register(p, logger, logPath)
		return nil
	})
}
