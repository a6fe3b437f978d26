package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/kvasir-games/rockfall/internal/client"
	"github.com/kvasir-games/rockfall/internal/config"
	"github.com/kvasir-games/rockfall/internal/engine"
)

func main() {
	// Keep engine logs out of the rendered terminal.
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)

	eng, err := engine.New(config.Default(), logger, engine.NopSink{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create engine: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := eng.Run(ctx); err != nil {
			logger.Error("engine stopped", "err", err)
		}
	}()

	p := tea.NewProgram(client.New(eng), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
