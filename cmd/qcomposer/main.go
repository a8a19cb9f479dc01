// qcomposer is a terminal quantum circuit composer: place gates on a grid
// of wires and time columns and watch the simulated state update live.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"qcomposer/internal/config"
	"qcomposer/internal/editor"
	"qcomposer/internal/sim"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The TUI owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Logger()

	backend := sim.NewBackend(log)
	m, err := editor.New(cfg, backend, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Error().Err(err).Msg("program failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
