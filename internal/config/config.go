// Package config loads composer settings from the environment, with an
// optional .env file for local overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"qcomposer/internal/circuit"
)

// Defaults applied when the environment is silent.
const (
	DefaultWires    = 3
	DefaultColumns  = 12
	DefaultLogFile  = "qcomposer.log"
	DefaultSaveFile = "circuit.json"
	DefaultDebounce = 300 * time.Millisecond
)

// Config holds everything the entry point needs to assemble the editor.
type Config struct {
	Wires    int
	Columns  int
	LogFile  string
	SaveFile string
	Debounce time.Duration
}

// Load reads QCOMPOSER_* variables, after loading .env if one exists.
// Values that parse but fall outside their bounds are errors rather than
// silently clamped; the wire-count bound in particular must be enforced
// before a circuit is ever created.
func Load() (Config, error) {
	// Missing .env is fine; only load errors on a present file matter.
	_ = godotenv.Load()

	cfg := Config{
		Wires:    DefaultWires,
		Columns:  DefaultColumns,
		LogFile:  DefaultLogFile,
		SaveFile: DefaultSaveFile,
		Debounce: DefaultDebounce,
	}

	var err error
	if cfg.Wires, err = intVar("QCOMPOSER_WIRES", cfg.Wires); err != nil {
		return Config{}, err
	}
	if cfg.Wires < circuit.MinWires || cfg.Wires > circuit.MaxWires {
		return Config{}, fmt.Errorf("config: QCOMPOSER_WIRES=%d outside [%d,%d]", cfg.Wires, circuit.MinWires, circuit.MaxWires)
	}
	if cfg.Columns, err = intVar("QCOMPOSER_COLUMNS", cfg.Columns); err != nil {
		return Config{}, err
	}
	if cfg.Columns < 1 {
		return Config{}, fmt.Errorf("config: QCOMPOSER_COLUMNS=%d must be at least 1", cfg.Columns)
	}
	if v := os.Getenv("QCOMPOSER_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("QCOMPOSER_SAVE"); v != "" {
		cfg.SaveFile = v
	}
	if v := os.Getenv("QCOMPOSER_DEBOUNCE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("config: QCOMPOSER_DEBOUNCE_MS=%q is not a non-negative integer", v)
		}
		cfg.Debounce = time.Duration(ms) * time.Millisecond
	}
	return cfg, nil
}

func intVar(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", name, v)
	}
	return n, nil
}
