package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"qcomposer/internal/circuit"
	"qcomposer/internal/config"
)

// saveSnapshot writes the snapshot as indented JSON. The file holds only
// plain data, so a saved circuit survives across versions that keep the
// snapshot shape.
func saveSnapshot(path string, snap circuit.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadSnapshot reads a saved snapshot back into a circuit.
func loadSnapshot(path string) (circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return circuit.Circuit{}, err
	}
	var snap circuit.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return circuit.Circuit{}, fmt.Errorf("decode %s: %w", path, err)
	}
	c, err := circuit.FromSnapshot(snap)
	if err != nil {
		return circuit.Circuit{}, fmt.Errorf("restore %s: %w", path, err)
	}
	return c, nil
}

// loadOrCreate restores the configured save file when present, otherwise
// builds an empty circuit from the configured dimensions.
func loadOrCreate(cfg config.Config) (circuit.Circuit, error) {
	c, err := loadSnapshot(cfg.SaveFile)
	if err == nil {
		return c.EnsureColumns(cfg.Columns), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return circuit.Circuit{}, err
	}
	return circuit.New(cfg.Wires, cfg.Columns)
}
