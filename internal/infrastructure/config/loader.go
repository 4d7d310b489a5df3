package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

// Loader loads configuration from JSON files using the fs.FS interface.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a new config loader from a filesystem path.
func NewLoader(basePath string) *Loader {
	return &Loader{fsys: os.DirFS(basePath)}
}

// NewFSLoader creates a new config loader from an fs.FS; embedded
// filesystems plug in here.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadSimulation loads simulation.json.
func (l *Loader) LoadSimulation() (*SimulationConfig, error) {
	data, err := fs.ReadFile(l.fsys, "simulation.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation.json: %w", err)
	}

	var cfg SimulationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse simulation.json: %w", err)
	}

	return &cfg, nil
}

// LoadLevel loads a level JSON file from the levels directory.
func (l *Loader) LoadLevel(name string) (*LevelConfig, error) {
	path := "levels/" + name + ".json"
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", name, err)
	}

	var cfg LevelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level %s: %w", name, err)
	}

	if len(cfg.Regions) == 0 {
		return nil, fmt.Errorf("level %s has no regions", name)
	}
	if len(cfg.Vertices) < 2 || len(cfg.Lines) == 0 {
		return nil, fmt.Errorf("level %s has no geometry", name)
	}

	return &cfg, nil
}
