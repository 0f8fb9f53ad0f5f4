package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Package config holds the tool-level settings for a compliance run. These
// are knobs of the runner, not of the brand policy; the policy itself lives
// in a guidelines JSON document owned by pkg/compliance.

// Settings holds all run configuration data.
type Settings struct {
	PassThreshold  float64 `json:"pass_threshold"`  // Minimum score for a compliant asset
	PaletteSize    int     `json:"palette_size"`    // Dominant colors extracted per asset
	Workers        int     `json:"workers"`         // Parallel asset checks, 0 = sequential
	GuidelinesPath string  `json:"guidelines_path"` // Default brand guidelines document
	OutputDir      string  `json:"output_dir"`      // Where campaign artifacts land
}

// Default returns the settings used when no config file is present.
func Default() *Settings {
	return &Settings{
		PassThreshold: 70,
		PaletteSize:   5,
		Workers:       runtime.NumCPU(),
		OutputDir:     "output",
	}
}

// Filename returns the path to the user's config file.
func Filename() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName), "config.json"), nil
}

// Load reads settings from the given file. A missing file is not an error;
// the defaults are returned instead.
func Load(filename string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", filename, err)
	}
	if s.PassThreshold < 0 || s.PassThreshold > 100 {
		return nil, fmt.Errorf("config %s: pass_threshold must be in [0,100], got %v", filename, s.PassThreshold)
	}
	if s.PaletteSize < 1 {
		return nil, fmt.Errorf("config %s: palette_size must be positive, got %d", filename, s.PaletteSize)
	}
	if s.Workers < 0 {
		return nil, fmt.Errorf("config %s: workers must not be negative, got %d", filename, s.Workers)
	}
	return s, nil
}

// Save writes the current settings to the given file.
func (s *Settings) Save(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
