// Package config loads run configurations for the optical-gain probe.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DataDirEnv overrides the data directory of every loaded configuration.
const DataDirEnv = "DATA_REPO"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// RunConfig describes one synthetic closed-loop run.
type RunConfig struct {
	SampleRate     float64 `json:"sample_rate"`
	Modes          int     `json:"modes"`
	Ticks          int     `json:"ticks"`
	Warmup         int     `json:"warmup"`
	IntegratorGain float64 `json:"integrator_gain"`
	ProbeAmplitude float64 `json:"probe_amplitude"`

	// Synthetic plant.
	OpticalGain float64 `json:"optical_gain"`
	Latency     int     `json:"latency"`
	Noise       float64 `json:"noise"`
	Seed        int64   `json:"seed"`

	// DataDir is where reports and plots are written.
	DataDir string `json:"data_dir"`
}

// DefaultRunConfig returns the 1 kHz, 500 modes loop with a two tick
// latency.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		SampleRate:     1000,
		Modes:          500,
		Ticks:          2000,
		Warmup:         2,
		IntegratorGain: 0.5,
		ProbeAmplitude: 1e-8,
		OpticalGain:    1,
		Latency:        2,
		Seed:           1,
		DataDir:        "data",
	}
}

// Load reads a RunConfig from a JSON file. Fields omitted from the file keep
// their default values. The DATA_REPO environment variable, when set,
// replaces the data directory.
func Load(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv applies environment overrides.
func (c *RunConfig) ApplyEnv() {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		c.DataDir = dir
	}
}

// Validate reports every invalid field.
func (c RunConfig) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be > 0: %f", c.SampleRate))
	}
	if c.Modes <= 0 {
		errs = append(errs, fmt.Errorf("modes must be > 0: %d", c.Modes))
	}
	if c.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("ticks must be > 0: %d", c.Ticks))
	}
	if c.Warmup < 0 {
		errs = append(errs, fmt.Errorf("warmup must be >= 0: %d", c.Warmup))
	}
	if c.Latency < 0 {
		errs = append(errs, fmt.Errorf("latency must be >= 0: %d", c.Latency))
	}
	if c.Noise < 0 {
		errs = append(errs, fmt.Errorf("noise must be >= 0: %f", c.Noise))
	}
	if c.ProbeAmplitude <= 0 {
		errs = append(errs, fmt.Errorf("probe_amplitude must be > 0: %g", c.ProbeAmplitude))
	}
	return errors.Join(errs...)
}
