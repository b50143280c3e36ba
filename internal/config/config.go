// Package config holds the process-wide configuration struct required by
// spec.md §6, loaded from an optional YAML file with defaults matching the
// values spec.md names explicitly.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide struct referenced throughout the core:
// hardware endpoint and timeout, default grid dimensions, the
// logical-to-real scale factor, and the step budget default.
type Config struct {
	// HardwareKind selects the backend tinkerblocksctl builds: "http" (the
	// default, a real HTTPCar) or "mock" (an in-memory simulator, no
	// network calls). An explicit knob rather than inferring "mock" from
	// a blank HardwareBaseURL, since Default() always sets a base URL.
	HardwareKind        string        `yaml:"hardware_kind"`
	HardwareBaseURL     string        `yaml:"hardware_base_url"`
	HardwareTimeout     time.Duration `yaml:"hardware_timeout"`
	HardwareHMACKey     string        `yaml:"hardware_hmac_key"`
	GridRows            int           `yaml:"grid_rows"`
	GridCols            int           `yaml:"grid_cols"`
	ScaleCmPerUnit      float64       `yaml:"scale_cm_per_unit"`
	MaxSteps            uint64        `yaml:"max_steps"`
	ObstacleThresholdCm float64       `yaml:"obstacle_threshold_cm"`
}

// Default returns the configuration spec.md names as defaults: 16x10 grid,
// 10cm per logical unit, a 10000-step budget, and a 30cm obstacle threshold.
func Default() Config {
	return Config{
		HardwareKind:        "http",
		HardwareBaseURL:     "http://localhost:8080",
		HardwareTimeout:     5 * time.Second,
		GridRows:            16,
		GridCols:            10,
		ScaleCmPerUnit:      10,
		MaxSteps:            10000,
		ObstacleThresholdCm: 30,
	}
}

// Load reads a YAML config file, applying it on top of Default. A missing
// file is not an error — Default() alone is a valid configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
