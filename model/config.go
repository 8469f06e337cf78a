package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is engine-level configuration, loadable from YAML the way
// gazed-vu's load/shd.go loads shader configs — never used to describe
// optical geometry, which stays the explicitly out-of-scope recipe
// parser's job.
type Config struct {
	RayNotifyInterval int     `yaml:"ray_notify_interval"`
	DefaultWavelength float64 `yaml:"default_wavelength_m"`
	DefaultMediumNdx  float64 `yaml:"default_medium_ndx"`
	Workers           int     `yaml:"workers"`
	LogLevel          string  `yaml:"log_level"`
}

// DefaultConfig returns a Config with sane defaults: notify every 1000
// rays, visible-light default wavelength, vacuum/air default index,
// all-but-one-core worker count (0 lets the engine decide at trace time),
// info logging.
func DefaultConfig() Config {
	return Config{
		RayNotifyInterval: 1000,
		DefaultWavelength: 555e-9,
		DefaultMediumNdx:  1.0,
		Workers:           0,
		LogLevel:          "info",
	}
}

// LoadConfig parses a YAML document from path, merging it over
// DefaultConfig's values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}
