// Package config loads libhx's own ambient configuration file
// (libhx.yaml), independent of the containers it reads and writes.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haruki-hx/libhx/internal/hxlog"
)

// InspectorConfig controls the read-only HTTP inspector server.
type InspectorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the top-level shape of libhx.yaml.
type Config struct {
	OutputDir        string            `yaml:"output_dir,omitempty"`
	VariantOverrides map[string]string `yaml:"variant_overrides,omitempty"`
	Inspector        InspectorConfig   `yaml:"inspector,omitempty"`
	LogLevel         string            `yaml:"log_level,omitempty"`
}

// Default returns the zero-value-safe configuration used when no config
// file is present: current directory output, no variant overrides, the
// inspector disabled, INFO-level logging.
func Default() Config {
	return Config{
		OutputDir: ".",
		Inspector: InspectorConfig{Enabled: false, Addr: "127.0.0.1:8080"},
		LogLevel:  "INFO",
	}
}

// Load reads and parses path, falling back to Default() if the file does
// not exist. Any other I/O or parse error is logged and returns Default()
// as well: this config is non-critical and purely ambient (output
// directory, variant overrides, inspector address, log level), so a
// missing or malformed file is a warning, never a fatal error.
func Load(path string) Config {
	logger := hxlog.NewLogger("ConfigLoader", "DEBUG", nil)

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("failed to open config file %s: %v", path, err)
		}
		return Default()
	}
	defer f.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		logger.Warnf("failed to parse config file %s: %v", path, err)
		return Default()
	}
	return cfg
}

// VariantOverrideFor returns the forced variant name for a file extension
// (without the leading dot), and whether an override was configured.
func (c Config) VariantOverrideFor(ext string) (string, bool) {
	v, ok := c.VariantOverrides[ext]
	return v, ok
}
