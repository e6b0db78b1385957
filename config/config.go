// Package config handles ember.toml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked for by Load and FindAndLoad.
const FileName = "ember.toml"

// Config represents an ember.toml configuration.
type Config struct {
	Runtime Runtime `toml:"runtime"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the ember.toml file (set at load time).
	Dir string `toml:"-"`
}

// Runtime configures the virtual machine.
type Runtime struct {
	// StackSize is the evaluation stack capacity.
	StackSize int `toml:"stack-size"`

	// Trace enables per-instruction execution tracing.
	Trace bool `toml:"trace"`

	// StepLimit bounds the instructions a single run may execute; 0 means
	// unbounded.
	StepLimit int `toml:"step-limit"`
}

// Log configures logging output.
type Log struct {
	// Verbosity maps to commonlog verbosity: 0 errors/warnings only,
	// higher values progressively include info and debug messages.
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no ember.toml exists.
func Default() *Config {
	return &Config{
		Runtime: Runtime{StackSize: 256},
	}
}

// Load parses an ember.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	c.applyDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir to find an ember.toml file, then loads
// and returns it. Returns the defaults if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Runtime.StackSize <= 0 {
		c.Runtime.StackSize = 256
	}
	if c.Runtime.StepLimit < 0 {
		c.Runtime.StepLimit = 0
	}
	if c.Log.Verbosity < 0 {
		c.Log.Verbosity = 0
	}
}
