// Package config holds the runtime settings for the reading engine:
// default rendering parameters and the data directory for the library
// store. Settings load from a YAML file with sane defaults for anything
// left unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures the reading engine.
type Config struct {
	// DataPath is the library database file (default: data/library.db).
	DataPath string `yaml:"data_path"`

	// FontSize is the default reading font size in px (default: 20).
	FontSize float64 `yaml:"font_size"`

	// ViewportWidth and ViewportHeight are the default viewport
	// dimensions in px, used when a client does not report its own
	// (defaults: 390x844).
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`

	// Bionic enables the bionic reading transform by default.
	Bionic bool `yaml:"bionic"`

	// BatchSize is the number of sections formatted between scheduler
	// yields (default: 5).
	BatchSize int `yaml:"batch_size"`
}

func (c *Config) defaults() {
	if c.DataPath == "" {
		c.DataPath = "data/library.db"
	}
	if c.FontSize <= 0 {
		c.FontSize = 20
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 390
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 844
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	c := &Config{}
	c.defaults()
	return c
}

// Load reads a YAML config file and fills defaults for unset fields. A
// missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	c := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.defaults()
			return c, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	c.defaults()
	return c, nil
}

// FromEnv applies environment overrides on top of the loaded values.
// READLITE_DATA_PATH relocates the library database.
func (c *Config) FromEnv() *Config {
	if v := os.Getenv("READLITE_DATA_PATH"); v != "" {
		c.DataPath = v
	}
	return c
}
