package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all converter and loader configuration.
type Config struct {
	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// CSV input decoding
	Input InputConfig `yaml:"input"`

	// Row to place conversion
	Convert ConvertConfig `yaml:"convert"`

	// JSON output
	Output OutputConfig `yaml:"output"`

	// Content store loading
	Loader LoaderConfig `yaml:"loader"`
}

// ConvertConfig configures the conversion pass.
type ConvertConfig struct {
	Workers  int  `yaml:"workers"`  // parallel row builders
	Validate bool `yaml:"validate"` // struct + schema validation of the result
}

// OutputConfig configures JSON output.
type OutputConfig struct {
	Indent int `yaml:"indent"` // spaces per level
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warning",
			Format: "console",
		},
		Input: InputConfig{
			Encoding:  "utf-8",
			Delimiter: ",",
		},
		Convert: ConvertConfig{
			Workers:  4,
			Validate: true,
		},
		Output: OutputConfig{
			Indent: 4,
		},
		Loader: LoaderConfig{
			DatabasePath:  "data/pleiades.db",
			PlacesPath:    "places",
			Workflow:      "draft",
			Owner:         "admin",
			Message:       "Editorial adjustment (batch)",
			ProgressEvery: 10,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// Defaults if config file doesn't exist
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if lvl := os.Getenv("YDEA_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if enc := os.Getenv("YDEA_INPUT_ENCODING"); enc != "" {
		c.Input.Encoding = enc
	}
	if path := os.Getenv("PLEIADES_DB"); path != "" {
		c.Loader.DatabasePath = path
	}
	if owner := os.Getenv("PLEIADES_OWNER"); owner != "" {
		c.Loader.Owner = owner
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Input.Validate(); err != nil {
		return err
	}
	if c.Convert.Workers < 1 {
		return fmt.Errorf("convert.workers must be >= 1")
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must be >= 0")
	}
	return c.Loader.Validate()
}
