package config

import (
	"fmt"
	"strings"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`          // debug, info, warning, error
	Format string `yaml:"format"`         // console, json
	File   string `yaml:"file,omitempty"` // optional copy of the log stream
}

// ValidLogLevels lists the accepted level names.
var ValidLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if !contains(ValidLogLevels, strings.ToLower(c.Level)) {
		return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Level, ValidLogLevels)
	}
	if c.Format != "console" && c.Format != "json" {
		return fmt.Errorf("invalid logging.format: %s (valid: console, json)", c.Format)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
