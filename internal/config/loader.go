package config

import "fmt"

// LoaderConfig configures loading into the content store.
type LoaderConfig struct {
	DatabasePath  string `yaml:"database_path"`
	PlacesPath    string `yaml:"places_path"` // container for new Place objects
	Workflow      string `yaml:"workflow"`    // publish, review, draft
	Owner         string `yaml:"owner"`
	Message       string `yaml:"message"`        // commit message
	ProgressEvery int    `yaml:"progress_every"` // print a dot every N places
}

// ValidWorkflows lists the accepted workflow choices.
var ValidWorkflows = []string{"publish", "review", "draft"}

// Validate checks loader settings.
func (c *LoaderConfig) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("loader.database_path is required")
	}
	if c.PlacesPath == "" {
		return fmt.Errorf("loader.places_path is required")
	}
	if !contains(ValidWorkflows, c.Workflow) {
		return fmt.Errorf("invalid loader.workflow: %s (valid: %v)", c.Workflow, ValidWorkflows)
	}
	if c.ProgressEvery < 1 {
		return fmt.Errorf("loader.progress_every must be >= 1")
	}
	return nil
}
