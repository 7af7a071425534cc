// Package config holds the run configuration: an explicit structure with
// documented defaults, loaded from an optional YAML file and overridden by
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is everything a review run needs. Zero values fall back to the
// defaults from Default().
type Config struct {
	// Document locations (Drive/Docs/Sheets URLs).
	SoWURL       string `yaml:"sow_url"`
	PromptURL    string `yaml:"prompt_url"`
	ChecklistURL string `yaml:"checklist_url"`
	TemplateURL  string `yaml:"template_url"`

	// Report placement.
	TargetSheetName string `yaml:"target_sheet_name"`
	StartCell       string `yaml:"start_cell"`

	// Model parameters.
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`

	// Credentials. APIKey comes from GEMINI_API_KEY or GOOGLE_API_KEY;
	// ProjectID (GOOGLE_CLOUD_PROJECT) switches ingestion to inline
	// payloads; CredentialsFile authenticates Drive and Sheets (ambient
	// default credentials when empty).
	APIKey          string `yaml:"-"`
	ProjectID       string `yaml:"project_id"`
	Location        string `yaml:"location"`
	CredentialsFile string `yaml:"credentials_file"`

	// Retry and chunking budgets.
	MaxAttempts         int `yaml:"max_attempts"`
	BackoffBaseMillis   int `yaml:"backoff_base_millis"`
	FragmentThresholdMB int `yaml:"fragment_threshold_mb"`
	MaxDocumentMB       int `yaml:"max_document_mb"`

	// PadRaggedRows pads or truncates ragged table rows instead of
	// failing the run.
	PadRaggedRows bool `yaml:"pad_ragged_rows"`

	// Logging.
	LogFile string `yaml:"log_file"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		TargetSheetName:     "Checklist Template",
		StartCell:           "B26",
		Model:               "gemini-3-pro-preview",
		Temperature:         0.1,
		MaxAttempts:         5,
		BackoffBaseMillis:   1000,
		FragmentThresholdMB: 10,
		MaxDocumentMB:       30,
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// (when path is non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_LOCATION"); v != "" {
		c.Location = v
	}
	if c.ProjectID != "" && c.Location == "" {
		c.Location = "us-central1"
	}
}

// Validate checks the fields a run cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.SoWURL == "" {
		missing = append(missing, "sow_url")
	}
	if c.PromptURL == "" {
		missing = append(missing, "prompt_url")
	}
	if c.ChecklistURL == "" {
		missing = append(missing, "checklist_url")
	}
	if c.TemplateURL == "" {
		missing = append(missing, "template_url")
	}
	if c.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
