package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load reads a HuJSON (JSON-with-comments) or YAML config file, expands
// ${{ .Env.VAR }} templates, unmarshals it into Config, and applies
// defaults. The format is chosen by file extension: ".yaml"/".yml" use
// YAML, anything else is treated as HuJSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variable templates before parsing, since
	// templates live inside string values.
	expanded := expandEnvTemplates(string(data))

	var cfg Config
	if isYAML(path) {
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	} else {
		standard, err := hujson.Standardize([]byte(expanded))
		if err != nil {
			return nil, fmt.Errorf("standardize config: %w", err)
		}
		if err := json.Unmarshal(standard, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Classifier.Mode == "" {
		cfg.Classifier.Mode = ClassifierAI
	}
	if cfg.Classifier.ConfidenceFloor == 0 {
		cfg.Classifier.ConfidenceFloor = 0.5
	}
	if cfg.Errors.OnClassifyError == "" {
		cfg.Errors.OnClassifyError = OnClassifyErrorIgnore
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 1024
	}
	if cfg.Events.LogLevel == "" {
		cfg.Events.LogLevel = "info"
	}
	if cfg.Undo.Capacity == 0 {
		cfg.Undo.Capacity = 100
	}
	if cfg.Dispatcher.BackoffBaseMs == 0 {
		cfg.Dispatcher.BackoffBaseMs = 200
	}
	if cfg.Dispatcher.BackoffCapMs == 0 {
		cfg.Dispatcher.BackoffCapMs = 30_000
	}
	if cfg.Dispatcher.DefaultMaxAttempts == 0 {
		cfg.Dispatcher.DefaultMaxAttempts = 3
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "127.0.0.1"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 18420
	}
}
