package app

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string
	LogFormat   string
	LogLevel    string
	MaxVectors  int
	Parallel    bool
	EmitCases   bool
	OutputPath  string
}

// NewConfig validates a candidate configuration and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, fmt.Errorf("a project path is required")
	}
	switch ext(cfg.ProjectPath) {
	case ".hcl", ".yaml", ".yml", ".json":
		// supported
	case "":
		// A bare path is a directory; the document inside is resolved at
		// run time.
	default:
		return nil, fmt.Errorf("unsupported project format %q (supported: .hcl, .yaml, .yml, .json)",
			ext(cfg.ProjectPath))
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if _, err := parseLogFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	if cfg.MaxVectors < 0 {
		return nil, fmt.Errorf("max-vectors must not be negative")
	}
	return &cfg, nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
