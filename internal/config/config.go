package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	Project   string          `yaml:"project"`
	Version   int             `yaml:"version"`
	Database  DatabaseConfig  `yaml:"database"`
	Books     []string        `yaml:"books"`
	Exclude   []string        `yaml:"exclude"`
	Placement PlacementConfig `yaml:"placement"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type PlacementConfig struct {
	Threshold    float64 `yaml:"threshold"`
	MarkerFormat string  `yaml:"marker_format"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if len(cfg.Books) == 0 {
		return fmt.Errorf("at least one book path is required")
	}
	for i, path := range cfg.Books {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("book path %d is empty", i)
		}
	}
	if cfg.Placement.Threshold < 0 || cfg.Placement.Threshold > 1 {
		return fmt.Errorf("placement threshold must be between 0 and 1")
	}
	if cfg.Placement.MarkerFormat != "" && strings.Count(cfg.Placement.MarkerFormat, "%s") != 1 {
		return fmt.Errorf("placement marker_format must contain exactly one %%s")
	}
	return nil
}
