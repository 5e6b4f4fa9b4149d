// Package config loads the planning configuration from JSON or YAML files
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/fieldops/weekplan/core/model"
	"github.com/fieldops/weekplan/infra/mqtt"
	"github.com/fieldops/weekplan/ingest"
	"github.com/fieldops/weekplan/metrics"
)

// Config is the root configuration.
type Config struct {
	Week    model.WeekConfig `json:"week"`
	Mapping ingest.Mapping   `json:"mapping"`
	Metrics metrics.Config   `json:"metrics"`
	MQTT    mqtt.Config      `json:"mqtt"`
}

// Load reads the configuration file at path. The format follows the file
// extension; WP_-prefixed environment variables override file values, with
// "__" separating nesting levels.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("WP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "wp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Week.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Week.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given: a standard
// Monday-to-Friday week with auto-detected backlog columns and no sinks.
func Default() *Config {
	cfg := &Config{}
	cfg.Week.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	return cfg
}
