// Package config loads the generator configuration: an optional docgraph.yaml,
// .env files and DOCGRAPH_* environment overrides.
package config

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
)

// DefaultConfigFile is the file name Init writes and the CLI looks for.
const DefaultConfigFile = "docgraph.yaml"

// Config is the complete generator configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Emit    EmitConfig    `yaml:"emit"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// PathsConfig names the generator inputs and the build file it writes.
type PathsConfig struct {
	Index      string `yaml:"index"`       // Navigation index (index.json)
	SiteConfig string `yaml:"site_config"` // Site configuration (_config.yml or .toml)
	InputDir   string `yaml:"input_dir"`   // Root of the document tree
	OutputDir  string `yaml:"output_dir"`  // Root of the generated site
	BuildFile  string `yaml:"build_file"`  // Ninja file to write
}

// EmitConfig shapes the generated build file.
type EmitConfig struct {
	RulesInclude  string `yaml:"rules_include"`
	PageExtension string `yaml:"page_extension"`
	NavOutput     string `yaml:"nav_output"`
	SearchOutput  string `yaml:"search_output"`
	ImagesDir     string `yaml:"images_dir"`
}

// WatchConfig configures the watch command. Durations use time.ParseDuration
// syntax; an empty interval disables periodic regeneration. MaxRetries
// bounds how often a generation failing on unreadable input is repeated.
type WatchConfig struct {
	Debounce   string `yaml:"debounce,omitempty"`
	Interval   string `yaml:"interval,omitempty"`
	MaxRetries int    `yaml:"max_retries,omitempty"`
}

// MetricsConfig configures metrics export. Both outputs are optional.
type MetricsConfig struct {
	Listen   string `yaml:"listen,omitempty"`   // Address serving /metrics in watch mode
	Textfile string `yaml:"textfile,omitempty"` // Node exporter textfile written after each run
}

// DebounceDuration returns the parsed watch debounce.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// IntervalDuration returns the parsed watch interval, zero when unset.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, _ := time.ParseDuration(w.Interval)
	return d
}

// Load reads the configuration file at configPath, if any, and layers .env
// files, DOCGRAPH_* overrides and defaults on top. An empty configPath
// yields a configuration made of environment and defaults only. The result
// is not validated: callers apply command line overrides first.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath) // #nosec G304 - user supplied config path
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigurationNotFound("configuration file", configPath)
		}
		if err != nil {
			return nil, derrors.ConfigInvalid(configPath, err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, derrors.ConfigInvalid(configPath, err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode expands environment references and rejects unknown keys.
func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
