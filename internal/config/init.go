package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
)

// Example returns the configuration Init writes.
func Example() *Config {
	cfg := &Config{
		Paths: PathsConfig{
			Index:      "${DOCUMENTATION_INDEX}",
			SiteConfig: "${SITE_CONFIG}",
			InputDir:   "./documentation",
			OutputDir:  "./build/jekyll",
			BuildFile:  "./build/autogenerate.ninja",
		},
		Watch: WatchConfig{
			Debounce:   DefaultDebounce,
			Interval:   "10m",
			MaxRetries: 2,
		},
		Metrics: MetricsConfig{
			Listen: "127.0.0.1:9464",
		},
	}
	_ = applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration file. An existing file is only
// replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.New(derrors.CategoryConfig, derrors.SeverityFatal,
			"configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return derrors.ConfigInvalid(configPath, err)
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	// #nosec G306 - configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.OutputWriteError(configPath, err)
	}
	return nil
}
