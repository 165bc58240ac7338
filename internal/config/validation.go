package config

import (
	"fmt"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
)

// Validate checks that every path the generator needs is set and that
// emit and watch settings are usable. It reports the first problem found.
func (c *Config) Validate() error {
	v := &configurationValidator{config: c}
	for _, check := range []func() error{v.validatePaths, v.validateEmit, v.validateWatch} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validatePaths() error {
	p := cv.config.Paths
	required := []struct {
		field string
		value string
	}{
		{"paths.index", p.Index},
		{"paths.site_config", p.SiteConfig},
		{"paths.input_dir", p.InputDir},
		{"paths.output_dir", p.OutputDir},
		{"paths.build_file", p.BuildFile},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return derrors.ConfigRequired(r.field)
		}
	}
	return nil
}

func (cv *configurationValidator) validateEmit() error {
	ext := cv.config.Emit.PageExtension
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 || strings.Contains(ext, "/") {
		return invalid("emit.page_extension", fmt.Errorf("must look like .adoc, got %q", ext))
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return invalid("watch.debounce", err)
	}
	if d <= 0 {
		return invalid("watch.debounce", fmt.Errorf("must be positive, got %s", d))
	}
	if w.MaxRetries < 0 {
		return invalid("watch.max_retries", fmt.Errorf("cannot be negative, got %d", w.MaxRetries))
	}
	if w.Interval == "" {
		return nil
	}
	i, err := time.ParseDuration(w.Interval)
	if err != nil {
		return invalid("watch.interval", err)
	}
	if i < time.Second {
		return invalid("watch.interval", fmt.Errorf("must be at least 1s, got %s", i))
	}
	return nil
}

func invalid(field string, cause error) error {
	return derrors.Wrap(cause, derrors.CategoryConfig, derrors.SeverityFatal, "invalid configuration value").
		WithContext("field", field)
}
