package config

import (
	"fmt"

	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/ninja"
	"git.home.luguber.info/inful/docgraph/internal/siteindex"
)

// DefaultDebounce is the quiet period before the watch command regenerates.
const DefaultDebounce = "500ms"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// EmitDefaultApplier handles Emit configuration defaults.
type EmitDefaultApplier struct{}

func (e *EmitDefaultApplier) Domain() string { return "emit" }

func (e *EmitDefaultApplier) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Emit.RulesInclude, ninja.DefaultRulesInclude)
	setDefault(&cfg.Emit.PageExtension, siteindex.DefaultPageExtension)
	setDefault(&cfg.Emit.NavOutput, graph.DefaultNavOutput)
	setDefault(&cfg.Emit.SearchOutput, graph.DefaultSearchOutput)
	setDefault(&cfg.Emit.ImagesDir, graph.DefaultImagesDir)
	return nil
}

// WatchDefaultApplier handles Watch configuration defaults.
type WatchDefaultApplier struct{}

func (w *WatchDefaultApplier) Domain() string { return "watch" }

func (w *WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Watch.Debounce, DefaultDebounce)
	return nil
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

var defaultAppliers = []DefaultApplier{
	&EmitDefaultApplier{},
	&WatchDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}
