package commands

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/generator"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to ./docgraph.yaml when present)" env:"DOCGRAPH_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate  GenerateCmd  `cmd:"" default:"withargs" help:"Generate the ninja build file for the documentation site"`
	Check     CheckCmd     `cmd:"" help:"Assemble and validate the build graph without writing it"`
	Visualize VisualizeCmd `cmd:"" help:"Visualize the build graph (text, mermaid, dot, json)"`
	Watch     WatchCmd     `cmd:"" help:"Regenerate the build file whenever the index or documents change"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			level = slog.LevelInfo
		}
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// PathArgs are the generator inputs, given positionally in the order
// INDEX SITE_CONFIG INPUT_DIR OUTPUT_DIR BUILD_FILE. Each one overrides the
// configuration file and environment.
type PathArgs struct {
	Index      string `arg:"" optional:"" name:"index" help:"Navigation index (index.json)"`
	SiteConfig string `arg:"" optional:"" name:"site-config" help:"Site configuration (_config.yml or .toml)"`
	InputDir   string `arg:"" optional:"" name:"input-dir" help:"Root of the document tree"`
	OutputDir  string `arg:"" optional:"" name:"output-dir" help:"Root of the generated site"`
	BuildFile  string `arg:"" optional:"" name:"build-file" help:"Ninja file to write"`

	RulesInclude string `name:"rules-include" help:"Rules file included by the build file"`
}

func (p PathArgs) apply(cfg *config.Config) {
	for _, o := range []struct {
		value  string
		target *string
	}{
		{p.Index, &cfg.Paths.Index},
		{p.SiteConfig, &cfg.Paths.SiteConfig},
		{p.InputDir, &cfg.Paths.InputDir},
		{p.OutputDir, &cfg.Paths.OutputDir},
		{p.BuildFile, &cfg.Paths.BuildFile},
		{p.RulesInclude, &cfg.Emit.RulesInclude},
	} {
		if o.value != "" {
			*o.target = o.value
		}
	}
}

// loadConfig layers the configuration file, environment and command line,
// then validates the result.
func loadConfig(root *CLI, args PathArgs) (*config.Config, error) {
	path := root.Config
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			path = config.DefaultConfigFile
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	args.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGenerator creates a generator, with a Prometheus recorder when any
// metrics output is configured. The registry is nil otherwise.
func newGenerator(cfg *config.Config) (*generator.Generator, *prom.Registry) {
	if cfg.Metrics.Listen == "" && cfg.Metrics.Textfile == "" {
		return generator.New(cfg), nil
	}
	reg := prom.NewRegistry()
	return generator.New(cfg, generator.WithRecorder(metrics.NewPrometheusRecorder(reg))), reg
}

// writeTextfile exports reg when a textfile is configured. Failures are
// logged; they never fail a generation.
func writeTextfile(cfg *config.Config, reg *prom.Registry) {
	if reg == nil || cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(reg, cfg.Metrics.Textfile); err != nil {
		slog.Warn("Failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
	}
}
