package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order when present. Variables already set in the
// process environment are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", "path", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment file", "path", name)
	}
}

// Environment overrides. They beat the configuration file and lose to the
// command line.
const (
	EnvIndex         = "DOCGRAPH_INDEX"
	EnvSiteConfig    = "DOCGRAPH_SITE_CONFIG"
	EnvInputDir      = "DOCGRAPH_INPUT_DIR"
	EnvOutputDir     = "DOCGRAPH_OUTPUT_DIR"
	EnvBuildFile     = "DOCGRAPH_BUILD_FILE"
	EnvRulesInclude  = "DOCGRAPH_RULES_INCLUDE"
	EnvMetricsListen = "DOCGRAPH_METRICS_LISTEN"
	EnvLogLevel      = "DOCGRAPH_LOG_LEVEL"
)

func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvIndex, &cfg.Paths.Index},
		{EnvSiteConfig, &cfg.Paths.SiteConfig},
		{EnvInputDir, &cfg.Paths.InputDir},
		{EnvOutputDir, &cfg.Paths.OutputDir},
		{EnvBuildFile, &cfg.Paths.BuildFile},
		{EnvRulesInclude, &cfg.Emit.RulesInclude},
		{EnvMetricsListen, &cfg.Metrics.Listen},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.target = v
		}
	}
}
