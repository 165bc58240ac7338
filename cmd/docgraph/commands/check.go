package commands

import (
	"context"
	"fmt"
	"os"
	"slices"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/graph"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	PathArgs `embed:""`

	FailStale bool `name:"fail-stale" help:"Fail when the build file on disk differs from the generated one"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, c.PathArgs)
	if err != nil {
		return err
	}

	gen, reg := newGenerator(cfg)
	res, err := gen.Check(context.Background())
	writeTextfile(cfg, reg)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, cfg.Paths.BuildFile, res)
	rules := make([]string, 0, len(res.Edges))
	for r := range res.Edges {
		rules = append(rules, string(r))
	}
	slices.Sort(rules)
	for _, r := range rules {
		fmt.Printf("  %-26s %d\n", r, res.Edges[graph.Rule(r)])
	}
	for _, m := range res.Plan.Remapped {
		fmt.Printf("  remapped image %s: %s -> %s\n", m.Source, m.Previous, m.Dest)
	}

	if c.FailStale && res.Stale {
		return derrors.New(derrors.CategoryValidation, derrors.SeverityError, "build file is out of date").
			WithContext("path", cfg.Paths.BuildFile)
	}
	return nil
}
