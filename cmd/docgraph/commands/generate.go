package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docgraph/internal/generator"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	PathArgs `embed:""`

	Quiet bool `short:"q" help:"Do not print a summary"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, g.PathArgs)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gen, reg := newGenerator(cfg)
	res, err := gen.Run(ctx)
	writeTextfile(cfg, reg)
	if err != nil {
		return err
	}
	if !g.Quiet {
		printSummary(os.Stdout, cfg.Paths.BuildFile, res)
	}
	return nil
}

func printSummary(w io.Writer, buildFile string, res *generator.Result) {
	state := "unchanged"
	switch {
	case res.Written:
		state = "written"
	case res.Stale:
		state = "out of date"
	}
	_, _ = fmt.Fprintf(w, "%s: %s (%d edges, %d documents scanned, sha256 %s)\n",
		buildFile, state, len(res.Plan.Edges()), res.Scanned, shortHash(res.Hash))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
