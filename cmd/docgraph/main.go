package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docgraph/cmd/docgraph/commands"
	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docgraph"),
		kong.Description("Generate the ninja build file of a documentation site from its navigation index."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
