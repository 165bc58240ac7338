package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docgraph/internal/generator"
	"git.home.luguber.info/inful/docgraph/internal/graph"
)

// VisualizeCmd implements the 'visualize' command.
type VisualizeCmd struct {
	PathArgs `embed:""`

	Format string `short:"f" help:"Output format: text, mermaid, dot, json" default:"text" enum:"text,mermaid,dot,json"`
	Output string `short:"o" help:"Output file path (optional, prints to stdout if not specified)"`
	List   bool   `short:"l" help:"List available formats and exit"`
}

// Run executes the visualize command.
func (cmd *VisualizeCmd) Run(_ *Global, root *CLI) error {
	if cmd.List {
		fmt.Println("Available visualization formats:")
		fmt.Println()
		for _, format := range graph.SupportedFormats() {
			fmt.Printf("  %-10s %s\n", format, graph.FormatDescription(format))
		}
		fmt.Println()
		fmt.Println("Usage examples:")
		fmt.Println("  docgraph visualize                        # Text format to stdout")
		fmt.Println("  docgraph visualize -f mermaid             # Mermaid diagram to stdout")
		fmt.Println("  docgraph visualize -f dot -o graph.dot    # DOT format to file")
		return nil
	}

	cfg, err := loadConfig(root, cmd.PathArgs)
	if err != nil {
		return err
	}
	res, err := generator.New(cfg).Check(context.Background())
	if err != nil {
		return err
	}

	output, err := graph.Visualize(res.Plan, graph.VisualizationFormat(cmd.Format))
	if err != nil {
		return fmt.Errorf("failed to visualize build graph: %w", err)
	}

	if cmd.Output != "" {
		// #nosec G306 - visualization output is not secret
		if err := os.WriteFile(cmd.Output, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		slog.Info("Build graph visualization written", "file", cmd.Output, "format", cmd.Format)
	} else {
		fmt.Print(output)
	}
	return nil
}
