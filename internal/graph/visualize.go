package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dominikbraun/graph/draw"
)

// VisualizationFormat represents the output format for plan visualization.
type VisualizationFormat string

const (
	FormatText    VisualizationFormat = "text"
	FormatMermaid VisualizationFormat = "mermaid"
	FormatDOT     VisualizationFormat = "dot"
	FormatJSON    VisualizationFormat = "json"
)

// SupportedFormats lists the visualization formats in display order.
func SupportedFormats() []VisualizationFormat {
	return []VisualizationFormat{FormatText, FormatMermaid, FormatDOT, FormatJSON}
}

// FormatDescription returns a one-line description of a format.
func FormatDescription(f VisualizationFormat) string {
	switch f {
	case FormatText:
		return "Edges grouped by batch"
	case FormatMermaid:
		return "Mermaid flowchart of files and rules"
	case FormatDOT:
		return "Graphviz DOT of the file graph"
	case FormatJSON:
		return "Machine readable plan"
	default:
		return ""
	}
}

// Visualize renders a plan in the requested format.
func Visualize(p *Plan, format VisualizationFormat) (string, error) {
	switch format {
	case FormatText:
		return visualizeText(p), nil
	case FormatMermaid:
		return visualizeMermaid(p), nil
	case FormatDOT:
		return visualizeDOT(p)
	case FormatJSON:
		return visualizeJSON(p)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func visualizeText(p *Plan) string {
	var sb strings.Builder

	sb.WriteString("Build Graph\n")
	sb.WriteString("===========\n\n")

	total := 0
	for _, g := range p.Groups {
		fmt.Fprintf(&sb, "┌─ %s (%d)\n", g.Batch, len(g.Edges))
		for i, e := range g.Edges {
			prefix := "├──"
			if i == len(g.Edges)-1 {
				prefix = "└──"
			}
			fmt.Fprintf(&sb, "│ %s %s [%s]", prefix, joinRefs(e.Outputs), e.Rule)
			if len(e.Inputs) > 0 {
				fmt.Fprintf(&sb, " <- %s", joinRefs(e.Inputs))
			}
			if len(e.Implicit) > 0 {
				fmt.Fprintf(&sb, " (+%d implicit)", len(e.Implicit))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("│\n")
		total += len(g.Edges)
	}

	fmt.Fprintf(&sb, "\nTotal: %d edges, %d document sources, %d fragments, %d images\n",
		total, len(p.DocSources), len(p.Fragments), len(p.Images))
	return sb.String()
}

// visualizeMermaid draws edges as rule nodes between file nodes. Implicit
// inputs are left out to keep the diagram readable.
func visualizeMermaid(p *Plan) string {
	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString("flowchart LR\n")

	ids := make(map[string]string)
	node := func(r Ref) string {
		key := r.String()
		if id, ok := ids[key]; ok {
			return id
		}
		id := fmt.Sprintf("f%d", len(ids))
		ids[key] = id
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, strings.ReplaceAll(key, `"`, "#quot;"))
		return id
	}

	n := 0
	for _, g := range p.Groups {
		for _, e := range g.Edges {
			ruleID := fmt.Sprintf("r%d", n)
			n++
			fmt.Fprintf(&sb, "    %s{{%s}}\n", ruleID, e.Rule)
			for _, in := range e.Inputs {
				fmt.Fprintf(&sb, "    %s --> %s\n", node(in), ruleID)
			}
			for _, o := range e.Outputs {
				fmt.Fprintf(&sb, "    %s --> %s\n", ruleID, node(o))
			}
		}
	}

	sb.WriteString("```\n")
	return sb.String()
}

func visualizeDOT(p *Plan) (string, error) {
	g, err := Build(p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := draw.DOT(g, &buf); err != nil {
		return "", fmt.Errorf("render dot: %w", err)
	}
	return buf.String(), nil
}

func visualizeJSON(p *Plan) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	return string(data) + "\n", nil
}
