package ninja

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/docgraph/internal/graph"
)

// Header is the comment opening every generated file.
const Header = "This file is autogenerated, do not edit."

// DefaultRulesInclude is the rules file included by the generated file.
const DefaultRulesInclude = "makefiles/shared.ninja"

// Options set the directory variables and the rules file.
type Options struct {
	// SrcDir and OutDir are bound to src_dir and out_dir.
	SrcDir       string
	OutDir       string
	RulesInclude string
}

// Emit writes plan as a ninja file. Each batch is followed by a default
// statement naming its outputs and a blank line. Identical plans and options
// produce identical bytes.
func Emit(w io.Writer, plan *graph.Plan, opts Options) error {
	if opts.RulesInclude == "" {
		opts.RulesInclude = DefaultRulesInclude
	}

	nw := NewWriter(w)
	nw.Comment(Header)
	nw.Newline()
	nw.Variable(graph.VarSrcDir, opts.SrcDir)
	nw.Variable(graph.VarOutDir, opts.OutDir)
	nw.Newline()
	nw.Include(opts.RulesInclude)
	nw.Newline()

	for _, g := range plan.Groups {
		for _, e := range g.Edges {
			nw.Build(statement(e))
		}
		nw.Default(refStrings(g.Outputs()))
		nw.Newline()
	}

	if err := nw.Err(); err != nil {
		return fmt.Errorf("write build file: %w", err)
	}
	return nil
}

func statement(e graph.Edge) Build {
	b := Build{
		Outputs:  refStrings(e.Outputs),
		Rule:     string(e.Rule),
		Inputs:   refStrings(e.Inputs),
		Implicit: refStrings(e.Implicit),
	}
	for _, v := range e.Variables {
		b.Bindings = append(b.Bindings, Binding{Key: v.Key, Value: v.Value})
	}
	return b
}

func refStrings(refs []graph.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}
