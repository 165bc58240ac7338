package graph

import (
	"errors"
	"fmt"
	"slices"

	dgraph "github.com/dominikbraun/graph"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
)

// FileGraph is the file-level view of a plan: one vertex per referenced
// file, one arc from every input of an edge to each of its outputs.
type FileGraph = dgraph.Graph[string, string]

// Build converts a plan into a FileGraph and checks it. Every output may be
// produced by one edge only and the arcs must not form a cycle.
//
// Two page images landing on one destination are reported as an ambiguous
// image destination, any other collision as a duplicate output.
func Build(p *Plan) (FileGraph, error) {
	g := dgraph.New(dgraph.StringHash, dgraph.Directed(), dgraph.PreventCycles())
	producers := make(map[string]Edge)

	for _, e := range p.Edges() {
		for _, o := range e.Outputs {
			key := o.String()
			if prev, ok := producers[key]; ok {
				return nil, collision(key, prev, e)
			}
			producers[key] = e
			if err := addVertex(g, key, "output"); err != nil {
				return nil, err
			}
			for _, in := range append(slices.Clone(e.Inputs), e.Implicit...) {
				if err := addVertex(g, in.String(), "input"); err != nil {
					return nil, err
				}
				err := g.AddEdge(in.String(), key, dgraph.EdgeAttribute("label", string(e.Rule)))
				switch {
				case err == nil, errors.Is(err, dgraph.ErrEdgeAlreadyExists):
				case errors.Is(err, dgraph.ErrEdgeCreatesCycle):
					return nil, derrors.InternalError("build graph contains a cycle", err).
						WithContext("input", in.String()).
						WithContext("output", key)
				default:
					return nil, derrors.InternalError("add build graph arc", err)
				}
			}
		}
	}
	return g, nil
}

// Validate checks a plan without keeping the graph.
func Validate(p *Plan) error {
	_, err := Build(p)
	return err
}

func addVertex(g FileGraph, key, kind string) error {
	err := g.AddVertex(key, dgraph.VertexAttribute("kind", kind))
	if err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
		return derrors.InternalError(fmt.Sprintf("add build graph vertex %s", key), err)
	}
	return nil
}

func collision(output string, a, b Edge) error {
	if isPageImage(a) && isPageImage(b) {
		return derrors.AmbiguousImageDestination(output, a.Inputs[0].Path, b.Inputs[0].Path)
	}
	return derrors.DuplicateOutput(output, string(a.Rule), string(b.Rule))
}

func isPageImage(e Edge) bool {
	return e.Rule == RuleCopy && len(e.Inputs) == 1 && e.Inputs[0].Var == VarSrcDir
}
