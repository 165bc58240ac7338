package graph

import "strings"

// Rule names a build rule defined in the shared rules file.
type Rule string

const (
	RuleCategoryPage Rule = "create_categories_page"
	RuleBuildInclude Rule = "create_build_adoc_include"
	RuleBuildPage    Rule = "create_build_adoc"
	RuleCopy         Rule = "copy"
	RuleTOC          Rule = "create_toc"
	RuleSearch       Rule = "create_search"
)

// Well-known build variables. SrcDir and OutDir are declared by the emitted
// file; the others are supplied by the build environment.
const (
	VarSrcDir       = "src_dir"
	VarOutDir       = "out_dir"
	VarScriptsDir   = "SCRIPTS_DIR"
	VarSiteConfig   = "SITE_CONFIG"
	VarDocIndex     = "DOCUMENTATION_INDEX"
	VarDocImagesDir = "DOCUMENTATION_IMAGES_DIR"
)

// Ref is a file reference in the build file: a logical path anchored at a
// build variable. An empty Path refers to the variable itself, an empty Var
// to a literal path.
type Ref struct {
	Var  string `json:"var,omitempty"`
	Path string `json:"path,omitempty"`
}

// String renders the reference the way the build file spells it.
func (r Ref) String() string {
	switch {
	case r.Var == "":
		return r.Path
	case r.Path == "":
		return "$" + r.Var
	default:
		return "$" + r.Var + "/" + r.Path
	}
}

func src(p string) Ref      { return Ref{Var: VarSrcDir, Path: p} }
func out(p string) Ref      { return Ref{Var: VarOutDir, Path: p} }
func script(p string) Ref   { return Ref{Var: VarScriptsDir, Path: p} }
func variable(v string) Ref { return Ref{Var: v} }

// Variable is an edge-scoped binding, e.g. the title of a category page.
type Variable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Edge is one rule invocation: the outputs it produces from its primary
// inputs, plus implicit inputs that only trigger rebuilds.
type Edge struct {
	Outputs   []Ref      `json:"outputs"`
	Rule      Rule       `json:"rule"`
	Inputs    []Ref      `json:"inputs,omitempty"`
	Implicit  []Ref      `json:"implicit,omitempty"`
	Variables []Variable `json:"variables,omitempty"`
}

// Batch names a group of edges emitted together with their default line.
type Batch string

const (
	BatchCategories Batch = "categories"
	BatchDocuments  Batch = "documents"
	BatchImages     Batch = "images"
	BatchNavigation Batch = "navigation"
	BatchSearch     Batch = "search"
	BatchBoxImages  Batch = "box_images"
)

// Group is an ordered batch of edges.
type Group struct {
	Batch Batch  `json:"batch"`
	Edges []Edge `json:"edges"`
}

// Outputs lists the outputs of every edge in the group, in order.
func (g Group) Outputs() []Ref {
	var outs []Ref
	for _, e := range g.Edges {
		outs = append(outs, e.Outputs...)
	}
	return outs
}

// ImageCopy maps an image found in the document tree to its site location.
type ImageCopy struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// Plan is the assembled build graph.
type Plan struct {
	Groups []Group `json:"groups"`
	// DocSources holds every page and fragment in scheduling order; the
	// navigation and search edges depend on all of them.
	DocSources []string    `json:"doc_sources"`
	Fragments  []string    `json:"fragments"`
	Images     []ImageCopy `json:"images"`
	// Remapped lists image sources whose destination changed while scanning
	// (the later destination wins).
	Remapped []ImageRemap `json:"remapped,omitempty"`
}

// ImageRemap records an image source reached with two destinations.
type ImageRemap struct {
	Source   string `json:"source"`
	Previous string `json:"previous"`
	Dest     string `json:"dest"`
}

// Edges returns all edges in emission order.
func (p *Plan) Edges() []Edge {
	var edges []Edge
	for _, g := range p.Groups {
		edges = append(edges, g.Edges...)
	}
	return edges
}

// CountByRule tallies edges per rule.
func (p *Plan) CountByRule() map[Rule]int {
	counts := make(map[Rule]int)
	for _, e := range p.Edges() {
		counts[e.Rule]++
	}
	return counts
}

// Group returns the batch with the given name, if present.
func (p *Plan) Group(b Batch) (Group, bool) {
	for _, g := range p.Groups {
		if g.Batch == b {
			return g, true
		}
	}
	return Group{}, false
}

func refStrings(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

func joinRefs(refs []Ref) string {
	return strings.Join(refStrings(refs), " ")
}
