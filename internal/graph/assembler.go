// Package graph assembles the build graph of a documentation site: which
// edges convert pages and fragments, which copy images, and which aggregate
// navigation and search data.
package graph

import (
	"context"
	"log/slog"
	"path"
	"slices"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docgraph/internal/docscan"
	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/siteindex"
	"git.home.luguber.info/inful/docgraph/internal/util/sets"
)

// Default output locations, relative to the output root.
const (
	DefaultNavOutput    = "_data/nav.json"
	DefaultSearchOutput = "_data/search.json"
	DefaultImagesDir    = "images"
)

// Tool scripts the conversion rules depend on, relative to $SCRIPTS_DIR.
const (
	scriptBuildInclude = "create_build_adoc_include.py"
	scriptBuildPage    = "create_build_adoc.py"
	scriptNav          = "create_nav.py"
	scriptSearch       = "create_search.py"
)

// Options configure output locations.
type Options struct {
	NavOutput    string
	SearchOutput string
	// ImagesDir is where box images land, relative to the output root.
	ImagesDir string
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.NavOutput == "" {
		o.NavOutput = DefaultNavOutput
	}
	if o.SearchOutput == "" {
		o.SearchOutput = DefaultSearchOutput
	}
	if o.ImagesDir == "" {
		o.ImagesDir = DefaultImagesDir
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Assembler builds a Plan from a Site, reading documents from fs. fs is
// addressed by logical path, so it is normally rooted at the document tree.
type Assembler struct {
	fs   afero.Fs
	opts Options
}

// NewAssembler creates an assembler reading documents from fs.
func NewAssembler(fs afero.Fs, opts Options) *Assembler {
	return &Assembler{fs: fs, opts: opts.withDefaults()}
}

// assembly carries the state of one Assemble call. Everything here only
// grows during the pass.
type assembly struct {
	*Assembler
	ctx       context.Context
	includes  map[string]sets.Set[string] // page -> fragments it includes
	images    map[string]string           // image source -> destination
	scheduled sets.Set[string]            // pages and fragments with an edge
	plan      *Plan
	scanned   int
}

// Stats summarises one assembly.
type Stats struct {
	Scanned int
}

// Assemble scans every document page of site and returns the complete plan.
// Only the first level of inclusion is followed: includes inside a fragment
// are not scheduled. An unreadable page or fragment aborts the assembly.
func (a *Assembler) Assemble(ctx context.Context, site *siteindex.Site) (*Plan, Stats, error) {
	s := &assembly{
		Assembler: a,
		ctx:       ctx,
		includes:  make(map[string]sets.Set[string]),
		images:    make(map[string]string),
		scheduled: sets.New[string](),
		plan:      &Plan{},
	}

	s.categoryEdges(site.Categories)
	if err := s.documentEdges(site.Documents); err != nil {
		return nil, Stats{}, err
	}
	s.imageEdges()
	s.aggregateEdges()
	s.boxImageEdges(site.BoxImages)

	return s.plan, Stats{Scanned: s.scanned}, nil
}

func (s *assembly) addGroup(b Batch, edges []Edge) {
	if len(edges) == 0 {
		return
	}
	s.plan.Groups = append(s.plan.Groups, Group{Batch: b, Edges: edges})
}

func (s *assembly) categoryEdges(categories []siteindex.CategoryPage) {
	edges := make([]Edge, 0, len(categories))
	for _, c := range categories {
		edges = append(edges, Edge{
			Outputs:   []Ref{out(c.Path)},
			Rule:      RuleCategoryPage,
			Variables: []Variable{{Key: "title", Value: c.Title}},
		})
	}
	s.addGroup(BatchCategories, edges)
}

func (s *assembly) documentEdges(pages []string) error {
	for _, page := range pages {
		res, err := s.scan(page, page)
		if err != nil {
			return err
		}
		if res.Includes.Len() > 0 {
			s.includes[page] = res.Includes
		}
	}

	var edges []Edge
	for _, page := range pages {
		for _, fragment := range sets.Sorted(s.includes[page]) {
			if s.scheduled.Has(fragment) {
				continue
			}
			res, err := s.scan(fragment, page)
			if err != nil {
				return err
			}
			if res.Includes.Len() > 0 {
				s.opts.Logger.Debug("Nested includes are not followed",
					logfields.Fragment(fragment),
					logfields.Page(page),
					logfields.Count(res.Includes.Len()))
			}
			s.scheduled.Add(fragment)
			s.plan.DocSources = append(s.plan.DocSources, fragment)
			s.plan.Fragments = append(s.plan.Fragments, fragment)
			edges = append(edges, Edge{
				Outputs:  []Ref{out(fragment)},
				Rule:     RuleBuildInclude,
				Inputs:   []Ref{src(fragment)},
				Implicit: []Ref{script(scriptBuildInclude), variable(VarSiteConfig)},
			})
		}

		if s.scheduled.Has(page) {
			continue
		}
		s.scheduled.Add(page)
		s.plan.DocSources = append(s.plan.DocSources, page)
		edges = append(edges, Edge{
			Outputs:  []Ref{out(page)},
			Rule:     RuleBuildPage,
			Inputs:   []Ref{src(page)},
			Implicit: []Ref{script(scriptBuildPage), variable(VarDocIndex), variable(VarSiteConfig)},
		})
	}
	s.addGroup(BatchDocuments, edges)
	return nil
}

// scan reads the document at source and merges its images, resolving their
// destinations against apparent.
func (s *assembly) scan(source, apparent string) (docscan.Result, error) {
	if err := s.ctx.Err(); err != nil {
		return docscan.Result{}, err
	}
	data, err := afero.ReadFile(s.fs, source)
	if err != nil {
		return docscan.Result{}, derrors.UnreadableDocument(source, err).
			WithContext("page", apparent)
	}
	s.scanned++

	res := docscan.Scan(string(data), source, apparent)
	for _, img := range res.Images {
		s.mergeImage(source, img)
	}
	for _, remote := range res.Remote {
		s.opts.Logger.Debug("Skipping remote image", logfields.Image(remote), logfields.Source(source))
	}
	return res, nil
}

func (s *assembly) mergeImage(doc string, img docscan.ImageRef) {
	if docscan.EscapesRoot(img.Source) || docscan.EscapesRoot(img.Dest) {
		s.opts.Logger.Warn("Image reference leaves the document tree",
			logfields.Path(doc), logfields.Source(img.Source), logfields.Dest(img.Dest))
	}
	if prev, ok := s.images[img.Source]; ok && prev != img.Dest {
		s.opts.Logger.Warn("Image source reached with a second destination; the later one wins",
			logfields.Source(img.Source), slog.String("previous", prev), logfields.Dest(img.Dest))
		s.plan.Remapped = append(s.plan.Remapped, ImageRemap{Source: img.Source, Previous: prev, Dest: img.Dest})
	}
	s.images[img.Source] = img.Dest
}

func (s *assembly) imageEdges() {
	sources := make([]string, 0, len(s.images))
	for source := range s.images {
		sources = append(sources, source)
	}
	slices.Sort(sources)
	edges := make([]Edge, 0, len(sources))
	for _, source := range sources {
		dest := s.images[source]
		s.plan.Images = append(s.plan.Images, ImageCopy{Source: source, Dest: dest})
		edges = append(edges, Edge{
			Outputs: []Ref{out(dest)},
			Rule:    RuleCopy,
			Inputs:  []Ref{src(source)},
		})
	}
	s.addGroup(BatchImages, edges)
}

func (s *assembly) aggregateEdges() {
	docs := make([]Ref, 0, len(s.plan.DocSources))
	for _, d := range s.plan.DocSources {
		docs = append(docs, src(d))
	}
	aggregate := func(rule Rule, output, tool string) Edge {
		implicit := append([]Ref{script(tool), variable(VarDocIndex)}, docs...)
		return Edge{Outputs: []Ref{out(output)}, Rule: rule, Implicit: implicit}
	}
	s.addGroup(BatchNavigation, []Edge{aggregate(RuleTOC, s.opts.NavOutput, scriptNav)})
	s.addGroup(BatchSearch, []Edge{aggregate(RuleSearch, s.opts.SearchOutput, scriptSearch)})
}

func (s *assembly) boxImageEdges(images []string) {
	edges := make([]Edge, 0, len(images))
	for _, img := range images {
		edges = append(edges, Edge{
			Outputs: []Ref{out(path.Join(s.opts.ImagesDir, img))},
			Rule:    RuleCopy,
			Inputs:  []Ref{{Var: VarDocImagesDir, Path: img}},
		})
	}
	s.addGroup(BatchBoxImages, edges)
}
