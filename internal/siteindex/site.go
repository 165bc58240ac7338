package siteindex

import (
	"cmp"
	"fmt"
	"path"
	"slices"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docgraph/internal/docscan"
	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/util/sets"
)

// DefaultPageExtension is the extension of generated category pages.
const DefaultPageExtension = ".adoc"

// CategoryPage is a generated landing page and its display title.
type CategoryPage struct {
	Path  string
	Title string
}

// Site is everything the graph is assembled from. All slices are sorted and
// free of duplicates.
type Site struct {
	Title      string
	Categories []CategoryPage
	Documents  []string
	// BoxImages are named by navigation entries and live in the external
	// images directory, not in the document tree.
	BoxImages []string
}

// Options tune how pages are named.
type Options struct {
	PageExtension string
}

// Load reads the index and site config from fs and builds the Site.
func Load(fs afero.Fs, indexPath, configPath string, opts Options) (*Site, error) {
	cfg, err := ReadSiteConfig(fs, configPath)
	if err != nil {
		return nil, err
	}
	idx, err := ReadIndex(fs, indexPath)
	if err != nil {
		return nil, err
	}
	return Build(idx, cfg, opts)
}

// Build derives category pages, document pages and box images from a decoded
// index. A tab carrying path without subitems (or the reverse) is rejected.
func Build(idx *Index, cfg *SiteConfig, opts Options) (*Site, error) {
	ext := opts.PageExtension
	if ext == "" {
		ext = DefaultPageExtension
	}

	categories := sets.New(
		CategoryPage{Path: "index" + ext, Title: cfg.Title},
		CategoryPage{Path: "404" + ext, Title: cfg.Title},
	)
	documents := sets.New[string]()
	boxImages := sets.New[string]()

	for i, tab := range idx.Tabs {
		if (tab.Path != nil) != (tab.Subitems != nil) {
			return nil, derrors.MalformedIndex(fmt.Sprintf("tab %d (%q): path and subitems must appear together", i, tab.Title)).
				WithContext("tab", i)
		}
		if tab.Path == nil {
			continue
		}
		if *tab.Path == "" {
			return nil, derrors.MalformedIndex(fmt.Sprintf("tab %d (%q): empty path", i, tab.Title)).
				WithContext("tab", i)
		}

		categories.Add(CategoryPage{
			Path:  categoryPath(*tab.Path, ext),
			Title: fmt.Sprintf("%s - %s", cfg.Title, tab.Title),
		})
		for _, sub := range *tab.Subitems {
			if sub.Subpath != "" {
				documents.Add(docscan.Clean(path.Join(*tab.Path, sub.Subpath)))
			}
			if sub.Image != "" {
				boxImages.Add(docscan.Clean(sub.Image))
			}
		}
	}

	cats := make([]CategoryPage, 0, categories.Len())
	for c := range categories {
		cats = append(cats, c)
	}
	slices.SortFunc(cats, func(a, b CategoryPage) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})

	return &Site{
		Title:      cfg.Title,
		Categories: cats,
		Documents:  sets.Sorted(documents),
		BoxImages:  sets.Sorted(boxImages),
	}, nil
}
