// Package siteindex reads the navigation index (index.json) and the site
// configuration and derives the pages the build graph is made of.
package siteindex

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgraph/internal/docscan"
	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
)

// Index is the decoded navigation index.
type Index struct {
	Tabs []Tab `json:"tabs"`
}

// Tab is either a plain link (no path, no subitems) or a category.
// Pointer fields distinguish an absent key from an empty value.
type Tab struct {
	Title    string     `json:"title"`
	Path     *string    `json:"path,omitempty"`
	URL      string     `json:"url,omitempty"`
	Subitems *[]Subitem `json:"subitems,omitempty"`
}

// Subitem is one box on a category page.
type Subitem struct {
	Title       string `json:"title,omitempty"`
	Subpath     string `json:"subpath,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// SiteConfig is the subset of the site configuration the graph needs.
type SiteConfig struct {
	Title string `yaml:"title" toml:"title"`
}

// ReadIndex decodes the navigation index at p.
func ReadIndex(fs afero.Fs, p string) (*Index, error) {
	data, err := readRequired(fs, p, "site index")
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, derrors.MalformedIndexFile(p, err)
	}
	return &idx, nil
}

// ReadSiteConfig decodes the site configuration at p. Files ending in .toml
// are read as TOML, anything else as YAML.
func ReadSiteConfig(fs afero.Fs, p string) (*SiteConfig, error) {
	data, err := readRequired(fs, p, "site config")
	if err != nil {
		return nil, err
	}
	var cfg SiteConfig
	if strings.EqualFold(filepath.Ext(p), ".toml") {
		_, err = toml.Decode(string(data), &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, derrors.ConfigInvalid(p, err)
	}
	if strings.TrimSpace(cfg.Title) == "" {
		return nil, derrors.ConfigInvalid(p, fmt.Errorf("title is required"))
	}
	return &cfg, nil
}

func readRequired(fs afero.Fs, p, kind string) ([]byte, error) {
	exists, err := afero.Exists(fs, p)
	if err != nil {
		return nil, derrors.ConfigInvalid(p, err)
	}
	if !exists {
		return nil, derrors.ConfigurationNotFound(kind, p)
	}
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return nil, derrors.ConfigInvalid(p, err)
	}
	return data, nil
}

// categoryPath is where the landing page of a category tab is generated.
func categoryPath(tabPath, ext string) string {
	return docscan.Clean(path.Join(tabPath, "index"+ext))
}
