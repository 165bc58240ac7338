package siteindex

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
)

const guideIndex = `{
  "tabs": [
    {"title": "Home", "url": "/"},
    {"title": "Guide", "path": "guide", "subitems": [
      {"title": "Intro", "subpath": "intro.adoc", "image": "intro.svg"},
      {"title": "Setup", "subpath": "setup/install.adoc"},
      {"title": "External", "image": "external.svg"}
    ]},
    {"title": "API", "path": "api", "subitems": [
      {"subpath": "intro.adoc", "image": "intro.svg"}
    ]}
  ]
}`

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func TestLoad(t *testing.T) {
	fs := memFS(t, map[string]string{
		"index.json":  guideIndex,
		"_config.yml": "title: Site\n",
	})

	site, err := Load(fs, "index.json", "_config.yml", Options{})
	require.NoError(t, err)

	assert.Equal(t, "Site", site.Title)
	assert.Equal(t, []CategoryPage{
		{Path: "404.adoc", Title: "Site"},
		{Path: "api/index.adoc", Title: "Site - API"},
		{Path: "guide/index.adoc", Title: "Site - Guide"},
		{Path: "index.adoc", Title: "Site"},
	}, site.Categories)
	assert.Equal(t, []string{"api/intro.adoc", "guide/intro.adoc", "guide/setup/install.adoc"}, site.Documents)
	assert.Equal(t, []string{"external.svg", "intro.svg"}, site.BoxImages)
}

func TestBuildScenarioSingleCategory(t *testing.T) {
	guide := "guide"
	idx := &Index{Tabs: []Tab{{
		Title:    "Guide",
		Path:     &guide,
		Subitems: &[]Subitem{{Subpath: "intro.doc"}},
	}}}

	site, err := Build(idx, &SiteConfig{Title: "Site"}, Options{PageExtension: ".doc"})
	require.NoError(t, err)

	assert.Equal(t, []CategoryPage{
		{Path: "404.doc", Title: "Site"},
		{Path: "guide/index.doc", Title: "Site - Guide"},
		{Path: "index.doc", Title: "Site"},
	}, site.Categories)
	assert.Equal(t, []string{"guide/intro.doc"}, site.Documents)
	assert.Empty(t, site.BoxImages)
}

func TestBuildMalformedTabs(t *testing.T) {
	p := "guide"
	tests := []struct {
		name string
		tab  Tab
	}{
		{"path without subitems", Tab{Title: "Guide", Path: &p}},
		{"subitems without path", Tab{Title: "Guide", Subitems: &[]Subitem{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&Index{Tabs: []Tab{tt.tab}}, &SiteConfig{Title: "Site"}, Options{})
			require.Error(t, err)
			assert.True(t, derrors.IsCategory(err, derrors.CategoryIndex))
		})
	}
}

func TestBuildEmptySubitemsIsCategory(t *testing.T) {
	p := "empty"
	site, err := Build(&Index{Tabs: []Tab{{Title: "Empty", Path: &p, Subitems: &[]Subitem{}}}}, &SiteConfig{Title: "S"}, Options{})
	require.NoError(t, err)
	assert.Contains(t, site.Categories, CategoryPage{Path: "empty/index.adoc", Title: "S - Empty"})
	assert.Empty(t, site.Documents)
}

func TestBuildDeduplicates(t *testing.T) {
	fs := memFS(t, map[string]string{
		"index.json": `{"tabs":[
			{"title":"A","path":"a","subitems":[{"subpath":"x.adoc"},{"subpath":"./x.adoc","image":"i.png"}]},
			{"title":"A","path":"a","subitems":[{"subpath":"x.adoc","image":"i.png"}]}
		]}`,
		"site.yml": "title: S\n",
	})
	site, err := Load(fs, "index.json", "site.yml", Options{})
	require.NoError(t, err)
	assert.Len(t, site.Categories, 3)
	assert.Equal(t, []string{"a/x.adoc"}, site.Documents)
	assert.Equal(t, []string{"i.png"}, site.BoxImages)
}

func TestReadSiteConfigFormats(t *testing.T) {
	fs := memFS(t, map[string]string{
		"_config.yml": "title: From YAML\nbaseurl: /docs\n",
		"config.toml": "title = \"From TOML\"\n",
		"notitle.yml": "baseurl: /x\n",
		"broken.toml": "title = \n",
	})

	cfg, err := ReadSiteConfig(fs, "_config.yml")
	require.NoError(t, err)
	assert.Equal(t, "From YAML", cfg.Title)

	cfg, err = ReadSiteConfig(fs, "config.toml")
	require.NoError(t, err)
	assert.Equal(t, "From TOML", cfg.Title)

	_, err = ReadSiteConfig(fs, "notitle.yml")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))

	_, err = ReadSiteConfig(fs, "broken.toml")
	require.Error(t, err)

	_, err = ReadSiteConfig(fs, "missing.yml")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestReadIndexErrors(t *testing.T) {
	fs := memFS(t, map[string]string{"bad.json": "{not json"})

	_, err := ReadIndex(fs, "bad.json")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryIndex))

	_, err = ReadIndex(fs, "missing.json")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}
