package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/config"
	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
)

const testIndex = `{"tabs": [{"title": "Guide", "path": "guide", "subitems": [{"subpath": "intro.adoc"}]}]}`

func testConfig() *config.Config {
	cfg := config.Example()
	cfg.Paths = config.PathsConfig{
		Index:      "meta/index.json",
		SiteConfig: "meta/_config.yml",
		InputDir:   "docs",
		OutputDir:  "build/site",
		BuildFile:  "build/autogenerate.ninja",
	}
	return cfg
}

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"meta/index.json":               testIndex,
		"meta/_config.yml":              "title: Docs\n",
		"docs/guide/intro.adoc":         "include::shared/footer.adoc[]\n",
		"docs/guide/shared/footer.adoc": "image::logo.png[]\n",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes map[metrics.OutcomeLabel]int
	stages   map[string]metrics.ResultLabel
	edges    map[string]int
	scanned  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		outcomes: map[metrics.OutcomeLabel]int{},
		stages:   map[string]metrics.ResultLabel{},
		edges:    map[string]int{},
	}
}

func (c *countingRecorder) IncGenerationOutcome(o metrics.OutcomeLabel) { c.outcomes[o]++ }
func (c *countingRecorder) IncStageResult(s string, r metrics.ResultLabel) {
	c.stages[s] = r
}
func (c *countingRecorder) SetEdges(rule string, n int) { c.edges[rule] = n }
func (c *countingRecorder) AddDocumentsScanned(n int)   { c.scanned += n }

func TestRunWritesBuildFile(t *testing.T) {
	fs := testFs(t)
	rec := newCountingRecorder()

	res, err := New(testConfig(), WithFs(fs), WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Written)
	assert.True(t, res.Stale)
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Hash, 64)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t, 1, res.Edges[graph.RuleBuildInclude])
	assert.Equal(t, 1, res.Edges[graph.RuleCopy])

	data, err := afero.ReadFile(fs, "build/autogenerate.ninja")
	require.NoError(t, err)
	assert.Equal(t, res.Content, data)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# This file is autogenerated, do not edit.\n\nsrc_dir = docs\nout_dir = build/site\n"))
	assert.Contains(t, text, "build $out_dir/guide/logo.png: copy $src_dir/guide/shared/logo.png\n")
	assert.Contains(t, text, "  title = Docs - Guide\n")

	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeWritten])
	assert.Equal(t, metrics.ResultSuccess, rec.stages[StageWrite])
	assert.Equal(t, 1, rec.edges[string(graph.RuleBuildPage)])
	assert.Equal(t, 2, rec.scanned)

	leftovers, err := afero.Glob(fs, "build/.*.tmp")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRunSkipsUnchangedFile(t *testing.T) {
	fs := testFs(t)
	rec := newCountingRecorder()
	gen := New(testConfig(), WithFs(fs), WithRecorder(rec))

	first, err := gen.Run(context.Background())
	require.NoError(t, err)
	require.True(t, first.Written)

	second, err := gen.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Written)
	assert.False(t, second.Stale)
	assert.Equal(t, first.Hash, second.Hash)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeUnchanged])
}

func TestCheckDoesNotWrite(t *testing.T) {
	fs := testFs(t)

	res, err := New(testConfig(), WithFs(fs)).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.False(t, res.Written)

	exists, err := afero.Exists(fs, "build/autogenerate.ninja")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunMissingInputDir(t *testing.T) {
	fs := testFs(t)
	cfg := testConfig()
	cfg.Paths.InputDir = "missing"
	rec := newCountingRecorder()

	_, err := New(cfg, WithFs(fs), WithRecorder(rec)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
}

func TestRunUnreadableFragmentLeavesNoOutput(t *testing.T) {
	fs := testFs(t)
	require.NoError(t, fs.Remove("docs/guide/shared/footer.adoc"))
	rec := newCountingRecorder()

	_, err := New(testConfig(), WithFs(fs), WithRecorder(rec)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryDocument))
	assert.Equal(t, metrics.ResultFatal, rec.stages[StageAssemble])

	exists, err := afero.Exists(fs, "build/autogenerate.ninja")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunMalformedIndex(t *testing.T) {
	fs := testFs(t)
	require.NoError(t, afero.WriteFile(fs, "meta/index.json", []byte(`{"tabs": [{"title": "x", "path": "x"}]}`), 0o644))

	_, err := New(testConfig(), WithFs(fs)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryIndex))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := newCountingRecorder()

	_, err := New(testConfig(), WithFs(testFs(t)), WithRecorder(rec)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeCanceled])
}

func TestRunInputDirDot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "index.json", []byte(testIndex), 0o644))
	require.NoError(t, afero.WriteFile(fs, "_config.yml", []byte("title: Docs\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "guide/intro.adoc", []byte("Hello\n"), 0o644))
	require.NoError(t, fs.MkdirAll(".", 0o755))

	cfg := testConfig()
	cfg.Paths.Index = "index.json"
	cfg.Paths.SiteConfig = "_config.yml"
	cfg.Paths.InputDir = "."

	res, err := New(cfg, WithFs(fs)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Edges[graph.RuleBuildPage])
}

func TestRunOnDisk(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"index.json":            testIndex,
		"_config.yml":           "title: Docs\n",
		"docs/guide/intro.adoc": "= Intro\n",
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	cfg := testConfig()
	cfg.Paths = config.PathsConfig{
		Index:      filepath.Join(dir, "index.json"),
		SiteConfig: filepath.Join(dir, "_config.yml"),
		InputDir:   filepath.Join(dir, "docs"),
		OutputDir:  "out",
		BuildFile:  filepath.Join(dir, "build", "autogenerate.ninja"),
	}

	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Written)

	info, err := os.Stat(cfg.Paths.BuildFile)
	require.NoError(t, err)
	mtime := info.ModTime()

	time.Sleep(10 * time.Millisecond)
	res, err = New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Written)

	info, err = os.Stat(cfg.Paths.BuildFile)
	require.NoError(t, err)
	assert.Equal(t, mtime, info.ModTime())
}
