// Package generator runs one generation: load the site index, assemble and
// validate the build graph, emit it and replace the build file when its
// content changed.
package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/docgraph/internal/config"
	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/metrics"
	"git.home.luguber.info/inful/docgraph/internal/ninja"
	"git.home.luguber.info/inful/docgraph/internal/observability"
	"git.home.luguber.info/inful/docgraph/internal/siteindex"
)

// Stage names used in logs and metrics.
const (
	StageLoad     = "load"
	StageAssemble = "assemble"
	StageValidate = "validate"
	StageEmit     = "emit"
	StageWrite    = "write"
)

// Generator turns a configuration into a build file.
type Generator struct {
	cfg      *config.Config
	fs       afero.Fs
	recorder metrics.Recorder
}

// Option customizes a Generator.
type Option func(*Generator)

// WithFs sets the filesystem all paths are resolved against. Defaults to the
// OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(g *Generator) { g.fs = fs }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New creates a generator for cfg. cfg is expected to be validated.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		fs:       afero.NewOsFs(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result describes one generation.
type Result struct {
	RunID string
	Plan  *graph.Plan
	// Content is the rendered build file and Hash its hex sha256.
	Content []byte
	Hash    string
	// Stale reports that the build file on disk differs from Content.
	// Run replaces a stale file and sets Written.
	Stale    bool
	Written  bool
	Edges    map[graph.Rule]int
	Scanned  int
	Duration time.Duration
}

// Run generates the build file. A file with identical content is left
// untouched so its modification time stays stable.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	return g.generate(ctx, true)
}

// Check performs every step of Run except the write.
func (g *Generator) Check(ctx context.Context) (*Result, error) {
	return g.generate(ctx, false)
}

func (g *Generator) generate(ctx context.Context, write bool) (res *Result, err error) {
	start := time.Now()
	res = &Result{RunID: uuid.NewString()}
	ctx = observability.WithRunID(ctx, res.RunID)

	defer func() {
		res.Duration = time.Since(start)
		g.recorder.ObserveGenerationDuration(res.Duration)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			g.recorder.IncGenerationOutcome(metrics.OutcomeCanceled)
		case err != nil:
			g.recorder.IncGenerationOutcome(metrics.OutcomeFailed)
		case res.Written:
			g.recorder.IncGenerationOutcome(metrics.OutcomeWritten)
		default:
			g.recorder.IncGenerationOutcome(metrics.OutcomeUnchanged)
		}
	}()

	if err = g.checkInputDir(); err != nil {
		return res, err
	}

	var site *siteindex.Site
	err = g.stage(ctx, StageLoad, func(context.Context) error {
		var lerr error
		site, lerr = siteindex.Load(g.fs, g.cfg.Paths.Index, g.cfg.Paths.SiteConfig,
			siteindex.Options{PageExtension: g.cfg.Emit.PageExtension})
		return lerr
	})
	if err != nil {
		return res, err
	}

	var stats graph.Stats
	err = g.stage(ctx, StageAssemble, func(ctx context.Context) error {
		assembler := graph.NewAssembler(g.documentFs(), graph.Options{
			NavOutput:    g.cfg.Emit.NavOutput,
			SearchOutput: g.cfg.Emit.SearchOutput,
			ImagesDir:    g.cfg.Emit.ImagesDir,
		})
		var aerr error
		res.Plan, stats, aerr = assembler.Assemble(ctx, site)
		return aerr
	})
	if err != nil {
		return res, err
	}
	res.Scanned = stats.Scanned
	g.recorder.AddDocumentsScanned(stats.Scanned)

	if err = g.stage(ctx, StageValidate, func(context.Context) error { return graph.Validate(res.Plan) }); err != nil {
		return res, err
	}

	res.Edges = res.Plan.CountByRule()
	for rule, n := range res.Edges {
		g.recorder.SetEdges(string(rule), n)
	}

	err = g.stage(ctx, StageEmit, func(context.Context) error {
		var buf bytes.Buffer
		if eerr := ninja.Emit(&buf, res.Plan, ninja.Options{
			SrcDir:       g.cfg.Paths.InputDir,
			OutDir:       g.cfg.Paths.OutputDir,
			RulesInclude: g.cfg.Emit.RulesInclude,
		}); eerr != nil {
			return derrors.InternalError("emit build file", eerr)
		}
		res.Content = buf.Bytes()
		sum := sha256.Sum256(res.Content)
		res.Hash = hex.EncodeToString(sum[:])
		return nil
	})
	if err != nil {
		return res, err
	}

	res.Stale = g.isStale(res.Content)
	if write && res.Stale {
		err = g.stage(ctx, StageWrite, func(context.Context) error {
			return writeAtomic(g.fs, g.cfg.Paths.BuildFile, res.Content)
		})
		if err != nil {
			return res, err
		}
		res.Written = true
	}

	observability.InfoContext(ctx, "Generation complete",
		logfields.Path(g.cfg.Paths.BuildFile),
		logfields.Edges(len(res.Plan.Edges())),
		logfields.Count(res.Scanned),
		slog.Bool("written", res.Written),
		slog.String("sha256", res.Hash),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return res, nil
}

// stage runs fn and records its duration and result.
func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		g.recorder.IncStageResult(name, metrics.ResultCanceled)
		return err
	}
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	g.recorder.ObserveStageDuration(name, d)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		g.recorder.IncStageResult(name, metrics.ResultCanceled)
	case err != nil:
		g.recorder.IncStageResult(name, metrics.ResultFatal)
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	default:
		g.recorder.IncStageResult(name, metrics.ResultSuccess)
		observability.DebugContext(ctx, "Stage complete", logfields.DurationMS(float64(d.Microseconds())/1000))
	}
	return err
}

func (g *Generator) checkInputDir() error {
	info, err := g.fs.Stat(g.cfg.Paths.InputDir)
	if err != nil || !info.IsDir() {
		return derrors.ConfigurationNotFound("input directory", g.cfg.Paths.InputDir)
	}
	return nil
}

// documentFs addresses the document tree by logical path.
func (g *Generator) documentFs() afero.Fs {
	if filepath.Clean(g.cfg.Paths.InputDir) == "." {
		return g.fs
	}
	return afero.NewBasePathFs(g.fs, g.cfg.Paths.InputDir)
}

func (g *Generator) isStale(content []byte) bool {
	existing, err := afero.ReadFile(g.fs, g.cfg.Paths.BuildFile)
	if err != nil {
		return true
	}
	return !bytes.Equal(existing, content)
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partial build file.
func writeAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return derrors.OutputWriteError(path, err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return derrors.OutputWriteError(path, err)
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return derrors.OutputWriteError(path, cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return derrors.OutputWriteError(path, err)
	}
	// #nosec G302 - build files are meant to be world readable
	if err := fs.Chmod(tmpName, 0o644); err != nil {
		_ = fs.Remove(tmpName)
		return derrors.OutputWriteError(path, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return derrors.OutputWriteError(path, err)
	}
	return nil
}
