// Package watch regenerates the build file whenever the site index, the site
// configuration or the document tree changes, and optionally on a fixed
// interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/docgraph/internal/errors"
	"git.home.luguber.info/inful/docgraph/internal/generator"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/observability"
	"git.home.luguber.info/inful/docgraph/internal/retry"
)

// Triggers recorded on the log records of each generation.
const (
	TriggerInitial  = "initial"
	TriggerChange   = "change"
	TriggerSchedule = "schedule"
)

// Runner performs one generation. *generator.Generator satisfies it.
type Runner interface {
	Run(ctx context.Context) (*generator.Result, error)
}

// Options configure a Watcher.
type Options struct {
	Index      string
	SiteConfig string
	InputDir   string
	BuildFile  string
	// Debounce is the quiet period after the last change before regenerating.
	Debounce time.Duration
	// Interval forces a regeneration on a fixed schedule when positive.
	Interval time.Duration
	// Retry repeats generations that fail on unreadable input, which
	// happens while an editor is replacing a file. The zero Policy never
	// retries.
	Retry retry.Policy
	// OnResult, if set, is called after every generation.
	OnResult func(*generator.Result, error)
}

// Watcher drives a Runner from filesystem events.
type Watcher struct {
	runner  Runner
	opts    Options
	watcher *fsnotify.Watcher

	inputDir  string
	files     map[string]bool // absolute index and site config paths
	buildFile string

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan string
}

// New creates a watcher for the paths in opts. Paths are resolved to
// absolute form so events can be matched against them.
func New(runner Runner, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		return nil, errors.New("debounce must be positive")
	}
	w := &Watcher{
		runner:  runner,
		opts:    opts,
		files:   make(map[string]bool),
		trigger: make(chan string, 1),
	}

	var err error
	if w.inputDir, err = filepath.Abs(opts.InputDir); err != nil {
		return nil, fmt.Errorf("resolve input directory: %w", err)
	}
	if w.buildFile, err = filepath.Abs(opts.BuildFile); err != nil {
		return nil, fmt.Errorf("resolve build file: %w", err)
	}
	for _, p := range []string{opts.Index, opts.SiteConfig} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// Run generates once, then watches until ctx is canceled. Failed generations
// are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fw
	defer func() {
		w.stopTimer()
		if err := fw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addWatches(); err != nil {
		return err
	}

	if w.opts.Interval > 0 {
		s, err := newScheduler(w.opts.Interval, func() { w.request(TriggerSchedule) })
		if err != nil {
			return err
		}
		s.Start()
		defer s.Stop()
	}

	slog.Info("Watching for changes",
		logfields.Path(w.inputDir),
		slog.Duration("debounce", w.opts.Debounce),
		slog.Duration("interval", w.opts.Interval))

	w.generate(ctx, TriggerInitial)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		case trigger := <-w.trigger:
			w.generate(ctx, trigger)
		}
	}
}

func (w *Watcher) generate(ctx context.Context, trigger string) {
	ctx = observability.WithTrigger(ctx, trigger)
	var res *generator.Result
	err := retry.Do(ctx, w.opts.Retry, transient, func(ctx context.Context, attempt int) error {
		if attempt > 0 {
			observability.WarnContext(ctx, "Retrying generation", slog.Int("attempt", attempt))
		}
		var err error
		res, err = w.runner.Run(ctx)
		return err
	})
	if err != nil && ctx.Err() == nil {
		observability.ErrorContext(ctx, "Generation failed", logfields.Error(err))
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(res, err)
	}
}

// transient reports whether a failed generation may succeed on its own:
// the index or a document could not be read or parsed.
func transient(err error) bool {
	switch derrors.GetCategory(err) {
	case derrors.CategoryIndex, derrors.CategoryDocument, derrors.CategoryFileSystem:
		return true
	default:
		return false
	}
}

// addWatches watches the directories holding the index and site config, and
// every directory of the document tree.
func (w *Watcher) addWatches() error {
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", d, err)
		}
	}
	return w.addTree(w.inputDir)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.relevant(event) {
		return
	}
	if event.Has(fsnotify.Create) && w.inTree(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
	w.schedule()
}

// relevant reports whether an event can change the generated file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == w.buildFile || w.isBuildTemp(name) {
		return false
	}
	return w.files[name] || w.inTree(name)
}

func (w *Watcher) inTree(name string) bool {
	rel, err := filepath.Rel(w.inputDir, name)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isBuildTemp matches the temporary files written next to the build file.
func (w *Watcher) isBuildTemp(name string) bool {
	if filepath.Dir(name) != filepath.Dir(w.buildFile) {
		return false
	}
	base := filepath.Base(name)
	return strings.HasPrefix(base, "."+filepath.Base(w.buildFile)+".") && strings.HasSuffix(base, ".tmp")
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() { w.request(TriggerChange) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// request queues a generation. Requests arriving while one is pending are
// coalesced.
func (w *Watcher) request(trigger string) {
	select {
	case w.trigger <- trigger:
	default:
	}
}
