// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds on source changes. It monitors the template and
// static directories of a project and invokes a callback after a debounce
// period; events within the window are coalesced into one call.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are never watched: VCS metadata, dependency caches and
// editor or OS noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are watched recursively. Roots that do not exist are skipped.
		Roots []string

		// Patterns select the files that trigger callbacks, matched against
		// the slash-separated path relative to the containing root. An empty
		// slice matches every non-ignored file.
		Patterns []string

		// Ignore are extra doublestar patterns merged with the defaults.
		Ignore []string

		// Skip are files or directories whose changes never trigger a
		// callback, typically the bundle output directory and the loader
		// script written by a rebuild.
		Skip []string

		// Debounce is the quiet period after the last event. Zero or
		// negative values use the default.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated absolute paths that
		// changed. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors roots and fires a debounced callback when matching
	// files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []string
		skip     []string
		ignores  []string
		debounce time.Duration
		logger   *slog.Logger
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every non-ignored directory below the
// configured roots.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %q: %w", root, err)
		}
		if info, statErr := os.Stat(abs); statErr != nil || !info.IsDir() {
			w.logger.Debug("watch root skipped", "root", abs)
			continue
		}
		w.roots = append(w.roots, abs)
	}
	if len(w.roots) == 0 {
		return nil, errors.New("watch: no existing directory to watch")
	}
	for _, p := range cfg.Skip {
		if abs, err := filepath.Abs(p); err == nil {
			w.skip = append(w.skip, abs)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	for _, root := range w.roots {
		if err := w.addDirectories(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				w.logger.Warn("watch: close after init failure", "error", closeErr)
			}
			return nil, err
		}
	}
	return w, nil
}

// Roots returns the watched roots as absolute paths.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. A
// callback still running when the next window closes is not started twice;
// the pending changes are retried after another debounce period.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// addDirectories registers root and every non-ignored directory below it.
func (w *Watcher) addDirectories(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "error", walkErr)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipped(path) || w.isIgnored(root, path) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	root, ok := w.rootOf(path)
	if !ok {
		return
	}
	if err := w.addDirectories(root); err != nil {
		w.logger.Warn("watch: add new directory", "path", path, "error", err)
	}
}

// relevant reports whether a change to path should trigger a callback.
func (w *Watcher) relevant(path string) bool {
	if w.skipped(path) {
		return false
	}
	root, ok := w.rootOf(path)
	if !ok {
		return false
	}
	if w.isIgnored(root, path) {
		return false
	}
	return w.matchesPatterns(root, path)
}

// rootOf returns the most specific watched root containing path.
func (w *Watcher) rootOf(path string) (string, bool) {
	best := ""
	for _, root := range w.roots {
		if within(root, path) && len(root) > len(best) {
			best = root
		}
	}
	return best, best != ""
}

func (w *Watcher) skipped(path string) bool {
	for _, p := range w.skip {
		if within(p, path) {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnored(root, path string) bool {
	rel := relSlash(root, path)
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pat, rel+"/"); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) matchesPatterns(root, path string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	rel := relSlash(root, path)
	for _, pat := range w.cfg.Patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
