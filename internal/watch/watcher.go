// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce applies when Config.Debounce is not positive.
const DefaultDebounce = 250 * time.Millisecond

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("watch: Run called more than once")

// ManifestPatterns select every manifest format.
var ManifestPatterns = []string{"**/*.{cue,yaml,yml,toml}"}

var alwaysIgnored = []string{"**/.git/**", "**/*.swp", "**/*~"}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dir is the root of the watched tree. Empty means the working
		// directory.
		Dir string
		// Patterns select the paths, relative to Dir, that trigger OnChange.
		// Empty matches everything not ignored.
		Patterns []string
		// Ignore adds globs to the built-in ignores.
		Ignore   []string
		Debounce time.Duration
		// OnChange receives the changed paths relative to Dir, sorted.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *slog.Logger
	}

	// Watcher monitors a directory tree. Run may be called once.
	Watcher struct {
		cfg      Config
		dir      string
		fsw      *fsnotify.Watcher
		ignores  []string
		debounce time.Duration
		log      *slog.Logger
		started  atomic.Bool
	}

	// batch collects changed paths until the debounce timer fires.
	batch struct {
		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
		closed  bool
		running sync.WaitGroup
	}
)

// New validates cfg and registers every non-ignored directory under Dir.
func New(cfg Config) (*Watcher, error) {
	for _, p := range slices.Concat(cfg.Patterns, cfg.Ignore) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid pattern %q", p)
		}
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", dir, err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{
		cfg:      cfg,
		dir:      abs,
		fsw:      fsw,
		ignores:  slices.Concat(alwaysIgnored, cfg.Ignore),
		debounce: debounce,
		log:      log,
	}
	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Dir returns the absolute root of the watched tree.
func (w *Watcher) Dir() string { return w.dir }

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when the underlying watcher fails beyond recovery. A callback
// still running when the next batch is due delays that batch, and Run does
// not return before a running callback has finished.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	b := &batch{pending: make(map[string]struct{})}
	defer func() {
		b.stop()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("close watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
					if err := w.addTree(evt.Name); err != nil {
						w.log.Warn("watch new directory", "path", evt.Name, "error", err)
					}
				}
			}
			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}
			w.log.Debug("change", "path", rel, "op", evt.Op.String())
			b.add(rel, w.debounce, func() { w.fire(ctx, b) })

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) fire(ctx context.Context, b *batch) {
	if !b.enter() {
		return
	}
	defer b.running.Done()
	if ctx.Err() != nil {
		return
	}
	if !b.busy.CompareAndSwap(false, true) {
		b.retry(w.debounce)
		return
	}
	defer b.busy.Store(false)

	changed := b.drain()
	if len(changed) == 0 || w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.log.Warn("change callback failed", "error", err)
	}
}

// relevant returns path relative to the root when it passes the ignores and
// matches a pattern.
func (w *Watcher) relevant(path string) (string, bool) {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if matchAny(w.ignores, rel) {
		return "", false
	}
	if len(w.cfg.Patterns) > 0 && !matchAny(w.cfg.Patterns, rel) {
		return "", false
	}
	return rel, true
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.Warn("skip unreadable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(w.dir, path); relErr == nil && rel != "." {
			rel = filepath.ToSlash(rel)
			if matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/") {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (b *batch) add(rel string, d time.Duration, fire func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[rel] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(d, fire)
		return
	}
	b.timer.Reset(d)
}

func (b *batch) retry(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Reset(d)
	}
}

func (b *batch) drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.pending))
	for rel := range b.pending {
		out = append(out, rel)
	}
	clear(b.pending)
	slices.Sort(out)
	return out
}

// enter registers a callback run unless the batch is stopped.
func (b *batch) enter() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.running.Add(1)
	return true
}

// stop cancels the pending timer and waits for a callback in flight.
func (b *batch) stop() {
	b.mu.Lock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	b.running.Wait()
}
