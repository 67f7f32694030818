// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, cfg Config) (*Watcher, <-chan []string) {
	t.Helper()

	calls := make(chan []string, 8)
	cfg.Debounce = 50 * time.Millisecond
	cfg.OnChange = func(ctx context.Context, changed []string) error {
		select {
		case calls <- changed:
		case <-ctx.Done():
		}
		return nil
	}
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
	return w, calls
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitCall(t *testing.T, calls <-chan []string) []string {
	t.Helper()
	select {
	case changed := <-calls:
		return changed
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange not called")
		return nil
	}
}

func TestWatcherCoalescesChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, calls := startWatcher(t, Config{Dir: dir, Patterns: ManifestPatterns})

	write(t, filepath.Join(dir, "a.cue"), "a: 1")
	write(t, filepath.Join(dir, "b.yaml"), "b: 1")

	got := waitCall(t, calls)
	for len(got) < 2 {
		got = append(got, waitCall(t, calls)...)
		slices.Sort(got)
		got = slices.Compact(got)
	}
	if !slices.Equal(got, []string{"a.cue", "b.yaml"}) {
		t.Errorf("changed = %v", got)
	}
}

func TestWatcherFiltersPatternsAndIgnores(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, calls := startWatcher(t, Config{
		Dir:      dir,
		Patterns: ManifestPatterns,
		Ignore:   []string{"**/scratch.cue"},
	})

	write(t, filepath.Join(dir, "notes.txt"), "x")
	write(t, filepath.Join(dir, "scratch.cue"), "x: 1")
	write(t, filepath.Join(dir, "wiring.toml"), "version = \"1\"")

	got := waitCall(t, calls)
	if !slices.Equal(got, []string{"wiring.toml"}) {
		t.Errorf("changed = %v, want only wiring.toml", got)
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, calls := startWatcher(t, Config{Dir: dir, Patterns: ManifestPatterns})

	sub := filepath.Join(dir, "contexts")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	write(t, filepath.Join(sub, "pet.cue"), "x: 1")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-calls:
			if slices.Contains(got, "contexts/pet.cue") {
				return
			}
		case <-deadline:
			t.Fatal("change in new directory not reported")
		}
	}
}

func TestWatcherRunWaitsForCallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var finished atomic.Bool
	w, err := New(Config{
		Dir:      dir,
		Patterns: ManifestPatterns,
		Debounce: 20 * time.Millisecond,
		OnChange: func(context.Context, []string) error {
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
			finished.Store(true)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	write(t, filepath.Join(dir, "wiring.cue"), "a: 1")
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		cancel()
		close(release)
		t.Fatal("OnChange not called")
	}

	cancel()
	select {
	case err := <-done:
		close(release)
		t.Fatalf("Run() returned %v while OnChange was running", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !finished.Load() {
		t.Error("Run() returned before OnChange finished")
	}
}

func TestWatcherRunOnce(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("first Run() = %v", err)
	}
	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Run() = %v, want ErrAlreadyStarted", err)
	}
}

func TestNewRejectsBadPatterns(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Dir: t.TempDir(), Ignore: []string{"[oops"}}); err == nil {
		t.Error("New() accepted an invalid ignore glob")
	}
}

func TestRelevant(t *testing.T) {
	t.Parallel()

	w := &Watcher{
		dir:     "/work",
		cfg:     Config{Patterns: ManifestPatterns},
		ignores: slices.Concat(alwaysIgnored, []string{"gen/**"}),
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/work/wiring.cue", true},
		{"/work/deep/nested/app.yml", true},
		{"/work/.git/HEAD.cue", false},
		{"/work/wiring.cue.swp", false},
		{"/work/gen/out.cue", false},
		{"/work/readme.md", false},
	}
	for _, tt := range tests {
		if _, got := w.relevant(filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("relevant(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
