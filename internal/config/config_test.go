// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/capwire/capwire/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if cfg.UI.Color != want.UI.Color || cfg.Check.Format != want.Check.Format || cfg.Log.Level != want.Log.Level {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %s", cfg.Watch.Debounce)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoadFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
check: {
	format:       "json"
	allow_unused: true
}
watch: debounce: "1s"
`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Check.Format != FormatJSON || !cfg.Check.AllowUnused {
		t.Errorf("Check = %+v", cfg.Check)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %s, want 1s", cfg.Watch.Debounce)
	}
	if cfg.UI.Color != ColorAuto {
		t.Errorf("unset ui.color = %q, want default", cfg.UI.Color)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoadSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown format", `check: format: "yaml"`, "check.format"},
		{"unknown field", `ui: colour: "never"`, "colour"},
		{"bad duration", `watch: debounce: "soon"`, "watch.debounce"},
		{"syntax", `ui: {`, "config.cue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("error is not an actionable config error: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `log: level: "debug"`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != LevelDebug {
		t.Errorf("Level = %q", cfg.Log.Level)
	}

	_, err = NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("missing explicit file error = %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `ui: verbose: false`)
	t.Setenv("CAPWIRE_UI_VERBOSE", "true")
	t.Setenv("CAPWIRE_WATCH_IGNORE", "**/tmp/**,**/*.bak")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("CAPWIRE_UI_VERBOSE did not override the file")
	}
	if len(cfg.Watch.Ignore) != 2 || cfg.Watch.Ignore[1] != "**/*.bak" {
		t.Errorf("Ignore = %v", cfg.Watch.Ignore)
	}
}

func TestLoadEnvValidated(t *testing.T) {
	t.Setenv("CAPWIRE_LOG_LEVEL", "loud")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Load() error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadOptionsValidate(t *testing.T) {
	t.Parallel()

	if err := (LoadOptions{}).Validate(); err != nil {
		t.Errorf("empty options: %v", err)
	}
	err := LoadOptions{ConfigFilePath: "  ", ConfigDirPath: "\t"}.Validate()
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Fatalf("Validate() = %v", err)
	}
	if !strings.Contains(err.Error(), "file path") || !strings.Contains(err.Error(), "dir path") {
		t.Errorf("Validate() = %v, want both fields", err)
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Check.Format = FormatJSON
	cfg.Watch.Debounce = 2 * time.Second

	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(cfg))
	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if got.Check.Format != FormatJSON || got.Watch.Debounce != 2*time.Second {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.Watch.Ignore) != len(cfg.Watch.Ignore) {
		t.Errorf("Ignore = %v, want %v", got.Watch.Ignore, cfg.Watch.Ignore)
	}
}
