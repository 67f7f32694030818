// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"wiring.cue", FormatCUE, false},
		{"dir/wiring.yaml", FormatYAML, false},
		{"wiring.YML", FormatYAML, false},
		{"wiring.toml", FormatTOML, false},
		{"wiring.json", "", true},
		{"wiring", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := FormatOf(tt.path)
			if tt.err {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatOf(%q) = %q, %v; want %q", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	t.Parallel()

	var loaded []*Manifest
	for _, name := range []string{"greeting.cue", "greeting.yaml", "greeting.toml"} {
		m, err := Load(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		loaded = append(loaded, m)
	}

	for _, m := range loaded {
		if m.Version != "1" {
			t.Errorf("%s: version = %q", m.Source, m.Version)
		}
		if len(m.Capabilities) != 3 || len(m.Providers) != 2 || len(m.Contexts) != 2 {
			t.Errorf("%s: unexpected shape %d/%d/%d", m.Source, len(m.Capabilities), len(m.Providers), len(m.Contexts))
			continue
		}
		if g := m.Capabilities[1].Getter; g == nil || g.Attribute != "name" || g.Type != "string" {
			t.Errorf("%s: HasName getter = %+v", m.Source, g)
		}
		req := m.Providers[1].Requires
		if len(req) != 2 || req[0].Capability != "HasNameType" || req[1].Slot != "NameType" || len(req[1].Bounds) != 1 {
			t.Errorf("%s: GreetNamed requires = %+v", m.Source, req)
		}
		if traits := m.Types["Text"].Traits; len(traits) != 1 || traits[0] != "Display" {
			t.Errorf("%s: Text traits = %v", m.Source, traits)
		}
		if d := m.Contexts[0].Delegate; len(d) != 1 || d[0].Provider != "GreetHello" {
			t.Errorf("%s: Person delegate = %+v", m.Source, d)
		}
	}
}

func TestParse_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		data   string
		want   string
	}{
		{
			name:   "wrong version",
			format: FormatCUE,
			data:   `version: "2"`,
			want:   "version",
		},
		{
			name:   "version is not a string",
			format: FormatYAML,
			data:   "version: 1\ncapabilities: [{name: Greeter}]\n",
			want:   "version",
		},
		{
			name:   "invalid identifier",
			format: FormatCUE,
			data:   `version: "1", capabilities: [{name: "has name"}]`,
			want:   "capabilities[0].name",
		},
		{
			name:   "unknown field",
			format: FormatTOML,
			data:   "version = \"1\"\n[[providers]]\nname = \"P\"\ncapability = \"C\"\npriority = 3\n",
			want:   "providers[0]",
		},
		{
			name:   "requirement naming capability and slot",
			format: FormatYAML,
			data:   "version: \"1\"\nproviders:\n  - name: P\n    capability: C\n    requires:\n      - {capability: A, slot: S}\n",
			want:   "providers[0].requires[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.data), tt.format, "wiring")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestParse_MalformedSource(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("version: [unclosed"), FormatYAML, "bad.yaml"); err == nil {
		t.Error("expected YAML syntax error")
	}
	if _, err := Parse([]byte("version = "), FormatTOML, "bad.toml"); err == nil {
		t.Error("expected TOML syntax error")
	}
	if _, err := Parse([]byte("version: "), FormatCUE, "bad.cue"); err == nil {
		t.Error("expected CUE syntax error")
	}
	if _, err := Parse([]byte(`version: "1"`), Format("json"), "x.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.cue")); err == nil {
		t.Error("expected error for missing file")
	}
}
