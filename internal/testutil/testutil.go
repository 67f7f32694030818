// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// GreetingManifest is a complete CUE manifest with one context, Person,
// exposing Greeter through GreetHello and a synthesized HasName getter.
const GreetingManifest = `version: "1"
capabilities: [
	{name: "HasName", getter: {attribute: "name", type: "string"}},
	{name: "Greeter", signature: "func() string"},
]
providers: [
	{name: "GreetHello", capability: "Greeter", requires: [{capability: "HasName"}]},
]
contexts: [{
	name: "Person"
	attributes: [{name: "name", type: "string"}]
	exposes: ["Greeter"]
	delegate: [{capability: "Greeter", provider: "GreetHello"}]
}]
`

// BrokenManifest is GreetingManifest with the attribute renamed, so HasName
// cannot be synthesized.
const BrokenManifest = `version: "1"
capabilities: [
	{name: "HasName", getter: {attribute: "name", type: "string"}},
	{name: "Greeter", signature: "func() string"},
]
providers: [
	{name: "GreetHello", capability: "Greeter", requires: [{capability: "HasName"}]},
]
contexts: [{
	name: "Person"
	attributes: [{name: "fullName", type: "string"}]
	exposes: ["Greeter"]
	delegate: [{capability: "Greeter", provider: "GreetHello"}]
}]
`

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// Manifest writes content to a fresh temporary directory as name and
// returns its path.
func Manifest(t testing.TB, name, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), name, content)
}

// ConfigDir returns a temporary configuration directory holding config.cue
// with content. An empty content leaves the directory empty.
func ConfigDir(t testing.TB, content string) string {
	t.Helper()
	dir := t.TempDir()
	if content != "" {
		WriteFile(t, dir, "config.cue", content)
	}
	return dir
}
