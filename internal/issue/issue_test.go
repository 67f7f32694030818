// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/capwire/capwire/pkg/capwire"
)

// Tests in this file swap the package-level render function and therefore
// do not run in parallel.

func stubRender(t *testing.T) {
	t.Helper()
	orig := render
	t.Cleanup(func() { render = orig })
	render = func(in, _ string) (string, error) { return in, nil }
}

func TestIdConstants(t *testing.T) {
	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}
	seen := make(map[string]Id)
	for _, i := range Values() {
		if prev, ok := seen[i.Slug()]; ok {
			t.Errorf("slug %q used by %d and %d", i.Slug(), prev, i.Id())
		}
		seen[i.Slug()] = i.Id()
	}
	if len(seen) != int(UnusedBindingId) {
		t.Errorf("catalog has %d entries, want %d", len(seen), UnusedBindingId)
	}
}

func TestIdString(t *testing.T) {
	if got := MissingCapabilityId.String(); got != "missing-capability" {
		t.Errorf("String() = %q", got)
	}
	if got := Id(999).String(); got != "Id(999)" {
		t.Errorf("String() = %q", got)
	}
}

func TestValuesOrdered(t *testing.T) {
	vals := Values()
	for n := 1; n < len(vals); n++ {
		if vals[n-1].Id() >= vals[n].Id() {
			t.Fatalf("Values() not ordered at %d", n)
		}
	}
}

func TestForReason(t *testing.T) {
	for _, r := range capwire.Reasons() {
		i := ForReason(r)
		if i == nil {
			t.Errorf("ForReason(%s) = nil", r)
			continue
		}
		if len(i.DocLinks()) == 0 {
			t.Errorf("issue for %s has no doc links", r)
		}
	}
	if got := ForReason(capwire.Reason(99)); got != nil {
		t.Errorf("ForReason(99) = %v, want nil", got.Slug())
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want Id
		ok   bool
	}{
		{"missing-capability", MissingCapabilityId, true},
		{"Cyclic", CyclicRequirementId, true},
		{"unboundslot", UnboundSlotId, true},
		{"CONFIG-LOAD-FAILED", ConfigLoadFailedId, true},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := Lookup(tt.name)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && i.Id() != tt.want {
				t.Errorf("Lookup(%q) = %s, want %s", tt.name, i.Id(), tt.want)
			}
		})
	}
}

func TestDocLinksAreCopies(t *testing.T) {
	i := Get(BoundMismatchId)
	links := i.DocLinks()
	links[0] = "changed"
	if i.DocLinks()[0] == "changed" {
		t.Error("DocLinks() exposes internal slice")
	}
}

func TestRenderAppendsLinks(t *testing.T) {
	stubRender(t)

	out, err := Get(UnboundSlotId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "# Unbound slot") {
		t.Errorf("missing title in %q", out)
	}
	if !strings.Contains(out, "## See also") || !strings.Contains(out, "resolution.md#slots") {
		t.Errorf("missing links in %q", out)
	}

	bare := &Issue{id: 100, mdMsg: "# Bare"}
	out, err = bare.Render("")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(out, "See also") {
		t.Errorf("unexpected links section in %q", out)
	}
}

func TestAllIssuesRender(t *testing.T) {
	for _, i := range Values() {
		if strings.TrimSpace(string(i.MarkdownMsg())) == "" {
			t.Errorf("issue %s has no message", i.Id())
			continue
		}
		out, err := i.Render("notty")
		if err != nil {
			t.Errorf("Render(%s) error = %v", i.Id(), err)
		}
		if out == "" {
			t.Errorf("Render(%s) is empty", i.Id())
		}
	}
}
