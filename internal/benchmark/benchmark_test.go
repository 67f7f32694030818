// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/capwire/capwire/pkg/capwire"
	"github.com/capwire/capwire/pkg/manifest"
)

// chainLength is the depth of the synthetic requirement chain.
const chainLength = 64

func readTestdata(b *testing.B, name string) []byte {
	b.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "pkg", "manifest", "testdata", name))
	if err != nil {
		b.Fatalf("read %s: %v", name, err)
	}
	return data
}

func BenchmarkManifestParse(b *testing.B) {
	for _, tc := range []struct {
		file   string
		format manifest.Format
	}{
		{"greeting.cue", manifest.FormatCUE},
		{"greeting.yaml", manifest.FormatYAML},
		{"greeting.toml", manifest.FormatTOML},
	} {
		b.Run(string(tc.format), func(b *testing.B) {
			data := readTestdata(b, tc.file)
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := manifest.Parse(data, tc.format, tc.file); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkManifestBuildAndCheck(b *testing.B) {
	m, err := manifest.Parse(readTestdata(b, "greeting.cue"), manifest.FormatCUE, "greeting.cue")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		prog, err := m.Build()
		if err != nil {
			b.Fatal(err)
		}
		if _, err := prog.Check(); err != nil {
			b.Fatal(err)
		}
	}
}

// chainRegistry declares C0 <- P0 requires C1 <- ... <- C(n-1), where the
// last capability is a getter over the "name" attribute.
func chainRegistry(b *testing.B, n int) *capwire.Registry {
	b.Helper()
	reg := capwire.NewRegistry()
	for i := range n {
		spec := capwire.CapabilitySpec{ID: capwire.CapabilityID(fmt.Sprintf("C%d", i))}
		if i == n-1 {
			spec.Getter = &capwire.GetterShape{Attribute: "name", Type: capwire.TypeOf[string]()}
		}
		if err := reg.DeclareCapability(spec); err != nil {
			b.Fatal(err)
		}
	}
	for i := range n - 1 {
		err := reg.DeclareProvider(capwire.ProviderSpec{
			ID:         capwire.ProviderID(fmt.Sprintf("P%d", i)),
			Capability: capwire.CapabilityID(fmt.Sprintf("C%d", i)),
			Requires:   []capwire.Requirement{capwire.RequireCapability(capwire.CapabilityID(fmt.Sprintf("C%d", i+1)))},
		})
		if err != nil {
			b.Fatal(err)
		}
	}
	return reg
}

func BenchmarkResolveChain(b *testing.B) {
	reg := chainRegistry(b, chainLength)
	attrs := []capwire.Attribute{capwire.SymbolicAttribute("name", capwire.TypeOf[string]())}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		table := capwire.NewTable(nil)
		for i := range chainLength - 1 {
			if err := table.Bind(capwire.CapabilityID(fmt.Sprintf("C%d", i)), capwire.ProviderID(fmt.Sprintf("P%d", i))); err != nil {
				b.Fatal(err)
			}
		}
		res, err := reg.Resolve(&capwire.ContextSpec{
			ID:         "Chain",
			Attributes: attrs,
			Exposes:    []capwire.CapabilityID{"C0"},
			Table:      table,
		})
		if err != nil {
			b.Fatal(err)
		}
		if len(res.Order) != chainLength {
			b.Fatalf("order has %d capabilities", len(res.Order))
		}
	}
}

type person struct {
	Name string
}

var (
	canGreet   = capwire.NewComponent[func() string]("Greeter")
	hasName    = capwire.NewGetter[string]("HasName", "Name")
	greetHello = capwire.Provide("GreetHello", canGreet,
		func(self capwire.View) func() string {
			return func() string { return "Hello, " + hasName.Get(self) + "!" }
		},
		capwire.Requires(hasName),
	)
)

func greetingWiring(b *testing.B) *capwire.Wiring[person] {
	b.Helper()
	reg := capwire.NewRegistry()
	if err := reg.Declare(canGreet, hasName, greetHello); err != nil {
		b.Fatal(err)
	}
	w, err := capwire.Wire[person](reg, "Person", capwire.Expose(canGreet), capwire.Delegate(canGreet, greetHello))
	if err != nil {
		b.Fatal(err)
	}
	return w
}

func BenchmarkWire(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		greetingWiring(b)
	}
}

func BenchmarkInstanceNew(b *testing.B) {
	w := greetingWiring(b)
	p := &person{Name: "Alice"}
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		w.New(p)
	}
}

func BenchmarkCapabilityCall(b *testing.B) {
	inst := greetingWiring(b).New(&person{Name: "Alice"})
	greet := canGreet.Of(inst)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if greet() != "Hello, Alice!" {
			b.Fatal("unexpected greeting")
		}
	}
}
