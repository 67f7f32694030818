// SPDX-License-Identifier: MPL-2.0

// Package capwire wires named capabilities onto plain Go data types.
//
// A capability is declared once, independently of any concrete type. A
// provider implements one capability for any context that satisfies the
// provider's declared requirements. Each context type owns a delegation table
// that maps capabilities to the providers chosen for it, and trivial accessor
// capabilities are synthesized from the context's own fields.
//
// All wiring is verified when the context is assembled, before any domain
// logic runs: every capability reachable from what the context exposes must
// resolve, or assembly fails with a diagnostic naming the capability and the
// chain of providers that required it.
//
// # Declaring capabilities
//
//	var (
//	    CanGreet = capwire.NewComponent[func() string]("Greeter")
//	    HasName  = capwire.NewGetter[string]("HasName", "Name")
//	)
//
// # Providers
//
// A provider builds the capability's function from a View scoped to its
// requirements:
//
//	var GreetHello = capwire.Provide("GreetHello", CanGreet,
//	    func(self capwire.View) func() string {
//	        return func() string { return "Hello, " + HasName.Get(self) + "!" }
//	    },
//	    capwire.Requires(HasName),
//	)
//
// # Contexts
//
//	type Person struct{ Name string }
//
//	reg := capwire.NewRegistry()
//	if err := reg.Declare(CanGreet, HasName, GreetHello); err != nil { ... }
//
//	wiring, err := capwire.Wire[Person](reg, "Person",
//	    capwire.Expose(CanGreet),
//	    capwire.Delegate(CanGreet, GreetHello),
//	)
//	if err != nil {
//	    return err // *ResolutionError with per-capability diagnostics
//	}
//
//	alice := wiring.New(&Person{Name: "Alice"})
//	fmt.Println(CanGreet.Of(alice)()) // Hello, Alice!
//
// HasName needs no binding: it is synthesized from the Name field.
//
// # Metadata-only checking
//
// The registry also accepts untyped specs (CapabilitySpec, SlotSpec,
// ProviderSpec, ContextSpec). Registry.Resolve runs the same checker over
// them; this is how declarative manifests are verified without a Go program.
package capwire
