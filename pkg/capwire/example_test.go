// SPDX-License-Identifier: MPL-2.0

package capwire_test

import (
	"errors"
	"fmt"

	"github.com/capwire/capwire/pkg/capwire"
)

type Person struct {
	Name string
}

var (
	CanGreet   = capwire.NewComponent[func() string]("Greeter")
	HasName    = capwire.NewGetter[string]("HasName", "Name")
	GreetHello = capwire.Provide("GreetHello", CanGreet,
		func(self capwire.View) func() string {
			return func() string { return "Hello, " + HasName.Get(self) + "!" }
		},
		capwire.Requires(HasName),
	)
)

func ExampleWire() {
	reg := capwire.NewRegistry()
	if err := reg.Declare(CanGreet, HasName, GreetHello); err != nil {
		panic(err)
	}

	wiring, err := capwire.Wire[Person](reg, "Person",
		capwire.Expose(CanGreet),
		capwire.Delegate(CanGreet, GreetHello),
	)
	if err != nil {
		panic(err)
	}

	alice := wiring.New(&Person{Name: "Alice"})
	fmt.Println(CanGreet.Of(alice)())
	// Output: Hello, Alice!
}

func ExampleResolutionError() {
	type Employee struct {
		FullName string
	}

	reg := capwire.NewRegistry()
	if err := reg.Declare(CanGreet, HasName, GreetHello); err != nil {
		panic(err)
	}

	_, err := capwire.Wire[Employee](reg, "Employee",
		capwire.Expose(CanGreet),
		capwire.Delegate(CanGreet, GreetHello),
	)
	var resErr *capwire.ResolutionError
	if errors.As(err, &resErr) {
		for _, d := range resErr.Diagnostics {
			fmt.Println(d.Reason, d.Subject(), "via", d.ChainString())
		}
	}
	// Output: Missing HasName via Greeter (GreetHello)
}

func ExampleSlot() {
	type Pet struct {
		Name string
	}

	nameType := capwire.NewSlot("NameType", capwire.Display)
	hasName := capwire.NewGetter[any]("HasName", "Name", capwire.InSlot(nameType))
	describe := capwire.NewComponent[func() string]("Describe")
	describeName := capwire.Provide("DescribeName", describe,
		func(self capwire.View) func() string {
			return func() string {
				t, _ := nameType.TypeIn(self)
				return fmt.Sprintf("%v (%s)", hasName.Get(self), t)
			}
		},
		capwire.Requires(hasName),
		capwire.RequiresSlot(nameType),
	)

	reg := capwire.NewRegistry()
	if err := reg.Declare(nameType, hasName, describe, describeName); err != nil {
		panic(err)
	}
	wiring := capwire.MustWire[Pet](reg, "Pet", capwire.Delegate(describe, describeName))

	fmt.Println(describe.Of(wiring.New(&Pet{Name: "Rex"}))())
	// Output: Rex (string)
}
