// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"fmt"
	"reflect"
	"slices"
)

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	errorType    = reflect.TypeFor[error]()
)

type (
	// Type is the structural type of an attribute, slot binding or capability
	// signature as seen by the checker.
	Type interface {
		String() string
		// Satisfies reports whether the type meets a trait-like bound.
		Satisfies(b Bound) bool
	}

	// Bound is a named trait-like constraint on a type, such as Display.
	// Go types are checked with the predicate; symbolic types are checked by
	// the bound's name against their declared traits.
	Bound struct {
		name  string
		check func(reflect.Type) bool
	}

	// SymbolicType is a type known only by name and declared traits. Manifests
	// use it to describe attributes without a Go program.
	SymbolicType struct {
		Name   string
		Traits []string
	}

	goType struct {
		t reflect.Type
	}
)

var (
	// Display is satisfied by types that render meaningfully with %v:
	// strings, numbers, booleans, fmt.Stringer and error implementations.
	Display = NewBound("Display", isDisplay)

	// Comparable is satisfied by types usable with ==.
	Comparable = NewBound("Comparable", func(t reflect.Type) bool { return t.Comparable() })
)

// NewBound creates a Bound checked by predicate against Go types.
func NewBound(name string, check func(reflect.Type) bool) Bound {
	return Bound{name: name, check: check}
}

// NamedBound creates a Bound without a predicate. Only symbolic types that
// declare the trait satisfy it.
func NamedBound(name string) Bound {
	return Bound{name: name}
}

// Name returns the bound's name.
func (b Bound) Name() string { return b.name }

func (b Bound) String() string { return b.name }

func isDisplay(t reflect.Type) bool {
	if t.Implements(stringerType) || t.Implements(errorType) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// TypeOf returns the Type of T.
func TypeOf[T any]() Type {
	return goType{t: reflect.TypeFor[T]()}
}

// TypeFor wraps a reflect.Type.
func TypeFor(t reflect.Type) Type {
	return goType{t: t}
}

func (g goType) String() string { return g.t.String() }

func (g goType) Satisfies(b Bound) bool {
	return b.check != nil && b.check(g.t)
}

func (s SymbolicType) String() string { return s.Name }

// Satisfies reports whether the symbolic type declares the bound's trait.
func (s SymbolicType) Satisfies(b Bound) bool {
	return slices.Contains(s.Traits, b.name)
}

// sameType reports whether two types are identical.
func sameType(a, b Type) bool {
	ga, aok := a.(goType)
	gb, bok := b.(goType)
	if aok && bok {
		return ga.t == gb.t
	}
	return a.String() == b.String()
}

// assignable reports whether a value of type have can be read as want:
// identical types, or have implements want when want is an interface.
func assignable(have, want Type) bool {
	gh, hok := have.(goType)
	gw, wok := want.(goType)
	if hok && wok {
		if gw.t.Kind() == reflect.Interface {
			return gh.t.Implements(gw.t)
		}
		return gh.t == gw.t
	}
	return have.String() == want.String()
}

// unmetBounds returns the names of the bounds t does not satisfy.
func unmetBounds(t Type, bounds []Bound) []string {
	var unmet []string
	for _, b := range bounds {
		if !t.Satisfies(b) {
			unmet = append(unmet, b.name)
		}
	}
	return unmet
}
