// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"fmt"
)

// ErrInvalidID is the sentinel error wrapped by InvalidIDError.
var ErrInvalidID = errors.New("invalid identifier")

type (
	// CapabilityID names a capability. It is unique within a Registry.
	CapabilityID string

	// SlotID names an abstract type slot.
	SlotID string

	// ProviderID names a provider. It is unique within a Registry.
	ProviderID string

	// ContextID names a context.
	ContextID string

	// AttributeName names a structural attribute of a context, matched
	// exactly by getter synthesis.
	AttributeName string

	// InvalidIDError is returned when an identifier is empty or contains
	// characters outside [A-Za-z0-9_.] (or starts with a digit or dot).
	InvalidIDError struct {
		Kind  string
		Value string
	}
)

// Error implements the error interface for InvalidIDError.
func (e *InvalidIDError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s identifier: must be non-empty", e.Kind)
	}
	return fmt.Sprintf("invalid %s identifier %q: must match [A-Za-z_][A-Za-z0-9_.]*", e.Kind, e.Value)
}

// Unwrap returns ErrInvalidID for errors.Is() compatibility.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

func (id CapabilityID) String() string { return string(id) }
func (id SlotID) String() string       { return string(id) }
func (id ProviderID) String() string   { return string(id) }
func (id ContextID) String() string    { return string(id) }
func (n AttributeName) String() string { return string(n) }

// IsValid returns whether the CapabilityID is a well-formed identifier.
func (id CapabilityID) IsValid() (bool, []error) { return validateID("capability", string(id)) }

// IsValid returns whether the SlotID is a well-formed identifier.
func (id SlotID) IsValid() (bool, []error) { return validateID("slot", string(id)) }

// IsValid returns whether the ProviderID is a well-formed identifier.
func (id ProviderID) IsValid() (bool, []error) { return validateID("provider", string(id)) }

// IsValid returns whether the ContextID is a well-formed identifier.
func (id ContextID) IsValid() (bool, []error) { return validateID("context", string(id)) }

// IsValid returns whether the AttributeName is a well-formed identifier.
func (n AttributeName) IsValid() (bool, []error) { return validateID("attribute", string(n)) }

func validateID(kind, s string) (bool, []error) {
	if s == "" {
		return false, []error{&InvalidIDError{Kind: kind}}
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case (c >= '0' && c <= '9') || c == '.':
			if i == 0 {
				return false, []error{&InvalidIDError{Kind: kind, Value: s}}
			}
		default:
			return false, []error{&InvalidIDError{Kind: kind, Value: s}}
		}
	}
	return true, nil
}

// firstError returns the first error of an IsValid result, or nil.
func firstError(ok bool, errs []error) error {
	if ok || len(errs) == 0 {
		return nil
	}
	return errs[0]
}
