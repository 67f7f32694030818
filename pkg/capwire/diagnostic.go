// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies why a capability failed to resolve.
type Reason int

const (
	// ReasonMissing: no table entry and no synthesizable getter.
	ReasonMissing Reason = iota + 1
	// ReasonCyclic: the capability is required, transitively, by itself.
	ReasonCyclic
	// ReasonAmbiguous: more than one attribute matches a getter.
	ReasonAmbiguous
	// ReasonBoundMismatch: a resolved type does not meet a required bound or type.
	ReasonBoundMismatch
	// ReasonUnboundSlot: a required slot has no binding.
	ReasonUnboundSlot
	// ReasonProviderMismatch: the bound provider is undeclared or implements
	// a different capability.
	ReasonProviderMismatch
	// ReasonUnused: a binding is not reachable from the exposed capabilities.
	ReasonUnused
)

var (
	// ErrIncomplete is wrapped by every ResolutionError.
	ErrIncomplete = errors.New("context is not capability-complete")

	// Reason sentinels, one per Reason. Each Diagnostic unwraps to its own.
	ErrMissing          = errors.New("missing capability")
	ErrCyclic           = errors.New("cyclic requirement")
	ErrAmbiguous        = errors.New("ambiguous getter")
	ErrBoundMismatch    = errors.New("bound mismatch")
	ErrUnboundSlot      = errors.New("unbound slot")
	ErrProviderMismatch = errors.New("provider mismatch")
	ErrUnusedBinding    = errors.New("unused binding")
)

var reasonNames = map[Reason]string{
	ReasonMissing:          "Missing",
	ReasonCyclic:           "Cyclic",
	ReasonAmbiguous:        "Ambiguous",
	ReasonBoundMismatch:    "BoundMismatch",
	ReasonUnboundSlot:      "UnboundSlot",
	ReasonProviderMismatch: "ProviderMismatch",
	ReasonUnused:           "Unused",
}

var reasonErrors = map[Reason]error{
	ReasonMissing:          ErrMissing,
	ReasonCyclic:           ErrCyclic,
	ReasonAmbiguous:        ErrAmbiguous,
	ReasonBoundMismatch:    ErrBoundMismatch,
	ReasonUnboundSlot:      ErrUnboundSlot,
	ReasonProviderMismatch: ErrProviderMismatch,
	ReasonUnused:           ErrUnusedBinding,
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// ParseReason returns the Reason with the given name, case-insensitively.
func ParseReason(s string) (Reason, bool) {
	for r, name := range reasonNames {
		if strings.EqualFold(name, s) {
			return r, true
		}
	}
	return 0, false
}

// Reasons returns all reasons in declaration order.
func Reasons() []Reason {
	return []Reason{
		ReasonMissing, ReasonCyclic, ReasonAmbiguous, ReasonBoundMismatch,
		ReasonUnboundSlot, ReasonProviderMismatch, ReasonUnused,
	}
}

// Severity separates failures from advisories.
type Severity int

const (
	// SeverityError fails resolution.
	SeverityError Severity = iota
	// SeverityWarning is reported but does not fail resolution.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

type (
	// Link is one step of a requirement chain: capability was bound to
	// provider, and provider required the next step.
	Link struct {
		Capability CapabilityID
		Provider   ProviderID
	}

	// Diagnostic reports one capability that failed to resolve.
	Diagnostic struct {
		Context    ContextID
		Capability CapabilityID
		// Slot is set for slot failures.
		Slot     SlotID
		Reason   Reason
		Severity Severity
		// Chain runs from an exposed capability down to the provider that
		// required Capability. Empty when Capability is itself exposed.
		Chain  []Link
		Detail string
	}

	// ResolutionError is returned when a context is not capability-complete.
	ResolutionError struct {
		Context     ContextID
		Diagnostics []Diagnostic
		// Warnings holds advisory diagnostics, such as unused bindings when
		// they are allowed.
		Warnings []Diagnostic
	}
)

// Subject returns the failing capability or slot, as displayed.
func (d Diagnostic) Subject() string {
	if d.Slot != "" {
		return "slot " + string(d.Slot)
	}
	return string(d.Capability)
}

// ChainString renders the requirement chain, e.g. "Greeter (GreetHello)".
func (d Diagnostic) ChainString() string {
	parts := make([]string, 0, len(d.Chain))
	for _, l := range d.Chain {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Capability, l.Provider))
	}
	return strings.Join(parts, " -> ")
}

// Error implements the error interface so a Diagnostic can be matched with
// errors.Is against its reason sentinel.
func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", d.Context, d.Reason, d.Subject())
	if d.Detail != "" {
		b.WriteString(": ")
		b.WriteString(d.Detail)
	}
	if len(d.Chain) > 0 {
		b.WriteString(" (required by ")
		b.WriteString(d.ChainString())
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the reason's sentinel error.
func (d Diagnostic) Unwrap() error { return reasonErrors[d.Reason] }

// Error implements the error interface for ResolutionError.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "context %s is not capability-complete: %d problem(s)", e.Context, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Unwrap exposes ErrIncomplete and every diagnostic to errors.Is / errors.As.
func (e *ResolutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Diagnostics)+1)
	errs = append(errs, ErrIncomplete)
	for _, d := range e.Diagnostics {
		errs = append(errs, d)
	}
	return errs
}

// Find returns the first diagnostic for capability with the given reason.
func (e *ResolutionError) Find(capability CapabilityID, reason Reason) (Diagnostic, bool) {
	for _, d := range e.Diagnostics {
		if d.Capability == capability && d.Reason == reason {
			return d, true
		}
	}
	return Diagnostic{}, false
}
