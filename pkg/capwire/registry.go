// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrDuplicateDeclaration is the sentinel error wrapped by CollisionError.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")

	// ErrUnknownReference is the sentinel error wrapped by UnknownReferenceError.
	ErrUnknownReference = errors.New("unknown reference")
)

type (
	// Registry holds the capability, slot and provider definitions that
	// contexts are resolved against. Definitions are immutable once declared.
	//
	// A Registry is populated during program initialization and is not safe
	// for concurrent declaration.
	Registry struct {
		capabilities map[CapabilityID]*CapabilitySpec
		slots        map[SlotID]*SlotSpec
		providers    map[ProviderID]*ProviderSpec

		capabilityOrder []CapabilityID
		slotOrder       []SlotID
		providerOrder   []ProviderID

		logger *slog.Logger
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)

	// Definition is anything that can be declared into a Registry: typed
	// components, getters, slots and providers.
	Definition interface {
		declareIn(r *Registry) error
	}

	// CollisionError is returned when two definitions of the same kind share
	// an identifier.
	CollisionError struct {
		Kind string
		ID   string
	}

	// UnknownReferenceError is returned when a definition refers to a
	// capability or slot that has not been declared.
	UnknownReferenceError struct {
		From string
		Kind string
		ID   string
	}
)

// Error implements the error interface for CollisionError.
func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s %q is already declared", e.Kind, e.ID)
}

// Unwrap returns ErrDuplicateDeclaration for errors.Is() compatibility.
func (e *CollisionError) Unwrap() error { return ErrDuplicateDeclaration }

// Error implements the error interface for UnknownReferenceError.
func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s refers to undeclared %s %q", e.From, e.Kind, e.ID)
}

// Unwrap returns ErrUnknownReference for errors.Is() compatibility.
func (e *UnknownReferenceError) Unwrap() error { return ErrUnknownReference }

// WithLogger sets the logger used for resolution tracing at debug level.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		capabilities: make(map[CapabilityID]*CapabilitySpec),
		slots:        make(map[SlotID]*SlotSpec),
		providers:    make(map[ProviderID]*ProviderSpec),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Declare registers typed definitions in order. Leaves (components, getters,
// slots) must be declared before the providers that refer to them. Declare
// stops at the first error.
func (r *Registry) Declare(defs ...Definition) error {
	for _, d := range defs {
		if err := d.declareIn(r); err != nil {
			return err
		}
	}
	return nil
}

// DeclareCapability registers a capability.
func (r *Registry) DeclareCapability(spec CapabilitySpec) error {
	if err := firstError(spec.ID.IsValid()); err != nil {
		return err
	}
	if _, exists := r.capabilities[spec.ID]; exists {
		return &CollisionError{Kind: "capability", ID: string(spec.ID)}
	}
	if g := spec.Getter; g != nil {
		if err := firstError(g.Attribute.IsValid()); err != nil {
			return fmt.Errorf("capability %s: %w", spec.ID, err)
		}
		if g.Slot != "" {
			if _, ok := r.slots[g.Slot]; !ok {
				return &UnknownReferenceError{From: "capability " + string(spec.ID), Kind: "slot", ID: string(g.Slot)}
			}
		}
	}
	r.capabilities[spec.ID] = &spec
	r.capabilityOrder = append(r.capabilityOrder, spec.ID)
	return nil
}

// DeclareSlot registers an abstract type slot.
func (r *Registry) DeclareSlot(spec SlotSpec) error {
	if err := firstError(spec.ID.IsValid()); err != nil {
		return err
	}
	if _, exists := r.slots[spec.ID]; exists {
		return &CollisionError{Kind: "slot", ID: string(spec.ID)}
	}
	r.slots[spec.ID] = &spec
	r.slotOrder = append(r.slotOrder, spec.ID)
	return nil
}

// DeclareProvider registers a provider. The provided capability and every
// requirement must already be declared.
func (r *Registry) DeclareProvider(spec ProviderSpec) error {
	if err := firstError(spec.ID.IsValid()); err != nil {
		return err
	}
	if spec.ID == UseFields {
		return &CollisionError{Kind: "provider", ID: string(spec.ID)}
	}
	if _, exists := r.providers[spec.ID]; exists {
		return &CollisionError{Kind: "provider", ID: string(spec.ID)}
	}
	from := "provider " + string(spec.ID)
	if _, ok := r.capabilities[spec.Capability]; !ok {
		return &UnknownReferenceError{From: from, Kind: "capability", ID: string(spec.Capability)}
	}
	for _, req := range spec.Requires {
		switch {
		case req.Slot != "" && req.Capability != "":
			return fmt.Errorf("%s: requirement names both capability %q and slot %q", from, req.Capability, req.Slot)
		case req.Slot != "":
			if _, ok := r.slots[req.Slot]; !ok {
				return &UnknownReferenceError{From: from, Kind: "slot", ID: string(req.Slot)}
			}
		default:
			if _, ok := r.capabilities[req.Capability]; !ok {
				return &UnknownReferenceError{From: from, Kind: "capability", ID: string(req.Capability)}
			}
		}
	}
	r.providers[spec.ID] = &spec
	r.providerOrder = append(r.providerOrder, spec.ID)
	return nil
}

// Capability returns the declared capability with the given identifier.
func (r *Registry) Capability(id CapabilityID) (CapabilitySpec, bool) {
	c, ok := r.capabilities[id]
	if !ok {
		return CapabilitySpec{}, false
	}
	return *c, true
}

// Slot returns the declared slot with the given identifier.
func (r *Registry) Slot(id SlotID) (SlotSpec, bool) {
	s, ok := r.slots[id]
	if !ok {
		return SlotSpec{}, false
	}
	return *s, true
}

// Provider returns the declared provider with the given identifier.
func (r *Registry) Provider(id ProviderID) (ProviderSpec, bool) {
	p, ok := r.providers[id]
	if !ok {
		return ProviderSpec{}, false
	}
	return *p, true
}

// Capabilities returns the declared capability identifiers in declaration order.
func (r *Registry) Capabilities() []CapabilityID {
	return append([]CapabilityID(nil), r.capabilityOrder...)
}

// Slots returns the declared slot identifiers in declaration order.
func (r *Registry) Slots() []SlotID {
	return append([]SlotID(nil), r.slotOrder...)
}

// Providers returns the declared provider identifiers in declaration order.
func (r *Registry) Providers() []ProviderID {
	return append([]ProviderID(nil), r.providerOrder...)
}
