// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"fmt"
	"reflect"
)

type (
	// View is an assembled context as seen by consumers and providers. It is
	// implemented by Instance and by the scoped view a provider receives.
	View interface {
		ContextID() ContextID
		lookup(id CapabilityID) (any, bool)
		slotType(id SlotID) (Type, bool)
	}

	// CapabilityRef is anything that names a capability.
	CapabilityRef interface {
		ID() CapabilityID
	}

	// Capability is a typed capability whose consumer and provider contract
	// is the function type F.
	Capability[F any] interface {
		CapabilityRef
		Lookup(v View) (F, bool)
	}

	// Component is a capability with an arbitrary function contract F.
	Component[F any] struct {
		id CapabilityID
	}

	// Getter is an accessor capability returning a value of type V, which
	// may be synthesized from a context attribute.
	Getter[V any] struct {
		Component[func() V]
		shape GetterShape
	}

	// GetterOption configures a Getter.
	GetterOption func(*GetterShape)

	// Slot is an abstract type placeholder bound per context.
	Slot struct {
		spec SlotSpec
	}

	// Provider implements the capability with contract F.
	Provider[F any] struct {
		spec ProviderSpec
	}

	// ProviderOption configures a Provider.
	ProviderOption func(*ProviderSpec)
)

// NewComponent creates a capability with contract F. Declare it in a
// Registry before use.
func NewComponent[F any](id CapabilityID) *Component[F] {
	return &Component[F]{id: id}
}

// ID returns the capability identifier.
func (c *Component[F]) ID() CapabilityID { return c.id }

// Spec returns the capability's metadata.
func (c *Component[F]) Spec() CapabilitySpec {
	return CapabilitySpec{ID: c.id, Signature: TypeOf[F]()}
}

func (c *Component[F]) declareIn(r *Registry) error {
	return r.DeclareCapability(c.Spec())
}

// Lookup returns the implementation of the capability in v.
func (c *Component[F]) Lookup(v View) (F, bool) {
	var zero F
	impl, ok := v.lookup(c.id)
	if !ok {
		return zero, false
	}
	f, ok := impl.(F)
	return f, ok
}

// Of returns the implementation of the capability in v. It panics when the
// capability is not part of v's resolved closure.
func (c *Component[F]) Of(v View) F {
	f, ok := c.Lookup(v)
	if !ok {
		panic(fmt.Sprintf("capwire: capability %s is not available in context %s", c.id, v.ContextID()))
	}
	return f
}

// NewGetter creates an accessor capability reading the attribute named attr.
func NewGetter[V any](id CapabilityID, attr AttributeName, opts ...GetterOption) *Getter[V] {
	shape := GetterShape{Attribute: attr}
	if t := reflect.TypeFor[V](); t.Kind() != reflect.Interface || t.NumMethod() > 0 {
		shape.Type = TypeOf[V]()
	}
	for _, opt := range opts {
		opt(&shape)
	}
	return &Getter[V]{Component: Component[func() V]{id: id}, shape: shape}
}

// InSlot makes the attribute's type the context's binding for slot.
func InSlot(slot *Slot) GetterOption {
	return func(s *GetterShape) { s.Slot = slot.ID() }
}

// WithBounds requires the attribute's type to satisfy bounds.
func WithBounds(bounds ...Bound) GetterOption {
	return func(s *GetterShape) { s.Bounds = append(s.Bounds, bounds...) }
}

// Spec returns the getter's capability metadata.
func (g *Getter[V]) Spec() CapabilitySpec {
	shape := g.shape
	return CapabilitySpec{
		ID:        g.id,
		Signature: TypeOf[func() V](),
		Getter:    &shape,
		wrap: func(read func() any) any {
			return func() V {
				// A nil interface attribute reads as the zero V.
				v, _ := read().(V)
				return v
			}
		},
	}
}

func (g *Getter[V]) declareIn(r *Registry) error {
	return r.DeclareCapability(g.Spec())
}

// Get reads the attribute through the capability in v.
func (g *Getter[V]) Get(v View) V {
	return g.Of(v)()
}

// NewSlot creates a slot whose bindings must satisfy bounds.
func NewSlot(id SlotID, bounds ...Bound) *Slot {
	return &Slot{spec: SlotSpec{ID: id, Bounds: bounds}}
}

// ID returns the slot identifier.
func (s *Slot) ID() SlotID { return s.spec.ID }

func (s *Slot) declareIn(r *Registry) error {
	return r.DeclareSlot(s.spec)
}

// TypeIn returns the type v binds the slot to.
func (s *Slot) TypeIn(v View) (Type, bool) {
	return v.slotType(s.spec.ID)
}

// Provide creates a provider implementing c. build is called once per
// assembled instance with a view limited to the provider's requirements and
// its own capability.
func Provide[F any](id ProviderID, c Capability[F], build func(self View) F, opts ...ProviderOption) *Provider[F] {
	spec := ProviderSpec{
		ID:         id,
		Capability: c.ID(),
		build:      func(v View) any { return build(v) },
	}
	for _, opt := range opts {
		opt(&spec)
	}
	return &Provider[F]{spec: spec}
}

// Requires adds capability requirements.
func Requires(caps ...CapabilityRef) ProviderOption {
	return func(s *ProviderSpec) {
		for _, c := range caps {
			s.Requires = append(s.Requires, RequireCapability(c.ID()))
		}
	}
}

// RequiresSlot adds a slot requirement whose binding must satisfy bounds.
func RequiresSlot(slot *Slot, bounds ...Bound) ProviderOption {
	return func(s *ProviderSpec) {
		s.Requires = append(s.Requires, RequireSlot(slot.ID(), bounds...))
	}
}

// ID returns the provider identifier.
func (p *Provider[F]) ID() ProviderID { return p.spec.ID }

// Spec returns the provider's metadata.
func (p *Provider[F]) Spec() ProviderSpec {
	spec := p.spec
	spec.Requires = append([]Requirement(nil), p.spec.Requires...)
	return spec
}

func (p *Provider[F]) declareIn(r *Registry) error {
	return r.DeclareProvider(p.spec)
}
