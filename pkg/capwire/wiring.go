// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotInstantiable is returned by Wire when a resolved context refers to
// metadata-only definitions that carry no Go implementation.
var ErrNotInstantiable = errors.New("context cannot be instantiated")

type (
	// ContextOption configures a context assembled by Wire.
	ContextOption func(*contextBuilder)

	contextBuilder struct {
		attributes    []Attribute
		hasAttributes bool
		exposes       []CapabilityID
		binds         []func(*Table) error
		parent        *Table
		resolveOpts   []ResolveOption
	}

	// Wiring is a resolved, capability-complete context for Go type T.
	Wiring[T any] struct {
		reg        *Registry
		spec       *ContextSpec
		resolution *Resolution
	}

	// Instance is a value of T assembled with its capabilities. It is
	// immutable and safe for concurrent capability calls.
	Instance[T any] struct {
		ctx   ContextID
		data  *T
		impls map[CapabilityID]any
		slots map[SlotID]Type
	}

	// scopedView restricts a provider to its declared requirements.
	scopedView struct {
		inst     View
		provider ProviderID
		caps     map[CapabilityID]bool
		slots    map[SlotID]bool
	}
)

// Expose adds capabilities to the roots of the requirement walk.
func Expose(caps ...CapabilityRef) ContextOption {
	return func(b *contextBuilder) {
		for _, c := range caps {
			b.exposes = append(b.exposes, c.ID())
		}
	}
}

// Delegate binds c to provider p.
func Delegate[F any](c Capability[F], p *Provider[F]) ContextOption {
	return DelegateID(c.ID(), p.ID())
}

// DelegateID binds a capability to a provider by identifier.
func DelegateID(capability CapabilityID, provider ProviderID) ContextOption {
	return func(b *contextBuilder) {
		b.binds = append(b.binds, func(t *Table) error { return t.Bind(capability, provider) })
	}
}

// UseFieldsFor binds getter capabilities to the built-in UseFields provider.
func UseFieldsFor(caps ...CapabilityRef) ContextOption {
	return func(b *contextBuilder) {
		for _, c := range caps {
			id := c.ID()
			b.binds = append(b.binds, func(t *Table) error { return t.Bind(id, UseFields) })
		}
	}
}

// UseType binds slot to V explicitly.
func UseType[V any](slot *Slot) ContextOption {
	return func(b *contextBuilder) {
		id := slot.ID()
		b.binds = append(b.binds, func(t *Table) error { return t.BindSlot(id, TypeOf[V]()) })
	}
}

// WithAttributes replaces the attributes derived from T's fields.
func WithAttributes(attrs ...Attribute) ContextOption {
	return func(b *contextBuilder) {
		b.attributes = append(b.attributes, attrs...)
		b.hasAttributes = true
	}
}

// Extends makes parent the ancestor of the context's table. Inherited
// bindings cannot be rebound.
func Extends(parent *Table) ContextOption {
	return func(b *contextBuilder) { b.parent = parent }
}

// AllowUnusedBindings reports unused bindings as warnings instead of errors.
func AllowUnusedBindings() ContextOption {
	return func(b *contextBuilder) { b.resolveOpts = append(b.resolveOpts, AllowUnused()) }
}

// Wire assembles and resolves the context id for Go type T. It returns every
// binding error at once, or the *ResolutionError of an incomplete context.
func Wire[T any](reg *Registry, id ContextID, opts ...ContextOption) (*Wiring[T], error) {
	b := &contextBuilder{}
	for _, opt := range opts {
		opt(b)
	}

	attrs := b.attributes
	if !b.hasAttributes {
		attrs = FieldsOf[T]()
	}
	owner := reflect.TypeFor[T]()
	for _, a := range attrs {
		if a.read == nil {
			return nil, fmt.Errorf("context %s: attribute %s has no accessor", id, a.Name)
		}
		if a.owner != owner {
			return nil, fmt.Errorf("context %s: attribute %s belongs to %s, not %s", id, a.Name, a.owner, owner)
		}
	}

	table := NewTable(b.parent)
	var errs []error
	for _, bind := range b.binds {
		if err := bind(table); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("context %s: %w", id, err)
	}

	spec := &ContextSpec{ID: id, Attributes: attrs, Exposes: b.exposes, Table: table}
	res, err := reg.Resolve(spec, b.resolveOpts...)
	if err != nil {
		return nil, err
	}
	if err := instantiable(reg, res); err != nil {
		return nil, fmt.Errorf("context %s: %w", id, err)
	}
	return &Wiring[T]{reg: reg, spec: spec, resolution: res}, nil
}

// MustWire is like Wire but panics on error. It is intended for
// package-level variables so a wiring mistake stops the program at start.
func MustWire[T any](reg *Registry, id ContextID, opts ...ContextOption) *Wiring[T] {
	w, err := Wire[T](reg, id, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

func instantiable(reg *Registry, res *Resolution) error {
	for _, c := range res.Order {
		r := res.Bindings[c]
		if r.Provider == UseFields {
			if reg.capabilities[c].wrap == nil {
				return fmt.Errorf("%w: getter %s has no Go accessor", ErrNotInstantiable, c)
			}
			continue
		}
		if reg.providers[r.Provider].build == nil {
			return fmt.Errorf("%w: provider %s has no Go implementation", ErrNotInstantiable, r.Provider)
		}
	}
	return nil
}

// ID returns the context identifier.
func (w *Wiring[T]) ID() ContextID { return w.spec.ID }

// Table returns the context's sealed delegation table. It can be passed to
// Extends.
func (w *Wiring[T]) Table() *Table { return w.spec.Table }

// Spec returns the checked context description.
func (w *Wiring[T]) Spec() *ContextSpec { return w.spec }

// Resolution returns the resolution certificate.
func (w *Wiring[T]) Resolution() *Resolution { return w.resolution }

// New assembles data with the context's capabilities, instantiating
// providers requirements first.
func (w *Wiring[T]) New(data *T) *Instance[T] {
	if data == nil {
		panic(fmt.Sprintf("capwire: nil %s value", w.spec.ID))
	}
	inst := &Instance[T]{
		ctx:   w.spec.ID,
		data:  data,
		impls: make(map[CapabilityID]any, len(w.resolution.Order)),
		slots: w.resolution.Slots,
	}
	for _, c := range w.resolution.Order {
		r := w.resolution.Bindings[c]
		if r.Provider == UseFields {
			read := r.Attribute.read
			inst.impls[c] = w.reg.capabilities[c].wrap(func() any { return read(data) })
			continue
		}
		p := w.reg.providers[r.Provider]
		inst.impls[c] = p.build(newScopedView(inst, p))
	}
	return inst
}

// ContextID returns the identifier of the instance's context.
func (i *Instance[T]) ContextID() ContextID { return i.ctx }

// Data returns the underlying value.
func (i *Instance[T]) Data() *T { return i.data }

func (i *Instance[T]) lookup(id CapabilityID) (any, bool) {
	impl, ok := i.impls[id]
	return impl, ok
}

func (i *Instance[T]) slotType(id SlotID) (Type, bool) {
	t, ok := i.slots[id]
	return t, ok
}

func newScopedView(inst View, p *ProviderSpec) *scopedView {
	v := &scopedView{
		inst:     inst,
		provider: p.ID,
		caps:     map[CapabilityID]bool{p.Capability: true},
		slots:    make(map[SlotID]bool),
	}
	for _, req := range p.Requires {
		if req.Slot != "" {
			v.slots[req.Slot] = true
		} else {
			v.caps[req.Capability] = true
		}
	}
	return v
}

func (v *scopedView) ContextID() ContextID { return v.inst.ContextID() }

func (v *scopedView) lookup(id CapabilityID) (any, bool) {
	if !v.caps[id] {
		panic(fmt.Sprintf("capwire: provider %s used capability %s without requiring it", v.provider, id))
	}
	return v.inst.lookup(id)
}

func (v *scopedView) slotType(id SlotID) (Type, bool) {
	if !v.slots[id] {
		panic(fmt.Sprintf("capwire: provider %s used slot %s without requiring it", v.provider, id))
	}
	return v.inst.slotType(id)
}
