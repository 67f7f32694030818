// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/capwire/capwire/internal/dag"
	"github.com/capwire/capwire/pkg/capwire"
	"github.com/capwire/capwire/pkg/cueutil"
)

// Program is a manifest compiled into a registry and checkable contexts.
type Program struct {
	Source   string
	Registry *capwire.Registry
	// Contexts keeps manifest order.
	Contexts []*capwire.ContextSpec
}

// builder accumulates every definition error so that a manifest reports
// all of them in one pass.
type builder struct {
	m      *Manifest
	reg    *capwire.Registry
	types  map[string]capwire.Type
	tables map[string]*capwire.Table
	errs   []error
}

// predeclared maps the built-in type names to Go types, so the standard
// bounds apply to them by predicate.
func predeclared() map[string]capwire.Type {
	return map[string]capwire.Type{
		"string":  capwire.TypeOf[string](),
		"int":     capwire.TypeOf[int](),
		"bool":    capwire.TypeOf[bool](),
		"float64": capwire.TypeOf[float64](),
		"any":     capwire.TypeOf[any](),
	}
}

// Bound returns the bound named name: Display and Comparable are the
// standard bounds, anything else is checked by trait name only.
func Bound(name string) capwire.Bound {
	switch name {
	case capwire.Display.Name():
		return capwire.Display
	case capwire.Comparable.Name():
		return capwire.Comparable
	default:
		return capwire.NamedBound(name)
	}
}

func bounds(names []string) []capwire.Bound {
	if len(names) == 0 {
		return nil
	}
	out := make([]capwire.Bound, len(names))
	for i, n := range names {
		out[i] = Bound(n)
	}
	return out
}

// Build declares the manifest's definitions in a new registry and
// assembles its contexts. It returns every definition error at once.
func (m *Manifest) Build(opts ...capwire.RegistryOption) (*Program, error) {
	b := &builder{
		m:      m,
		reg:    capwire.NewRegistry(opts...),
		types:  predeclared(),
		tables: make(map[string]*capwire.Table),
	}
	b.declareTypes()
	b.declareSlots()
	b.declareCapabilities()
	b.declareProviders()
	contexts := b.buildContexts()

	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}
	return &Program{Source: m.Source, Registry: b.reg, Contexts: contexts}, nil
}

func (b *builder) fail(path string, err error) {
	b.errs = append(b.errs, &cueutil.ValidationError{FilePath: b.m.Source, Path: path, Message: err.Error()})
}

func (b *builder) typeNamed(path, name string) capwire.Type {
	if name == "" {
		return nil
	}
	t, ok := b.types[name]
	if !ok {
		b.fail(path, fmt.Errorf("unknown type %q", name))
		return nil
	}
	return t
}

func (b *builder) declareTypes() {
	names := make([]string, 0, len(b.m.Types))
	for name := range b.m.Types {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, builtin := b.types[name]; builtin {
			b.fail("types."+name, fmt.Errorf("redefines predeclared type %s", name))
			continue
		}
		b.types[name] = capwire.SymbolicType{Name: name, Traits: b.m.Types[name].Traits}
	}
}

func (b *builder) declareSlots() {
	for i, s := range b.m.Slots {
		spec := capwire.SlotSpec{ID: capwire.SlotID(s.Name), Bounds: bounds(s.Bounds)}
		if err := b.reg.DeclareSlot(spec); err != nil {
			b.fail(fmt.Sprintf("slots[%d]", i), err)
		}
	}
}

func (b *builder) declareCapabilities() {
	for i, c := range b.m.Capabilities {
		path := fmt.Sprintf("capabilities[%d]", i)
		spec := capwire.CapabilitySpec{ID: capwire.CapabilityID(c.Name)}
		if c.Signature != "" {
			spec.Signature = capwire.SymbolicType{Name: c.Signature}
		}
		if g := c.Getter; g != nil {
			spec.Getter = &capwire.GetterShape{
				Attribute: capwire.AttributeName(g.Attribute),
				Slot:      capwire.SlotID(g.Slot),
				Type:      b.typeNamed(path+".getter.type", g.Type),
				Bounds:    bounds(g.Bounds),
			}
		}
		if err := b.reg.DeclareCapability(spec); err != nil {
			b.fail(path, err)
		}
	}
}

func (b *builder) declareProviders() {
	for i, p := range b.m.Providers {
		spec := capwire.ProviderSpec{ID: capwire.ProviderID(p.Name), Capability: capwire.CapabilityID(p.Capability)}
		for _, r := range p.Requires {
			if r.Slot != "" {
				spec.Requires = append(spec.Requires, capwire.RequireSlot(capwire.SlotID(r.Slot), bounds(r.Bounds)...))
			} else {
				spec.Requires = append(spec.Requires, capwire.RequireCapability(capwire.CapabilityID(r.Capability)))
			}
		}
		if err := b.reg.DeclareProvider(spec); err != nil {
			b.fail(fmt.Sprintf("providers[%d]", i), err)
		}
	}
}

// buildContexts assembles contexts parents first, so a child's table can
// name its parent's as ancestor.
func (b *builder) buildContexts() []*capwire.ContextSpec {
	index := make(map[string]int, len(b.m.Contexts))
	g := dag.New[string]()
	for i, c := range b.m.Contexts {
		if _, dup := index[c.Name]; dup {
			b.fail(fmt.Sprintf("contexts[%d].name", i), fmt.Errorf("context %s is already declared", c.Name))
			continue
		}
		index[c.Name] = i
		g.AddNode(c.Name)
	}
	for i, c := range b.m.Contexts {
		if c.Extends == "" || index[c.Name] != i {
			continue
		}
		if _, ok := index[c.Extends]; !ok {
			b.fail(fmt.Sprintf("contexts[%d].extends", i), fmt.Errorf("unknown context %q", c.Extends))
			continue
		}
		g.AddDependency(c.Name, c.Extends)
	}
	order, err := g.Order()
	if err != nil {
		b.fail("contexts", fmt.Errorf("extends: %w", err))
		return nil
	}

	specs := make([]*capwire.ContextSpec, len(b.m.Contexts))
	for _, name := range order {
		i := index[name]
		specs[i] = b.buildContext(i, b.m.Contexts[i])
	}
	return slices.DeleteFunc(specs, func(s *capwire.ContextSpec) bool { return s == nil })
}

func (b *builder) buildContext(i int, c ContextDef) *capwire.ContextSpec {
	path := fmt.Sprintf("contexts[%d]", i)
	table := capwire.NewTable(b.tables[c.Extends])
	b.tables[c.Name] = table

	spec := &capwire.ContextSpec{ID: capwire.ContextID(c.Name), Table: table}
	for j, a := range c.Attributes {
		if t := b.typeNamed(fmt.Sprintf("%s.attributes[%d].type", path, j), a.Type); t != nil {
			spec.Attributes = append(spec.Attributes, capwire.SymbolicAttribute(capwire.AttributeName(a.Name), t))
		}
	}
	for _, e := range c.Exposes {
		spec.Exposes = append(spec.Exposes, capwire.CapabilityID(e))
	}
	for j, d := range c.Delegate {
		if err := table.Bind(capwire.CapabilityID(d.Capability), capwire.ProviderID(d.Provider)); err != nil {
			b.fail(fmt.Sprintf("%s.delegate[%d]", path, j), err)
		}
	}
	for j, s := range c.Slots {
		t := b.typeNamed(fmt.Sprintf("%s.slots[%d].type", path, j), s.Type)
		if t == nil {
			continue
		}
		if err := table.BindSlot(capwire.SlotID(s.Slot), t); err != nil {
			b.fail(fmt.Sprintf("%s.slots[%d]", path, j), err)
		}
	}
	return spec
}

// Context returns the context named id.
func (p *Program) Context(id capwire.ContextID) (*capwire.ContextSpec, bool) {
	for _, c := range p.Contexts {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}
