// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBinding is the sentinel error wrapped by DuplicateBindingError.
	ErrDuplicateBinding = errors.New("duplicate binding")

	// ErrTableSealed is returned when binding into a table that has already
	// been used for resolution.
	ErrTableSealed = errors.New("delegation table is sealed")
)

type (
	// Binding maps one capability to the provider chosen to implement it.
	Binding struct {
		Capability CapabilityID
		Provider   ProviderID
	}

	// SlotBinding binds a slot to a concrete type.
	SlotBinding struct {
		Slot SlotID
		Type Type
	}

	// Table is a context's delegation table. Keys are unique across the
	// table and its ancestors: there is no override or shadowing. A table is
	// sealed once a context using it has been resolved.
	Table struct {
		parent *Table

		bindings []Binding
		byCap    map[CapabilityID]int

		slotBindings []SlotBinding
		bySlot       map[SlotID]int

		sealed bool
	}

	// DuplicateBindingError is returned when a capability or slot is bound
	// twice in a table or its ancestry.
	DuplicateBindingError struct {
		Key       string
		Existing  string
		Attempted string
		// Inherited is true when the existing binding lives in an ancestor.
		Inherited bool
	}
)

// Error implements the error interface for DuplicateBindingError.
func (e *DuplicateBindingError) Error() string {
	where := ""
	if e.Inherited {
		where = " by an ancestor table"
	}
	return fmt.Sprintf("%s is already bound to %s%s; cannot bind it to %s", e.Key, e.Existing, where, e.Attempted)
}

// Unwrap returns ErrDuplicateBinding for errors.Is() compatibility.
func (e *DuplicateBindingError) Unwrap() error { return ErrDuplicateBinding }

// NewTable creates an empty delegation table. A non-nil parent contributes
// its bindings to lookups.
func NewTable(parent *Table) *Table {
	return &Table{
		parent: parent,
		byCap:  make(map[CapabilityID]int),
		bySlot: make(map[SlotID]int),
	}
}

// Parent returns the ancestor table, if any.
func (t *Table) Parent() *Table { return t.parent }

// Bind maps capability to provider.
func (t *Table) Bind(capability CapabilityID, provider ProviderID) error {
	if t.sealed {
		return ErrTableSealed
	}
	if err := firstError(capability.IsValid()); err != nil {
		return err
	}
	if err := firstError(provider.IsValid()); err != nil {
		return err
	}
	if existing, owner, ok := t.Lookup(capability); ok {
		return &DuplicateBindingError{
			Key:       "capability " + string(capability),
			Existing:  string(existing.Provider),
			Attempted: string(provider),
			Inherited: owner != t,
		}
	}
	t.byCap[capability] = len(t.bindings)
	t.bindings = append(t.bindings, Binding{Capability: capability, Provider: provider})
	return nil
}

// BindSlot binds slot to a concrete type.
func (t *Table) BindSlot(slot SlotID, typ Type) error {
	if t.sealed {
		return ErrTableSealed
	}
	if err := firstError(slot.IsValid()); err != nil {
		return err
	}
	if typ == nil {
		return fmt.Errorf("slot %s: nil type", slot)
	}
	if existing, owner, ok := t.LookupSlot(slot); ok {
		return &DuplicateBindingError{
			Key:       "slot " + string(slot),
			Existing:  existing.Type.String(),
			Attempted: typ.String(),
			Inherited: owner != t,
		}
	}
	t.bySlot[slot] = len(t.slotBindings)
	t.slotBindings = append(t.slotBindings, SlotBinding{Slot: slot, Type: typ})
	return nil
}

// Lookup finds the binding for capability in this table or its ancestors and
// returns the table that owns it.
func (t *Table) Lookup(capability CapabilityID) (Binding, *Table, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if i, ok := cur.byCap[capability]; ok {
			return cur.bindings[i], cur, true
		}
	}
	return Binding{}, nil, false
}

// LookupSlot finds the binding for slot in this table or its ancestors.
func (t *Table) LookupSlot(slot SlotID) (SlotBinding, *Table, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if i, ok := cur.bySlot[slot]; ok {
			return cur.slotBindings[i], cur, true
		}
	}
	return SlotBinding{}, nil, false
}

// Bindings returns the table's own capability bindings in declaration order.
func (t *Table) Bindings() []Binding {
	return append([]Binding(nil), t.bindings...)
}

// SlotBindings returns the table's own slot bindings in declaration order.
func (t *Table) SlotBindings() []SlotBinding {
	return append([]SlotBinding(nil), t.slotBindings...)
}

// Sealed reports whether the table rejects further bindings.
func (t *Table) Sealed() bool { return t.sealed }

// lineage returns the table and its ancestors, root ancestor first.
func (t *Table) lineage() []*Table {
	var out []*Table
	for cur := t; cur != nil; cur = cur.parent {
		out = append([]*Table{cur}, out...)
	}
	return out
}

// seal freezes the table and its ancestors.
func (t *Table) seal() {
	for cur := t; cur != nil; cur = cur.parent {
		cur.sealed = true
	}
}
