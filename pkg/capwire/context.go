// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"fmt"
)

// ErrInvalidContext is returned by Resolve for a malformed ContextSpec.
var ErrInvalidContext = errors.New("invalid context")

// ContextSpec is the checkable description of a context: its identity, its
// structural attributes, the capabilities it exposes and its delegation
// table.
type ContextSpec struct {
	ID         ContextID
	Attributes []Attribute
	// Exposes lists the roots of the requirement walk. When empty, every
	// binding of Table (ancestors first) is a root.
	Exposes []CapabilityID
	Table   *Table
}

// roots returns the capabilities the requirement walk starts from, without
// duplicates.
func (c *ContextSpec) roots() []CapabilityID {
	seen := make(map[CapabilityID]bool)
	var out []CapabilityID
	add := func(id CapabilityID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(c.Exposes) > 0 {
		for _, id := range c.Exposes {
			add(id)
		}
		return out
	}
	for _, t := range c.Table.lineage() {
		for _, b := range t.bindings {
			add(b.Capability)
		}
	}
	return out
}

func (c *ContextSpec) validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil context", ErrInvalidContext)
	}
	if err := firstError(c.ID.IsValid()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContext, err)
	}
	for _, a := range c.Attributes {
		if err := firstError(a.Name.IsValid()); err != nil {
			return fmt.Errorf("%w: context %s: %w", ErrInvalidContext, c.ID, err)
		}
		if a.Type == nil {
			return fmt.Errorf("%w: context %s: attribute %s has no type", ErrInvalidContext, c.ID, a.Name)
		}
	}
	if c.Table == nil {
		c.Table = NewTable(nil)
	}
	return nil
}
