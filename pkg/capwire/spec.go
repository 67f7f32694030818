// SPDX-License-Identifier: MPL-2.0

package capwire

// UseFields is the built-in provider that synthesizes a getter from the
// context's attributes. Binding an accessor-shaped capability to it is
// equivalent to leaving the capability unbound, but states the intent in the
// delegation table.
const UseFields ProviderID = "UseFields"

type (
	// CapabilitySpec is the metadata of a declared capability.
	CapabilitySpec struct {
		ID CapabilityID
		// Signature is the function type shared by the consumer and the
		// provider contract. Informational for metadata-only specs.
		Signature Type
		// Getter is non-nil when the capability only exposes read access to
		// an attribute and may be synthesized.
		Getter *GetterShape

		// wrap turns an attribute reader into the capability's function
		// value. Set by NewGetter.
		wrap func(read func() any) any
	}

	// GetterShape describes an accessor capability.
	GetterShape struct {
		// Attribute is matched exactly against the context's attribute names.
		Attribute AttributeName
		// Slot, when set, makes the attribute's type the context's binding
		// for that slot.
		Slot SlotID
		// Type, when set, is the value type the attribute must have.
		Type Type
		// Bounds must all be satisfied by the attribute's type.
		Bounds []Bound
	}

	// SlotSpec is the metadata of an abstract type slot.
	SlotSpec struct {
		ID SlotID
		// Bounds must be satisfied by every context's binding of the slot.
		Bounds []Bound
	}

	// Requirement is one entry of a provider's requirement set: either a
	// capability or a slot whose binding must meet Bounds.
	Requirement struct {
		Capability CapabilityID
		Slot       SlotID
		Bounds     []Bound
	}

	// ProviderSpec is the metadata of a provider.
	ProviderSpec struct {
		ID         ProviderID
		Capability CapabilityID
		Requires   []Requirement

		build func(View) any
	}
)

// Accessor reports whether the capability can be synthesized from attributes.
func (s CapabilitySpec) Accessor() bool { return s.Getter != nil }

// RequireCapability builds a capability requirement.
func RequireCapability(id CapabilityID) Requirement {
	return Requirement{Capability: id}
}

// RequireSlot builds a slot requirement whose binding must meet bounds.
func RequireSlot(id SlotID, bounds ...Bound) Requirement {
	return Requirement{Slot: id, Bounds: bounds}
}

func (r Requirement) String() string {
	if r.Slot != "" {
		return "slot " + string(r.Slot)
	}
	return string(r.Capability)
}
