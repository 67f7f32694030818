// SPDX-License-Identifier: MPL-2.0

package manifest

type (
	// Manifest is a decoded wiring manifest.
	Manifest struct {
		Version      string             `json:"version"`
		Types        map[string]TypeDef `json:"types,omitempty"`
		Slots        []SlotDef          `json:"slots,omitempty"`
		Capabilities []CapabilityDef    `json:"capabilities,omitempty"`
		Providers    []ProviderDef      `json:"providers,omitempty"`
		Contexts     []ContextDef       `json:"contexts,omitempty"`

		// Source is the file the manifest was read from.
		Source string `json:"-"`
	}

	// TypeDef declares a symbolic type and the traits it satisfies.
	TypeDef struct {
		Traits []string `json:"traits,omitempty"`
	}

	// SlotDef declares an abstract type slot.
	SlotDef struct {
		Name   string   `json:"name"`
		Bounds []string `json:"bounds,omitempty"`
	}

	// CapabilityDef declares a capability, optionally getter-shaped.
	CapabilityDef struct {
		Name      string     `json:"name"`
		Signature string     `json:"signature,omitempty"`
		Getter    *GetterDef `json:"getter,omitempty"`
	}

	// GetterDef is the accessor shape of a getter capability.
	GetterDef struct {
		Attribute string   `json:"attribute"`
		Slot      string   `json:"slot,omitempty"`
		Type      string   `json:"type,omitempty"`
		Bounds    []string `json:"bounds,omitempty"`
	}

	// ProviderDef declares a provider and its requirements.
	ProviderDef struct {
		Name       string           `json:"name"`
		Capability string           `json:"capability"`
		Requires   []RequirementDef `json:"requires,omitempty"`
	}

	// RequirementDef names either a capability or a slot.
	RequirementDef struct {
		Capability string   `json:"capability,omitempty"`
		Slot       string   `json:"slot,omitempty"`
		Bounds     []string `json:"bounds,omitempty"`
	}

	// ContextDef declares a context with its attributes and delegation table.
	ContextDef struct {
		Name       string           `json:"name"`
		Extends    string           `json:"extends,omitempty"`
		Attributes []AttributeDef   `json:"attributes,omitempty"`
		Exposes    []string         `json:"exposes,omitempty"`
		Delegate   []DelegationDef  `json:"delegate,omitempty"`
		Slots      []SlotBindingDef `json:"slots,omitempty"`
	}

	// AttributeDef is one attribute of a context.
	AttributeDef struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	// DelegationDef binds a capability to a provider.
	DelegationDef struct {
		Capability string `json:"capability"`
		Provider   string `json:"provider"`
	}

	// SlotBindingDef binds a slot to a type.
	SlotBindingDef struct {
		Slot string `json:"slot"`
		Type string `json:"type"`
	}
)
