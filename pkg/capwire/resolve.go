// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"fmt"
	"slices"
	"strings"

	"github.com/capwire/capwire/internal/dag"
)

type (
	// ResolveOption configures a single resolution.
	ResolveOption func(*resolveOptions)

	resolveOptions struct {
		allowUnused bool
	}

	// Resolved records how one capability of a context is implemented.
	Resolved struct {
		Capability CapabilityID
		// Provider is UseFields for synthesized getters.
		Provider ProviderID
		// Attribute is the attribute a synthesized getter reads.
		Attribute *Attribute
		// Inherited is true when the binding came from an ancestor table.
		Inherited bool
	}

	// Resolution is the certificate of a capability-complete context.
	Resolution struct {
		Context ContextID
		// Order lists every resolved capability, requirements before the
		// capabilities that need them. Ties keep discovery order.
		Order    []CapabilityID
		Bindings map[CapabilityID]Resolved
		// Slots holds the concrete type of every slot bound in the context.
		Slots map[SlotID]Type
		// Edges maps a capability to the capabilities its provider requires.
		Edges    map[CapabilityID][]CapabilityID
		Warnings []Diagnostic
	}
)

// AllowUnused downgrades unused table bindings from errors to warnings.
func AllowUnused() ResolveOption {
	return func(o *resolveOptions) { o.allowUnused = true }
}

// Lookup returns how capability was resolved.
func (r *Resolution) Lookup(capability CapabilityID) (Resolved, bool) {
	b, ok := r.Bindings[capability]
	return b, ok
}

type resolveState int

const (
	unresolved resolveState = iota
	resolving
	resolved
	failed
)

type (
	resolver struct {
		reg  *Registry
		ctx  *ContextSpec
		opts resolveOptions

		state   map[CapabilityID]resolveState
		stack   []Link
		onStack map[CapabilityID]int

		usedBindings map[CapabilityID]bool
		usedSlots    map[SlotID]bool
		slotSource   map[SlotID]string
		pending      []pendingSlot

		graph    *dag.Graph[CapabilityID]
		res      *Resolution
		diags    []Diagnostic
		reported map[string]bool
	}

	// pendingSlot is a slot requirement checked once every implicit slot
	// binding is known.
	pendingSlot struct {
		req   Requirement
		by    CapabilityID
		chain []Link
	}
)

// Resolve checks that every capability reachable from the context's roots is
// implemented, directly or transitively, without cycles, ambiguities or
// unmet bounds. It returns a *ResolutionError listing every problem when the
// context is not capability-complete. The context's table is sealed
// afterwards either way.
func (r *Registry) Resolve(ctx *ContextSpec, opts ...ResolveOption) (*Resolution, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}
	defer ctx.Table.seal()

	rs := &resolver{
		reg:          r,
		ctx:          ctx,
		state:        make(map[CapabilityID]resolveState),
		onStack:      make(map[CapabilityID]int),
		usedBindings: make(map[CapabilityID]bool),
		usedSlots:    make(map[SlotID]bool),
		slotSource:   make(map[SlotID]string),
		graph:        dag.New[CapabilityID](),
		reported:     make(map[string]bool),
		res: &Resolution{
			Context:  ctx.ID,
			Bindings: make(map[CapabilityID]Resolved),
			Slots:    make(map[SlotID]Type),
			Edges:    make(map[CapabilityID][]CapabilityID),
		},
	}
	for _, opt := range opts {
		opt(&rs.opts)
	}
	return rs.run()
}

func (rs *resolver) run() (*Resolution, error) {
	rs.reg.logger.Debug("resolving context", "context", rs.ctx.ID, "attributes", len(rs.ctx.Attributes))

	rs.seedSlots()
	for _, root := range rs.ctx.roots() {
		rs.visit(root)
	}
	rs.checkPendingSlots()
	rs.checkUnused()

	var errs, warnings []Diagnostic
	for _, d := range rs.diags {
		if d.Severity == SeverityWarning {
			warnings = append(warnings, d)
		} else {
			errs = append(errs, d)
		}
	}
	if len(errs) > 0 {
		rs.reg.logger.Debug("context incomplete", "context", rs.ctx.ID, "problems", len(errs))
		return nil, &ResolutionError{Context: rs.ctx.ID, Diagnostics: errs, Warnings: warnings}
	}

	order, err := rs.graph.Order()
	if err != nil {
		return nil, fmt.Errorf("context %s: %w", rs.ctx.ID, err)
	}
	rs.res.Order = order
	rs.res.Warnings = warnings
	rs.reg.logger.Debug("context resolved", "context", rs.ctx.ID, "capabilities", len(order))
	return rs.res, nil
}

// seedSlots records the explicit slot bindings of the table lineage.
func (rs *resolver) seedSlots() {
	for _, t := range rs.ctx.Table.lineage() {
		own := t == rs.ctx.Table
		for _, sb := range t.slotBindings {
			spec, ok := rs.reg.slots[sb.Slot]
			if !ok {
				if own {
					rs.usedSlots[sb.Slot] = true
					rs.report(Diagnostic{Slot: sb.Slot, Reason: ReasonMissing, Detail: "slot is not declared"})
				}
				continue
			}
			rs.res.Slots[sb.Slot] = sb.Type
			rs.slotSource[sb.Slot] = "explicit binding"
			if unmet := unmetBounds(sb.Type, spec.Bounds); len(unmet) > 0 {
				rs.usedSlots[sb.Slot] = true
				rs.report(Diagnostic{
					Slot:   sb.Slot,
					Reason: ReasonBoundMismatch,
					Detail: fmt.Sprintf("bound type %s does not satisfy %s", sb.Type, strings.Join(unmet, ", ")),
				})
			}
		}
	}
}

func (rs *resolver) visit(c CapabilityID) bool {
	switch rs.state[c] {
	case resolved:
		return true
	case failed:
		return false
	case resolving:
		rs.report(Diagnostic{Capability: c, Reason: ReasonCyclic, Detail: rs.cyclePath(c)})
		return false
	}

	rs.state[c] = resolving
	if rs.resolve(c) {
		rs.state[c] = resolved
		return true
	}
	rs.state[c] = failed
	return false
}

func (rs *resolver) resolve(c CapabilityID) bool {
	b, owner, bound := rs.ctx.Table.Lookup(c)
	if bound && owner == rs.ctx.Table {
		rs.usedBindings[c] = true
	}

	spec, declared := rs.reg.capabilities[c]
	if !declared {
		rs.report(Diagnostic{Capability: c, Reason: ReasonMissing, Detail: "capability is not declared"})
		return false
	}

	inherited := bound && owner != rs.ctx.Table
	switch {
	case bound && b.Provider == UseFields:
		if !spec.Accessor() {
			rs.report(Diagnostic{
				Capability: c,
				Reason:     ReasonProviderMismatch,
				Detail:     "UseFields can only implement getter capabilities",
			})
			return false
		}
		return rs.synthesize(c, spec, inherited)
	case bound:
		return rs.useProvider(c, b.Provider, inherited)
	case spec.Accessor():
		return rs.synthesize(c, spec, false)
	default:
		rs.report(Diagnostic{
			Capability: c,
			Reason:     ReasonMissing,
			Detail:     "no delegation-table entry and no getter to synthesize",
		})
		return false
	}
}

func (rs *resolver) useProvider(c CapabilityID, id ProviderID, inherited bool) bool {
	p, ok := rs.reg.providers[id]
	if !ok {
		rs.report(Diagnostic{Capability: c, Reason: ReasonProviderMismatch, Detail: fmt.Sprintf("provider %s is not declared", id)})
		return false
	}
	if p.Capability != c {
		rs.report(Diagnostic{
			Capability: c,
			Reason:     ReasonProviderMismatch,
			Detail:     fmt.Sprintf("provider %s implements %s", id, p.Capability),
		})
		return false
	}
	rs.reg.logger.Debug("delegating", "context", rs.ctx.ID, "capability", c, "provider", id)

	rs.graph.AddNode(c)
	rs.push(Link{Capability: c, Provider: id})
	ok = true
	for _, req := range p.Requires {
		if req.Slot != "" {
			rs.pending = append(rs.pending, pendingSlot{req: req, by: c, chain: slices.Clone(rs.stack)})
			continue
		}
		rs.graph.AddDependency(c, req.Capability)
		if !slices.Contains(rs.res.Edges[c], req.Capability) {
			rs.res.Edges[c] = append(rs.res.Edges[c], req.Capability)
		}
		if !rs.visit(req.Capability) {
			ok = false
		}
	}
	rs.pop()

	if ok {
		rs.res.Bindings[c] = Resolved{Capability: c, Provider: id, Inherited: inherited}
	}
	return ok
}

func (rs *resolver) synthesize(c CapabilityID, spec *CapabilitySpec, inherited bool) bool {
	g := spec.Getter
	var matches []Attribute
	for _, a := range rs.ctx.Attributes {
		if a.Name == g.Attribute {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		rs.report(Diagnostic{
			Capability: c,
			Reason:     ReasonMissing,
			Detail:     fmt.Sprintf("no attribute named %s to synthesize a getter from", g.Attribute),
		})
		return false
	case 1:
	default:
		rs.report(Diagnostic{
			Capability: c,
			Reason:     ReasonAmbiguous,
			Detail:     fmt.Sprintf("%d attributes are named %s", len(matches), g.Attribute),
		})
		return false
	}

	a := matches[0]
	if g.Type != nil && !assignable(a.Type, g.Type) {
		rs.report(Diagnostic{
			Capability: c,
			Reason:     ReasonBoundMismatch,
			Detail:     fmt.Sprintf("attribute %s has type %s, getter returns %s", a.Name, a.Type, g.Type),
		})
		return false
	}
	if unmet := unmetBounds(a.Type, g.Bounds); len(unmet) > 0 {
		rs.report(Diagnostic{
			Capability: c,
			Reason:     ReasonBoundMismatch,
			Detail:     fmt.Sprintf("attribute %s of type %s does not satisfy %s", a.Name, a.Type, strings.Join(unmet, ", ")),
		})
		return false
	}
	if g.Slot != "" && !rs.bindSlot(c, g.Slot, a) {
		return false
	}

	rs.reg.logger.Debug("synthesized getter", "context", rs.ctx.ID, "capability", c, "attribute", a.Name)
	rs.graph.AddNode(c)
	rs.res.Bindings[c] = Resolved{Capability: c, Provider: UseFields, Attribute: &a, Inherited: inherited}
	return true
}

// bindSlot makes the attribute's type the slot's binding, or checks it
// against an existing one.
func (rs *resolver) bindSlot(c CapabilityID, slot SlotID, a Attribute) bool {
	rs.usedSlots[slot] = true
	if t, ok := rs.res.Slots[slot]; ok {
		if sameType(t, a.Type) {
			return true
		}
		rs.report(Diagnostic{
			Capability: c,
			Slot:       slot,
			Reason:     ReasonBoundMismatch,
			Detail:     fmt.Sprintf("attribute %s has type %s but the slot is bound to %s by %s", a.Name, a.Type, t, rs.slotSource[slot]),
		})
		return false
	}
	if unmet := unmetBounds(a.Type, rs.reg.slots[slot].Bounds); len(unmet) > 0 {
		rs.report(Diagnostic{
			Capability: c,
			Slot:       slot,
			Reason:     ReasonBoundMismatch,
			Detail:     fmt.Sprintf("attribute %s of type %s does not satisfy %s", a.Name, a.Type, strings.Join(unmet, ", ")),
		})
		return false
	}
	rs.res.Slots[slot] = a.Type
	rs.slotSource[slot] = "attribute " + string(a.Name)
	return true
}

func (rs *resolver) checkPendingSlots() {
	for _, p := range rs.pending {
		slot := p.req.Slot
		rs.usedSlots[slot] = true
		t, ok := rs.res.Slots[slot]
		if !ok {
			rs.reportAt(Diagnostic{
				Capability: p.by,
				Slot:       slot,
				Reason:     ReasonUnboundSlot,
				Detail:     "no explicit binding and no getter binds it",
			}, p.chain)
			continue
		}
		bounds := slices.Concat(rs.reg.slots[slot].Bounds, p.req.Bounds)
		if unmet := unmetBounds(t, bounds); len(unmet) > 0 {
			rs.reportAt(Diagnostic{
				Capability: p.by,
				Slot:       slot,
				Reason:     ReasonBoundMismatch,
				Detail:     fmt.Sprintf("bound type %s does not satisfy %s", t, strings.Join(unmet, ", ")),
			}, p.chain)
		}
	}
}

func (rs *resolver) checkUnused() {
	severity := SeverityError
	if rs.opts.allowUnused {
		severity = SeverityWarning
	}
	for _, b := range rs.ctx.Table.bindings {
		if rs.usedBindings[b.Capability] {
			continue
		}
		rs.report(Diagnostic{
			Capability: b.Capability,
			Reason:     ReasonUnused,
			Severity:   severity,
			Detail:     fmt.Sprintf("bound to %s but not required by any exposed capability", b.Provider),
		})
	}
	for _, sb := range rs.ctx.Table.slotBindings {
		if rs.usedSlots[sb.Slot] {
			continue
		}
		rs.report(Diagnostic{
			Slot:     sb.Slot,
			Reason:   ReasonUnused,
			Severity: severity,
			Detail:   fmt.Sprintf("bound to %s but not required by any exposed capability", sb.Type),
		})
	}
}

func (rs *resolver) push(l Link) {
	rs.onStack[l.Capability] = len(rs.stack)
	rs.stack = append(rs.stack, l)
}

func (rs *resolver) pop() {
	last := rs.stack[len(rs.stack)-1]
	delete(rs.onStack, last.Capability)
	rs.stack = rs.stack[:len(rs.stack)-1]
}

// cyclePath renders the cycle closing at c, e.g. "A -> B -> A".
func (rs *resolver) cyclePath(c CapabilityID) string {
	start, ok := rs.onStack[c]
	if !ok {
		return string(c) + " -> " + string(c)
	}
	parts := make([]string, 0, len(rs.stack)-start+1)
	for _, l := range rs.stack[start:] {
		parts = append(parts, string(l.Capability))
	}
	parts = append(parts, string(c))
	return strings.Join(parts, " -> ")
}

// report records a diagnostic at the current requirement chain.
func (rs *resolver) report(d Diagnostic) {
	rs.reportAt(d, slices.Clone(rs.stack))
}

// reportAt records a diagnostic once per subject and reason.
func (rs *resolver) reportAt(d Diagnostic, chain []Link) {
	key := fmt.Sprintf("%s|%s|%d", d.Capability, d.Slot, d.Reason)
	if d.Slot != "" && d.Reason != ReasonUnboundSlot {
		key += "|" + d.Detail
	}
	if rs.reported[key] {
		return
	}
	rs.reported[key] = true

	d.Context = rs.ctx.ID
	if len(chain) > 0 {
		d.Chain = chain
	}
	rs.reg.logger.Debug("resolution problem", "context", d.Context, "reason", d.Reason, "subject", d.Subject(), "detail", d.Detail)
	rs.diags = append(rs.diags, d)
}
