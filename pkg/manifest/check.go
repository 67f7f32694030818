// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/capwire/capwire/pkg/capwire"
)

// ErrUnknownContext is returned when checking a context the manifest does
// not declare.
var ErrUnknownContext = errors.New("unknown context")

// Result is the outcome of checking one context.
type Result struct {
	Context capwire.ContextID
	// Resolution is nil when the context is incomplete.
	Resolution  *capwire.Resolution
	Diagnostics []capwire.Diagnostic
	Warnings    []capwire.Diagnostic
}

// Complete reports whether the context is capability-complete.
func (r Result) Complete() bool { return r.Resolution != nil }

// Check resolves every context in manifest order.
func (p *Program) Check(opts ...capwire.ResolveOption) ([]Result, error) {
	results := make([]Result, 0, len(p.Contexts))
	for _, c := range p.Contexts {
		r, err := p.check(c, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// CheckContext resolves a single context.
func (p *Program) CheckContext(id capwire.ContextID, opts ...capwire.ResolveOption) (Result, error) {
	c, ok := p.Context(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownContext, id)
	}
	return p.check(c, opts)
}

func (p *Program) check(c *capwire.ContextSpec, opts []capwire.ResolveOption) (Result, error) {
	res, err := p.Registry.Resolve(c, opts...)
	if err == nil {
		return Result{Context: c.ID, Resolution: res, Warnings: res.Warnings}, nil
	}
	var resErr *capwire.ResolutionError
	if !errors.As(err, &resErr) {
		return Result{}, err
	}
	return Result{Context: c.ID, Diagnostics: resErr.Diagnostics, Warnings: resErr.Warnings}, nil
}
