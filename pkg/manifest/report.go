// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"io"

	"github.com/capwire/capwire/pkg/capwire"

	"github.com/google/uuid"
)

type (
	// Report is the machine-readable outcome of checking a manifest.
	Report struct {
		RunID    string          `json:"run_id"`
		Manifest string          `json:"manifest"`
		Contexts []ContextReport `json:"contexts"`
	}

	// ContextReport is the outcome for one context.
	ContextReport struct {
		Context     string             `json:"context"`
		Complete    bool               `json:"complete"`
		Order       []string           `json:"order,omitempty"`
		Diagnostics []DiagnosticReport `json:"diagnostics,omitempty"`
	}

	// DiagnosticReport is one diagnostic, errors and warnings alike.
	DiagnosticReport struct {
		Capability string       `json:"capability,omitempty"`
		Slot       string       `json:"slot,omitempty"`
		Reason     string       `json:"reason"`
		Chain      []LinkReport `json:"chain,omitempty"`
		Detail     string       `json:"detail,omitempty"`
		Severity   string       `json:"severity"`
	}

	// LinkReport is one step of a requirement chain.
	LinkReport struct {
		Capability string `json:"capability"`
		Provider   string `json:"provider"`
	}
)

// NewReport builds a report for the results of one check run. runID
// correlates reports from repeated runs, as in watch mode; an empty runID
// gets a fresh one.
func NewReport(runID, manifest string, results []Result) *Report {
	if runID == "" {
		runID = uuid.NewString()
	}
	r := &Report{RunID: runID, Manifest: manifest, Contexts: make([]ContextReport, 0, len(results))}
	for _, res := range results {
		cr := ContextReport{Context: string(res.Context), Complete: res.Complete()}
		if res.Resolution != nil {
			for _, c := range res.Resolution.Order {
				cr.Order = append(cr.Order, string(c))
			}
		}
		for _, d := range res.Diagnostics {
			cr.Diagnostics = append(cr.Diagnostics, diagnosticReport(d))
		}
		for _, d := range res.Warnings {
			cr.Diagnostics = append(cr.Diagnostics, diagnosticReport(d))
		}
		r.Contexts = append(r.Contexts, cr)
	}
	return r
}

func diagnosticReport(d capwire.Diagnostic) DiagnosticReport {
	dr := DiagnosticReport{
		Capability: string(d.Capability),
		Slot:       string(d.Slot),
		Reason:     d.Reason.String(),
		Detail:     d.Detail,
		Severity:   d.Severity.String(),
	}
	for _, l := range d.Chain {
		dr.Chain = append(dr.Chain, LinkReport{Capability: string(l.Capability), Provider: string(l.Provider)})
	}
	return dr
}

// Complete reports whether every context in the report is complete.
func (r *Report) Complete() bool {
	for _, c := range r.Contexts {
		if !c.Complete {
			return false
		}
	}
	return true
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
