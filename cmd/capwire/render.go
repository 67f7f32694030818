// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/capwire/capwire/internal/issue"
	"github.com/capwire/capwire/pkg/capwire"
	"github.com/capwire/capwire/pkg/manifest"
)

// renderReport prints one block per context:
//
//	✓ Person  HasName -> Greeter
//	✗ Employee  1 problem(s)
//	    Missing          HasName  via Greeter (GreetHello)
//	      no delegation-table entry and no getter to synthesize
func renderReport(w io.Writer, r *manifest.Report) {
	writeLine(w, "%s", TitleStyle.Render(r.Manifest))
	complete := 0
	var hints []string
	for _, c := range r.Contexts {
		errs, warns := splitSeverity(c.Diagnostics)
		switch {
		case c.Complete:
			complete++
			writeLine(w, "%s %s  %s", successIcon, contextStyle.Render(c.Context), strings.Join(c.Order, " -> "))
		default:
			writeLine(w, "%s %s  %d problem(s)", errorIcon, contextStyle.Render(c.Context), len(errs))
		}
		for _, d := range errs {
			renderDiagnostic(w, d)
			if h := reasonHint(d.Reason); h != "" && !slices.Contains(hints, h) {
				hints = append(hints, h)
			}
		}
		for _, d := range warns {
			renderDiagnostic(w, d)
		}
	}
	summary := fmt.Sprintf("%d of %d context(s) capability-complete", complete, len(r.Contexts))
	if complete == len(r.Contexts) {
		writeLine(w, "\n%s", SuccessStyle.Render(summary))
		return
	}
	writeLine(w, "\n%s", ErrorStyle.Render(summary))
	for _, h := range hints {
		writeLine(w, "%s", SubtitleStyle.Render("Run 'capwire explain "+h+"' for help."))
	}
}

func renderDiagnostic(w io.Writer, d manifest.DiagnosticReport) {
	icon := errorIcon
	if d.Severity == capwire.SeverityWarning.String() {
		icon = warningIcon
	}
	subject := d.Capability
	if d.Slot != "" {
		subject = "slot " + d.Slot
		if d.Capability != "" {
			subject += " of " + d.Capability
		}
	}
	line := fmt.Sprintf("  %s %s %s", icon, reasonStyle.Render(d.Reason), CmdStyle.Render(subject))
	if len(d.Chain) > 0 {
		links := make([]string, 0, len(d.Chain))
		for _, l := range d.Chain {
			links = append(links, fmt.Sprintf("%s (%s)", l.Capability, l.Provider))
		}
		line += "  via " + strings.Join(links, " -> ")
	}
	writeLine(w, "%s", line)
	if d.Detail != "" {
		writeLine(w, "%s", detailStyle.Render(d.Detail))
	}
}

func splitSeverity(ds []manifest.DiagnosticReport) (errs, warns []manifest.DiagnosticReport) {
	for _, d := range ds {
		if d.Severity == capwire.SeverityWarning.String() {
			warns = append(warns, d)
		} else {
			errs = append(errs, d)
		}
	}
	return errs, warns
}

// reasonHint names the explain topic for a reason, e.g. "missing-capability".
func reasonHint(reason string) string {
	r, ok := capwire.ParseReason(reason)
	if !ok {
		return ""
	}
	if i := issue.ForReason(r); i != nil {
		return i.Slug()
	}
	return ""
}
