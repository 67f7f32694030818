// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewReport(t *testing.T) {
	t.Parallel()

	prog := buildFixture(t, "broken.cue")
	results, err := prog.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	r := NewReport("", "broken.cue", results)
	if _, err := uuid.Parse(r.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", r.RunID, err)
	}
	if r.Complete() {
		t.Error("broken manifest must not report complete")
	}

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded struct {
		Manifest string `json:"manifest"`
		Contexts []struct {
			Context     string `json:"context"`
			Complete    bool   `json:"complete"`
			Diagnostics []struct {
				Capability string `json:"capability"`
				Reason     string `json:"reason"`
				Severity   string `json:"severity"`
				Chain      []struct {
					Capability string `json:"capability"`
					Provider   string `json:"provider"`
				} `json:"chain"`
			} `json:"diagnostics"`
		} `json:"contexts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Manifest != "broken.cue" || len(decoded.Contexts) != 2 {
		t.Fatalf("unexpected report %s", buf.String())
	}
	emp := decoded.Contexts[1]
	if emp.Context != "Employee" || emp.Complete || len(emp.Diagnostics) != 1 {
		t.Fatalf("unexpected Employee report %+v", emp)
	}
	d := emp.Diagnostics[0]
	if d.Capability != "HasName" || d.Reason != "Missing" || d.Severity != "error" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if len(d.Chain) != 1 || d.Chain[0].Capability != "Greeter" || d.Chain[0].Provider != "GreetHello" {
		t.Errorf("unexpected chain %+v", d.Chain)
	}
}

func TestNewReport_KeepsRunID(t *testing.T) {
	t.Parallel()

	prog := buildFixture(t, "greeting.cue")
	results, err := prog.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	r := NewReport("run-1", "greeting.cue", results)
	if r.RunID != "run-1" || !r.Complete() {
		t.Errorf("unexpected report %+v", r)
	}
	if len(r.Contexts[0].Order) != 2 {
		t.Errorf("Person order = %v", r.Contexts[0].Order)
	}
}
