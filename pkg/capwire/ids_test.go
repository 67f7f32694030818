// SPDX-License-Identifier: MPL-2.0

package capwire

import (
	"errors"
	"testing"
)

func TestCapabilityID_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   CapabilityID
		want bool
	}{
		{"Greeter", true},
		{"HasName", true},
		{"_private", true},
		{"greet.v2", true},
		{"Name_2", true},
		{"", false},
		{"2fast", false},
		{".hidden", false},
		{"has name", false},
		{"has-name", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.id.IsValid()
			if ok != tt.want {
				t.Fatalf("IsValid(%q) = %v, want %v", tt.id, ok, tt.want)
			}
			if !ok {
				if len(errs) == 0 {
					t.Fatal("expected errors for invalid identifier")
				}
				if !errors.Is(errs[0], ErrInvalidID) {
					t.Errorf("expected ErrInvalidID, got %v", errs[0])
				}
			}
		})
	}
}

func TestInvalidIDError_Message(t *testing.T) {
	t.Parallel()

	_, errs := ProviderID("").IsValid()
	if got, want := errs[0].Error(), "invalid provider identifier: must be non-empty"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, errs = SlotID("a b").IsValid()
	var idErr *InvalidIDError
	if !errors.As(errs[0], &idErr) {
		t.Fatalf("expected *InvalidIDError, got %T", errs[0])
	}
	if idErr.Kind != "slot" || idErr.Value != "a b" {
		t.Errorf("unexpected error fields: %+v", idErr)
	}
}
