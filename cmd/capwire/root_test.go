// SPDX-License-Identifier: MPL-2.0

package cmd

import "testing"

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate.

	restore := func(t *testing.T) {
		t.Helper()
		v, c, b := Version, Commit, BuildDate
		t.Cleanup(func() { Version, Commit, BuildDate = v, c, b })
	}

	t.Run("ldflags", func(t *testing.T) {
		restore(t)
		Version, Commit, BuildDate = "v0.3.0", "abc1234", "2026-01-02T03:04:05Z"
		want := "v0.3.0 (commit: abc1234, built: 2026-01-02T03:04:05Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev", func(t *testing.T) {
		restore(t)
		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestExitErrorMessage(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
}
