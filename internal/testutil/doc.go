// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that need manifests and
// configuration files on disk.
package testutil
