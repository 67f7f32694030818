// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of capwire, used for
// PGO profiles:
//   - manifest parsing and schema validation for every format
//   - manifest building and context resolution
//   - wiring, instance assembly and capability calls
//
// Run them with:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
