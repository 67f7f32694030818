// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the capwire command line: checking manifests for
// capability completeness, printing assembly graphs and explaining
// resolution failures.
package cmd
