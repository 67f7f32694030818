// SPDX-License-Identifier: MPL-2.0

// Package issue holds the user-facing side of capwire errors: actionable
// errors with suggestions, and a catalog of Markdown explanations for every
// resolution failure and CLI problem, rendered for the terminal.
package issue
