// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when manifest files change.
//
// A Watcher monitors a directory tree and calls OnChange once events have
// been quiet for the debounce period, with every changed path collected in
// that window. Paths are filtered through doublestar globs.
package watch
