// SPDX-License-Identifier: MPL-2.0

// Command capwire checks capability wiring manifests.
package main

import "github.com/capwire/capwire/cmd/capwire"

func main() {
	cmd.Execute()
}
