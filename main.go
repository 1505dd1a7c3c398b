// SPDX-License-Identifier: MPL-2.0

// amdpack statically resolves, bundles and configures AMD modules.
package main

import "github.com/amdpack/amdpack/cmd/amdpack"

func main() {
	cmd.Execute()
}
