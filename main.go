// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/vsmodpack/vsmodpack/cmd/vsmodpack"

func main() {
	cmd.Execute()
}
