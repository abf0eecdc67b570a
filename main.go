// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/pageshell/cmd/pageshell"

func main() {
	cmd.Execute()
}
