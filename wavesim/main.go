// Package main provides the wavesim command.
package main

import "github.com/sarchlab/wavesim/wavesim/cmd"

func main() {
	cmd.Execute()
}
