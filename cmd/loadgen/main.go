package main

import (
	"github.com/armadaproject/loadgen/cmd/loadgen/cmd"
)

func main() {
	cmd.Execute()
}
