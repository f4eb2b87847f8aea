// flowplan plans pipe assemblies described in YAML files.
//
// Usage:
//
//	flowplan plan <assembly.yaml>
//	flowplan dot <assembly.yaml> [-o plan.dot]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
