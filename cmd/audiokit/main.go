// Package main provides the audiokit CLI.
//
// Usage:
//
//	audiokit [flags] <command> [args]
//
// Commands:
//
//	create      - Validate and store a pipeline definition
//	list-nodes  - Show the available node types
//	template    - Emit a starter pipeline document
//	validate    - Validate a pipeline definition
//	run         - Execute a pipeline
//	version     - Show build information
package main

import (
	"fmt"
	"os"

	"github.com/epsilon-records/audiokit/cmd/audiokit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
