// deliberate: structured team reasoning MCP server
//
// Exposes the deliberatethinking tool over MCP stdio so an AI host can
// reason step by step as a small team (project manager, pragmatic
// programmer, product visionary) and get a project manager report back
// on every step.
//
// Usage:
//
//	deliberate serve      # Start MCP server (stdio transport)
//	deliberate journal    # Print recorded transcripts
//	deliberate version    # Print the version
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
