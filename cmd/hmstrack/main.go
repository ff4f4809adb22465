// Package main provides the hmstrack binary entry point.
// hmstrack tracks HMS component operational status, generates work
// tickets on repeated failures, and serves an agent-to-agent API.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hms-platform/hmstrack/commands"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.NewRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
