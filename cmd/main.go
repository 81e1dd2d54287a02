// ABOUTME: Entry point for the compliance-archiver CLI
// ABOUTME: Delegates to the cobra command tree and maps failure to the exit code

package main

import (
	"os"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
