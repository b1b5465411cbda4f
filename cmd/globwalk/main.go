// Command globwalk is a small demonstration CLI over the glob package: it
// parses, compiles, tests, and walks patterns from the command line, in
// the spirit of nu-glob2's own worked-example binary.
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           log.WarnLevel,
	})

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(2)
	}
	os.Exit(exitCode)
}
