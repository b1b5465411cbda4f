package main

import (
	"github.com/spf13/cobra"
)

var colorFlag string

// exitCode lets a subcommand signal "ran fine, but nothing matched" (exit
// 1) without returning an error cobra would print as a failure. Mirrors
// this module's ambient CLI convention of a plain int exit code.
var exitCode int

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "globwalk",
		Short:         "Parse, compile, and evaluate shell-style glob patterns",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, never")

	root.AddCommand(newParseCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newMatchesCmd())
	root.AddCommand(newWalkCmd())
	return root
}
