package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dl/globwalk"
)

func newMatchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matches <pattern> <path>",
		Short: "Test a single path against a pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, err := glob.New(args[0]).Compile(glob.WalkOptions{})
			if err != nil {
				return err
			}
			matched := compiled.Matches(args[1])
			fmt.Fprintln(cmd.OutOrStdout(), matched)
			if !matched {
				exitCode = 1
			}
			return nil
		},
	}
}
