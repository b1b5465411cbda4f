package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dl/globwalk"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Parse a pattern and dump its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := glob.New(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), g.String())
			return nil
		},
	}
}
