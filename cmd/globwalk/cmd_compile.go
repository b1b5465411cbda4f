package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dl/globwalk"
)

func newCompileCmd() *cobra.Command {
	var excludes []string

	cmd := &cobra.Command{
		Use:   "compile <pattern>",
		Short: "Compile a pattern and print its program summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildWalkOptions(false, 0, false, false, false, false, excludes)
			if err != nil {
				return err
			}
			compiled, err := glob.New(args[0]).Compile(opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), compiled.String())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "exclusion pattern (repeatable)")
	return cmd
}
