package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dl/globwalk"
	"github.com/dl/globwalk/cmd/globwalk/internal/style"
)

func newWalkCmd() *cobra.Command {
	var (
		depth          int
		hasDepth       bool
		noFile         bool
		noDir          bool
		noSymlink      bool
		followSymlinks bool
		excludes       []string
	)

	cmd := &cobra.Command{
		Use:   "walk <pattern>",
		Short: "Walk the filesystem, printing every matching path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			walkID := uuid.NewString()
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
			logger = logger.With("walk_id", walkID)

			hasDepth = cmd.Flags().Changed("depth")
			opts, err := buildWalkOptions(hasDepth, depth, noFile, noDir, noSymlink, followSymlinks, excludes)
			if err != nil {
				return err
			}

			compiled, err := glob.New(args[0]).Compile(opts)
			if err != nil {
				return err
			}

			styles := style.For(colorFlag)
			logger.Debug("starting walk", "pattern", args[0], "prefix", compiled.Prefix())

			w := compiled.Walk()
			matched := false
			out := cmd.OutOrStdout()
			for w.Next() {
				if err := w.Err(); err != nil {
					logger.Warn("walk error", "err", err)
					continue
				}
				matched = true
				fmt.Fprintln(out, styles.Match.Render(w.Path()))
			}

			if !matched {
				exitCode = 1
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "maximum descent depth beyond the walk's start")
	cmd.Flags().BoolVar(&noFile, "no-file", false, "exclude regular files from results")
	cmd.Flags().BoolVar(&noDir, "no-dir", false, "exclude directories from results")
	cmd.Flags().BoolVar(&noSymlink, "no-symlink", false, "exclude symlinks from results")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "exclusion pattern (repeatable)")
	return cmd
}
