package main

import (
	"github.com/dl/globwalk"
)

// buildWalkOptions assembles a glob.WalkOptions from the CLI's shared
// walk-shaping flags, compiling each --exclude pattern along the way.
// hasDepth distinguishes "flag not given" from "--depth 0".
func buildWalkOptions(hasDepth bool, depth int, noFile, noDir, noSymlink, followSymlinks bool, excludes []string) (glob.WalkOptions, error) {
	opts := glob.NewWalkOptions().
		WithExcludeFiles(noFile).
		WithExcludeDirectories(noDir).
		WithExcludeSymlinks(noSymlink).
		WithFollowSymlinks(followSymlinks)
	if hasDepth {
		opts = opts.WithMaxDepth(depth)
	}

	for _, pat := range excludes {
		compiled, err := glob.New(pat).Compile(glob.WalkOptions{})
		if err != nil {
			return glob.WalkOptions{}, err
		}
		opts = opts.WithExclusions(compiled)
	}
	return *opts, nil
}
