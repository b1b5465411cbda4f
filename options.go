package glob

import "github.com/dl/globwalk/internal/walker"

// FilterType enumerates the entry kinds a WalkOptions type filter can
// suppress from the walk's yielded results (spec §6).
type FilterType = walker.FilterType

const (
	FilterFile       = walker.FilterFile
	FilterDirectory  = walker.FilterDirectory
	FilterSymlink    = walker.FilterSymlink
)

// WalkOptions configures a CompiledGlob's walk: depth limiting, type
// filtering, symlink policy, and additional exclusion patterns (spec §3,
// §6). The zero value walks everything: no depth limit, no type
// exclusions, symlinks not followed, no exclusions — fields are exported
// for direct struct-literal construction; the With* methods are chaining
// sugar over the same fields.
type WalkOptions struct {
	MaxDepth           *int
	ExcludeFiles       bool
	ExcludeDirectories bool
	ExcludeSymlinks    bool
	FollowSymlinks     bool
	Exclusions         []CompiledGlob
}

// NewWalkOptions returns the default WalkOptions: unrestricted.
func NewWalkOptions() *WalkOptions {
	return &WalkOptions{}
}

// WithMaxDepth caps descent to n path components beyond the walk's start.
func (o *WalkOptions) WithMaxDepth(n int) *WalkOptions {
	o.MaxDepth = &n
	return o
}

// WithExcludeFiles suppresses regular files from the yielded results.
func (o *WalkOptions) WithExcludeFiles(exclude bool) *WalkOptions {
	o.ExcludeFiles = exclude
	return o
}

// WithExcludeDirectories suppresses directories from the yielded results
// (descent into them still happens; only yielding is affected).
func (o *WalkOptions) WithExcludeDirectories(exclude bool) *WalkOptions {
	o.ExcludeDirectories = exclude
	return o
}

// WithExcludeSymlinks suppresses symlinks from the yielded results.
func (o *WalkOptions) WithExcludeSymlinks(exclude bool) *WalkOptions {
	o.ExcludeSymlinks = exclude
	return o
}

// WithFollowSymlinks controls whether the walker descends into symlinked
// directories. Defaults to false (Open Question 2: traversing a symlinked
// directory risks unbounded expansion on a mislabeled tree, so the safer
// default wins absent caller intent).
func (o *WalkOptions) WithFollowSymlinks(follow bool) *WalkOptions {
	o.FollowSymlinks = follow
	return o
}

// WithExclusions adds compiled glob patterns that prune matching
// directories from descent and filter matching paths from the results,
// regardless of type (Open Question 1).
func (o *WalkOptions) WithExclusions(exclusions ...CompiledGlob) *WalkOptions {
	o.Exclusions = append(o.Exclusions, exclusions...)
	return o
}
