// Package walker performs a single-threaded, pull-driven traversal of a
// filesystem subtree, using a compiled Program to decide per-entry whether
// to yield a path, descend into it, or skip it — honouring exclusions,
// depth limits, symlink policy, and type filters (spec §4.4).
package walker

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/dl/globwalk/internal/compiler"
	"github.com/dl/globwalk/internal/matcher"
)

// FilterType enumerates the entry kinds a WalkOptions type filter can
// suppress (spec §6).
type FilterType int

const (
	FilterFile FilterType = iota
	FilterDirectory
	FilterSymlink
)

// Options configures one walk (the filesystem-facing half of spec §3's
// WalkOptions; MaxDepth is a pointer so "unset" is distinguishable from 0).
type Options struct {
	MaxDepth           *int
	ExcludeFiles       bool
	ExcludeDirectories bool
	ExcludeSymlinks    bool
	FollowSymlinks     bool
	Exclusions         []*compiler.Program
}

// Error wraps an I/O failure encountered while walking, with enough context
// (the offending path, the wrapped error) for a host to render its own
// diagnostic (spec §7's Io kind).
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// frame is one directory on the DFS stack.
type frame struct {
	relPath string // path relative to the walk's start, "" for the start dir itself
	absPath string // path usable to open/read the directory
	entries []os.DirEntry
	idx     int
	devIno  [2]int64
}

// Iterator is a pull-driven walk over a filesystem subtree. Advance with
// Next; read the current item with Path/Err. Not safe for concurrent use by
// more than one goroutine, matching spec §5's single-threaded model.
type Iterator struct {
	program *compiler.Program
	opts    Options

	stack []frame
	seen  map[[2]int64]struct{} // dev/ino pairs currently on the descent stack

	curPath string
	curErr  error
	done    bool
	started bool

	// pending holds a walk error discovered while descending into a
	// directory that was also yielded as a complete match this call;
	// delivered on the very next Next() call, since one call can only
	// report one item. pendingRelPath is that entry's path relative to
	// the walk's start, matching what a normal yield reports via Path.
	pending        *Error
	pendingRelPath string
}

// New creates an Iterator rooted at start (program.AbsolutePrefix, or the
// caller-supplied fallback when the program has no static prefix).
func New(program *compiler.Program, opts Options, start string) *Iterator {
	return &Iterator{
		program: program,
		opts:    opts,
		seen:    make(map[[2]int64]struct{}),
		stack:   []frame{{relPath: "", absPath: start}},
	}
}

// Next advances the iterator. It returns false once the walk is exhausted;
// Path/Err are meaningless after that point.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	it.curPath = ""
	it.curErr = nil

	if !it.started {
		it.started = true
		if !it.openStartFrame() {
			it.done = true
			return it.curErr != nil
		}
	}

	if it.pending != nil {
		it.curPath = it.pendingRelPath
		it.curErr = it.pending
		it.pending = nil
		it.pendingRelPath = ""
		return true
	}

	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]

		if top.idx >= len(top.entries) {
			it.stack = it.stack[:len(it.stack)-1]
			if len(it.seen) > 0 {
				delete(it.seen, top.devIno)
			}
			continue
		}

		entry := top.entries[top.idx]
		top.idx++

		name := entry.Name()
		relPath := joinRel(top.relPath, name)
		absPath := filepath.Join(top.absPath, name)
		depth := len(it.stack) // depth of this entry (components beyond start)

		if it.opts.MaxDepth != nil && depth > *it.opts.MaxDepth {
			continue
		}

		kind, isDir, target, statErr := it.classify(entry, absPath)

		result := matcher.PathMatches(relPath, it.program)

		// Yielding and descending are independent: a directory that is
		// itself a complete match (e.g. under a bare "**/*") must still be
		// descended into to reach what's inside it, so both are evaluated
		// for every directory entry regardless of the other's outcome.
		shouldYield := result.ValidAsCompleteMatch && !it.typeExcluded(kind) && !it.excludedComplete(relPath)
		var descendErr *Error

		if isDir && (result.ValidAsPrefix || it.program.HasRecursive) && !it.excludedPrune(relPath) {
			switch {
			case kind == FilterSymlink && !it.opts.FollowSymlinks:
				// not followed: no descent, no error
			case statErr != nil:
				descendErr = &Error{Path: absPath, Err: statErr}
			default:
				descendAbs := absPath
				if target != "" {
					descendAbs = target
				}
				if pushErr, loop := it.pushDir(relPath, descendAbs); pushErr != nil {
					descendErr = pushErr
				} else if loop {
					// symlink loop: silently terminate this branch
				}
			}
		}

		if descendErr != nil {
			if shouldYield {
				it.pending = descendErr
				it.pendingRelPath = relPath
			} else {
				it.curPath = relPath
				it.curErr = descendErr
				return true
			}
		}

		if shouldYield {
			it.curPath = relPath
			return true
		}
	}

	it.done = true
	return false
}

// Path returns the relative path (from the walk's start) of the current
// item.
func (it *Iterator) Path() string { return it.curPath }

// Err returns the error associated with the current item, if any. A
// non-nil Err at an item does not stop the walk (except for the initial
// start-directory failure, which terminates it — spec §7).
func (it *Iterator) Err() error { return it.curErr }

// openStartFrame reads the start directory's entries. A failure here is
// reported once via curErr and terminates the walk, per spec §7 ("a
// non-existent starting prefix yields a single error item and terminates").
func (it *Iterator) openStartFrame() bool {
	top := &it.stack[0]
	entries, err := os.ReadDir(top.absPath)
	if err != nil {
		it.curErr = &Error{Path: top.absPath, Err: err}
		return false
	}
	top.entries = entries
	if devIno, ok := statDevIno(top.absPath); ok {
		top.devIno = devIno
		it.seen[devIno] = struct{}{}
	}
	return true
}

// pushDir opens dir for descent, guarding against symlink loops via the
// dev/ino pair already present on the current descent stack (spec §4.4,
// testable property 6). loop is true when a loop was detected: the branch
// is silently terminated, no error (per spec: "a symlink loop ...
// terminates that branch with no error"). A non-nil err means the
// directory could not be read and should be surfaced as one walk error
// item; the branch still contributes no children.
func (it *Iterator) pushDir(relPath, absPath string) (err *Error, loop bool) {
	devIno, ok := statDevIno(absPath)
	if ok {
		if _, isLoop := it.seen[devIno]; isLoop {
			return nil, true
		}
	}

	entries, readErr := os.ReadDir(absPath)
	if ok {
		it.seen[devIno] = struct{}{}
	}
	if readErr != nil {
		// Push a frame with no entries so the stack-pop bookkeeping (and
		// seen-set release) below still runs; contributes no children.
		it.stack = append(it.stack, frame{relPath: relPath, absPath: absPath, devIno: devIno})
		return &Error{Path: absPath, Err: readErr}, false
	}

	it.stack = append(it.stack, frame{relPath: relPath, absPath: absPath, entries: entries, devIno: devIno})
	return nil, false
}

// classify determines an entry's FilterType, whether it should be treated
// as a directory for descent purposes, and (for a followed symlink) the
// realpath to descend into.
func (it *Iterator) classify(entry os.DirEntry, absPath string) (kind FilterType, isDir bool, target string, statErr error) {
	mode := entry.Type()
	switch {
	case mode&os.ModeSymlink != 0:
		if !it.opts.FollowSymlinks {
			return FilterSymlink, false, "", nil
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return FilterSymlink, true, "", err
		}
		if !info.IsDir() {
			return FilterSymlink, false, "", nil
		}
		resolved, err := filepath.EvalSymlinks(absPath)
		if err != nil {
			return FilterSymlink, true, "", err
		}
		return FilterSymlink, true, resolved, nil
	case mode.IsDir():
		return FilterDirectory, true, "", nil
	default:
		return FilterFile, false, "", nil
	}
}

func (it *Iterator) typeExcluded(kind FilterType) bool {
	switch kind {
	case FilterFile:
		return it.opts.ExcludeFiles
	case FilterDirectory:
		return it.opts.ExcludeDirectories
	case FilterSymlink:
		return it.opts.ExcludeSymlinks
	}
	return false
}

func (it *Iterator) excludedComplete(relPath string) bool {
	for _, excl := range it.opts.Exclusions {
		if matcher.PathMatches(relPath, excl).ValidAsCompleteMatch {
			return true
		}
	}
	return false
}

// excludedPrune mirrors excludedComplete; kept as a separate name so the
// two call sites in Next (file-yield filtering vs. directory-descent
// pruning) read as the two distinct behaviours spec §9's open question
// asks for, even though the check is identical.
func (it *Iterator) excludedPrune(relPath string) bool {
	return it.excludedComplete(relPath)
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func statDevIno(path string) ([2]int64, bool) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return [2]int64{}, false
	}
	return [2]int64{int64(st.Dev), int64(st.Ino)}, true
}

// IsNotExist reports whether err is (or wraps) a not-found error, such as
// the one reported as the single terminal item of a walk whose start
// directory does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
