package glob

import (
	"strings"

	"github.com/dl/globwalk/internal/walker"
)

// Walker is a pull-driven filesystem walk produced by CompiledGlob.Walk.
// Advance it with Next; Path and Err describe the current item. Not safe
// for concurrent use (spec §5: single-threaded, cooperative traversal).
type Walker struct {
	it *walker.Iterator

	// outputPrefix is the directory the walk started from when that start
	// came from the pattern's own static prefix (as opposed to the
	// process's working directory). Path joins it back onto each result so
	// callers get a path usable without knowing where the walk began.
	outputPrefix string
}

// Next advances the walk. It returns false once exhausted.
func (w *Walker) Next() bool { return w.it.Next() }

// Path returns the current item's path. When the compiled pattern carried
// a static prefix, that prefix is included; otherwise the path is relative
// to the process's working directory, matching what a caller would pass to
// os.Open.
func (w *Walker) Path() string {
	rel := w.it.Path()
	if w.outputPrefix == "" {
		return rel
	}
	if rel == "" {
		return w.outputPrefix
	}
	return strings.TrimSuffix(w.outputPrefix, "/") + "/" + rel
}

// Err returns the error associated with the current item, if any. A
// non-nil Err does not by itself stop the walk; Next keeps working through
// the remaining stack (spec §7).
func (w *Walker) Err() error {
	err := w.it.Err()
	if err == nil {
		return nil
	}
	return &GlobError{Kind: KindIO, Path: w.it.Path(), Err: err}
}
