// Package glob parses, compiles, and evaluates shell-style glob patterns
// against a real filesystem. It layers three stages — a total pattern
// parser, a bounds-checked compiler, and a single-threaded pull-driven
// filesystem walker — behind the two public types below:
//
//	Glob         a parsed pattern, not yet bound to any WalkOptions.
//	CompiledGlob a Glob compiled against a WalkOptions, ready to match
//	             individual paths or walk a filesystem subtree.
package glob

import (
	"errors"
	"os"

	"github.com/dl/globwalk/internal/compiler"
	"github.com/dl/globwalk/internal/matcher"
	"github.com/dl/globwalk/internal/parser"
	"github.com/dl/globwalk/internal/walker"
)

// Glob is a parsed, uncompiled pattern.
type Glob struct {
	patternString string
	pattern       *parser.Pattern
}

// New parses patternString into a Glob. Parsing never fails: any construct
// it doesn't recognise degrades to a literal (spec §2's parser is total).
func New(patternString string) Glob {
	return Glob{patternString: patternString, pattern: parser.Parse(patternString)}
}

// PatternString returns the original pattern text.
func (g Glob) PatternString() string { return g.patternString }

// String implements fmt.Stringer by rendering the parsed pattern tree, for
// diagnostic use (e.g. the `parse` subcommand).
func (g Glob) String() string { return g.pattern.String() }

// Compile lowers g into a CompiledGlob bound to opts. The only failure mode
// is a Counted repetition whose bound exceeds the compiler's 65535 limit,
// reported as a *GlobError with Kind KindCounterOverflow (spec §4.2, §7).
func (g Glob) Compile(opts WalkOptions) (CompiledGlob, error) {
	program, err := compiler.Compile(g.patternString, g.pattern)
	if err != nil {
		var overflow *compiler.CounterOverflowError
		if errors.As(err, &overflow) {
			return CompiledGlob{}, &GlobError{Kind: KindCounterOverflow, Value: overflow.Value, Err: err}
		}
		return CompiledGlob{}, &GlobError{Kind: KindIO, Err: err}
	}
	return CompiledGlob{patternString: g.patternString, program: program, options: opts}, nil
}

// CompiledGlob is a Glob compiled against a WalkOptions: an immutable
// matching plan ready to test individual paths or drive a filesystem walk.
type CompiledGlob struct {
	patternString string
	program       *compiler.Program
	options       WalkOptions
}

// PatternString returns the original pattern text.
func (c CompiledGlob) PatternString() string { return c.patternString }

// String implements fmt.Stringer by rendering the compiled program's debug
// summary, for diagnostic use (e.g. the `compile` subcommand).
func (c CompiledGlob) String() string { return c.program.String() }

// Prefix returns the static literal prefix the compiler extracted from the
// pattern, or "" if the pattern has none. A Walk starts here.
func (c CompiledGlob) Prefix() string { return c.program.AbsolutePrefix }

// Matches reports whether path is a complete match for the compiled
// pattern, independent of any filesystem walk (spec §6's Matches
// operation).
func (c CompiledGlob) Matches(path string) bool {
	return matcher.PathMatches(path, c.program).ValidAsCompleteMatch
}

// Walk starts a pull-driven traversal honouring c's WalkOptions. It begins
// at c.Prefix() when the pattern carries a static prefix, otherwise at the
// process's current working directory (spec §4.4, §6's Walk operation).
// Advance the returned Walker with Next; read each item with Path/Err.
func (c CompiledGlob) Walk() *Walker {
	start := c.program.AbsolutePrefix
	outputPrefix := start
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			start = wd
		} else {
			start = "."
		}
	}

	// Exclusions are matched against the path the main walk computes
	// (relative to its own start), never against their own prefix — so
	// unlike c.program they are NOT passed through Remainder(); an
	// exclusion's own absolute_prefix is only meaningful if it were walked
	// on its own, which it never is here.
	exclusions := make([]*compiler.Program, len(c.options.Exclusions))
	for i, excl := range c.options.Exclusions {
		exclusions[i] = excl.program
	}

	opts := walker.Options{
		MaxDepth:           c.options.MaxDepth,
		ExcludeFiles:       c.options.ExcludeFiles,
		ExcludeDirectories: c.options.ExcludeDirectories,
		ExcludeSymlinks:    c.options.ExcludeSymlinks,
		FollowSymlinks:     c.options.FollowSymlinks,
		Exclusions:         exclusions,
	}

	it := walker.New(c.program.Remainder(), opts, start)
	return &Walker{it: it, outputPrefix: outputPrefix}
}

// WalkAndFilter walks c to completion and returns the paths that satisfy
// fn. Per-entry errors (an unreadable subdirectory, say) are skipped, not
// fatal, matching Walk's own recovery behaviour; the first one encountered
// is returned alongside whatever paths were collected. A convenience
// wrapper over Walk for callers that want a plain slice instead of
// pull-driven iteration.
func (c CompiledGlob) WalkAndFilter(fn func(path string) bool) ([]string, error) {
	var out []string
	var firstErr error
	w := c.Walk()
	for w.Next() {
		if err := w.Err(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if fn == nil || fn(w.Path()) {
			out = append(out, w.Path())
		}
	}
	return out, firstErr
}
