// Package matcher tests a path against a compiled Program, producing a
// MatchResult that tells a caller both whether the path is a complete match
// and whether it is a viable prefix of some longer match (the signal the
// walker uses to decide whether to descend).
package matcher

import (
	"strings"
	"unicode"

	"github.com/dl/globwalk/internal/compiler"
)

// MatchResult is the matcher's verdict on a single path (spec §4.3).
type MatchResult struct {
	ValidAsCompleteMatch bool
	ValidAsPrefix        bool
}

// PathMatches tests path against program, splitting it into components and
// aligning them against the program's compiled segments.
func PathMatches(path string, program *compiler.Program) MatchResult {
	comps, anchorOK := splitComponents(path, program)
	if !anchorOK {
		return MatchResult{}
	}

	a := &aligner{segs: program.Segments, comps: comps, ci: program.CaseInsensitive}
	return MatchResult{
		ValidAsCompleteMatch: a.matchFull(0, 0),
		ValidAsPrefix:        a.matchPrefix(0, 0),
	}
}

// splitComponents strips the program's anchoring (drive, leading separator)
// from path and splits what remains into path components. anchorOK is false
// when the path's anchoring disagrees with the program's.
func splitComponents(path string, program *compiler.Program) (comps []string, anchorOK bool) {
	rest := path

	if program.Drive != "" {
		wantDrive := program.Drive
		if len(rest) < len(wantDrive) || !strings.EqualFold(rest[:len(wantDrive)], wantDrive) {
			return nil, false
		}
		rest = rest[len(wantDrive):]
	}

	if program.Anchored {
		if !strings.HasPrefix(rest, "/") {
			return nil, false
		}
		rest = strings.TrimPrefix(rest, "/")
	} else if strings.HasPrefix(rest, "/") {
		// An unanchored program never matches an absolute path.
		return nil, false
	}

	if rest == "" {
		return nil, true
	}

	raw := strings.Split(rest, "/")
	comps = raw[:0:0]
	for _, c := range raw {
		if c != "" {
			comps = append(comps, c)
		}
	}
	return comps, true
}

// aligner walks the program's segment list against a path's component list.
// Recursive segments (`**`) consume zero or more components; every other
// segment consumes exactly one, via its own atom-level sub-match.
type aligner struct {
	segs []compiler.CompiledSegment
	comps []string
	ci    bool
}

// matchFull reports whether segs[segIdx:] matches comps[compIdx:] exactly,
// consuming every remaining component.
func (a *aligner) matchFull(segIdx, compIdx int) bool {
	if segIdx == len(a.segs) {
		return compIdx == len(a.comps)
	}
	seg := a.segs[segIdx]
	if seg.Kind == compiler.KindRecursive {
		for k := compIdx; k <= len(a.comps); k++ {
			if a.matchFull(segIdx+1, k) {
				return true
			}
		}
		return false
	}
	if compIdx >= len(a.comps) {
		return false
	}
	if !matchSegmentAtoms(seg.Atoms, a.comps[compIdx], a.ci) {
		return false
	}
	return a.matchFull(segIdx+1, compIdx+1)
}

// matchPrefix reports whether comps is extendable into a full match: every
// component is consumed, but trailing unmatched segments are allowed
// (spec §4.3 point 4). An empty comps list is always a valid prefix — the
// starting directory itself, before any descent, can always be extended.
func (a *aligner) matchPrefix(segIdx, compIdx int) bool {
	if compIdx == len(a.comps) {
		return true
	}
	if segIdx == len(a.segs) {
		return false
	}
	seg := a.segs[segIdx]
	if seg.Kind == compiler.KindRecursive {
		for k := compIdx; k <= len(a.comps); k++ {
			if a.matchPrefix(segIdx+1, k) {
				return true
			}
		}
		return false
	}
	if !matchSegmentAtoms(seg.Atoms, a.comps[compIdx], a.ci) {
		return false
	}
	return a.matchPrefix(segIdx+1, compIdx+1)
}

// segMatcher runs a small nondeterministic matcher over one segment's atoms
// against the characters of one path component. Implemented in
// continuation-passing style so that Alternation and Counted atoms, whose
// consumed-length is variable, compose with whatever comes after them
// without a separate "does this sub-sequence match to the end" pass.
//
// Worst case is exponential in pathologically nested Alternation/Counted
// patterns (spec §4.3); acceptable since counts are bounded by 65535 and
// patterns are human-authored, not generated input.
type segMatcher struct {
	comp []rune
	ci   bool
}

func matchSegmentAtoms(atoms []compiler.Atom, component string, ci bool) bool {
	m := &segMatcher{comp: []rune(component), ci: ci}
	return m.matchSeq(atoms, 0, 0, func(end int) bool { return end == len(m.comp) })
}

// matchSeq tries to match atoms[ai:] starting at comp position pos, calling
// cont with every candidate end position; it succeeds if any call to cont
// succeeds.
func (m *segMatcher) matchSeq(atoms []compiler.Atom, ai, pos int, cont func(int) bool) bool {
	if ai == len(atoms) {
		return cont(pos)
	}
	atom := atoms[ai]

	switch atom.Kind {
	case compiler.AtomLiteral:
		lit := []rune(atom.Literal)
		if pos+len(lit) > len(m.comp) {
			return false
		}
		if !runesEqualFold(m.comp[pos:pos+len(lit)], lit, m.ci) {
			return false
		}
		return m.matchSeq(atoms, ai+1, pos+len(lit), cont)

	case compiler.AtomAnyChar:
		if pos >= len(m.comp) {
			return false
		}
		return m.matchSeq(atoms, ai+1, pos+1, cont)

	case compiler.AtomAnyRun:
		for end := len(m.comp); end >= pos; end-- {
			if m.matchSeq(atoms, ai+1, end, cont) {
				return true
			}
		}
		return false

	case compiler.AtomCharClass:
		if pos >= len(m.comp) {
			return false
		}
		if !classContains(atom, m.comp[pos], m.ci) {
			return false
		}
		return m.matchSeq(atoms, ai+1, pos+1, cont)

	case compiler.AtomAlternation:
		for _, branch := range atom.Branches {
			if m.matchSeq(branch, 0, pos, func(end int) bool {
				return m.matchSeq(atoms, ai+1, end, cont)
			}) {
				return true
			}
		}
		return false

	case compiler.AtomCounted:
		return m.repeat(atom.Child, 0, atom.Min, atom.Max, pos, func(end int) bool {
			return m.matchSeq(atoms, ai+1, end, cont)
		})
	}
	return false
}

// repeat matches Child between min and max times starting at pos, calling
// cont once the repetition count is within bounds and no more repeats are
// attempted at that point.
func (m *segMatcher) repeat(child []compiler.Atom, done, min, max uint32, pos int, cont func(int) bool) bool {
	if done >= min {
		if cont(pos) {
			return true
		}
	}
	if done >= max {
		return false
	}
	return m.matchSeq(child, 0, pos, func(end int) bool {
		return m.repeat(child, done+1, min, max, end, cont)
	})
}

func runesEqualFold(comp, lit []rune, ci bool) bool {
	for i := range lit {
		c := comp[i]
		if ci {
			c = unicode.ToLower(c)
		}
		if c != lit[i] {
			return false
		}
	}
	return true
}

func classContains(atom compiler.Atom, c rune, ci bool) bool {
	if ci {
		c = unicode.ToLower(c)
	}
	in := false
	for _, r := range atom.Ranges {
		if c >= r.Lo && c <= r.Hi {
			in = true
			break
		}
	}
	if atom.Negated {
		return !in
	}
	return in
}
