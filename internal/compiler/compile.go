// Package compiler lowers a parsed Pattern tree into an immutable Program:
// an ordered list of compiled segment matchers plus a static literal
// prefix the walker can use to anchor traversal.
package compiler

import (
	"strings"
	"unicode"

	"github.com/dl/globwalk/internal/parser"
)

// maxCounterValue is the u16::MAX bound from spec §3/§4.2.
const maxCounterValue = 65535

// CounterOverflowError is returned when a Counted node's bounds exceed
// maxCounterValue.
type CounterOverflowError struct {
	Value uint32
}

func (e *CounterOverflowError) Error() string {
	return "counter value exceeds 65535: " + itoa(e.Value)
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var digits [10]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// SegmentKind distinguishes a Recursive segment from an ordinary one.
type SegmentKind int

const (
	KindLiteralSeq SegmentKind = iota
	KindRecursive
)

// Atom is one compiled matching primitive inside a segment, the lowered
// form of a parser.Node.
type Atom struct {
	Kind       AtomKind
	Literal    string      // AtomLiteral
	Ranges     []parser.Range // AtomCharClass
	Negated    bool        // AtomCharClass
	Branches   [][]Atom    // AtomAlternation: one compiled sequence per branch
	Child      []Atom      // AtomCounted: compiled child sequence
	Min, Max   uint32      // AtomCounted
}

// AtomKind enumerates the compiled atom variants.
type AtomKind int

const (
	AtomLiteral AtomKind = iota
	AtomAnyChar
	AtomAnyRun
	AtomCharClass
	AtomAlternation
	AtomCounted
)

// CompiledSegment is one compiled path component matcher.
type CompiledSegment struct {
	Kind  SegmentKind
	Atoms []Atom // empty when Kind == KindRecursive
}

// Program is the compiler's output: an immutable matching plan.
type Program struct {
	PatternString  string
	Segments       []CompiledSegment
	AbsolutePrefix string // empty when the pattern has no static literal prefix
	Anchored       bool
	Drive          string
	HasRecursive   bool
	CaseInsensitive bool

	// PrefixSegmentCount is how many leading entries of Segments were
	// folded into AbsolutePrefix. A walker that starts at AbsolutePrefix
	// already stands past those segments, so it must match the remainder
	// (see Remainder) against paths relative to that start, not the full
	// segment list.
	PrefixSegmentCount int
}

// Remainder returns the Program a walker should match against once it has
// already descended into AbsolutePrefix: the leading literal segments
// consumed by the prefix are dropped, and anchoring is cleared since the
// walk is now relative to that directory, not the filesystem root.
// Programs with no static prefix return themselves unchanged.
func (pr *Program) Remainder() *Program {
	if pr.AbsolutePrefix == "" {
		return pr
	}
	return &Program{
		PatternString:   pr.PatternString,
		Segments:        pr.Segments[pr.PrefixSegmentCount:],
		HasRecursive:    pr.HasRecursive,
		CaseInsensitive: pr.CaseInsensitive,
	}
}

// String renders a short debug summary of the program, in the spirit of
// nu-glob2's `impl Display for Program` (used by `cmd/globwalk compile`).
func (pr *Program) String() string {
	var b strings.Builder
	b.WriteString(pr.PatternString)
	b.WriteString("\n")
	if pr.AbsolutePrefix != "" {
		b.WriteString("  prefix: " + pr.AbsolutePrefix + "\n")
	}
	b.WriteString("  segments: ")
	for i, seg := range pr.Segments {
		if i > 0 {
			b.WriteString(" / ")
		}
		if seg.Kind == KindRecursive {
			b.WriteString("**")
		} else {
			b.WriteString("<segment:")
			b.WriteString(itoa(uint32(len(seg.Atoms))))
			b.WriteString(" atoms>")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// Compile lowers a parsed Pattern to a Program, extracting the static
// literal prefix and bounds-checking every Counted node.
func Compile(patternString string, pattern *parser.Pattern) (*Program, error) {
	pr := &Program{
		PatternString:   patternString,
		Anchored:        pattern.Root.Anchored,
		Drive:           pattern.Root.Drive,
		CaseInsensitive: pattern.CaseInsensitive,
	}

	for _, seg := range pattern.Root.Segments {
		if seg.Recursive {
			pr.HasRecursive = true
			pr.Segments = append(pr.Segments, CompiledSegment{Kind: KindRecursive})
			continue
		}
		atoms, err := compileSequence(seg.Items, pattern.CaseInsensitive)
		if err != nil {
			return nil, err
		}
		pr.Segments = append(pr.Segments, CompiledSegment{Kind: KindLiteralSeq, Atoms: atoms})
	}

	pr.AbsolutePrefix = extractPrefix(pr)
	return pr, nil
}

// extractPrefix consumes leading segments that are pure literals (a single
// AtomLiteral atom, nothing else) and joins them with the drive/root, per
// spec §4.2 point 1.
func extractPrefix(pr *Program) string {
	var parts []string
	if pr.Drive != "" {
		parts = append(parts, pr.Drive)
	}

	// A case-folded literal no longer names an on-disk directory reliably
	// (the real entry may use any case), so a case-insensitive pattern
	// never consumes segments into the prefix beyond the drive/root.
	consumed := 0
	if !pr.CaseInsensitive {
		for _, seg := range pr.Segments {
			if seg.Kind != KindLiteralSeq || len(seg.Atoms) != 1 || seg.Atoms[0].Kind != AtomLiteral {
				break
			}
			parts = append(parts, seg.Atoms[0].Literal)
			consumed++
		}
	}
	pr.PrefixSegmentCount = consumed

	if len(parts) == 0 {
		if pr.Anchored {
			return "/"
		}
		return ""
	}

	prefix := strings.Join(parts, "/")
	if pr.Anchored && pr.Drive == "" {
		prefix = "/" + prefix
	}
	return prefix
}

// compileSequence lowers a parser node sequence into compiled atoms,
// folding case when the pattern carries (?i).
func compileSequence(items []parser.Node, caseInsensitive bool) ([]Atom, error) {
	atoms := make([]Atom, 0, len(items))
	for _, item := range items {
		atom, err := compileNode(item, caseInsensitive)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

func compileNode(n parser.Node, caseInsensitive bool) (Atom, error) {
	switch v := n.(type) {
	case parser.Literal:
		text := v.Text
		if caseInsensitive {
			text = strings.Map(unicode.ToLower, text)
		}
		return Atom{Kind: AtomLiteral, Literal: text}, nil

	case parser.AnyChar:
		return Atom{Kind: AtomAnyChar}, nil

	case parser.AnyRun:
		return Atom{Kind: AtomAnyRun}, nil

	case parser.CharClass:
		ranges := v.Ranges
		if caseInsensitive {
			ranges = foldRanges(ranges)
		}
		return Atom{Kind: AtomCharClass, Ranges: ranges, Negated: v.Negated}, nil

	case parser.Alternation:
		branches := make([][]Atom, 0, len(v.Children))
		for _, child := range v.Children {
			items := flattenGroup(child)
			compiled, err := compileSequence(items, caseInsensitive)
			if err != nil {
				return Atom{}, err
			}
			branches = append(branches, compiled)
		}
		return Atom{Kind: AtomAlternation, Branches: branches}, nil

	case parser.Counted:
		if v.Max > maxCounterValue || v.Min > maxCounterValue {
			overflow := v.Max
			if v.Min > v.Max {
				overflow = v.Min
			}
			return Atom{}, &CounterOverflowError{Value: overflow}
		}
		childItems := flattenGroup(v.Child)
		child, err := compileSequence(childItems, caseInsensitive)
		if err != nil {
			return Atom{}, err
		}
		return Atom{Kind: AtomCounted, Child: child, Min: v.Min, Max: v.Max}, nil

	case parser.Group:
		// A bare Group reached here (not via Alternation/Counted child
		// unwrapping) compiles to an Alternation of one branch so callers
		// can treat it uniformly as a single Atom.
		compiled, err := compileSequence(v.Items, caseInsensitive)
		if err != nil {
			return Atom{}, err
		}
		return Atom{Kind: AtomAlternation, Branches: [][]Atom{compiled}}, nil

	default:
		return Atom{Kind: AtomLiteral, Literal: ""}, nil
	}
}

// flattenGroup returns a Group's items directly, or wraps a single non-Group
// node in a one-item slice, so alternation branches and counted children
// (both of which may hold a bare node or a Group) compile uniformly.
func flattenGroup(n parser.Node) []parser.Node {
	if g, ok := n.(parser.Group); ok {
		return g.Items
	}
	return []parser.Node{n}
}

// foldRanges lower-cases a set of character ranges for case-insensitive
// comparison, re-normalising afterwards since folding can make ranges
// overlap (e.g. [A-Z] and [a-z] both fold to [a-z]).
func foldRanges(ranges []parser.Range) []parser.Range {
	folded := make([]parser.Range, 0, len(ranges)*2)
	for _, r := range ranges {
		lo, hi := unicode.ToLower(r.Lo), unicode.ToLower(r.Hi)
		if lo <= hi {
			folded = append(folded, parser.Range{Lo: lo, Hi: hi})
		} else {
			// The range crossed a case boundary in a way that inverted
			// after folding (rare); fall back to per-character ranges.
			for c := r.Lo; c <= r.Hi; c++ {
				fc := unicode.ToLower(c)
				folded = append(folded, parser.Range{Lo: fc, Hi: fc})
			}
		}
	}
	return parser.NormalizeRanges(folded)
}
