package matcher

import (
	"testing"

	"github.com/dl/globwalk/internal/compiler"
	"github.com/dl/globwalk/internal/parser"
)

func compileOrFatal(t *testing.T, pattern string) *compiler.Program {
	t.Helper()
	p := parser.Parse(pattern)
	pr, err := compiler.Compile(pattern, p)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return pr
}

func TestPathMatchesLiteral(t *testing.T) {
	pr := compileOrFatal(t, "a.rs")
	if !PathMatches("a.rs", pr).ValidAsCompleteMatch {
		t.Error("want complete match for a.rs")
	}
	if PathMatches("b.rs", pr).ValidAsCompleteMatch {
		t.Error("want no match for b.rs")
	}
}

func TestPathMatchesWildcards(t *testing.T) {
	pr := compileOrFatal(t, "*.rs")
	cases := map[string]bool{
		"a.rs":    true,
		"a.toml":  false,
		"sub/a.rs": false, // * never crosses a path separator
		".rs":     true,
	}
	for path, want := range cases {
		got := PathMatches(path, pr).ValidAsCompleteMatch
		if got != want {
			t.Errorf("PathMatches(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestPathMatchesRecursive(t *testing.T) {
	pr := compileOrFatal(t, "**/*.rs")
	cases := map[string]bool{
		"a.rs":       true,
		"sub/a.rs":   true,
		"sub/deep/a.rs": true,
		"a.toml":     false,
	}
	for path, want := range cases {
		got := PathMatches(path, pr).ValidAsCompleteMatch
		if got != want {
			t.Errorf("PathMatches(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestPathMatchesValidAsPrefix(t *testing.T) {
	pr := compileOrFatal(t, "sub/deep/*.rs")
	cases := []struct {
		path       string
		wantPrefix bool
	}{
		{"", true},
		{"sub", true},
		{"sub/deep", true},
		{"other", false},
		{"sub/other", false},
		{"sub/deep/a.rs", true},
	}
	for _, tc := range cases {
		got := PathMatches(tc.path, pr).ValidAsPrefix
		if got != tc.wantPrefix {
			t.Errorf("PathMatches(%q).ValidAsPrefix = %v, want %v", tc.path, got, tc.wantPrefix)
		}
	}
}

func TestPathMatchesCaseInsensitive(t *testing.T) {
	pr := compileOrFatal(t, "(?i)README*")
	if !PathMatches("readme.md", pr).ValidAsCompleteMatch {
		t.Error("want case-insensitive match")
	}
}

func TestPathMatchesAnchoring(t *testing.T) {
	anchored := compileOrFatal(t, "/usr/bin/*")
	if !PathMatches("/usr/bin/bash", anchored).ValidAsCompleteMatch {
		t.Error("want anchored pattern to match an absolute path")
	}
	if PathMatches("usr/bin/bash", anchored).ValidAsCompleteMatch {
		t.Error("anchored pattern should reject a relative path")
	}

	unanchored := compileOrFatal(t, "bin/*")
	if PathMatches("/bin/bash", unanchored).ValidAsCompleteMatch {
		t.Error("unanchored pattern should reject an absolute path")
	}
}

func TestPathMatchesCharClass(t *testing.T) {
	pr := compileOrFatal(t, "[a-c]og")
	for path, want := range map[string]bool{"dog": false, "cog": true, "bog": true, "xog": false} {
		if got := PathMatches(path, pr).ValidAsCompleteMatch; got != want {
			t.Errorf("PathMatches(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestPathMatchesAlternation(t *testing.T) {
	pr := compileOrFatal(t, "{foo,bar}.rs")
	for path, want := range map[string]bool{"foo.rs": true, "bar.rs": true, "baz.rs": false} {
		if got := PathMatches(path, pr).ValidAsCompleteMatch; got != want {
			t.Errorf("PathMatches(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestPathMatchesCounted(t *testing.T) {
	pr := compileOrFatal(t, "<[a-d]:1,3>.rs")
	for path, want := range map[string]bool{
		"a.rs":   true,
		"abcd.rs": false, // 4 repetitions, above max of 3
		"abc.rs": true,
		".rs":    false, // 0 repetitions, below min of 1
	} {
		if got := PathMatches(path, pr).ValidAsCompleteMatch; got != want {
			t.Errorf("PathMatches(%q) = %v, want %v", path, got, want)
		}
	}
}

// TestPathMatchesCountedAnyRunChild is spec §8's named contract test: a
// Counted child containing an AnyRun (not just a single-character class)
// must still respect the repetition bounds exactly.
func TestPathMatchesCountedAnyRunChild(t *testing.T) {
	pr := compileOrFatal(t, "<a*:3>")
	for path, want := range map[string]bool{
		"aaabbb": true,  // three a-starting runs: "a", "a", "abbb"
		"aabbb":  false, // only two a-starting runs available
	} {
		if got := PathMatches(path, pr).ValidAsCompleteMatch; got != want {
			t.Errorf("PathMatches(%q) = %v, want %v", path, got, want)
		}
	}
}
