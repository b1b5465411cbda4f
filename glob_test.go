package glob

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// buildFixture lays out the worked-example tree:
//
//	root/
//	  a.rs
//	  b.rs
//	  c.toml
//	  sub/
//	    d.rs
//	  target/
//	    x.rs
func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel string) {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.rs")
	write("b.rs")
	write("c.toml")
	write("sub/d.rs")
	write("target/x.rs")
	return root
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func walkAll(t *testing.T, c CompiledGlob) []string {
	t.Helper()
	var out []string
	w := c.Walk()
	for w.Next() {
		if err := w.Err(); err != nil {
			t.Fatalf("unexpected walk error: %v", err)
		}
		out = append(out, w.Path())
	}
	sort.Strings(out)
	return out
}

func TestGlobParseCompileMatchesRoundTrip(t *testing.T) {
	g := New("*.rs")
	if g.PatternString() != "*.rs" {
		t.Fatalf("PatternString = %q", g.PatternString())
	}
	compiled, err := g.Compile(WalkOptions{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !compiled.Matches("a.rs") {
		t.Error("want a.rs to match *.rs")
	}
	if compiled.Matches("a.toml") {
		t.Error("want a.toml not to match *.rs")
	}
}

func TestGlobCompileCounterOverflow(t *testing.T) {
	g := New("<a:70000>")
	_, err := g.Compile(WalkOptions{})
	if err == nil {
		t.Fatal("want an error")
	}
	gerr, ok := err.(*GlobError)
	if !ok {
		t.Fatalf("want *GlobError, got %T", err)
	}
	if gerr.Kind != KindCounterOverflow {
		t.Errorf("Kind = %v, want KindCounterOverflow", gerr.Kind)
	}
}

func TestCompiledGlobWalkFlat(t *testing.T) {
	root := buildFixture(t)
	chdir(t, root)

	compiled, err := New("*.rs").Compile(WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got := walkAll(t, compiled)
	want := []string{"a.rs", "b.rs"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCompiledGlobWalkRecursive(t *testing.T) {
	root := buildFixture(t)
	chdir(t, root)

	compiled, err := New("**/*.rs").Compile(WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got := walkAll(t, compiled)
	want := []string{"a.rs", "b.rs", "sub/d.rs", "target/x.rs"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCompiledGlobWalkWithLiteralPrefixIncludesPrefixInResults(t *testing.T) {
	root := buildFixture(t)

	pattern := root + "/sub/*.rs"
	compiled, err := New(pattern).Compile(WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got := walkAll(t, compiled)
	want := []string{root + "/sub/d.rs"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCompiledGlobWalkWithExclusions(t *testing.T) {
	root := buildFixture(t)
	chdir(t, root)

	exclusion, err := New("target/**").Compile(WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	opts := NewWalkOptions().WithExclusions(exclusion)
	compiled, err := New("**/*.rs").Compile(*opts)
	if err != nil {
		t.Fatal(err)
	}
	got := walkAll(t, compiled)
	want := []string{"a.rs", "b.rs", "sub/d.rs"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v (target/ should be excluded)", got, want)
	}
}

func TestCompiledGlobWalkAndFilter(t *testing.T) {
	root := buildFixture(t)
	chdir(t, root)

	compiled, err := New("**/*").Compile(WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := compiled.WalkAndFilter(func(path string) bool {
		return filepath.Ext(path) == ".rs"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Strings(got)
	want := []string{"a.rs", "b.rs", "sub/d.rs", "target/x.rs"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCompiledGlobWalkMaxDepth(t *testing.T) {
	root := buildFixture(t)
	chdir(t, root)

	opts := NewWalkOptions().WithMaxDepth(1)
	compiled, err := New("**/*").Compile(*opts)
	if err != nil {
		t.Fatal(err)
	}
	got := walkAll(t, compiled)
	want := []string{"a.rs", "b.rs", "c.toml", "sub", "target"}
	if !equalStrings(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGlobStringDumpsParsedTree(t *testing.T) {
	g := New("(?i)a/*.rs")
	s := g.String()
	if s == "" {
		t.Fatal("want non-empty debug dump")
	}
}

func TestCompiledGlobStringDumpsProgram(t *testing.T) {
	compiled, err := New("a/*.rs").Compile(WalkOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if compiled.String() == "" {
		t.Fatal("want non-empty program summary")
	}
	if compiled.Prefix() != "a" {
		t.Fatalf("Prefix() = %q, want %q", compiled.Prefix(), "a")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
