package clasp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustBuild(t *testing.T, b *CommandBuilder) *Schema {
	t.Helper()
	schema, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return schema
}

func assertParseError(t *testing.T, err error, kind ErrorKind) *ParseError {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error, got nil", kind)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %T: %v", err, err)
	}
	if perr.Kind != kind {
		t.Fatalf("Expected %s error, got %s: %v", kind, perr.Kind, perr)
	}
	return perr
}

// TestMatchLongFlagForms tests --name value and --name=value binding
func TestMatchLongFlagForms(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("output").Back())

	for _, argv := range [][]string{
		{"--output", "a.txt"},
		{"--output=a.txt"},
	} {
		ms, err := schema.Match(argv)
		if err != nil {
			t.Fatalf("Match(%v) failed: %v", argv, err)
		}
		bs := ms.Bindings("output")
		if len(bs) != 1 || bs[0].Raw != "a.txt" {
			t.Errorf("Match(%v): expected one binding 'a.txt', got %v", argv, bs)
		}
	}
}

// TestMatchShortCluster tests -vvv counting and clustered presence flags
func TestMatchShortCluster(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		CountFlag("verbose").Short('v').Back().
		BoolFlag("force").Short('f').Back())

	ms, err := schema.Match([]string{"-vvv", "-f"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if n := len(ms.Bindings("verbose")); n != 3 {
		t.Errorf("Expected 3 verbose bindings, got %d", n)
	}
	if !ms.Bound("force") {
		t.Error("Expected force to be bound")
	}
}

// TestMatchShortInlineValue tests -ofile and -o file forms
func TestMatchShortInlineValue(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("output").Short('o').Back())

	for _, argv := range [][]string{
		{"-o", "a.txt"},
		{"-oa.txt"},
	} {
		ms, err := schema.Match(argv)
		if err != nil {
			t.Fatalf("Match(%v) failed: %v", argv, err)
		}
		if got := ms.Bindings("output")[0].Raw; got != "a.txt" {
			t.Errorf("Match(%v): expected 'a.txt', got %q", argv, got)
		}
	}
}

// TestMatchMixedCluster tests a presence flag followed by a value flag in
// one cluster, -vo out.txt
func TestMatchMixedCluster(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		CountFlag("verbose").Short('v').Back().
		StringFlag("output").Short('o').Back())

	ms, err := schema.Match([]string{"-vo", "out.txt"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(ms.Bindings("verbose")) != 1 {
		t.Error("Expected verbose bound once")
	}
	if got := ms.Bindings("output")[0].Raw; got != "out.txt" {
		t.Errorf("Expected output 'out.txt', got %q", got)
	}
}

// TestMatchMissingValue tests immediate failure when a value flag ends argv
func TestMatchMissingValue(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("output").Short('o').Back())

	for _, argv := range [][]string{{"--output"}, {"-o"}} {
		_, err := schema.Match(argv)
		perr := assertParseError(t, err, KindMissingValue)
		if perr.ID != "--output" {
			t.Errorf("Expected ID '--output', got %q", perr.ID)
		}
	}
}

// TestMatchDuplicateSet tests that a Set flag rejects a second occurrence
func TestMatchDuplicateSet(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("output").Back())

	_, err := schema.Match([]string{"--output", "a", "--output", "b"})
	assertParseError(t, err, KindDuplicateArgument)
}

// TestMatchAppendAccumulates tests that an Append flag collects occurrences
// in input order
func TestMatchAppendAccumulates(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("include").Short('I').Append().Back())

	ms, err := schema.Match([]string{"-I", "a", "--include", "b", "-Ic"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	var got []string
	for _, b := range ms.Bindings("include") {
		got = append(got, b.Raw)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Binding order mismatch (-want +got):\n%s", diff)
	}
}

// TestMatchDelimiterSplit tests that one token yields ordered split bindings
func TestMatchDelimiterSplit(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("tags").Delimiter(",").Back())

	ms, err := schema.Match([]string{"--tags", "a,b,c"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	var got []string
	for _, b := range ms.Bindings("tags") {
		got = append(got, b.Raw)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
}

// TestMatchTerminator tests that tokens after -- bind verbatim
func TestMatchTerminator(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		BoolFlag("force").Back().
		Positional("target", String()).Back())

	ms, err := schema.Match([]string{"--", "--force"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if ms.Bound("force") {
		t.Error("Expected --force after terminator to bind positionally")
	}
	if got := ms.Bindings("target")[0].Raw; got != "--force" {
		t.Errorf("Expected target '--force', got %q", got)
	}
}

// TestMatchTrailing tests that surplus positionals collect as trailing
func TestMatchTrailing(t *testing.T) {
	schema := mustBuild(t, New("tool", "").Positional("cmd", String()).Back())

	ms, err := schema.Match([]string{"run", "--", "-x", "extra"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if diff := cmp.Diff([]string{"-x", "extra"}, ms.Trailing()); diff != "" {
		t.Errorf("Trailing mismatch (-want +got):\n%s", diff)
	}
}

// TestMatchNestedChain tests descent through two subcommand levels with a
// leaf flag
func TestMatchNestedChain(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		Command("repo", "").
		Command("create", "").
		StringFlag("name").Back())

	ms, err := schema.Match([]string{"repo", "create", "--name", "demo"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if diff := cmp.Diff([]string{"tool", "repo", "create"}, ms.Path()); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
	if got := ms.Bindings("name")[0].Raw; got != "demo" {
		t.Errorf("Expected name 'demo', got %q", got)
	}
}

// TestMatchGlobalFromLeaf tests that an ancestor's global flag matches after
// descent while local parent flags do not
func TestMatchGlobalFromLeaf(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		CountFlag("verbose").Short('v').Global().Back().
		StringFlag("rootonly").Back().
		Command("run", "").Back())

	ms, err := schema.Match([]string{"run", "-v"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if !ms.Bound("verbose") {
		t.Error("Expected global verbose to bind from leaf")
	}

	_, err = schema.Match([]string{"run", "--rootonly", "x"})
	assertParseError(t, err, KindUnknownArgument)
}

// TestMatchUnknownFlagSuggestion tests fuzzy suggestions on typos
func TestMatchUnknownFlagSuggestion(t *testing.T) {
	schema := mustBuild(t, New("tool", "").StringFlag("output").Back())

	_, err := schema.Match([]string{"--ouput", "x"})
	perr := assertParseError(t, err, KindUnknownArgument)
	if perr.Suggestion != "--output" {
		t.Errorf("Expected suggestion '--output', got %q", perr.Suggestion)
	}
}

// TestMatchUnknownSubcommandSuggestion tests suggestions for command typos
func TestMatchUnknownSubcommandSuggestion(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		Command("status", "").Back().
		Command("stash", "").Back())

	_, err := schema.Match([]string{"statsu"})
	perr := assertParseError(t, err, KindUnknownArgument)
	if perr.Suggestion != "status" {
		t.Errorf("Expected suggestion 'status', got %q", perr.Suggestion)
	}
}

// TestMatchBoundedManyPositional tests that a bounded slot hands off to the
// next positional once full
func TestMatchBoundedManyPositional(t *testing.T) {
	schema := mustBuild(t, New("tool", "").
		Positional("pair", String()).Many(2, 2).Back().
		Positional("dest", String()).Back())

	ms, err := schema.Match([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if n := len(ms.Bindings("pair")); n != 2 {
		t.Errorf("Expected 2 pair values, got %d", n)
	}
	if got := ms.Bindings("dest")[0].Raw; got != "c" {
		t.Errorf("Expected dest 'c', got %q", got)
	}
}
