package benchmark_test

import (
	"testing"

	"github.com/dzonerzy/go-clasp/clasp"
	"github.com/dzonerzy/go-clasp/config"
)

// Benchmark the individual pipeline stages so regressions can be pinned to
// matching, validation or resolution.

func benchSchema(b *testing.B) *clasp.Schema {
	b.Helper()
	schema, err := clasp.New("bench", "benchmark app").
		CountFlag("verbose").Short('v').Global().Back().
		Command("repo", "Repository operations").
		Command("create", "Create a repository").
		Positional("name", clasp.String()).Back().
		EnumFlag("visibility", "public", "private", "internal").Default("private").Back().
		StringFlag("topic").Delimiter(",").Back().
		Build()
	if err != nil {
		b.Fatal(err)
	}
	return schema
}

func BenchmarkMatchOnly(b *testing.B) {
	schema := benchSchema(b)
	args := []string{"-vv", "repo", "create", "demo", "--topic", "go,cli,parser"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = schema.Match(args)
	}
}

func BenchmarkFullPipeline(b *testing.B) {
	schema := benchSchema(b)
	args := []string{"-vv", "repo", "create", "demo", "--visibility", "public", "--topic", "go,cli"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = schema.Parse(args, clasp.WithEnv(nil))
	}
}

func BenchmarkFallbackResolution(b *testing.B) {
	schema := benchSchema(b)
	cfg := config.Map(map[string]any{
		"repo": map[string]any{
			"create": map[string]any{"visibility": "internal"},
		},
	})
	args := []string{"repo", "create", "demo"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = schema.Parse(args, clasp.WithEnv(nil), clasp.WithConfig(cfg))
	}
}

func BenchmarkUnknownFlagSuggestion(b *testing.B) {
	schema := benchSchema(b)
	args := []string{"repo", "create", "demo", "--visibilty", "public"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = schema.Parse(args, clasp.WithEnv(nil))
	}
}
