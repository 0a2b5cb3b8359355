package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cfohelper/internal/source"
)

// benchBaseline writes a baseline with the required keys plus extra rows.
func benchBaseline(b *testing.B, dir string, extra int) string {
	b.Helper()
	var sb strings.Builder
	sb.WriteString("key,value\ncash,\"1,000,000\"\nmonthly_burn,20000\nrevenue,50000\nexpenses,70000\n")
	sb.WriteString("monthly_marketing,10000\ncurrent_hires,5\navg_cost_per_hire,2000\nbaseline_price,100\nunits_sold,500\n")
	for i := 0; i < extra; i++ {
		fmt.Fprintf(&sb, "metric_%d,%d.5\n", i, i)
	}
	path := filepath.Join(dir, fmt.Sprintf("bench_%d.csv", extra))
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkLoadFinances(b *testing.B) {
	path := benchBaseline(b, b.TempDir(), 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadFinances(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseFile(b *testing.B) {
	path := benchBaseline(b, b.TempDir(), 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := source.ParseFile(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanDir(b *testing.B) {
	dir := b.TempDir()
	for n := 0; n < 20; n++ {
		benchBaseline(b, dir, n*10)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		files, err := source.ScanDir(dir)
		if err != nil {
			b.Fatal(err)
		}
		if len(files) != 20 {
			b.Fatalf("files = %d, want 20", len(files))
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	path := benchBaseline(b, b.TempDir(), 1000)
	cache := newMapCache()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := LoadWithCache(path, cache)
		if err != nil {
			b.Fatal(err)
		}
		if i > 0 && !res.CacheHit {
			b.Fatal("expected cache hit after first load")
		}
	}
}
