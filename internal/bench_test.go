package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkScan(b *testing.B) {
	dir := b.TempDir()
	for i := 0; i < 200; i++ {
		sub := filepath.Join(dir, fmt.Sprintf("d%02d", i%10))
		_ = os.MkdirAll(sub, 0755)
		body := "line one\nline two\ndb_password = hunter2\nline four\n"
		if err := os.WriteFile(filepath.Join(sub, fmt.Sprintf("f%03d.txt", i)), []byte(body), 0644); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg := &ScanConfig{
			Root:           dir,
			Extensions:     []string{"bak"},
			PatternSources: DefaultPatternSources,
			MaxDepth:       -1,
		}
		if _, err := NewScanner().Scan(context.Background(), cfg, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompilePatterns(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := CompilePatterns(DefaultPatternSources); err != nil {
			b.Fatal(err)
		}
	}
}
