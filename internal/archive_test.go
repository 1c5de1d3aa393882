package internal

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestScan_ArchiveMembers(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "bundle.zip"), map[string]string{
		"inner/creds.txt": "nothing\ndb_password = zipped\n",
		"inner/keys.bak":  "plain\n",
	})

	cfg := &ScanConfig{
		Root:           dir,
		Extensions:     []string{"bak"},
		PatternSources: []string{`db_password`},
		MaxDepth:       -1,
		Archives:       true,
	}
	res, err := NewScanner().Scan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if res.ExtensionFlags != 1 || res.ContentMatches != 1 {
		t.Fatalf("expected 1 flag + 1 match inside archive, got %d/%d (%+v)",
			res.ExtensionFlags, res.ContentMatches, res.Findings)
	}
	for _, f := range res.Findings {
		if filepath.Base(f.Path) != "bundle.zip" {
			t.Errorf("member findings carry the archive path: %+v", f)
		}
		if f.InnerPath == "" {
			t.Errorf("member findings carry InnerPath: %+v", f)
		}
	}
	for _, f := range res.Findings {
		if f.Kind == KindContentMatch && f.Line != 2 {
			t.Errorf("expected match at member line 2: %+v", f)
		}
	}
}

func TestScan_ArchivesDisabledSkipsMembers(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "bundle.zip"), map[string]string{
		"creds.txt": "db_password = zipped\n",
	})

	cfg := &ScanConfig{Root: dir, PatternSources: []string{`db_password`}, MaxDepth: -1}
	res, err := NewScanner().Scan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Findings) != 0 {
		t.Fatalf("archive content must be ignored without --archives: %+v", res.Findings)
	}
	if res.FileErrors != 0 {
		t.Fatalf("skipping an archive is not an error, got %d", res.FileErrors)
	}
}

func TestIsArchive(t *testing.T) {
	for _, e := range []string{".zip", ".tar", ".gz", ".bz2", ".xz", ".rar", ".7z", ".zst"} {
		if !IsArchive("x" + e) {
			t.Errorf("expected archive for %s", e)
		}
	}
	if IsArchive("file.txt") {
		t.Error("txt is not archive")
	}
}
