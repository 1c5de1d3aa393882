package internal

import (
	"strings"
	"testing"
)

func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{".BAK", "pem", "txt,LOG", " ", ""})
	want := []string{".bak", ".pem", ".txt", ".log"}
	if len(got) != len(want) {
		t.Fatalf("expected %d extensions, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ext %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestScanConfig_Validate(t *testing.T) {
	c := ScanConfig{}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when root empty")
	}
	c.Root = "/tmp"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when nothing to detect")
	}
	c.Extensions = []string{"bak"}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestScanConfig_PrepareAndFlaggedExt(t *testing.T) {
	c := ScanConfig{Root: "/tmp", Extensions: []string{"BAK", ".Pem"}}
	if err := c.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !c.flaggedExt(".bak") || !c.flaggedExt(".pem") {
		t.Fatal("normalized extensions must be flagged")
	}
	if c.flaggedExt(".txt") {
		t.Fatal(".txt must not be flagged")
	}
	// extensionless files never match
	if c.flaggedExt("") {
		t.Fatal("empty extension must never be flagged")
	}
	if c.Threads != 1 {
		t.Fatalf("default threads must be 1, got %d", c.Threads)
	}
}

func TestScanConfig_Prepare_CollectsAllPatternErrors(t *testing.T) {
	c := ScanConfig{
		Root:           "/tmp",
		PatternSources: []string{`ok\d+`, `bad[`, `also(bad`},
	}
	err := c.Prepare()
	if err == nil {
		t.Fatal("expected compile error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bad[") || !strings.Contains(msg, "also(bad") {
		t.Fatalf("expected both invalid patterns reported, got: %v", err)
	}
}
