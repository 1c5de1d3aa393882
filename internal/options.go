package internal

import (
	"errors"
	"runtime"
	"strings"
)

// ScanConfig - public options from CLI/config file. Immutable once a scan
// started.
type ScanConfig struct {
	Root           string
	Extensions     []string // flagged extensions, any case, with or without dot
	PatternSources []string // regex sources, evaluated in order as authored
	MaxDepth       int      // directory levels below root; < 0 - unbounded, 0 - root only
	Threads        int      // workers; <= 1 means one sequential pass
	Archives       bool     // also scan inside archive members

	extSet   map[string]struct{}
	patterns []Pattern
	prepared bool
}

// Validate checks invariants.
func (c *ScanConfig) Validate() error {
	if c.Root == "" {
		return errors.New("root path is required")
	}
	if len(c.PatternSources) == 0 && len(c.Extensions) == 0 {
		return errors.New("nothing to detect: no extensions and no patterns configured")
	}
	return nil
}

// Prepare builds the extension lookup set, compiles patterns and fills
// thread defaults. Idempotent; called by Scan if the caller didn't.
func (c *ScanConfig) Prepare() error {
	if c.prepared {
		return nil
	}
	c.extSet = make(map[string]struct{}, len(c.Extensions))
	for _, ext := range NormalizeExtensions(c.Extensions) {
		c.extSet[ext] = struct{}{}
	}
	ps, err := CompilePatterns(c.PatternSources)
	if err != nil {
		return err
	}
	c.patterns = ps
	if c.Threads <= 0 {
		c.Threads = 1
	}
	if c.Threads > runtime.GOMAXPROCS(0)*4 {
		c.Threads = runtime.GOMAXPROCS(0) * 4
	}
	c.prepared = true
	return nil
}

// flaggedExt reports whether a lowercased dot-prefixed extension is in the
// configured set. Extensionless files never match.
func (c *ScanConfig) flaggedExt(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := c.extSet[ext]
	return ok
}

// NormalizeExtensions lowercases entries, splits comma groups and forces a
// leading dot, so ".BAK", "bak" and "bak,pem" all normalize the same way.
func NormalizeExtensions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			v = strings.TrimPrefix(v, ".")
			out = append(out, "."+strings.ToLower(v))
		}
	}
	return out
}
