package internal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// Scanner runs the walk -> classify -> match pipeline.
type Scanner struct{}

func NewScanner() *Scanner { return &Scanner{} }

// tally is the single-writer aggregator. The mutex serializes appends so one
// file's findings stay contiguous in pool mode; counters are atomics.
type tally struct {
	mu       sync.Mutex
	findings []Finding

	inspected      atomic.Int64
	extFlags       atomic.Int64
	contentMatches atomic.Int64
	fileErrors     atomic.Int64
}

func (t *tally) append(batch []Finding) {
	if len(batch) == 0 {
		return
	}
	t.mu.Lock()
	t.findings = append(t.findings, batch...)
	t.mu.Unlock()
}

// Scan walks the configured root and returns all findings in detection
// order. Only root resolution fails the run (*RootError); per-file errors
// are reported to obs and the walk continues.
func (s *Scanner) Scan(ctx context.Context, cfg *ScanConfig, obs Observer) (*ScanResult, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}

	root, err := resolveRoot(cfg.Root)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	t := &tally{}

	if cfg.Threads <= 1 {
		err = WalkTree(ctx, root, cfg.MaxDepth, obs, func(cand FileCandidate) error {
			s.scanOne(ctx, cfg, cand, obs, t)
			return nil
		})
	} else {
		err = s.scanPooled(ctx, cfg, root, obs, t)
	}
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Findings:       t.findings,
		FilesInspected: t.inspected.Load(),
		ExtensionFlags: t.extFlags.Load(),
		ContentMatches: t.contentMatches.Load(),
		FileErrors:     t.fileErrors.Load(),
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}, nil
}

func resolveRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &RootError{Path: path, Err: err}
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", &RootError{Path: abs, Err: err}
	}
	if !st.IsDir() {
		return "", &RootError{Path: abs, Err: errors.New("not a directory")}
	}
	return abs, nil
}

// scanPooled fans files out to an ants pool. Invoke blocks when the pool is
// saturated, which gives the walker backpressure for free.
func (s *Scanner) scanPooled(ctx context.Context, cfg *ScanConfig, root string, obs Observer, t *tally) error {
	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(cfg.Threads, func(i interface{}) {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		s.scanOne(ctx, cfg, i.(FileCandidate), obs, t)
	})
	if err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	walkErr := WalkTree(ctx, root, cfg.MaxDepth, obs, func(cand FileCandidate) error {
		wg.Add(1)
		if err := pool.Invoke(cand); err != nil {
			wg.Done()
			s.dropCandidate(cand, err, obs, t)
		}
		return nil
	})
	wg.Wait()
	return walkErr
}

// dropCandidate records a candidate the pool could not take, so the error
// trail and counters stay complete in pool mode.
func (s *Scanner) dropCandidate(cand FileCandidate, err error, obs Observer, t *tally) {
	t.fileErrors.Add(1)
	obs.OnFileError(cand.Path, err)
	logrus.WithError(err).WithField("file", cand.Path).Error("submit task")
}

// scanOne applies both detectors to a candidate and appends its findings in
// one shot. An extension flag never suppresses content scanning.
func (s *Scanner) scanOne(ctx context.Context, cfg *ScanConfig, cand FileCandidate, obs Observer, t *tally) {
	t.inspected.Add(1)
	obs.OnFileScanned(cand.Path)

	var batch []Finding
	if cfg.flaggedExt(strings.ToLower(cand.Ext)) {
		batch = append(batch, Finding{
			Kind:       KindExtensionFlag,
			Path:       cand.Path,
			Name:       filepath.Base(cand.Path),
			Dir:        cand.Dir,
			Match:      strings.ToLower(cand.Ext),
			DetectedAt: time.Now(),
		})
	}

	if IsArchive(cand.Path) {
		if cfg.Archives {
			batch = append(batch, s.scanArchive(ctx, cfg, cand, obs, t)...)
		}
	} else if len(cfg.patterns) > 0 {
		f, err := os.Open(cand.Path)
		if err != nil {
			t.fileErrors.Add(1)
			obs.OnFileError(cand.Path, err)
		} else {
			found, rerr := matchLines(f, cfg.patterns, cand.Path, cand.Dir, "")
			f.Close()
			// findings emitted before a mid-read failure stay valid
			batch = append(batch, found...)
			if rerr != nil {
				t.fileErrors.Add(1)
				obs.OnFileError(cand.Path, rerr)
			}
		}
	}

	for _, f := range batch {
		switch f.Kind {
		case KindExtensionFlag:
			t.extFlags.Add(1)
		case KindContentMatch:
			t.contentMatches.Add(1)
		}
		obs.OnFinding(f)
	}
	t.append(batch)
}

// matchLines streams lines and tests every pattern on every line
// independently: two patterns hitting one line yield two findings. Files
// with a NUL byte in the first 8 KiB are rejected as binary.
func matchLines(r io.Reader, patterns []Pattern, path, dir, innerPath string) ([]Finding, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	if sniff, _ := br.Peek(8192); bytes.IndexByte(sniff, 0x00) >= 0 {
		return nil, ErrBinaryContent
	}

	name := filepath.Base(path)
	if innerPath != "" {
		name = filepath.Base(innerPath)
	}

	var found []Finding
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNum++
			for _, p := range patterns {
				if m, ok := p.FindMatch(line); ok {
					found = append(found, Finding{
						Kind:       KindContentMatch,
						Path:       path,
						Name:       name,
						Dir:        dir,
						InnerPath:  innerPath,
						Match:      m,
						Line:       lineNum,
						LineText:   strings.TrimSpace(line),
						DetectedAt: time.Now(),
					})
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return found, nil
			}
			return found, err
		}
	}
}
