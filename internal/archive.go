package internal

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
)

const maxArchiveEntries = 10000 // zip-bomb protection

// IsArchive by extension. O(1) map lookup
var archiveExt = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {},
	".rar": {}, ".br": {}, ".lz4": {}, ".lz": {}, ".mz": {},
	".sz": {}, ".s2": {}, ".zz": {}, ".zst": {}, ".7z": {},
}

func IsArchive(path string) bool {
	_, ok := archiveExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// scanArchive runs both detectors over every member of an archive. Member
// findings carry the archive path plus InnerPath.
func (s *Scanner) scanArchive(ctx context.Context, cfg *ScanConfig, cand FileCandidate, obs Observer, t *tally) []Finding {
	fsys, err := archives.FileSystem(ctx, cand.Path, nil)
	if err != nil {
		t.fileErrors.Add(1)
		obs.OnFileError(cand.Path, err)
		return nil
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	var batch []Finding
	count := 0
	_ = iofs.WalkDir(fsys, ".", func(inner string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if count >= maxArchiveEntries {
			logrus.Warnf("Archive %s skipped: too many entries (>= %d)", cand.Path, maxArchiveEntries)
			return errors.New("archive entry limit reached")
		}
		count++

		ext := strings.ToLower(filepath.Ext(inner))
		if cfg.flaggedExt(ext) {
			batch = append(batch, Finding{
				Kind:       KindExtensionFlag,
				Path:       cand.Path,
				Name:       filepath.Base(inner),
				Dir:        cand.Dir,
				InnerPath:  inner,
				Match:      ext,
				DetectedAt: time.Now(),
			})
		}
		if len(cfg.patterns) == 0 {
			return nil
		}

		f, err := fsys.Open(inner)
		if err != nil {
			t.fileErrors.Add(1)
			obs.OnFileError(cand.Path+"!"+inner, err)
			return nil
		}
		found, rerr := matchLines(f, cfg.patterns, cand.Path, cand.Dir, inner)
		f.Close()
		batch = append(batch, found...)
		if rerr != nil {
			t.fileErrors.Add(1)
			obs.OnFileError(cand.Path+"!"+inner, rerr)
		}
		return nil
	})
	return batch
}
