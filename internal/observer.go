package internal

import (
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Observer receives scan progress events. The core never prints; callers
// pick an implementation (or none).
type Observer interface {
	OnFileScanned(path string)
	OnFinding(f Finding)
	OnFileError(path string, err error)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnFileScanned(string)      {}
func (NopObserver) OnFinding(Finding)         {}
func (NopObserver) OnFileError(string, error) {}

// LogObserver reports events through logrus.
type LogObserver struct{}

func (LogObserver) OnFileScanned(path string) {
	logrus.Debugf("Scanning %s", path)
}

func (LogObserver) OnFinding(f Finding) {
	if f.Kind == KindContentMatch {
		logrus.WithFields(logrus.Fields{"file": f.Path, "line": f.Line}).Info("Match found")
		return
	}
	logrus.WithFields(logrus.Fields{"file": f.Path, "ext": f.Match}).Info("Flagged extension")
}

func (LogObserver) OnFileError(path string, err error) {
	logrus.WithFields(logrus.Fields{"file": path, "err": err}).Error("process error")
}

// ProgressObserver ticks an indeterminate spinner per inspected file.
type ProgressObserver struct {
	bar *progressbar.ProgressBar
}

func NewProgressObserver() *ProgressObserver {
	return &ProgressObserver{bar: progressbar.Default(-1, "scanning")}
}

func (p *ProgressObserver) OnFileScanned(string) { _ = p.bar.Add(1) }
func (p *ProgressObserver) OnFinding(Finding)    {}

func (p *ProgressObserver) OnFileError(path string, err error) {
	logrus.WithFields(logrus.Fields{"file": path, "err": err}).Debug("process error")
}

func (p *ProgressObserver) Finish() { _ = p.bar.Finish() }
