package internal

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger initializes the logger with level and optional file output.
func InitLogger(logfile, level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
		DisableQuote:  true,
		PadLevelText:  true,
	})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(lvl)
	} else if level != "" {
		logrus.Warnf("Unknown log level %q, using info", level)
	}
	if logfile != "" {
		file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			logrus.SetOutput(file)
		} else {
			logrus.Warn("Failed to open log file, logging to stdout")
		}
	}
}
