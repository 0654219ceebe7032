// Package logger owns logrus setup for the CLI and the pipeline.
package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a configured logger. Unknown levels fall back to info so a
// typo in LOG_LEVEL never silences or crashes a run.
func New(level, format string) *logrus.Logger {
	log := logrus.New()

	lv, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lv = logrus.InfoLevel
	}
	log.SetLevel(lv)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
