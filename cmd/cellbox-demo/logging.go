package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const (
	logDir      = "logs"
	logFileName = "cellbox-demo.log"
)

// setupLogging returns a logger writing to logs/ when debug is set, discarding otherwise
// The terminal is in raw mode, so nothing may go to stdout or stderr
func setupLogging(debug bool) (*logrus.Logger, *os.File) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	if !debug {
		return log, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return log, nil
	}
	f, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log, nil
	}

	log.SetOutput(f)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return log, f
}
