// Package log provides the structured logging facade used by every subsystem, persisted to a daily file.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/glint-player/glint/filesystem"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/where"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// logger is discarding until Setup enables a sink.
var logger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Setup opens today's log file and applies the formatter and level from configuration.
// When logs.write is false every emission is discarded.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		logger.SetOutput(io.Discard)
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	Configure(f, viper.GetString(key.LogsLevel), viper.GetBool(key.LogsJson))
	return nil
}

// Configure points the logger at w. Unknown levels fall back to info.
func Configure(w io.Writer, level string, json bool) {
	logger.SetOutput(w)

	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}

// For returns an entry tagged with the emitting subsystem.
func For(component string) *logrus.Entry {
	return logger.WithField("component", component)
}

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warn(args ...any)                  { logger.Warn(args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
