// Package log wraps logrus behind the logs.write switch: until Setup enables
// it, every call is dropped.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Fields annotates an Entry.
type Fields = logrus.Fields

var enabled atomic.Bool

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		enabled.Store(false)
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

	configure(f, viper.GetBool(key.LogsJson), viper.GetString(key.LogsLevel))
	return nil
}

func configure(out io.Writer, json bool, level string) {
	logrus.SetOutput(out)

	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	enabled.Store(true)
}

// Entry is a logger carrying fixed fields, such as the player or asset id.
type Entry struct {
	entry *logrus.Entry
}

// With returns an Entry annotated with fields.
func With(fields Fields) *Entry {
	return &Entry{entry: logrus.WithFields(fields)}
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	if enabled.Load() {
		e.entry.Errorf(format, args...)
	}
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	if enabled.Load() {
		e.entry.Warnf(format, args...)
	}
}

func (e *Entry) Infof(format string, args ...interface{}) {
	if enabled.Load() {
		e.entry.Infof(format, args...)
	}
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	if enabled.Load() {
		e.entry.Debugf(format, args...)
	}
}

func Error(args ...interface{}) {
	if enabled.Load() {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...interface{}) {
	if enabled.Load() {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...interface{}) {
	if enabled.Load() {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Infof(format, args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Debugf(format, args...)
	}
}

func Tracef(format string, args ...interface{}) {
	if enabled.Load() {
		logrus.Tracef(format, args...)
	}
}
