// Package log is the process-wide structured logger.
//
// It wraps logrus with a JSON formatter. When a log file is configured the same
// entries are also written to a daily-rotated file through an lfshook hook.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/mrnim94/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

var logger = logrus.New()

// InitLogger resets the global logger. forTest silences output.
func InitLogger(forTest bool) *logrus.Logger {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	logger.SetOutput(os.Stdout)
	if forTest {
		logger.SetOutput(io.Discard)
	}
	if app := os.Getenv("APP_NAME"); app != "" {
		logger.AddHook(appNameHook(app))
	}
	return logger
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(name string) logrus.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return logrus.TraceLevel
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	case "FATAL":
		return logrus.FatalLevel
	case "PANIC":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel changes the level of the global logger.
func SetLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// AddFileOutput mirrors every entry into path, rotated daily and kept for a week.
func AddFileOutput(path string) error {
	writer, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return err
	}

	logger.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.TraceLevel: writer,
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}))
	return nil
}

func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return logger.WithError(err)
}

func Info(args ...interface{}) { logger.Info(args...) }
func Warn(args ...interface{}) { logger.Warn(args...) }

type appNameHook string

func (h appNameHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appNameHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = string(h)
	}
	return nil
}
