// Package log provides the structured logger used to trace external command
// execution. Human-facing banners do not go through it.
package log

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Logger is a type alias of logrus.FieldLogger that defines a broad interface for logging.
type Logger = logrus.FieldLogger

// Fields is a collection of field to be passed to the Logger.
type Fields = logrus.Fields

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", ...).
func New(levelStr string, w io.Writer) (Logger, error) {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(w)
	l.SetFormatter(&customTextFormatter{logrus.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05 Z0700",
		DisableLevelTruncation: true,
	}})
	return l, nil
}

// Discard returns a logger that drops every entry.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// customTextFormatter is defined to override default formatting options for log entry.
type customTextFormatter struct {
	logrus.TextFormatter
}

// Format prefixes every entry so it stands out from tool output.
func (f *customTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	originalText, err := f.TextFormatter.Format(entry)
	return append([]byte("▶ "), originalText...), err
}
