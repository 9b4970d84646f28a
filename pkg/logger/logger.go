package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a thin wrapper around logrus that carries a set of preset
// structured fields for the lifetime of the instance.
type Logger struct {
	entry *logrus.Entry
}

// Init configures the global logrus settings. It must be called once at
// process start, before any Logger is created.
func Init(level logrus.Level) {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)
}

// ParseLevel converts a config string ("debug", "info", ...) to a logrus
// level, defaulting to Info on unknown input.
func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// New creates a Logger preset with a component name.
func New(component string) *Logger {
	return &Logger{
		entry: logrus.WithField("component", component),
	}
}

// WithPayload attaches arbitrary business data to subsequent log entries.
func (l *Logger) WithPayload(payload map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithField("payload", payload)}
}

// WithField attaches a single structured field to subsequent log entries.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Info(message string) {
	l.entry.Info(message)
}

func (l *Logger) Warn(message string) {
	l.entry.Warn(message)
}

func (l *Logger) Error(message string) {
	l.entry.Error(message)
}

func (l *Logger) Debug(message string) {
	l.entry.Debug(message)
}

func (l *Logger) Fatal(message string) {
	l.entry.Fatal(message)
}
