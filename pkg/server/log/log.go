/* Copyright 2025 Pagemark Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package log provides structured JSON logging for the server.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	fieldKeyLevel     = "level"
	fieldKeyMessage   = "msg"
	fieldKeyTimestamp = "ts"

	// LevelDebug represents debug log level
	LevelDebug = "debug"
	// LevelInfo represents info log level
	LevelInfo = "info"
	// LevelWarn represents warn log level
	LevelWarn = "warn"
	// LevelError represents error log level
	LevelError = "error"
)

var logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyLevel: fieldKeyLevel,
			logrus.FieldKeyMsg:   fieldKeyMessage,
			logrus.FieldKeyTime:  fieldKeyTimestamp,
		},
	})

	return l
}

// Fields represents a set of information to be included in the log
type Fields map[string]interface{}

// Entry represents a log entry
type Entry struct {
	entry *logrus.Entry
}

// WithFields creates a log entry with the given fields
func WithFields(fields Fields) Entry {
	data := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}

		data[k] = v
	}

	return Entry{entry: logger.WithFields(data)}
}

// SetOutput redirects the log output. It is used by tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// toLogrusLevel maps a level name to a logrus level, defaulting to info
func toLogrusLevel(level string) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelInfo:
		return logrus.InfoLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel sets the global log level
func SetLevel(level string) {
	logger.SetLevel(toLogrusLevel(level))
}

// GetLevel returns the name of the current log level
func GetLevel() string {
	switch logger.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// shouldLog returns true if the given level should be logged based on the current level
func shouldLog(level string) bool {
	return logger.IsLevelEnabled(toLogrusLevel(level))
}

// Debug logs the given entry at a debug level
func (e Entry) Debug(msg string) {
	e.entry.Debug(msg)
}

// Info logs the given entry at an info level
func (e Entry) Info(msg string) {
	e.entry.Info(msg)
}

// Warn logs the given entry at a warning level
func (e Entry) Warn(msg string) {
	e.entry.Warn(msg)
}

// Error logs the given entry at an error level
func (e Entry) Error(msg string) {
	e.entry.Error(msg)
}

// ErrorWrap logs the given entry with the error message annotated by the given message
func (e Entry) ErrorWrap(err error, msg string) {
	e.Error(fmt.Sprintf("%s: %v", msg, err))
}

// Debug logs a debug message without additional fields
func Debug(msg string) {
	WithFields(Fields{}).Debug(msg)
}

// Info logs an info message without additional fields
func Info(msg string) {
	WithFields(Fields{}).Info(msg)
}

// Warn logs a warning message without additional fields
func Warn(msg string) {
	WithFields(Fields{}).Warn(msg)
}

// Error logs an error message without additional fields
func Error(msg string) {
	WithFields(Fields{}).Error(msg)
}

// ErrorWrap logs an error message without additional fields. It annotates the given error's
// message with the given message
func ErrorWrap(err error, msg string) {
	WithFields(Fields{}).ErrorWrap(err, msg)
}
