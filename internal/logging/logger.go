// Package logging provides the conversion core's leveled logger. A
// Logger can be narrowed with With to carry job- or stage-scoped
// fields (job ID, input path) through every line a goroutine logs,
// since component J runs one conversion per job on its own goroutine
// and a bare message can't otherwise be traced back to which job it
// belongs to.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is a log severity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// field is one key=value pair a scoped logger attaches to every line
// it writes, in the order With calls accumulated them.
type field struct {
	key, value string
}

// Logger is a leveled wrapper around the standard library logger.
// Scoped loggers produced by With share the parent's level and output
// (SetLevel/SetOutput on the parent or a SetGlobal* call take effect
// for every logger derived from it) but carry their own field list.
type Logger struct {
	level  *Level
	output io.Writer
	logger *log.Logger
	fields []field
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a new Logger writing to output at the given level.
func New(level Level, output io.Writer) *Logger {
	lvl := level
	return &Logger{
		level:  &lvl,
		output: output,
		logger: log.New(output, "", 0),
	}
}

// With returns a child logger that attaches key=value to every line
// it writes, in addition to any fields the parent already carries.
// Typical keys are "job" (a job.Job's ID) and "stage" (a pipeline
// component name); the returned logger still honors SetLevel/SetOutput
// calls made on the root logger it was derived from.
func (l *Logger) With(key, value string) *Logger {
	child := &Logger{
		level:  l.level,
		output: l.output,
		logger: l.logger,
		fields: make([]field, len(l.fields), len(l.fields)+1),
	}
	copy(child.fields, l.fields)
	child.fields = append(child.fields, field{key, value})
	return child
}

// SetLevel sets the logger's level. Every logger derived from it via
// With observes the change immediately, since they share the level
// pointer.
func (l *Logger) SetLevel(level Level) { *l.level = level }

// SetOutput changes the logger's output destination.
func (l *Logger) SetOutput(output io.Writer) {
	l.output = output
	l.logger.SetOutput(output)
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if *l.level > level {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	if len(l.fields) == 0 {
		l.logger.Printf("[%s] %s - %s", timestamp, level, msg)
		return
	}
	var tags strings.Builder
	for _, f := range l.fields {
		tags.WriteByte(' ')
		tags.WriteString(f.key)
		tags.WriteByte('=')
		tags.WriteString(f.value)
	}
	l.logger.Printf("[%s] %s%s - %s", timestamp, level, tags.String(), msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

func (l *Logger) Debug(msg string) { l.Debugf("%s", msg) }
func (l *Logger) Info(msg string)  { l.Infof("%s", msg) }
func (l *Logger) Warn(msg string)  { l.Warnf("%s", msg) }
func (l *Logger) Error(msg string) { l.Errorf("%s", msg) }

// SetGlobalLevel sets the level of the package default logger.
func SetGlobalLevel(level Level) { defaultLogger.SetLevel(level) }

// SetGlobalOutput sets the output of the package default logger.
func SetGlobalOutput(output io.Writer) { defaultLogger.SetOutput(output) }

// ForJob returns a logger scoped to jobID, derived from the package
// default logger. Component J calls this once per submitted job so
// every line its conversion goroutine emits can be grepped by job ID.
func ForJob(jobID string) *Logger { return defaultLogger.With("job", jobID) }

func Debugf(format string, args ...interface{}) { defaultLogger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { defaultLogger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { defaultLogger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { defaultLogger.Errorf(format, args...) }

func Debug(msg string) { defaultLogger.Debug(msg) }
func Info(msg string)  { defaultLogger.Info(msg) }
func Warn(msg string)  { defaultLogger.Warn(msg) }
func Error(msg string) { defaultLogger.Error(msg) }
