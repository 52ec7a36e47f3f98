package logger

import (
	"fmt"

	"github.com/philipp01105/logsink/core"
)

// Logger is the logging call surface (immutable). Logging calls never
// return errors: before Init the record is buffered, after Init it is
// handed to the dispatcher and sink failures are reported out of band.
type Logger struct {
	reg           *registry
	fields        []core.Field
	includeCaller bool
	callerSkip    int
}

const defaultCallerSkip = 3

var std = &Logger{reg: global, callerSkip: defaultCallerSkip}

// Default returns the process-wide logger
func Default() *Logger {
	return std
}

// With creates a new Logger with additional fields (immutable operation)
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &Logger{
		reg:           l.reg,
		fields:        newFields,
		includeCaller: l.includeCaller,
		callerSkip:    l.callerSkip,
	}
}

// WithCaller creates a new Logger that records call-site information
func (l *Logger) WithCaller(enabled bool) *Logger {
	c := *l
	c.includeCaller = enabled
	return &c
}

// log builds one record and hands it off. Before Init the record is
// buffered unfiltered; level filtering is applied when it is replayed.
func (l *Logger) log(level core.Level, msg string, fields []core.Field) {
	d := l.reg.dispatcher()
	if d != nil && !d.Enabled(level) {
		return
	}

	rec := core.GetRecord()
	rec.Level = level
	rec.Message = msg
	if len(l.fields) > 0 {
		rec.Fields = append(rec.Fields, l.fields...)
	}
	if len(fields) > 0 {
		rec.Fields = append(rec.Fields, fields...)
	}
	if l.includeCaller {
		rec.Caller = core.GetCaller(l.callerSkip)
	}

	if d == nil {
		l.reg.buffer(rec)
		return
	}
	d.Dispatch(rec)
	core.PutRecord(rec)
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	l.log(level, msg, fields)
}

// Trace logs a trace message
func (l *Logger) Trace(msg string, fields ...core.Field) {
	l.log(core.TraceLevel, msg, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	l.log(core.InfoLevel, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...core.Field) {
	l.log(core.WarnLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	l.log(core.ErrorLevel, msg, fields)
}

// Tracef logs a trace message with formatting
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.logf(core.TraceLevel, format, args)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(core.DebugLevel, format, args)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(core.InfoLevel, format, args)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(core.WarnLevel, format, args)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(core.ErrorLevel, format, args)
}

// logf defers the Sprintf until the level check has passed
func (l *Logger) logf(level core.Level, format string, args []interface{}) {
	if d := l.reg.dispatcher(); d != nil && !d.Enabled(level) {
		return
	}
	l.log(level, fmt.Sprintf(format, args...), nil)
}

// Package-level convenience functions using the default logger

// Trace logs a trace message using the default logger
func Trace(msg string, fields ...core.Field) {
	std.log(core.TraceLevel, msg, fields)
}

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...core.Field) {
	std.log(core.DebugLevel, msg, fields)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...core.Field) {
	std.log(core.InfoLevel, msg, fields)
}

// Warn logs a warning message using the default logger
func Warn(msg string, fields ...core.Field) {
	std.log(core.WarnLevel, msg, fields)
}

// Error logs an error message using the default logger
func Error(msg string, fields ...core.Field) {
	std.log(core.ErrorLevel, msg, fields)
}

// Tracef logs a formatted trace message using the default logger
func Tracef(format string, args ...interface{}) {
	std.logf(core.TraceLevel, format, args)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) {
	std.logf(core.DebugLevel, format, args)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	std.logf(core.InfoLevel, format, args)
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) {
	std.logf(core.WarnLevel, format, args)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	std.logf(core.ErrorLevel, format, args)
}

// With creates a new logger with additional fields
func With(fields ...core.Field) *Logger {
	return std.With(fields...)
}
