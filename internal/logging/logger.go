// Package logging wraps logrus for the driver packages.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	rlog "github.com/sirupsen/logrus"
)

// Logger is the logging surface used by the driver packages.
type Logger interface {
	rlog.Ext1FieldLogger
	SetLogLevel(level string) error
	GetLogLevel() string
	SetOutput(output io.Writer)
	WithContext(ctx context.Context) *rlog.Entry
}

type contextKey string

// ConnectionIDKey carries the connection id into log entries created with WithContext.
const ConnectionIDKey contextKey = "connection_id"

type defaultLogger struct {
	inner *rlog.Logger
}

// CreateDefaultLogger returns a text logger writing to stderr at info level.
func CreateDefaultLogger() Logger {
	inner := rlog.New()
	inner.SetOutput(os.Stderr)
	inner.SetFormatter(&rlog.TextFormatter{FullTimestamp: true})
	inner.SetLevel(rlog.InfoLevel)
	return &defaultLogger{inner: inner}
}

// SetLogLevel accepts logrus level names plus "off".
func (l *defaultLogger) SetLogLevel(level string) error {
	if strings.EqualFold(level, "off") {
		l.inner.SetOutput(io.Discard)
		l.inner.SetLevel(rlog.PanicLevel)
		return nil
	}
	actual, err := rlog.ParseLevel(level)
	if err != nil {
		return err
	}
	if l.inner.Out == io.Discard {
		l.inner.SetOutput(os.Stderr)
	}
	l.inner.SetLevel(actual)
	return nil
}

func (l *defaultLogger) GetLogLevel() string {
	if l.inner.Out == io.Discard {
		return "off"
	}
	return l.inner.GetLevel().String()
}

func (l *defaultLogger) SetOutput(output io.Writer) {
	l.inner.SetOutput(output)
}

func (l *defaultLogger) WithContext(ctx context.Context) *rlog.Entry {
	entry := rlog.NewEntry(l.inner)
	if ctx == nil {
		return entry
	}
	if id, ok := ctx.Value(ConnectionIDKey).(string); ok && id != "" {
		entry = entry.WithField(string(ConnectionIDKey), id)
	}
	return entry.WithContext(ctx)
}

func (l *defaultLogger) WithField(key string, value interface{}) *rlog.Entry {
	return l.inner.WithField(key, value)
}

func (l *defaultLogger) WithFields(fields rlog.Fields) *rlog.Entry {
	return l.inner.WithFields(fields)
}

func (l *defaultLogger) WithError(err error) *rlog.Entry {
	return l.inner.WithError(err)
}

func (l *defaultLogger) Tracef(format string, args ...interface{}) { l.inner.Tracef(format, args...) }
func (l *defaultLogger) Debugf(format string, args ...interface{}) { l.inner.Debugf(format, args...) }
func (l *defaultLogger) Infof(format string, args ...interface{})  { l.inner.Infof(format, args...) }
func (l *defaultLogger) Printf(format string, args ...interface{}) { l.inner.Printf(format, args...) }
func (l *defaultLogger) Warnf(format string, args ...interface{})  { l.inner.Warnf(format, args...) }
func (l *defaultLogger) Warningf(format string, args ...interface{}) {
	l.inner.Warningf(format, args...)
}
func (l *defaultLogger) Errorf(format string, args ...interface{}) { l.inner.Errorf(format, args...) }
func (l *defaultLogger) Fatalf(format string, args ...interface{}) { l.inner.Fatalf(format, args...) }
func (l *defaultLogger) Panicf(format string, args ...interface{}) { l.inner.Panicf(format, args...) }

func (l *defaultLogger) Trace(args ...interface{})   { l.inner.Trace(args...) }
func (l *defaultLogger) Debug(args ...interface{})   { l.inner.Debug(args...) }
func (l *defaultLogger) Info(args ...interface{})    { l.inner.Info(args...) }
func (l *defaultLogger) Print(args ...interface{})   { l.inner.Print(args...) }
func (l *defaultLogger) Warn(args ...interface{})    { l.inner.Warn(args...) }
func (l *defaultLogger) Warning(args ...interface{}) { l.inner.Warning(args...) }
func (l *defaultLogger) Error(args ...interface{})   { l.inner.Error(args...) }
func (l *defaultLogger) Fatal(args ...interface{})   { l.inner.Fatal(args...) }
func (l *defaultLogger) Panic(args ...interface{})   { l.inner.Panic(args...) }

func (l *defaultLogger) Traceln(args ...interface{})   { l.inner.Traceln(args...) }
func (l *defaultLogger) Debugln(args ...interface{})   { l.inner.Debugln(args...) }
func (l *defaultLogger) Infoln(args ...interface{})    { l.inner.Infoln(args...) }
func (l *defaultLogger) Println(args ...interface{})   { l.inner.Println(args...) }
func (l *defaultLogger) Warnln(args ...interface{})    { l.inner.Warnln(args...) }
func (l *defaultLogger) Warningln(args ...interface{}) { l.inner.Warningln(args...) }
func (l *defaultLogger) Errorln(args ...interface{})   { l.inner.Errorln(args...) }
func (l *defaultLogger) Fatalln(args ...interface{})   { l.inner.Fatalln(args...) }
func (l *defaultLogger) Panicln(args ...interface{})   { l.inner.Panicln(args...) }

var _ Logger = (*defaultLogger)(nil)
