// Package log defines the small structured logger used by views and the CLI,
// with a zap-backed implementation.
package log

import "go.uber.org/zap"

// Logger emits messages with alternating key/value pairs.
type Logger interface {
	Debug(msg string, keyAndValues ...any)
	Info(msg string, keyAndValues ...any)
	Warn(msg string, keyAndValues ...any)
	Error(msg string, keyAndValues ...any)
}

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct {
	inner *zap.SugaredLogger
}

// NewZapLogger wraps log. A nil logger yields a no-op logger.
func NewZapLogger(log *zap.Logger) ZapLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return ZapLogger{inner: log.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewZapLogger(zap.NewNop())
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

func (l ZapLogger) Debug(msg string, keyAndValues ...any) {
	l.inner.Debugw(msg, keyAndValues...)
}

func (l ZapLogger) Info(msg string, keyAndValues ...any) {
	l.inner.Infow(msg, keyAndValues...)
}

func (l ZapLogger) Warn(msg string, keyAndValues ...any) {
	l.inner.Warnw(msg, keyAndValues...)
}

func (l ZapLogger) Error(msg string, keyAndValues ...any) {
	l.inner.Errorw(msg, keyAndValues...)
}

// With returns a logger that adds the given key/value pairs to every entry.
func (l ZapLogger) With(keyAndValues ...any) ZapLogger {
	return ZapLogger{inner: l.inner.With(keyAndValues...)}
}
