package telemetry

import (
	"log"

	"go.uber.org/zap"
)

// Logger exposes the logging capabilities required by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger to the Logger interface.
func WrapLogger(logger *log.Logger) Logger {
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *log.Logger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf(format, args...)
}

// StandardLogger exposes the wrapped logger for components that need one.
func (l *loggerAdapter) StandardLogger() *log.Logger {
	if l == nil {
		return nil
	}
	return l.logger
}

// WrapZap adapts a zap logger. Printf lines are written at info level.
func WrapZap(logger *zap.Logger) Logger {
	if logger == nil {
		return LoggerFunc(nil)
	}
	return &zapAdapter{logger: logger, sugar: logger.Sugar()}
}

type zapAdapter struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

func (z *zapAdapter) Printf(format string, args ...any) {
	z.sugar.Infof(format, args...)
}

// StandardLogger returns a *log.Logger writing through zap.
func (z *zapAdapter) StandardLogger() *log.Logger {
	return zap.NewStdLog(z.logger)
}

// Sync flushes buffered zap output.
func (z *zapAdapter) Sync() error {
	return z.logger.Sync()
}
