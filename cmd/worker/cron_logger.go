package main

import (
	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

// cronLogger routes cron's scheduler chatter to debug and its panics and errors to error.
type cronLogger struct {
	logger *logging.Logger
}

var _ cron.Logger = cronLogger{}

func newCronLogger(logger *logging.Logger) cronLogger {
	return cronLogger{logger: logger.Named("cron")}
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"error", err}, keysAndValues...)
	l.logger.Error(msg, args...)
}
