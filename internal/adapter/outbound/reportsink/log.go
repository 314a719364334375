package reportsink

import (
	"context"

	"go.uber.org/zap"

	"github.com/paysync/server/internal/module/payments"
)

// LogSink writes report entries to the process log. Useful for local runs
// and environments where the log pipeline itself feeds alerting.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new log-backed report sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Write emits one entry as a structured error log record.
func (s *LogSink) Write(_ context.Context, entry payments.ReportEntry) error {
	s.logger.Error("error report",
		zap.Time("event_time", entry.EventTime),
		zap.String("service", entry.Service),
		zap.String("resource_type", entry.ResourceType),
		zap.Any("context", entry.Context),
		zap.String("message", entry.Message),
	)
	return nil
}

// Compile-time check
var _ payments.ReportSink = (*LogSink)(nil)
