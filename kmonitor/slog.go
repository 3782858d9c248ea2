package kmonitor

import (
	"context"
	"log/slog"
)

type slogMonitor struct {
	log   *slog.Logger
	level slog.Level
}

// Slog returns a Monitor writing every report as a structured log line.
func Slog(log *slog.Logger, level slog.Level) Monitor {
	return &slogMonitor{log: log, level: level}
}

func (m *slogMonitor) ReportStatistics(s Statistics) {
	m.log.Log(context.Background(), m.level, "Chain statistics",
		"task", s.Task,
		"subtask", s.Subtask,
		"link", s.Link,
		"records", s.Records,
		"consumed_bytes", s.ConsumedBytes,
		"produced_bytes", s.ProducedBytes,
	)
}
