package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/viant/chatflow/internal/logging"
)

// LogSink writes records to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// Append logs the record.
func (s *LogSink) Append(ctx context.Context, record *Record) error {
	intent := ""
	if record.Intent != nil {
		intent = *record.Intent
	}
	s.logger.InfoContext(ctx, "activity",
		"execution", record.ExecutionID,
		"user_phone", record.UserPhone,
		"intent", intent,
		"response_status", record.Status,
		"processing_time", record.ProcessingTime,
	)
	return nil
}

// NewLogSink creates a log sink; a nil logger uses the "audit" component logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = logging.New("audit")
	}
	return &LogSink{logger: logger}
}

// MemorySink keeps records in memory.
type MemorySink struct {
	mux     sync.Mutex
	records []*Record
}

// Append stores a copy of the record.
func (s *MemorySink) Append(_ context.Context, record *Record) error {
	clone := *record
	s.mux.Lock()
	s.records = append(s.records, &clone)
	s.mux.Unlock()
	return nil
}

// Records returns stored records.
func (s *MemorySink) Records() []*Record {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]*Record(nil), s.records...)
}

// NewMemorySink creates an in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}
