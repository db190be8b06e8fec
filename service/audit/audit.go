// Package audit records one activity line per execution reaching a logger node.
package audit

import (
	"context"
	"time"
)

// Status values of a record.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is a single activity entry.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id,omitempty"`
	UserPhone   string    `json:"user_phone"`
	Intent      *string   `json:"intent"`
	Status      string    `json:"response_status"`
	// ProcessingTime is the elapsed time in seconds when the record was made.
	ProcessingTime float64 `json:"processing_time"`
	// Target is the destination declared by the logger node, e.g. a file path.
	Target string `json:"-"`
}

// Sink appends records.
type Sink interface {
	Append(ctx context.Context, record *Record) error
}
