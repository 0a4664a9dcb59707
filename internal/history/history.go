// Package history records every question the agent answers, alongside the
// SQL it generated and how the request ended. Records live in the
// dedicated sqlagent schema so the operator's application schema, which
// feeds table detection, stays untouched.
package history

import (
	"context"
	"time"
)

const (
	StatusGenerated = "generated"
	StatusExecuted  = "executed"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

type Record struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	TableName  string     `json:"table_name"`
	SQL        string     `json:"sql"`
	Status     string     `json:"status"`
	ErrorText  string     `json:"error,omitempty"`
	RowCount   int64      `json:"row_count"`
	DurationMs int64      `json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

type Store interface {
	Insert(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	ListUnarchived(ctx context.Context, limit int) ([]Record, error)
	MarkArchived(ctx context.Context, ids []string, when time.Time) error
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
