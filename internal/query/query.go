package query

import (
	"context"
	"time"
)

// Result holds the rows produced by one generated query. Rows are
// column-name keyed so they encode directly as JSON objects; Columns
// preserves the select-list order the map form loses.
type Result struct {
	Columns  []string
	Rows     []map[string]any
	Duration time.Duration
}

type Runner interface {
	Run(ctx context.Context, sqlText string) (Result, error)
}
