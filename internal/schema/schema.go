package schema

import "context"

// Schema describes one table: its name plus the column names in ordinal
// order. It is built fresh per request and never cached.
type Schema struct {
	Table   string
	Columns []string
}

// Inspector reads table and column names from the database's catalog
// views, restricted to the operator's application schema.
type Inspector interface {
	ListTables(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, table string) (Schema, error)
}
