package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// DatabaseInspector implements Inspector over a *sql.DB using the
// dialect's information_schema queries. Driver errors surface wrapped but
// untranslated; there are no retries.
type DatabaseInspector struct {
	db      *sql.DB
	dialect Dialect
}

func NewInspector(db *sql.DB, dialect Dialect) *DatabaseInspector {
	return &DatabaseInspector{db: db, dialect: dialect}
}

func (i *DatabaseInspector) ListTables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, i.dialect.tablesQuery, i.dialect.DefaultSchema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}
	return tables, nil
}

func (i *DatabaseInspector) Describe(ctx context.Context, table string) (Schema, error) {
	rows, err := i.db.QueryContext(ctx, i.dialect.columnsQuery, i.dialect.DefaultSchema, table)
	if err != nil {
		return Schema{}, fmt.Errorf("list columns for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return Schema{}, fmt.Errorf("scan column row: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return Schema{}, fmt.Errorf("iterate column rows: %w", err)
	}
	return Schema{Table: table, Columns: columns}, nil
}
