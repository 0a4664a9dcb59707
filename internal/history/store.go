package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DatabaseStore implements Store over the shared operator database.
// Statements use $N placeholders, which both supported drivers accept.
type DatabaseStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Insert(ctx context.Context, rec Record) error {
	query := `
INSERT INTO sqlagent.query_history (id, question, table_name, generated_sql, status, error_text, row_count, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Question,
		rec.TableName,
		rec.SQL,
		rec.Status,
		rec.ErrorText,
		rec.RowCount,
		rec.DurationMs,
	); err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

func (s *DatabaseStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `
SELECT id, question, table_name, generated_sql, status, error_text, row_count, duration_ms, created_at, archived_at
FROM sqlagent.query_history
ORDER BY created_at DESC
LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent history: %w", err)
	}
	return scanRecords(rows)
}

func (s *DatabaseStore) ListUnarchived(ctx context.Context, limit int) ([]Record, error) {
	query := `
SELECT id, question, table_name, generated_sql, status, error_text, row_count, duration_ms, created_at, archived_at
FROM sqlagent.query_history
WHERE archived_at IS NULL
ORDER BY created_at ASC
LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unarchived history: %w", err)
	}
	return scanRecords(rows)
}

func (s *DatabaseStore) MarkArchived(ctx context.Context, ids []string, when time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, when)
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}
	query := fmt.Sprintf(`
UPDATE sqlagent.query_history
SET archived_at = $1
WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark history archived: %w", err)
	}
	return nil
}

func (s *DatabaseStore) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
DELETE FROM sqlagent.query_history
WHERE archived_at IS NOT NULL AND created_at < $1`
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete archived history: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted history rows: %w", err)
	}
	return deleted, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer func() { _ = rows.Close() }()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var archivedAt sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.Question,
			&rec.TableName,
			&rec.SQL,
			&rec.Status,
			&rec.ErrorText,
			&rec.RowCount,
			&rec.DurationMs,
			&rec.CreatedAt,
			&archivedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if archivedAt.Valid {
			when := archivedAt.Time
			rec.ArchivedAt = &when
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}
