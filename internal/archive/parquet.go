package archive

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/Kennvh/sql-ai-agent/internal/history"
)

type EncodeResult struct {
	Data        []byte
	RecordCount int64
}

type historyRow struct {
	ID              string `parquet:"id"`
	Question        string `parquet:"question"`
	TableName       string `parquet:"table_name"`
	GeneratedSQL    string `parquet:"generated_sql"`
	Status          string `parquet:"status"`
	ErrorText       string `parquet:"error_text"`
	RowCount        int64  `parquet:"row_count"`
	DurationMs      int64  `parquet:"duration_ms"`
	CreatedAtUnixMs int64  `parquet:"created_at_unix_ms"`
}

func EncodeRecords(records []history.Record) (EncodeResult, error) {
	if len(records) == 0 {
		return EncodeResult{}, fmt.Errorf("records are required")
	}

	rows := make([]historyRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, historyRow{
			ID:              record.ID,
			Question:        record.Question,
			TableName:       record.TableName,
			GeneratedSQL:    record.SQL,
			Status:          record.Status,
			ErrorText:       record.ErrorText,
			RowCount:        record.RowCount,
			DurationMs:      record.DurationMs,
			CreatedAtUnixMs: record.CreatedAt.UTC().UnixMilli(),
		})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[historyRow](buf)
	if _, err := writer.Write(rows); err != nil {
		return EncodeResult{}, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return EncodeResult{}, fmt.Errorf("close parquet writer: %w", err)
	}

	return EncodeResult{
		Data:        buf.Bytes(),
		RecordCount: int64(len(rows)),
	}, nil
}
