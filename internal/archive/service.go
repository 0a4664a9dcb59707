package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kennvh/sql-ai-agent/internal/history"
)

// HistoryStore is the slice of the history store the archiver drives.
type HistoryStore interface {
	ListUnarchived(ctx context.Context, limit int) ([]history.Record, error)
	MarkArchived(ctx context.Context, ids []string, archivedAt time.Time) error
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	Interval  time.Duration
	BatchSize int
	Retention time.Duration
}

type Service struct {
	History HistoryStore
	Store   ObjectStore
	Config  Config
	Logger  *slog.Logger
	Clock   func() time.Time
}

type ArchiveSummary struct {
	BatchesUploaded int   `json:"batches_uploaded"`
	RecordsArchived int   `json:"records_archived"`
	BytesUploaded   int64 `json:"bytes_uploaded"`
}

type RetentionSummary struct {
	RowsPruned int64 `json:"rows_pruned"`
}

// Run archives and prunes on a fixed interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.ensureDefaults()

	ticker := time.NewTicker(s.Config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			summary, err := s.RunArchiveOnce(ctx)
			if err != nil {
				if s.Logger != nil {
					s.Logger.ErrorContext(ctx, "archive cycle failed", slog.Any("error", err), slog.Any("summary", summary))
				}
				continue
			}
			if s.Logger != nil {
				s.Logger.InfoContext(ctx, "archive cycle completed", slog.Any("summary", summary))
			}

			pruned, err := s.RunRetentionOnce(ctx)
			if err != nil {
				if s.Logger != nil {
					s.Logger.ErrorContext(ctx, "retention cycle failed", slog.Any("error", err), slog.Any("summary", pruned))
				}
				continue
			}
			if s.Logger != nil && pruned.RowsPruned > 0 {
				s.Logger.InfoContext(ctx, "retention cycle completed", slog.Any("summary", pruned))
			}
		}
	}
}

// RunArchiveOnce drains unarchived history rows in batches, uploading each
// batch as one parquet object and marking the rows afterwards. If marking
// fails the same rows upload again on the next cycle; duplicate objects are
// acceptable for audit data.
func (s *Service) RunArchiveOnce(ctx context.Context) (ArchiveSummary, error) {
	s.ensureDefaults()
	if s.History == nil {
		return ArchiveSummary{}, fmt.Errorf("history store is required")
	}
	if s.Store == nil {
		return ArchiveSummary{}, fmt.Errorf("object store is required")
	}

	summary := ArchiveSummary{}
	for {
		records, err := s.History.ListUnarchived(ctx, s.Config.BatchSize)
		if err != nil {
			archiveRunsTotal.WithLabelValues("failed").Inc()
			return summary, fmt.Errorf("list unarchived history: %w", err)
		}
		if len(records) == 0 {
			break
		}

		encoded, err := EncodeRecords(records)
		if err != nil {
			archiveRunsTotal.WithLabelValues("failed").Inc()
			return summary, fmt.Errorf("encode history batch: %w", err)
		}

		key := BuildArchiveKey(s.Clock())
		info, err := s.Store.Put(ctx, key, bytes.NewReader(encoded.Data), int64(len(encoded.Data)), PutOptions{ContentType: "application/octet-stream"})
		if err != nil {
			archiveRunsTotal.WithLabelValues("failed").Inc()
			return summary, fmt.Errorf("upload archive object %q: %w", key, err)
		}

		ids := make([]string, 0, len(records))
		for _, record := range records {
			ids = append(ids, record.ID)
		}
		if err := s.History.MarkArchived(ctx, ids, s.Clock()); err != nil {
			archiveRunsTotal.WithLabelValues("failed").Inc()
			return summary, fmt.Errorf("mark batch archived: %w", err)
		}

		summary.BatchesUploaded++
		summary.RecordsArchived += len(records)
		summary.BytesUploaded += info.Size

		if len(records) < s.Config.BatchSize {
			break
		}
	}

	if summary.RecordsArchived > 0 {
		archiveRecordsTotal.Add(float64(summary.RecordsArchived))
	}
	archiveRunsTotal.WithLabelValues("completed").Inc()
	return summary, nil
}

// RunRetentionOnce deletes archived rows older than the retention window.
// A zero or negative retention disables pruning.
func (s *Service) RunRetentionOnce(ctx context.Context) (RetentionSummary, error) {
	s.ensureDefaults()
	if s.History == nil {
		return RetentionSummary{}, fmt.Errorf("history store is required")
	}
	if s.Config.Retention <= 0 {
		return RetentionSummary{}, nil
	}

	cutoff := s.Clock().Add(-s.Config.Retention)
	pruned, err := s.History.DeleteArchivedBefore(ctx, cutoff)
	if err != nil {
		return RetentionSummary{}, fmt.Errorf("prune archived history: %w", err)
	}
	if pruned > 0 {
		historyRowsPrunedTotal.Add(float64(pruned))
	}
	return RetentionSummary{RowsPruned: pruned}, nil
}

func (s *Service) ensureDefaults() {
	if s.Clock == nil {
		s.Clock = time.Now
	}
	if s.Config.Interval <= 0 {
		s.Config.Interval = 5 * time.Minute
	}
	if s.Config.BatchSize <= 0 {
		s.Config.BatchSize = 500
	}
}
