package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kennvh/sql-ai-agent/internal/config"
	"github.com/Kennvh/sql-ai-agent/internal/history"
	"github.com/Kennvh/sql-ai-agent/internal/nl2sql"
	"github.com/Kennvh/sql-ai-agent/internal/observability"
	"github.com/Kennvh/sql-ai-agent/internal/query"
	"github.com/Kennvh/sql-ai-agent/internal/schema"
)

type ReadinessCheck func(ctx context.Context) error

// HistoryRecorder is the slice of the history store the HTTP layer uses.
type HistoryRecorder interface {
	Insert(ctx context.Context, record history.Record) error
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

type Dependencies struct {
	Logger            *slog.Logger
	Readiness         ReadinessCheck
	DependencyTimeout time.Duration
	Inspector         schema.Inspector
	Translator        nl2sql.Translator
	Runner            query.Runner
	History           HistoryRecorder
	UI                http.Handler
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeDetail(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /generate-sql", func(w http.ResponseWriter, r *http.Request) {
		handleGenerateSQL(deps, w, r)
	})
	mux.HandleFunc("POST /execute-sql", func(w http.ResponseWriter, r *http.Request) {
		handleExecuteSQL(deps, w, r)
	})
	mux.HandleFunc("GET /history", func(w http.ResponseWriter, r *http.Request) {
		handleHistory(deps, w, r)
	})

	if deps.UI != nil {
		mux.Handle("GET /{path...}", deps.UI)
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

func CheckDatabase(ping func(ctx context.Context) error) ReadinessCheck {
	return func(ctx context.Context) error {
		return ping(ctx)
	}
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeDetail emits the {"detail": ...} error shape clients of the original
// endpoints already parse.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

// recordHistory persists an audit record without ever failing the request.
func recordHistory(ctx context.Context, deps Dependencies, record history.Record) {
	if deps.History == nil {
		return
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := deps.History.Insert(ctx, record); err != nil {
		observability.IncrementHistoryWriteFailure()
		if deps.Logger != nil {
			observability.WithTrace(ctx, deps.Logger).WarnContext(ctx, "history insert failed", slog.Any("error", err))
		}
	}
}
