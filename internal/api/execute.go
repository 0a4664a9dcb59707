package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Kennvh/sql-ai-agent/internal/guard"
	"github.com/Kennvh/sql-ai-agent/internal/history"
	"github.com/Kennvh/sql-ai-agent/internal/observability"
)

type executeSQLRequest struct {
	Question string `json:"question"`
}

type executeSQLResponse struct {
	SQL  string           `json:"sql"`
	Rows []map[string]any `json:"rows"`
}

func handleExecuteSQL(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Inspector == nil || deps.Translator == nil || deps.Runner == nil {
		writeDetail(w, http.StatusNotImplemented, "sql execution is not configured")
		return
	}

	var request executeSQLRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	generated, err := generateForQuestion(r.Context(), deps, request.Question)
	if err != nil {
		recordHistory(r.Context(), deps, history.Record{
			Question:   request.Question,
			TableName:  generated.Table,
			Status:     history.StatusFailed,
			ErrorText:  err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		writeQueryPipelineError(w, err, "Query failed: ")
		return
	}

	if err := guard.EnsureReadOnly(generated.SQL); err != nil {
		observability.IncrementGuardRejection()
		recordHistory(r.Context(), deps, history.Record{
			Question:   request.Question,
			TableName:  generated.Table,
			SQL:        generated.SQL,
			Status:     history.StatusRejected,
			ErrorText:  err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		if errors.Is(err, guard.ErrNotSelect) {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		writeDetail(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}

	result, err := deps.Runner.Run(r.Context(), generated.SQL)
	observability.ObserveQueryExecution(err == nil, time.Since(start))
	if err != nil {
		recordHistory(r.Context(), deps, history.Record{
			Question:   request.Question,
			TableName:  generated.Table,
			SQL:        generated.SQL,
			Status:     history.StatusFailed,
			ErrorText:  err.Error(),
			DurationMs: time.Since(start).Milliseconds(),
		})
		writeDetail(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}

	recordHistory(r.Context(), deps, history.Record{
		Question:   request.Question,
		TableName:  generated.Table,
		SQL:        generated.SQL,
		Status:     history.StatusExecuted,
		RowCount:   int64(len(result.Rows)),
		DurationMs: result.Duration.Milliseconds(),
	})

	writeJSON(w, http.StatusOK, executeSQLResponse{SQL: generated.SQL, Rows: result.Rows})
}
