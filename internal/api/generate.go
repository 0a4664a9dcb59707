package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Kennvh/sql-ai-agent/internal/detect"
	"github.com/Kennvh/sql-ai-agent/internal/history"
	"github.com/Kennvh/sql-ai-agent/internal/nl2sql"
	"github.com/Kennvh/sql-ai-agent/internal/observability"
)

type generateSQLRequest struct {
	Question string `json:"question"`
}

type generateSQLResponse struct {
	SQL     string `json:"sql"`
	Warning string `json:"warning"`
}

// generatedQuery is the output of the shared question-to-SQL pipeline.
type generatedQuery struct {
	Table   string
	Columns []string
	SQL     string
}

func handleGenerateSQL(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Inspector == nil || deps.Translator == nil {
		writeDetail(w, http.StatusNotImplemented, "sql generation is not configured")
		return
	}

	var request generateSQLRequest
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
		writeQueryPipelineError(w, err, "")
		return
	}

	recordHistory(r.Context(), deps, history.Record{
		Question:   request.Question,
		TableName:  generated.Table,
		SQL:        generated.SQL,
		Status:     history.StatusGenerated,
		DurationMs: time.Since(start).Milliseconds(),
	})

	// Warning stays in the payload even when empty so existing clients can
	// read it unconditionally.
	writeJSON(w, http.StatusOK, generateSQLResponse{SQL: generated.SQL, Warning: ""})
}

// generateForQuestion runs table detection, schema lookup and translation for
// a question. Detection errors come back untouched so the boundary can map
// them; everything else is wrapped with the failing step.
func generateForQuestion(ctx context.Context, deps Dependencies, question string) (generatedQuery, error) {
	tables, err := deps.Inspector.ListTables(ctx)
	if err != nil {
		return generatedQuery{}, fmt.Errorf("list tables: %w", err)
	}

	table, err := detect.Detect(question, tables)
	if err != nil {
		var ambiguity *detect.AmbiguityError
		if errors.As(err, &ambiguity) {
			observability.ObserveTableDetection(len(ambiguity.Candidates))
		}
		return generatedQuery{}, err
	}
	observability.ObserveTableDetection(1)

	described, err := deps.Inspector.Describe(ctx, table)
	if err != nil {
		return generatedQuery{Table: table}, fmt.Errorf("describe table %s: %w", table, err)
	}

	translateStart := time.Now()
	result, err := deps.Translator.Translate(ctx, nl2sql.Request{
		Question: question,
		Table:    described.Table,
		Columns:  described.Columns,
	})
	observability.ObserveTranslation(err == nil, time.Since(translateStart))
	if err != nil {
		return generatedQuery{Table: table, Columns: described.Columns}, fmt.Errorf("generate sql: %w", err)
	}

	return generatedQuery{Table: table, Columns: described.Columns, SQL: result.SQL}, nil
}

// writeQueryPipelineError maps pipeline failures onto the wire contract:
// ambiguous or missed detection is a client error carrying the candidate
// list, anything else is a server error whose detail is the failure text.
func writeQueryPipelineError(w http.ResponseWriter, err error, serverErrPrefix string) {
	var ambiguity *detect.AmbiguityError
	if errors.As(err, &ambiguity) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail":     ambiguity.Error(),
			"candidates": ambiguity.Candidates,
		})
		return
	}
	writeDetail(w, http.StatusInternalServerError, serverErrPrefix+err.Error())
}

// decodeJSONBody deliberately tolerates unknown fields, matching what
// clients of the original endpoints were allowed to send.
func decodeJSONBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
