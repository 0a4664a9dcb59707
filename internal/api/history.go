package api

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	historyDefaultLimit = 20
	historyMaxLimit     = 500
)

func handleHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.History == nil {
		writeDetail(w, http.StatusNotImplemented, "history is not enabled")
		return
	}

	limit := historyDefaultLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeDetail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}

	records, err := deps.History.Recent(r.Context(), limit)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "load history: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
