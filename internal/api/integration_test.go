//go:build integration

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Kennvh/sql-ai-agent/internal/config"
	"github.com/Kennvh/sql-ai-agent/internal/demo/seed"
	"github.com/Kennvh/sql-ai-agent/internal/history"
	"github.com/Kennvh/sql-ai-agent/internal/migrations"
	"github.com/Kennvh/sql-ai-agent/internal/nl2sql"
	"github.com/Kennvh/sql-ai-agent/internal/query"
	"github.com/Kennvh/sql-ai-agent/internal/schema"
)

// TestAgentPipelineAgainstPostgres drives the full question-to-rows path
// against a throwaway Postgres database: migrations, demo seed data, a fake
// chat-completions endpoint, and the real handler wired with the real
// inspector, translator, runner and history store.
func TestAgentPipelineAgainstPostgres(t *testing.T) {
	adminDSN := strings.TrimSpace(os.Getenv("SQLAGENT_TEST_DATABASE_DSN"))
	if adminDSN == "" {
		t.Skip("SQLAGENT_TEST_DATABASE_DSN is not set")
	}

	testDSN, cleanup := createTemporaryDatabase(t, adminDSN)
	defer cleanup()

	db, err := sql.Open("pgx", testDSN)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := migrations.NewRunner().Up(ctx, db, 0); err != nil {
		t.Fatalf("runner.Up() error = %v", err)
	}

	seeder, err := seed.NewService(seed.Config{Customers: 3, Orders: 5, Seed: 42}, nil, db)
	if err != nil {
		t.Fatalf("seed.NewService() error = %v", err)
	}
	summary, err := seeder.Run(ctx)
	if err != nil {
		t.Fatalf("seeder.Run() error = %v", err)
	}
	if summary.OrdersInserted != 5 {
		t.Fatalf("OrdersInserted = %d, want 5", summary.OrdersInserted)
	}

	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("model path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "```sql\nSELECT * FROM orders;\n```"}},
			},
		})
	}))
	defer model.Close()

	translator, err := nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
		BaseURL: model.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewOpenAITranslator() error = %v", err)
	}

	cfg, err := config.Load("sqlagent-api", mapLookup(map[string]string{
		"DATABASE_URL":   testDSN,
		"OPENAI_API_KEY": "test-key",
	}))
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	dialect, err := schema.DialectFor(cfg.Database.Driver)
	if err != nil {
		t.Fatalf("schema.DialectFor() error = %v", err)
	}
	handler := NewHandler(cfg, Dependencies{
		Inspector:  schema.NewInspector(db, dialect),
		Translator: translator,
		Runner:     query.NewRunner(db),
		History:    history.NewStore(db),
	})

	rec := postJSON(t, handler, "/execute-sql", map[string]string{"question": "show all orders"})
	if rec.Code != http.StatusOK {
		t.Fatalf("execute-sql status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var executed struct {
		SQL  string           `json:"sql"`
		Rows []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &executed); err != nil {
		t.Fatalf("decode execute response: %v", err)
	}
	if executed.SQL != "SELECT * FROM orders;" {
		t.Fatalf("sql = %q", executed.SQL)
	}
	if len(executed.Rows) != 5 {
		t.Fatalf("row count = %d, want 5", len(executed.Rows))
	}

	var executedCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlagent.query_history WHERE status = 'executed'`).Scan(&executedCount); err != nil {
		t.Fatalf("count executed history: %v", err)
	}
	if executedCount != 1 {
		t.Fatalf("executed history rows = %d, want 1", executedCount)
	}

	rec = postJSON(t, handler, "/generate-sql", map[string]string{"question": "compare customers with their orders"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ambiguous status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var ambiguous struct {
		Detail     string   `json:"detail"`
		Candidates []string `json:"candidates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ambiguous); err != nil {
		t.Fatalf("decode ambiguity response: %v", err)
	}
	if !strings.HasPrefix(ambiguous.Detail, "Could not detect table. Matches: ") {
		t.Fatalf("detail = %q", ambiguous.Detail)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("candidates = %v, want two tables", ambiguous.Candidates)
	}

	historyReq := httptest.NewRequest(http.MethodGet, "/history?limit=10", nil)
	historyRec := httptest.NewRecorder()
	handler.ServeHTTP(historyRec, historyReq)
	if historyRec.Code != http.StatusOK {
		t.Fatalf("history status = %d, body = %s", historyRec.Code, historyRec.Body.String())
	}
	var listed struct {
		Records []history.Record `json:"records"`
	}
	if err := json.Unmarshal(historyRec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	if len(listed.Records) != 2 {
		t.Fatalf("history records = %d, want 2", len(listed.Records))
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func createTemporaryDatabase(t *testing.T, adminDSN string) (string, func()) {
	t.Helper()

	parsed, err := url.Parse(adminDSN)
	if err != nil {
		t.Fatalf("url.Parse(adminDSN) error = %v", err)
	}
	if strings.TrimPrefix(parsed.Path, "/") == "" {
		t.Fatal("admin DSN must include a database name")
	}

	adminDB, err := sql.Open("pgx", adminDSN)
	if err != nil {
		t.Fatalf("sql.Open(adminDSN) error = %v", err)
	}

	name := fmt.Sprintf("sqlagent_api_it_%d", time.Now().UnixNano())
	if _, err := adminDB.Exec(`CREATE DATABASE ` + name); err != nil {
		t.Fatalf("CREATE DATABASE failed: %v", err)
	}

	testURL := *parsed
	testURL.Path = "/" + name
	testDSN := testURL.String()

	cleanup := func() {
		defer func() { _ = adminDB.Close() }()
		if _, err := adminDB.Exec(`SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1`, name); err != nil {
			t.Fatalf("terminate test db sessions: %v", err)
		}
		if _, err := adminDB.Exec(`DROP DATABASE ` + name); err != nil {
			t.Fatalf("DROP DATABASE failed: %v", err)
		}
	}
	return testDSN, cleanup
}
