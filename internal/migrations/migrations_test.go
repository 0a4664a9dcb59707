package migrations

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLoadMigrationsSortsAndPairsUpDown(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000002_two.up.sql":   {Data: []byte("SELECT 2;")},
		"sql/000002_two.down.sql": {Data: []byte("SELECT -2;")},
		"sql/000001_one.up.sql":   {Data: []byte("SELECT 1;")},
		"sql/000001_one.down.sql": {Data: []byte("SELECT -1;")},
	}

	items, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	if items[0].Version != 1 || items[1].Version != 2 {
		t.Fatalf("unexpected migration order: %+v", items)
	}
}

func TestLoadMigrationsErrorsWhenDownMissing(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_one.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := loadMigrations(fsys)
	if err == nil {
		t.Fatal("expected error for missing down migration")
	}
	if !strings.Contains(err.Error(), "missing down SQL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpAppliesPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_demo.up.sql":   {Data: []byte("CREATE TABLE sqlagent.demo (id TEXT)")},
		"sql/000001_demo.down.sql": {Data: []byte("DROP TABLE sqlagent.demo")},
	}
	db, mock := newSQLMock(t)
	defer func() { _ = db.Close() }()

	expectEnsureMigrationTable(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM sqlagent.schema_migrations ORDER BY version ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE sqlagent.demo`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sqlagent.schema_migrations (version) VALUES ($1)`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	runner := &Runner{fsys: fsys}
	applied, err := runner.Up(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if applied != 1 {
		t.Fatalf("Up() applied = %d, want 1", applied)
	}
	assertSQLMock(t, mock)
}

func TestUpSkipsAlreadyAppliedVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_one.up.sql":   {Data: []byte("CREATE TABLE sqlagent.one (id TEXT)")},
		"sql/000001_one.down.sql": {Data: []byte("DROP TABLE sqlagent.one")},
		"sql/000002_two.up.sql":   {Data: []byte("CREATE TABLE sqlagent.two (id TEXT)")},
		"sql/000002_two.down.sql": {Data: []byte("DROP TABLE sqlagent.two")},
	}
	db, mock := newSQLMock(t)
	defer func() { _ = db.Close() }()

	expectEnsureMigrationTable(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM sqlagent.schema_migrations ORDER BY version ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE sqlagent.two`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sqlagent.schema_migrations (version) VALUES ($1)`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	runner := &Runner{fsys: fsys}
	applied, err := runner.Up(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("Up() error = %v", err)
	}
	if applied != 1 {
		t.Fatalf("Up() applied = %d, want 1", applied)
	}
	assertSQLMock(t, mock)
}

func TestDownRollsBackLatestMigration(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_one.up.sql":   {Data: []byte("CREATE TABLE sqlagent.one (id TEXT)")},
		"sql/000001_one.down.sql": {Data: []byte("DROP TABLE sqlagent.one")},
		"sql/000002_two.up.sql":   {Data: []byte("CREATE TABLE sqlagent.two (id TEXT)")},
		"sql/000002_two.down.sql": {Data: []byte("DROP TABLE sqlagent.two")},
	}
	db, mock := newSQLMock(t)
	defer func() { _ = db.Close() }()

	expectEnsureMigrationTable(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM sqlagent.schema_migrations ORDER BY version DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(2)).AddRow(int64(1)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE sqlagent.two`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sqlagent.schema_migrations WHERE version = $1`)).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	runner := &Runner{fsys: fsys}
	rolledBack, err := runner.Down(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("Down() error = %v", err)
	}
	if rolledBack != 1 {
		t.Fatalf("Down() rolled back = %d, want 1", rolledBack)
	}
	assertSQLMock(t, mock)
}

func expectEnsureMigrationTable(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS sqlagent`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS sqlagent.schema_migrations`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return db, mock
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
