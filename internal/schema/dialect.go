package schema

import "fmt"

// Dialect carries the information_schema queries for one database engine.
// The query text differs per engine in placeholder style only; the
// application schema name is always bound as the first argument.
type Dialect struct {
	Name          string
	DefaultSchema string
	tablesQuery   string
	columnsQuery  string
}

var Postgres = Dialect{
	Name:          "postgres",
	DefaultSchema: "public",
	tablesQuery: `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1
ORDER BY table_name ASC`,
	columnsQuery: `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position ASC`,
}

var DuckDB = Dialect{
	Name:          "duckdb",
	DefaultSchema: "main",
	tablesQuery: `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = ?
ORDER BY table_name ASC`,
	columnsQuery: `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = ? AND table_name = ?
ORDER BY ordinal_position ASC`,
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "", "postgres":
		return Postgres, nil
	case "duckdb":
		return DuckDB, nil
	default:
		return Dialect{}, fmt.Errorf("no schema dialect for driver %q", driver)
	}
}
