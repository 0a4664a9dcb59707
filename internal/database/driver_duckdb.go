//go:build cgo

package database

// go-duckdb is cgo-only; the "duckdb" driver can only be registered in
// cgo-enabled builds.
import _ "github.com/marcboeker/go-duckdb/v2"
