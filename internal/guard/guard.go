// Package guard enforces the read-only execution policy on generated SQL.
package guard

import (
	"errors"
	"strings"
)

// ErrNotSelect is returned for any statement the guard refuses to execute.
// Its text is the message callers surface to clients.
var ErrNotSelect = errors.New("Only SELECT statements are allowed")

// EnsureReadOnly accepts a statement only when its trimmed, lowercased
// text begins with "select". Everything else is rejected, including
// comment-prefixed selects and CTEs starting with "with". The check is
// prefix-only and does not parse the SQL, so a select-prefixed payload
// carrying a second destructive statement still passes.
func EnsureReadOnly(sqlText string) error {
	trimmed := strings.ToLower(strings.TrimSpace(sqlText))
	if !strings.HasPrefix(trimmed, "select") {
		return ErrNotSelect
	}
	return nil
}
