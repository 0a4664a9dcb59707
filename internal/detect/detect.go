// Package detect maps a free-text question to exactly one known table
// name. The heuristic is a case-insensitive substring match: no
// tokenization, no word boundaries, no ranking. Tables named with common
// English words will false-positive and singular/plural mismatches will
// false-negative; that is accepted behavior.
package detect

import (
	"fmt"
	"strings"
)

// AmbiguityError reports that a question matched zero or more than one
// table. Candidates carries every matching table name and may be empty.
type AmbiguityError struct {
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("Could not detect table. Matches: %v", e.Candidates)
}

// Detect returns the single table whose lowercased name appears in the
// lowercased question. Zero or multiple matches fail with an
// AmbiguityError; detection is never retried or disambiguated.
func Detect(question string, tables []string) (string, error) {
	lowered := strings.ToLower(question)
	candidates := make([]string, 0)
	for _, table := range tables {
		if strings.Contains(lowered, strings.ToLower(table)) {
			candidates = append(candidates, table)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return "", &AmbiguityError{Candidates: candidates}
}
