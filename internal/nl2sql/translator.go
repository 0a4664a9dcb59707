package nl2sql

import "context"

// Request carries one generation call: the caller's question verbatim plus
// the schema description grounding it.
type Request struct {
	Question string   `json:"question"`
	Table    string   `json:"table"`
	Columns  []string `json:"columns"`
}

type Result struct {
	SQL      string `json:"sql"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
