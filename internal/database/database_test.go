package database

import (
	"context"
	"testing"
)

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres"})
	if err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"", "pgx"},
		{"postgres", "pgx"},
		{"duckdb", "duckdb"},
	}
	for _, tt := range tests {
		got, err := driverName(tt.driver)
		if err != nil {
			t.Fatalf("driverName(%q) error = %v", tt.driver, err)
		}
		if got != tt.want {
			t.Fatalf("driverName(%q) = %q, want %q", tt.driver, got, tt.want)
		}
	}
}
