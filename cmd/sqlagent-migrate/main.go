package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kennvh/sql-ai-agent/internal/database"
	"github.com/Kennvh/sql-ai-agent/internal/migrations"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up|down")
	steps := flag.Int("steps", 0, "number of migration steps; 0 means all for up, 1 for down")
	dsn := flag.String("dsn", "", "database DSN; defaults to DATABASE_URL")
	driver := flag.String("driver", "", "database driver: postgres|duckdb; defaults to SQLAGENT_DATABASE_DRIVER")
	flag.Parse()

	_ = godotenv.Load()

	resolvedDSN := strings.TrimSpace(*dsn)
	if resolvedDSN == "" {
		resolvedDSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if resolvedDSN == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL or -dsn is required")
		os.Exit(1)
	}
	resolvedDriver := strings.TrimSpace(*driver)
	if resolvedDriver == "" {
		resolvedDriver = strings.TrimSpace(os.Getenv("SQLAGENT_DATABASE_DRIVER"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, database.Config{Driver: resolvedDriver, DSN: resolvedDSN})
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	runner := migrations.NewRunner()
	switch *direction {
	case "up":
		applied, err := runner.Up(ctx, db, *steps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migration up failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("applied %d migration(s)\n", applied)
	case "down":
		applied, err := runner.Down(ctx, db, *steps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "migration down failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("rolled back %d migration(s)\n", applied)
	default:
		fmt.Fprintf(os.Stderr, "invalid direction: %s\n", *direction)
		os.Exit(1)
	}
}
