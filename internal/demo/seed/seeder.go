package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

const createCustomersSQL = `CREATE TABLE IF NOT EXISTS customers (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	country TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const createOrdersSQL = `CREATE TABLE IF NOT EXISTS orders (
	id BIGINT PRIMARY KEY,
	customer_id BIGINT NOT NULL,
	status TEXT NOT NULL,
	total_amount DOUBLE PRECISION NOT NULL,
	currency TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

const insertCustomerSQL = `INSERT INTO customers (id, name, email, country, created_at) VALUES ($1, $2, $3, $4, $5)`

const insertOrderSQL = `INSERT INTO orders (id, customer_id, status, total_amount, currency, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

type Service struct {
	cfg       Config
	log       *slog.Logger
	db        *sql.DB
	generator *Generator
}

type Summary struct {
	CustomersInserted int `json:"customers_inserted"`
	OrdersInserted    int `json:"orders_inserted"`
}

func NewService(cfg Config, logger *slog.Logger, db *sql.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	if cfg.Customers <= 0 {
		return nil, fmt.Errorf("customer count must be > 0")
	}
	if cfg.Orders <= 0 {
		return nil, fmt.Errorf("order count must be > 0")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		db:        db,
		generator: NewGenerator(cfg.Seed),
	}, nil
}

// Run creates the demo tables (recreating them first when Drop is set)
// and inserts the configured number of rows in one transaction.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s.cfg.Drop {
		if err := s.dropTables(ctx); err != nil {
			return Summary{}, err
		}
	}
	if err := s.ensureTables(ctx); err != nil {
		return Summary{}, err
	}

	summary, err := s.insertRows(ctx)
	if err != nil {
		return Summary{}, err
	}

	s.log.Info(
		"seeded demo tables",
		slog.Int("customers", summary.CustomersInserted),
		slog.Int("orders", summary.OrdersInserted),
		slog.Int64("seed", s.cfg.Seed),
	)
	return summary, nil
}

func (s *Service) dropTables(ctx context.Context) error {
	// Orders reference customers, so they go first.
	for _, stmt := range []string{"DROP TABLE IF EXISTS orders", "DROP TABLE IF EXISTS customers"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop demo tables: %w", err)
		}
	}
	return nil
}

func (s *Service) ensureTables(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCustomersSQL); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createOrdersSQL); err != nil {
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

func (s *Service) insertRows(ctx context.Context) (Summary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var summary Summary
	for i := 0; i < s.cfg.Customers; i++ {
		customer := s.generator.NextCustomer()
		_, err := tx.ExecContext(ctx, insertCustomerSQL,
			customer.ID, customer.Name, customer.Email, customer.Country, customer.CreatedAt)
		if err != nil {
			return Summary{}, fmt.Errorf("insert customer %d: %w", customer.ID, err)
		}
		summary.CustomersInserted++
	}
	for i := 0; i < s.cfg.Orders; i++ {
		order := s.generator.NextOrder(s.cfg.Customers)
		_, err := tx.ExecContext(ctx, insertOrderSQL,
			order.ID, order.CustomerID, order.Status, order.TotalAmount, order.Currency, order.CreatedAt)
		if err != nil {
			return Summary{}, fmt.Errorf("insert order %d: %w", order.ID, err)
		}
		summary.OrdersInserted++
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, fmt.Errorf("commit seed transaction: %w", err)
	}
	return summary, nil
}
