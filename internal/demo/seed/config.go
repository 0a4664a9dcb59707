// Package seed creates the demo customers and orders tables the agent
// answers questions about and fills them with deterministic synthetic
// rows.
package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	DSN       string
	Driver    string
	Customers int
	Orders    int
	Drop      bool
	Seed      int64
}

func DefaultConfig() Config {
	return Config{
		Driver:    "postgres",
		Customers: 50,
		Orders:    200,
		Drop:      false,
		Seed:      time.Now().UTC().UnixNano(),
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if err := applyString(lookup, "DATABASE_URL", &cfg.DSN); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SQLAGENT_SEED_DSN", &cfg.DSN); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SQLAGENT_DATABASE_DRIVER", &cfg.Driver); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "SQLAGENT_SEED_DRIVER", &cfg.Driver); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "SQLAGENT_SEED_CUSTOMERS", &cfg.Customers); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "SQLAGENT_SEED_ORDERS", &cfg.Orders); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "SQLAGENT_SEED_DROP", &cfg.Drop); err != nil {
		return Config{}, err
	}
	if err := applyInt64(lookup, "SQLAGENT_SEED_SEED", &cfg.Seed); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.DSN) == "" {
		return Config{}, fmt.Errorf("SQLAGENT_SEED_DSN or DATABASE_URL is required")
	}
	switch cfg.Driver {
	case "postgres", "duckdb":
	default:
		return Config{}, fmt.Errorf("invalid SQLAGENT_SEED_DRIVER: %q", cfg.Driver)
	}
	if cfg.Customers <= 0 {
		return Config{}, fmt.Errorf("SQLAGENT_SEED_CUSTOMERS must be > 0")
	}
	if cfg.Orders <= 0 {
		return Config{}, fmt.Errorf("SQLAGENT_SEED_ORDERS must be > 0")
	}

	cfg.DSN = strings.TrimSpace(cfg.DSN)
	return cfg, nil
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyInt64(lookup LookupFunc, key string, dst *int64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}
