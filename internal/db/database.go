package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database holds the database connection pool
type Database struct {
	Pool *pgxpool.Pool
}

// Configured reports whether any database configuration is present.
// The run store is optional; without it the service still processes
// orders, it just keeps no history.
func Configured() bool {
	return os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != ""
}

// NewDatabase creates the connection pool with retry for serverless
// databases that cold-start on first connect.
func NewDatabase() (*Database, error) {
	return NewDatabaseWithRetry(5, time.Second)
}

// NewDatabaseWithRetry creates a new database connection with configurable retry logic
func NewDatabaseWithRetry(maxRetries int, initialDelay time.Duration) (*Database, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "zippz")
		pwd := os.Getenv("DB_PASSWORD")
		name := getEnv("DB_NAME", "zippz_fulfillment")
		ssl := getEnv("DB_SSLMODE", "prefer")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, url.QueryEscape(pwd), host, port, name, ssl)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			lastErr = fmt.Errorf("failed to create connection pool: %w", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = pool.Ping(ctx)
			cancel()
			if err == nil {
				break
			}
			lastErr = fmt.Errorf("failed to ping database: %w", err)
			pool.Close()
			pool = nil
		}
		log.Printf("[RUN-DB] Connection failed (attempt %d/%d): %v", attempt, maxRetries, lastErr)
		if attempt < maxRetries {
			time.Sleep(initialDelay * time.Duration(1<<(attempt-1)))
		}
	}
	if pool == nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
	}

	db := &Database{Pool: pool}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Println("[RUN-DB] Database connection established successfully")
	return db, nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// InitSchema creates the run-history table if absent (idempotent)
func (db *Database) InitSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id UUID PRIMARY KEY,
			order_uuid TEXT NOT NULL,
			status TEXT NOT NULL,
			cards_url TEXT NOT NULL DEFAULT '',
			short_url TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`); err != nil {
		return fmt.Errorf("create pipeline_runs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_pipeline_runs_order ON pipeline_runs(order_uuid);
	`); err != nil {
		return fmt.Errorf("create idx_pipeline_runs_order: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
