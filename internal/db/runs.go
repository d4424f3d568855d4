package db

import (
	"context"
	"fmt"
	"time"
)

// RunStatus is the terminal status of one pipeline run
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
	RunStatusSkipped   RunStatus = "skipped"
)

// RunRecord is one row of pipeline run history
type RunRecord struct {
	ID        string    `json:"id"`
	OrderUUID string    `json:"order_uuid"`
	Status    RunStatus `json:"status"`
	CardsURL  string    `json:"cards_url"`
	ShortURL  string    `json:"short_url"`
	Error     string    `json:"error"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordRun inserts one run-history row
func (db *Database) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO pipeline_runs (id, order_uuid, status, cards_url, short_url, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, r.OrderUUID, string(r.Status), r.CardsURL, r.ShortURL, r.Error)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (db *Database) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_uuid, status, cards_url, short_url, error, created_at
		FROM pipeline_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// RunsForOrder returns the run history of one order, newest first
func (db *Database) RunsForOrder(ctx context.Context, orderUUID string) ([]RunRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, order_uuid, status, cards_url, short_url, error, created_at
		FROM pipeline_runs
		WHERE order_uuid = $1
		ORDER BY created_at DESC
	`, orderUUID)
	if err != nil {
		return nil, fmt.Errorf("runs for order: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRuns(rows rowScanner) ([]RunRecord, error) {
	records := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		var status string
		if err := rows.Scan(&r.ID, &r.OrderUUID, &status, &r.CardsURL, &r.ShortURL, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = RunStatus(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
