package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"yoy_analysis/pkg/core/analysis"
	"yoy_analysis/pkg/core/xbrl"
)

// RunRepo stores completed extraction runs: the per-year records, the growth
// characteristics, and the optional commentary summary, one JSONB payload
// per run keyed by a generated run ID.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS yoy_runs (
//	  run_id UUID PRIMARY KEY,
//	  ticker TEXT NOT NULL,
//	  cik TEXT,
//	  run_json JSONB NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX IF NOT EXISTS yoy_runs_ticker_idx ON yoy_runs (ticker, created_at DESC);
type RunRepo struct{}

// NewRunRepo creates a repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// RunPayload is the JSONB body persisted per run. Year keys marshal as
// strings, matching the output contract downstream consumers read.
type RunPayload struct {
	Years           map[int]*xbrl.YearRecord  `json:"years"`
	Characteristics *analysis.Characteristics `json:"characteristics,omitempty"`
	Summary         string                    `json:"summary,omitempty"`
}

// Save persists one run and returns its generated ID.
func (r *RunRepo) Save(ctx context.Context, ticker, cik string, payload *RunPayload) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run payload: %w", err)
	}

	runID := uuid.New().String()
	query := `
		INSERT INTO yoy_runs (run_id, ticker, cik, run_json, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := pool.Exec(ctx, query, runID, ticker, cik, jsonData, time.Now()); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return runID, nil
}

// LoadLatest retrieves the most recent run for a ticker.
func (r *RunRepo) LoadLatest(ctx context.Context, ticker string) (*RunPayload, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT run_json FROM yoy_runs
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	var jsonData []byte
	err := pool.QueryRow(ctx, query, ticker).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no runs found for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var payload RunPayload
	if err := json.Unmarshal(jsonData, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run payload: %w", err)
	}
	return &payload, nil
}
