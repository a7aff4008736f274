package database

import (
	"context"
	"fmt"

	"github.com/yourusername/bonspiel-calcutta/internal/config"
)

// schemaStatements creates the auction tables when they do not yet exist.
// Bids are append-only so every entry survives for audit, the latest sale
// per team is resolved at read time.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id          TEXT PRIMARY KEY,
		division    TEXT NOT NULL,
		name        TEXT NOT NULL,
		wins        INT NOT NULL DEFAULT 0,
		losses      INT NOT NULL DEFAULT 0,
		ties        INT NOT NULL DEFAULT 0,
		seed        INT NOT NULL DEFAULT 0,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_division ON teams (division)`,
	`CREATE TABLE IF NOT EXISTS bids (
		id          UUID PRIMARY KEY,
		division    TEXT NOT NULL,
		team_id     TEXT NOT NULL,
		buyer       TEXT NOT NULL,
		amount      DOUBLE PRECISION NOT NULL,
		buy_back    TEXT NOT NULL DEFAULT 'standard',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_division_team ON bids (division, team_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS prior_payouts (
		division    TEXT NOT NULL,
		team_id     TEXT NOT NULL,
		amount      DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (division, team_id)
	)`,
	`CREATE TABLE IF NOT EXISTS odds (
		division    TEXT NOT NULL,
		team_id     TEXT NOT NULL,
		team_name   TEXT NOT NULL,
		prob_a      DOUBLE PRECISION NOT NULL,
		prob_b      DOUBLE PRECISION NOT NULL,
		prob_c      DOUBLE PRECISION NOT NULL,
		prob_d      DOUBLE PRECISION NOT NULL,
		prob_any    DOUBLE PRECISION NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (division, team_id)
	)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return db, nil
}
