package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/bonspiel-calcutta/internal/database"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// Replace swaps the full odds table for a division in one transaction so
// readers never see a half-written simulation run
func (r *PostgresOddsRepository) Replace(ctx context.Context, division string, oddsRows []models.OddsRow) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM odds WHERE division = $1`, division); err != nil {
			return fmt.Errorf("failed to clear odds: %w", err)
		}
		for _, row := range oddsRows {
			_, err := tx.Exec(ctx,
				`INSERT INTO odds (division, team_id, team_name, prob_a, prob_b, prob_c, prob_d, prob_any, computed_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
				division, row.TeamID, row.TeamName, row.A, row.B, row.C, row.D, row.Any,
			)
			if err != nil {
				return fmt.Errorf("failed to insert odds row: %w", err)
			}
		}
		return nil
	})
}

// ListByDivision retrieves simulated odds for all teams in a division
func (r *PostgresOddsRepository) ListByDivision(ctx context.Context, division string) ([]models.OddsRow, error) {
	query := `
		SELECT team_id, team_name, prob_a, prob_b, prob_c, prob_d, prob_any
		FROM odds
		WHERE division = $1
		ORDER BY team_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds: %w", err)
	}
	defer rows.Close()

	var result []models.OddsRow
	for rows.Next() {
		var row models.OddsRow
		err := rows.Scan(&row.TeamID, &row.TeamName, &row.A, &row.B, &row.C, &row.D, &row.Any)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
