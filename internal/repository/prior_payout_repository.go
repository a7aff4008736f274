package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/bonspiel-calcutta/internal/database"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// PostgresPriorPayoutRepository implements PriorPayoutRepository for PostgreSQL
type PostgresPriorPayoutRepository struct {
	db *database.DB
}

// NewPostgresPriorPayoutRepository creates a new prior payout repository
func NewPostgresPriorPayoutRepository(db *database.DB) PriorPayoutRepository {
	return &PostgresPriorPayoutRepository{db: db}
}

// Replace swaps the full set of prior payouts for a division in one transaction
func (r *PostgresPriorPayoutRepository) Replace(ctx context.Context, division string, payouts []models.PriorPayout) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM prior_payouts WHERE division = $1`, division); err != nil {
			return fmt.Errorf("failed to clear prior payouts: %w", err)
		}
		for _, p := range payouts {
			_, err := tx.Exec(ctx,
				`INSERT INTO prior_payouts (division, team_id, amount) VALUES ($1, $2, $3)`,
				division, p.TeamID, p.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert prior payout: %w", err)
			}
		}
		return nil
	})
}

// ListByDivision retrieves all prior payouts for a division
func (r *PostgresPriorPayoutRepository) ListByDivision(ctx context.Context, division string) ([]models.PriorPayout, error) {
	query := `
		SELECT team_id, amount
		FROM prior_payouts
		WHERE division = $1
		ORDER BY team_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query prior payouts: %w", err)
	}
	defer rows.Close()

	var payouts []models.PriorPayout
	for rows.Next() {
		var p models.PriorPayout
		if err := rows.Scan(&p.TeamID, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan prior payout: %w", err)
		}
		payouts = append(payouts, p)
	}

	return payouts, rows.Err()
}
