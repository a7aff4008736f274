package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/bonspiel-calcutta/internal/database"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// PostgresBidRepository implements BidRepository for PostgreSQL
type PostgresBidRepository struct {
	db *database.DB
}

// NewPostgresBidRepository creates a new bid repository
func NewPostgresBidRepository(db *database.DB) BidRepository {
	return &PostgresBidRepository{db: db}
}

// Create appends a bid to the log. Bids are never updated or deleted, a
// later entry for the same team supersedes an earlier one.
func (r *PostgresBidRepository) Create(ctx context.Context, division string, bid *models.Bid) error {
	if bid.Amount < 0 {
		return models.ErrInvalidBidAmount
	}
	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}

	query := `
		INSERT INTO bids (id, division, team_id, buyer, amount, buy_back, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		bid.ID, division, bid.TeamID, bid.Buyer, bid.Amount, string(bid.BuyBack), bid.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}

	return nil
}

// GetByID retrieves a bid by ID
func (r *PostgresBidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	query := `
		SELECT id, team_id, buyer, amount, buy_back, created_at
		FROM bids WHERE id = $1
	`

	bid := &models.Bid{}
	var buyBack string
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&bid.ID, &bid.TeamID, &bid.Buyer, &bid.Amount, &buyBack, &bid.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}
	bid.BuyBack = models.BuyBackMode(buyBack)

	return bid, nil
}

// ListByDivision retrieves the full bid log for a division in entry order
func (r *PostgresBidRepository) ListByDivision(ctx context.Context, division string) ([]*models.Bid, error) {
	query := `
		SELECT id, team_id, buyer, amount, buy_back, created_at
		FROM bids
		WHERE division = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		bid := &models.Bid{}
		var buyBack string
		err := rows.Scan(&bid.ID, &bid.TeamID, &bid.Buyer, &bid.Amount, &buyBack, &bid.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bid.BuyBack = models.BuyBackMode(buyBack)
		bids = append(bids, bid)
	}

	return bids, rows.Err()
}
