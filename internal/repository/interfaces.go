// Package repository provides PostgreSQL persistence for auction state.
// Everything is keyed by division so one server instance can carry several
// concurrent bonspiel draws.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// TeamRepository persists bonspiel teams and their league records
type TeamRepository interface {
	Upsert(ctx context.Context, division string, team *models.Team) error
	GetByID(ctx context.Context, division, teamID string) (*models.Team, error)
	ListByDivision(ctx context.Context, division string) ([]*models.Team, error)
	UpdateRecord(ctx context.Context, division, teamID string, wins, losses, ties int) error
}

// BidRepository persists the append-only auction bid log
type BidRepository interface {
	Create(ctx context.Context, division string, bid *models.Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	ListByDivision(ctx context.Context, division string) ([]*models.Bid, error)
}

// PriorPayoutRepository persists last year's payouts used to seed estimates
type PriorPayoutRepository interface {
	Replace(ctx context.Context, division string, payouts []models.PriorPayout) error
	ListByDivision(ctx context.Context, division string) ([]models.PriorPayout, error)
}

// OddsRepository persists simulated event odds per team
type OddsRepository interface {
	Replace(ctx context.Context, division string, rows []models.OddsRow) error
	ListByDivision(ctx context.Context, division string) ([]models.OddsRow, error)
}
