package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/bonspiel-calcutta/internal/database"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

const errScanTeam = "failed to scan team: %w"

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts or updates a team
func (r *PostgresTeamRepository) Upsert(ctx context.Context, division string, team *models.Team) error {
	if team.Name == "" {
		return models.ErrTeamNameRequired
	}

	query := `
		INSERT INTO teams (id, division, name, wins, losses, ties, seed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			ties = EXCLUDED.ties,
			seed = EXCLUDED.seed,
			updated_at = now()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		team.ID, division, team.Name, team.Wins, team.Losses, team.Ties, team.Seed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by ID within a division
func (r *PostgresTeamRepository) GetByID(ctx context.Context, division, teamID string) (*models.Team, error) {
	query := `
		SELECT id, name, wins, losses, ties, seed
		FROM teams WHERE division = $1 AND id = $2
	`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, division, teamID).Scan(
		&team.ID, &team.Name, &team.Wins, &team.Losses, &team.Ties, &team.Seed,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// ListByDivision retrieves all teams in a division ordered by seed
func (r *PostgresTeamRepository) ListByDivision(ctx context.Context, division string) ([]*models.Team, error) {
	query := `
		SELECT id, name, wins, losses, ties, seed
		FROM teams
		WHERE division = $1
		ORDER BY seed ASC, name ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(&team.ID, &team.Name, &team.Wins, &team.Losses, &team.Ties, &team.Seed)
		if err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// UpdateRecord updates a team's win/loss/tie record
func (r *PostgresTeamRepository) UpdateRecord(ctx context.Context, division, teamID string, wins, losses, ties int) error {
	query := `
		UPDATE teams
		SET wins = $3, losses = $4, ties = $5, updated_at = now()
		WHERE division = $1 AND id = $2
	`

	tag, err := r.db.GetPool().Exec(ctx, query, division, teamID, wins, losses, ties)
	if err != nil {
		return fmt.Errorf("failed to update team record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
