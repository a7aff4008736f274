package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bonspiel-calcutta/internal/datasource"
	"github.com/yourusername/bonspiel-calcutta/internal/logger"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
	"github.com/yourusername/bonspiel-calcutta/internal/repository"
)

// StandingsService keeps bonspiel team records in step with the league
// standings feed.
type StandingsService struct {
	fetcher   *datasource.StandingsFetcher
	teams     repository.TeamRepository
	valuation *ValuationService
	logger    *logrus.Logger
	audit     *logger.AuditLogger
}

// NewStandingsService creates a standings service.
func NewStandingsService(
	fetcher *datasource.StandingsFetcher,
	teams repository.TeamRepository,
	valuation *ValuationService,
	log *logrus.Logger,
) *StandingsService {
	return &StandingsService{
		fetcher:   fetcher,
		teams:     teams,
		valuation: valuation,
		logger:    log,
		audit:     logger.NewAuditLogger(log),
	}
}

// Sync fetches the league standings, folds the records into the division's
// teams, reseeds by win percentage, and invalidates the cached analysis
// when anything changed. Returns the number of teams whose record changed.
func (s *StandingsService) Sync(ctx context.Context, division string) (int, error) {
	teams, err := s.teams.ListByDivision(ctx, division)
	if err != nil {
		return 0, fmt.Errorf("loading teams for %s: %w", division, err)
	}
	if len(teams) == 0 {
		return 0, nil
	}

	standings, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching standings: %w", err)
	}

	byID := make(map[string]*models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	changed := s.fetcher.Apply(standings, byID)

	covered := make(map[string]bool)
	for _, row := range standings {
		if id, ok := s.fetcher.TeamIDFor(row.Team); ok {
			covered[id] = true
		}
	}
	for _, id := range s.fetcher.ManualTeamIDs() {
		covered[id] = true
	}
	missing := 0
	for _, t := range teams {
		if !covered[t.ID] {
			missing++
		}
	}

	if len(changed) > 0 {
		Reseed(teams)
		for _, t := range teams {
			if err := s.teams.Upsert(ctx, division, t); err != nil {
				return 0, fmt.Errorf("persisting team %s: %w", t.ID, err)
			}
		}
		s.valuation.InvalidateAnalysis(division)
	}

	s.audit.LogStandingsUpdate(division, len(changed), missing)
	return len(changed), nil
}

// Reseed orders teams by win percentage and assigns seeds 1..n in place.
// Ties break by total wins, then by name so reseeding is deterministic.
func Reseed(teams []*models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		pi, pj := teams[i].WinPct(), teams[j].WinPct()
		if pi != pj {
			return pi > pj
		}
		if teams[i].Wins != teams[j].Wins {
			return teams[i].Wins > teams[j].Wins
		}
		return teams[i].Name < teams[j].Name
	})
	for i, t := range teams {
		t.Seed = i + 1
	}
}
