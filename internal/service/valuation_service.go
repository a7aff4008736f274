// Package service coordinates repositories, bracket state, and the auction
// math into the operations the server and schedulers call.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bonspiel-calcutta/internal/auction"
	"github.com/yourusername/bonspiel-calcutta/internal/bracket"
	"github.com/yourusername/bonspiel-calcutta/internal/logger"
	"github.com/yourusername/bonspiel-calcutta/internal/metrics"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
	"github.com/yourusername/bonspiel-calcutta/internal/repository"
)

// forestEntry bundles a division's bracket forest with its derived slot
// resolver and path finder. The resolver memo is tied to the forest, so the
// whole entry is replaced when a new bracket is loaded and is never
// invalidated by bids or standings updates.
type forestEntry struct {
	forest     *bracket.Forest
	resolver   *bracket.Resolver
	pathFinder *bracket.PathFinder
}

// ValuationService owns per-division auction state and recomputation.
type ValuationService struct {
	teams  repository.TeamRepository
	bids   repository.BidRepository
	priors repository.PriorPayoutRepository
	odds   repository.OddsRepository

	auctionCfg auction.Config
	priorPools map[string]float64

	mu      sync.RWMutex
	forests map[string]*forestEntry

	// analysisCache holds the latest Analysis per division. Any bid,
	// roster, or config mutation drops the division's entry.
	analysisCache *gocache.Cache

	logger *logrus.Logger
	audit  *logger.AuditLogger
}

// NewValuationService creates a valuation service.
func NewValuationService(
	teams repository.TeamRepository,
	bids repository.BidRepository,
	priors repository.PriorPayoutRepository,
	odds repository.OddsRepository,
	auctionCfg auction.Config,
	priorPools map[string]float64,
	log *logrus.Logger,
) *ValuationService {
	return &ValuationService{
		teams:         teams,
		bids:          bids,
		priors:        priors,
		odds:          odds,
		auctionCfg:    auctionCfg,
		priorPools:    priorPools,
		forests:       make(map[string]*forestEntry),
		analysisCache: gocache.New(5*time.Minute, 10*time.Minute),
		logger:        log,
		audit:         logger.NewAuditLogger(log),
	}
}

// LoadForest parses and validates a division's bracket JSON and replaces
// any previously loaded forest. The slot-resolution cache is rebuilt from
// scratch for the new forest.
func (s *ValuationService) LoadForest(division string, data []byte) error {
	forest, err := bracket.ParseForest(data)
	if err != nil {
		return fmt.Errorf("parsing bracket for division %s: %w", division, err)
	}
	if err := forest.Validate(); err != nil {
		return fmt.Errorf("validating bracket for division %s: %w", division, err)
	}

	resolver := bracket.NewResolver(forest)
	entry := &forestEntry{
		forest:     forest,
		resolver:   resolver,
		pathFinder: bracket.NewPathFinder(forest, resolver),
	}

	s.mu.Lock()
	s.forests[division] = entry
	s.mu.Unlock()
	s.analysisCache.Delete(division)

	s.logger.WithFields(logrus.Fields{
		"division": division,
		"teams":    len(forest.TeamIDs()),
	}).Info("Loaded bracket forest")

	return nil
}

// Forest returns the loaded forest for a division.
func (s *ValuationService) Forest(division string) (*bracket.Forest, error) {
	s.mu.RLock()
	entry, ok := s.forests[division]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("division %s: %w", division, models.ErrUnknownDivision)
	}
	return entry.forest, nil
}

// Teams lists the teams in a division.
func (s *ValuationService) Teams(ctx context.Context, division string) ([]*models.Team, error) {
	return s.teams.ListByDivision(ctx, division)
}

// Paths returns a team's route to every payout event. An unknown team id
// yields Found=false rather than an error.
func (s *ValuationService) Paths(division, teamID string) (bracket.PathSet, error) {
	s.mu.RLock()
	entry, ok := s.forests[division]
	s.mu.RUnlock()
	if !ok {
		return bracket.PathSet{}, fmt.Errorf("division %s: %w", division, models.ErrUnknownDivision)
	}

	start := time.Now()
	paths := entry.pathFinder.FindPaths(teamID)
	metrics.RecordPathQuery(time.Since(start).Seconds())
	metrics.SlotCacheSize.WithLabelValues(division).Set(float64(entry.resolver.CachedSlots()))

	return paths, nil
}

// Valuations returns the division's current analysis, recomputing it when
// no cached copy exists.
func (s *ValuationService) Valuations(ctx context.Context, division string) (auction.Analysis, error) {
	if cached, ok := s.analysisCache.Get(division); ok {
		return cached.(auction.Analysis), nil
	}
	return s.recompute(ctx, division)
}

// RecordBid validates and appends a bid, then returns the refreshed
// analysis. Rejections are audited and counted but never mutate state.
func (s *ValuationService) RecordBid(ctx context.Context, division string, bid *models.Bid) (auction.Analysis, error) {
	if bid.Amount < 0 {
		s.audit.LogBidRejected(division, bid.TeamID, bid.Buyer, "negative amount")
		metrics.RecordBidRejected(division)
		return auction.Analysis{}, models.ErrInvalidBidAmount
	}
	if _, err := s.teams.GetByID(ctx, division, bid.TeamID); err != nil {
		s.audit.LogBidRejected(division, bid.TeamID, bid.Buyer, "unknown team")
		metrics.RecordBidRejected(division)
		return auction.Analysis{}, fmt.Errorf("bid references unknown team %s: %w", bid.TeamID, err)
	}

	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}
	if bid.CreatedAt.IsZero() {
		bid.CreatedAt = time.Now().UTC()
	}
	if bid.BuyBack == "" {
		bid.BuyBack = models.BuyBackModeStandard
	}

	if err := s.bids.Create(ctx, division, bid); err != nil {
		return auction.Analysis{}, err
	}

	s.audit.LogBidEntry(bid.ID.String(), division, bid.TeamID, bid.Buyer, bid.Amount, string(bid.BuyBack), bid.CreatedAt)
	metrics.RecordBid(division)
	s.analysisCache.Delete(division)

	return s.recompute(ctx, division)
}

// ReplacePriorPayouts swaps a division's prior payout table.
func (s *ValuationService) ReplacePriorPayouts(ctx context.Context, division string, payouts []models.PriorPayout) error {
	if err := s.priors.Replace(ctx, division, payouts); err != nil {
		return err
	}
	s.analysisCache.Delete(division)
	return nil
}

// ReplaceOdds swaps a division's simulated odds table.
func (s *ValuationService) ReplaceOdds(ctx context.Context, division string, rows []models.OddsRow) error {
	if err := s.odds.Replace(ctx, division, rows); err != nil {
		return err
	}
	s.analysisCache.Delete(division)
	return nil
}

// InvalidateAnalysis drops the division's cached analysis. Roster and
// config mutations route through here.
func (s *ValuationService) InvalidateAnalysis(division string) {
	s.analysisCache.Delete(division)
}

// recompute rebuilds a division's analysis from a fresh snapshot and
// caches the result.
func (s *ValuationService) recompute(ctx context.Context, division string) (auction.Analysis, error) {
	start := time.Now()

	snap, err := s.snapshot(ctx, division)
	if err != nil {
		return auction.Analysis{}, err
	}

	analysis := auction.Analyze(snap)
	s.analysisCache.Set(division, analysis, gocache.DefaultExpiration)

	sold := 0
	for _, est := range analysis.Estimates {
		if est.Sold {
			sold++
		}
	}
	metrics.RecordRecompute(division, time.Since(start).Seconds(), analysis.EstimatedPool, sold)
	s.audit.LogRecompute(division, len(snap.Teams), len(snap.Bids), analysis.EstimatedPool, time.Since(start))

	return analysis, nil
}

// snapshot assembles the caller-owned immutable view the auction math
// consumes.
func (s *ValuationService) snapshot(ctx context.Context, division string) (auction.Snapshot, error) {
	teams, err := s.teams.ListByDivision(ctx, division)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("loading teams: %w", err)
	}
	bids, err := s.bids.ListByDivision(ctx, division)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("loading bids: %w", err)
	}
	priors, err := s.priors.ListByDivision(ctx, division)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("loading prior payouts: %w", err)
	}
	oddsRows, err := s.odds.ListByDivision(ctx, division)
	if err != nil {
		return auction.Snapshot{}, fmt.Errorf("loading odds: %w", err)
	}

	snap := auction.Snapshot{
		Division:       division,
		Teams:          make([]models.Team, 0, len(teams)),
		Bids:           make([]models.Bid, 0, len(bids)),
		PriorPayouts:   priors,
		PriorPoolTotal: s.priorPools[division],
		Odds:           oddsRows,
		Config:         s.auctionCfg,
	}
	for _, t := range teams {
		snap.Teams = append(snap.Teams, *t)
	}
	for _, b := range bids {
		snap.Bids = append(snap.Bids, *b)
	}

	return snap, nil
}
