// Package scheduler runs the periodic jobs that keep auction state fresh
// between bid entries: league standings sync and odds regeneration.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bonspiel-calcutta/internal/metrics"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
	"github.com/yourusername/bonspiel-calcutta/internal/server"
	"github.com/yourusername/bonspiel-calcutta/internal/service"
	"github.com/yourusername/bonspiel-calcutta/internal/simulation"
)

// Scheduler manages the cron jobs for one server instance
type Scheduler struct {
	cron            *cron.Cron
	valuationSvc    *service.ValuationService
	standingsSvc    *service.StandingsService
	hub             *server.Hub
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(valuationSvc *service.ValuationService, standingsSvc *service.StandingsService, hub *server.Hub, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		valuationSvc:    valuationSvc,
		standingsSvc:    standingsSvc,
		hub:             hub,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleStandingsSync schedules periodic league standings synchronization
// for the given divisions
func (s *Scheduler) ScheduleStandingsSync(cronExpression string, divisions []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		for _, division := range divisions {
			updated, err := s.standingsSvc.Sync(ctx, division)
			if err != nil {
				s.logger.WithError(err).WithField("division", division).Error("Scheduled standings sync failed")
				continue
			}
			if updated > 0 && s.hub != nil {
				s.hub.BroadcastStandings(division, updated)
			}
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add standings job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled standings sync job")

	return nil
}

// ScheduleOddsRefresh schedules periodic Monte Carlo odds regeneration for
// the given divisions
func (s *Scheduler) ScheduleOddsRefresh(cronExpression string, divisions []string, simCfg simulation.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		for _, division := range divisions {
			if err := s.refreshOdds(ctx, division, simCfg); err != nil {
				s.logger.WithError(err).WithField("division", division).Error("Scheduled odds refresh failed")
			}
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add odds job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled odds refresh job")

	return nil
}

// refreshOdds reruns the bracket simulation from current team records and
// swaps in the new odds table
func (s *Scheduler) refreshOdds(ctx context.Context, division string, simCfg simulation.Config) error {
	forest, err := s.valuationSvc.Forest(division)
	if err != nil {
		return err
	}
	teamPtrs, err := s.valuationSvc.Teams(ctx, division)
	if err != nil {
		return err
	}

	teams := make([]models.Team, 0, len(teamPtrs))
	for _, t := range teamPtrs {
		teams = append(teams, *t)
	}

	start := time.Now()
	rows, err := simulation.Run(ctx, teams, forest, simCfg)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	metrics.RecordSimulation(time.Since(start).Seconds())

	if err := s.valuationSvc.ReplaceOdds(ctx, division, rows); err != nil {
		return fmt.Errorf("storing odds: %w", err)
	}

	analysis, err := s.valuationSvc.Valuations(ctx, division)
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.BroadcastValuation(division, analysis)
	}

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
