// Package main provides a one-shot league standings sync: fetch the feed,
// fold records into each division's teams, and reseed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yourusername/bonspiel-calcutta/internal/config"
	"github.com/yourusername/bonspiel-calcutta/internal/database"
	"github.com/yourusername/bonspiel-calcutta/internal/datasource"
	"github.com/yourusername/bonspiel-calcutta/internal/logger"
	"github.com/yourusername/bonspiel-calcutta/internal/repository"
	"github.com/yourusername/bonspiel-calcutta/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		logLevel   = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log := logger.NewLogger(*logLevel)

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Standings.SourceURL == "" {
		log.Fatal("No standings source configured")
	}
	if !cfg.Database.Enabled() {
		log.Fatal("standings-sync requires a configured database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	teamRepo := repository.NewPostgresTeamRepository(db)
	bidRepo := repository.NewPostgresBidRepository(db)
	priorRepo := repository.NewPostgresPriorPayoutRepository(db)
	oddsRepo := repository.NewPostgresOddsRepository(db)

	valuationSvc := service.NewValuationService(
		teamRepo, bidRepo, priorRepo, oddsRepo,
		cfg.Auction.ToAuction(), cfg.Auction.PriorPools, log,
	)

	httpCfg := datasource.DefaultHTTPClientConfig()
	if cfg.Standings.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.Standings.TimeoutSeconds) * time.Second
	}
	if cfg.Standings.RateLimit > 0 {
		httpCfg.RateLimit = cfg.Standings.RateLimit
	}
	fetcher := datasource.NewStandingsFetcher(cfg.Standings.ToDatasource(),
		datasource.NewRateLimitedHTTPClient(httpCfg, log), log)

	standingsSvc := service.NewStandingsService(fetcher, teamRepo, valuationSvc, log)

	failures := 0
	for _, division := range cfg.Data.Divisions {
		updated, err := standingsSvc.Sync(ctx, division)
		if err != nil {
			log.WithError(err).Errorf("Sync failed for division %s", division)
			failures++
			continue
		}
		fmt.Printf("%s: %d team records updated\n", division, updated)
	}

	if failures > 0 {
		os.Exit(1)
	}
}
