// Package main provides the auction-night server: HTTP API, websocket
// stream, metrics, and the scheduled standings and odds refresh jobs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bonspiel-calcutta/internal/config"
	"github.com/yourusername/bonspiel-calcutta/internal/database"
	"github.com/yourusername/bonspiel-calcutta/internal/datasource"
	"github.com/yourusername/bonspiel-calcutta/internal/logger"
	"github.com/yourusername/bonspiel-calcutta/internal/metrics"
	"github.com/yourusername/bonspiel-calcutta/internal/repository"
	"github.com/yourusername/bonspiel-calcutta/internal/scheduler"
	"github.com/yourusername/bonspiel-calcutta/internal/server"
	"github.com/yourusername/bonspiel-calcutta/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	oddsSchedule string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&oddsSchedule, "odds-schedule", "@hourly", "Cron schedule for odds regeneration, empty disables")
}

var rootCmd = &cobra.Command{
	Use:   "auction-server",
	Short: "Bonspiel Calcutta auction-night server",
	Long:  `Serves team listings, bracket path queries, live valuations, and bid entry for a Calcutta auction, with a websocket stream of refreshed analyses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appLogger := logger.NewLogger(cfg.App.LogLevel)
	appLogger.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"env":     cfg.App.Environment,
	}).Info("Starting auction server")

	metrics.InitRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Database.Enabled() {
		return fmt.Errorf("auction-server requires a configured database")
	}
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	teamRepo := repository.NewPostgresTeamRepository(db)
	bidRepo := repository.NewPostgresBidRepository(db)
	priorRepo := repository.NewPostgresPriorPayoutRepository(db)
	oddsRepo := repository.NewPostgresOddsRepository(db)

	valuationSvc := service.NewValuationService(
		teamRepo, bidRepo, priorRepo, oddsRepo,
		cfg.Auction.ToAuction(), cfg.Auction.PriorPools, appLogger,
	)

	if err := bootstrap(ctx, cfg, valuationSvc, teamRepo, appLogger); err != nil {
		return fmt.Errorf("bootstrapping division data: %w", err)
	}

	hub := server.NewHub(appLogger)
	srv := server.NewServer(cfg.Server, cfg.Metrics, valuationSvc, hub, db, appLogger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	sched, err := startScheduler(cfg, valuationSvc, teamRepo, hub, appLogger)
	if err != nil {
		return err
	}

	srv.SetReady(true)
	appLogger.Info("Auction server ready")

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	if sched != nil {
		sched.Stop()
	}
	srv.SetReady(false)
	return srv.Shutdown()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("loading secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// bootstrap loads each division's bracket into memory and seeds the
// database from the division JSON files. Team records in the database win
// over the file copy once standings sync has run, so seeding only inserts
// teams that are missing.
func bootstrap(ctx context.Context, cfg *config.Config, svc *service.ValuationService, teamRepo repository.TeamRepository, appLogger *logrus.Logger) error {
	store := datasource.NewFileStore(cfg.Data.Dir)

	for _, division := range cfg.Data.Divisions {
		bracketJSON, err := store.Bracket(division)
		if err != nil {
			return err
		}
		if err := svc.LoadForest(division, bracketJSON); err != nil {
			return err
		}

		teams, err := store.Teams(division)
		if err != nil {
			return err
		}
		seeded := 0
		for i := range teams {
			if _, err := teamRepo.GetByID(ctx, division, teams[i].ID); err == nil {
				continue
			}
			if err := teamRepo.Upsert(ctx, division, &teams[i]); err != nil {
				return err
			}
			seeded++
		}

		priors, err := store.Priors(division)
		if err != nil {
			return err
		}
		if len(priors) > 0 {
			if err := svc.ReplacePriorPayouts(ctx, division, priors); err != nil {
				return err
			}
		}

		if oddsRows, err := store.Odds(division); err == nil && len(oddsRows) > 0 {
			if err := svc.ReplaceOdds(ctx, division, oddsRows); err != nil {
				return err
			}
		}

		appLogger.WithFields(logrus.Fields{
			"division": division,
			"teams":    len(teams),
			"seeded":   seeded,
		}).Info("Division bootstrapped")
	}

	return nil
}

func startScheduler(cfg *config.Config, valuationSvc *service.ValuationService, teamRepo repository.TeamRepository, hub *server.Hub, appLogger *logrus.Logger) (*scheduler.Scheduler, error) {
	var standingsSvc *service.StandingsService
	if cfg.Standings.SourceURL != "" {
		httpCfg := datasource.DefaultHTTPClientConfig()
		if cfg.Standings.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.Standings.TimeoutSeconds) * time.Second
		}
		if cfg.Standings.RateLimit > 0 {
			httpCfg.RateLimit = cfg.Standings.RateLimit
		}
		fetcher := datasource.NewStandingsFetcher(cfg.Standings.ToDatasource(),
			datasource.NewRateLimitedHTTPClient(httpCfg, appLogger), appLogger)
		standingsSvc = service.NewStandingsService(fetcher, teamRepo, valuationSvc, appLogger)
	}

	sched := scheduler.NewScheduler(valuationSvc, standingsSvc, hub, appLogger)
	jobs := 0

	if standingsSvc != nil && cfg.Standings.SyncSchedule != "" {
		if err := sched.ScheduleStandingsSync(cfg.Standings.SyncSchedule, cfg.Data.Divisions); err != nil {
			return nil, err
		}
		jobs++
	}
	if oddsSchedule != "" {
		if err := sched.ScheduleOddsRefresh(oddsSchedule, cfg.Data.Divisions, cfg.Odds.ToSimulation()); err != nil {
			return nil, err
		}
		jobs++
	}

	if jobs == 0 {
		appLogger.Info("No scheduled jobs configured")
		return nil, nil
	}
	if err := sched.Start(); err != nil {
		return nil, err
	}
	return sched, nil
}
