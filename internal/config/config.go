// Package config provides configuration management for the Calcutta
// auction engine.
package config

import (
	"time"

	"github.com/yourusername/bonspiel-calcutta/internal/auction"
	"github.com/yourusername/bonspiel-calcutta/internal/datasource"
	"github.com/yourusername/bonspiel-calcutta/internal/simulation"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Auction   AuctionConfig   `mapstructure:"auction" validate:"required"`
	Odds      OddsConfig      `mapstructure:"odds" validate:"required"`
	Standings StandingsConfig `mapstructure:"standings"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. It is
// optional: the CLIs run entirely from JSON files.
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// Enabled reports whether a database connection is configured
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DataConfig locates the per-division JSON inputs
// (bracket_<division>.json, teams_<division>.json, odds_<division>.json,
// bids_<division>.json, priors_<division>.json).
type DataConfig struct {
	Dir       string   `mapstructure:"dir" validate:"required"`
	Divisions []string `mapstructure:"divisions" validate:"required,min=1"`
}

// PayoutPctsConfig is the payout split across the four events
type PayoutPctsConfig struct {
	A float64 `mapstructure:"a" validate:"gte=0,lte=1"`
	B float64 `mapstructure:"b" validate:"gte=0,lte=1"`
	C float64 `mapstructure:"c" validate:"gte=0,lte=1"`
	D float64 `mapstructure:"d" validate:"gte=0,lte=1"`
}

// AuctionConfig represents the auction economics
type AuctionConfig struct {
	PayoutPcts PayoutPctsConfig   `mapstructure:"payout_pcts" validate:"required"`
	BuyBackFee float64            `mapstructure:"buy_back_fee" validate:"gte=0"`
	BuyBackPct float64            `mapstructure:"buy_back_pct" validate:"gte=0,lte=1"`
	PriorPools map[string]float64 `mapstructure:"prior_pools"`
}

// ToAuction converts to the auction package's config
func (a *AuctionConfig) ToAuction() auction.Config {
	return auction.Config{
		PayoutPcts: auction.EventPercents{
			A: a.PayoutPcts.A,
			B: a.PayoutPcts.B,
			C: a.PayoutPcts.C,
			D: a.PayoutPcts.D,
		},
		BuyBack: auction.BuyBackConfig{
			Fee:       a.BuyBackFee,
			PayoutPct: a.BuyBackPct,
		},
	}
}

// WeightsConfig blends the strength signals for the odds simulation
type WeightsConfig struct {
	Standings float64 `mapstructure:"standings" validate:"gte=0,lte=1"`
	H2H       float64 `mapstructure:"h2h" validate:"gte=0,lte=1"`
	Draw      float64 `mapstructure:"draw" validate:"gte=0,lte=1"`
}

// OddsConfig represents Monte Carlo odds generation configuration
type OddsConfig struct {
	Iterations int           `mapstructure:"iterations" validate:"required,gt=0"`
	Seed       int64         `mapstructure:"seed"`
	Weights    WeightsConfig `mapstructure:"weights" validate:"required"`
}

// ToSimulation converts to the simulation package's config
func (o *OddsConfig) ToSimulation() simulation.Config {
	return simulation.Config{
		Iterations: o.Iterations,
		Seed:       o.Seed,
		Weights: simulation.Weights{
			Standings: o.Weights.Standings,
			H2H:       o.Weights.H2H,
			Draw:      o.Weights.Draw,
		},
	}
}

// StandingsConfig represents the league standings source. Optional: teams
// without league data keep their stored records.
type StandingsConfig struct {
	SourceURL      string            `mapstructure:"source_url" validate:"omitempty,url"`
	APIKey         string            `mapstructure:"api_key"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RateLimit      float64           `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	NicknameMap    map[string]string `mapstructure:"nickname_map"`
	RosterMap      map[string]string `mapstructure:"roster_map"`
	// ManualRecords pins records for teams playing outside the tracked
	// league, keyed by team id.
	ManualRecords map[string]ManualRecord `mapstructure:"manual_records"`
	SyncSchedule  string                  `mapstructure:"sync_schedule"`
}

// ManualRecord is a hand-entered win/loss/tie record.
type ManualRecord struct {
	Wins   int `mapstructure:"wins" validate:"gte=0"`
	Losses int `mapstructure:"losses" validate:"gte=0"`
	Ties   int `mapstructure:"ties" validate:"gte=0"`
}

// ToDatasource converts to the datasource package's config
func (s *StandingsConfig) ToDatasource() datasource.StandingsConfig {
	var manual map[string]datasource.ManualRecord
	if len(s.ManualRecords) > 0 {
		manual = make(map[string]datasource.ManualRecord, len(s.ManualRecords))
		for id, r := range s.ManualRecords {
			manual[id] = datasource.ManualRecord{Wins: r.Wins, Losses: r.Losses, Ties: r.Ties}
		}
	}
	return datasource.StandingsConfig{
		SourceURL:     s.SourceURL,
		APIKey:        s.APIKey,
		Timeout:       time.Duration(s.TimeoutSeconds) * time.Second,
		NicknameMap:   s.NicknameMap,
		RosterMap:     s.RosterMap,
		ManualRecords: manual,
	}
}

// ServerConfig represents the auction-night HTTP server
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// PriorPool returns the prior-year pool total for a division, 0 when the
// division has no history.
func (c *Config) PriorPool(division string) float64 {
	return c.Auction.PriorPools[division]
}
