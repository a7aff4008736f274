package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "bonspiel-calcutta",
			Environment: "development",
			LogLevel:    "info",
		},
		Data: DataConfig{
			Dir:       "./data",
			Divisions: []string{"mens", "womens"},
		},
		Auction: AuctionConfig{
			PayoutPcts: PayoutPctsConfig{A: 0.40, B: 0.30, C: 0.15, D: 0.15},
			BuyBackFee: 40,
			BuyBackPct: 0.25,
		},
		Odds: OddsConfig{
			Iterations: 50000,
			Weights:    WeightsConfig{Standings: 0.5, H2H: 0.3, Draw: 0.2},
		},
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "sandbox"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}

func TestValidatePayoutPctsMustSumToOne(t *testing.T) {
	cfg := validConfig()
	cfg.Auction.PayoutPcts.D = 0.20
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payout percentages")
}

func TestValidateWeightsMustSumToOne(t *testing.T) {
	cfg := validConfig()
	cfg.Odds.Weights.Draw = 0.5
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestValidateIncompleteDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = "localhost"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestValidatePriorPoolForUnknownDivision(t *testing.T) {
	cfg := validConfig()
	cfg.Auction.PriorPools = map[string]float64{"juniors": 500}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "juniors")
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "bonspiel-calcutta", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 0.40, cfg.Auction.PayoutPcts.A, 1e-9)
	assert.Equal(t, 50000, cfg.Odds.Iterations)
	assert.NoError(t, Validate(cfg))
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_STANDINGS_KEY", "sekrit")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  name: bonspiel-calcutta
  environment: development
  log_level: info
data:
  dir: ./data
  divisions: [mens]
standings:
  api_key: ${TEST_STANDINGS_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.Standings.APIKey)
}

func TestPriorPoolLookup(t *testing.T) {
	cfg := validConfig()
	cfg.Auction.PriorPools = map[string]float64{"mens": 1200}

	assert.InDelta(t, 1200.0, cfg.PriorPool("mens"), 1e-9)
	assert.Zero(t, cfg.PriorPool("womens"))
}

func TestToAuctionAndToSimulation(t *testing.T) {
	cfg := validConfig()

	ac := cfg.Auction.ToAuction()
	assert.InDelta(t, 1.0, ac.PayoutPcts.Sum(), 1e-9)
	assert.InDelta(t, 0.25, ac.BuyBack.PayoutPct, 1e-9)

	sc := cfg.Odds.ToSimulation()
	assert.Equal(t, 50000, sc.Iterations)
	assert.InDelta(t, 0.3, sc.Weights.H2H, 1e-9)
}
