// Package auction derives payout estimates and per-team valuations from
// partial bid data, prior-year payouts, and externally supplied win
// probabilities.
package auction

import "github.com/yourusername/bonspiel-calcutta/internal/models"

// EventPercents is the payout split across the four events. A valid split
// sums to 1.0.
type EventPercents struct {
	A float64 `mapstructure:"A" json:"A"`
	B float64 `mapstructure:"B" json:"B"`
	C float64 `mapstructure:"C" json:"C"`
	D float64 `mapstructure:"D" json:"D"`
}

// Get returns the percentage for one event
func (p EventPercents) Get(e models.Event) float64 {
	switch e {
	case models.EventA:
		return p.A
	case models.EventB:
		return p.B
	case models.EventC:
		return p.C
	case models.EventD:
		return p.D
	}
	return 0
}

// Sum returns the total of the four percentages
func (p EventPercents) Sum() float64 {
	return p.A + p.B + p.C + p.D
}

// BuyBackConfig is the seller retention rule: the original owner keeps
// PayoutPct of any winnings in exchange for a flat Fee.
type BuyBackConfig struct {
	Fee       float64 `mapstructure:"fee" json:"fee"`
	PayoutPct float64 `mapstructure:"payout_pct" json:"payoutPct"`
}

// Config holds the auction economics
type Config struct {
	PayoutPcts EventPercents `mapstructure:"payout_pcts" json:"payoutPcts"`
	BuyBack    BuyBackConfig `mapstructure:"buy_back" json:"buyBack"`
}

// DefaultConfig returns the standard bonspiel split: championship 40%,
// consolation 30%, lower events 15% each, quarter buy-back for $40.
func DefaultConfig() Config {
	return Config{
		PayoutPcts: EventPercents{A: 0.40, B: 0.30, C: 0.15, D: 0.15},
		BuyBack:    BuyBackConfig{Fee: 40, PayoutPct: 0.25},
	}
}

// keepFrac returns the buyer's retained fraction of winnings under the
// multiplicative buy-back convention: 1 − payoutPct unless the team opted
// out of buy-back entirely.
func (c Config) keepFrac(mode models.BuyBackMode) float64 {
	if mode == models.BuyBackModeNone {
		return 1.0
	}
	return 1.0 - c.BuyBack.PayoutPct
}
