// Package simulation estimates each team's probability of winning every
// payout event by Monte Carlo simulation over the actual bracket forest,
// using a Bradley-Terry pairwise win model over composite team strengths.
package simulation

import "github.com/yourusername/bonspiel-calcutta/internal/models"

// Weights blends the strength signals. A full set sums to 1.0.
type Weights struct {
	Standings float64 `mapstructure:"standings" json:"standings"`
	H2H       float64 `mapstructure:"h2h" json:"h2h"`
	Draw      float64 `mapstructure:"draw" json:"draw"`
}

// DefaultWeights returns the standard blend
func DefaultWeights() Weights {
	return Weights{Standings: 0.5, H2H: 0.3, Draw: 0.2}
}

// CompositeStrength blends league standings, head-to-head record, and
// seed rank into a single strength in [0,1]. When a team has no h2h data
// the h2h weight is redistributed proportionally to the standings and
// seed weights so the blend still sums to 1.0.
func CompositeStrength(t models.Team, w Weights) float64 {
	wStand, wH2H, wSeed := w.Standings, w.H2H, w.Draw

	if len(t.H2H) == 0 && wStand+wSeed > 0 {
		total := wStand + wSeed
		wStand += wH2H * (wStand / total)
		wSeed += wH2H * (wSeed / total)
		wH2H = 0
	}

	strength := wStand*t.WinPct() + wH2H*h2hStrength(t)

	// Lower seed = stronger, normalised to 0..1.
	seed := float64(t.Seed)
	if seed == 0 {
		seed = 50
	}
	seedFactor := 1.0 - seed/50.0
	if seedFactor < 0 {
		seedFactor = 0
	}
	return strength + wSeed*seedFactor
}

// h2hStrength is the average head-to-head win rate across tracked
// opponents, 0.5 when no record exists.
func h2hStrength(t models.Team) float64 {
	wins, games := 0, 0
	for _, rec := range t.H2H {
		wins += rec.Wins
		games += rec.Wins + rec.Losses
	}
	if games == 0 {
		return 0.5
	}
	return float64(wins) / float64(games)
}

// PairwiseWinProb is the Bradley-Terry model: P(A beats B) given the two
// strengths, 0.5 when both are zero.
func PairwiseWinProb(sa, sb float64) float64 {
	total := sa + sb
	if total <= 0 {
		return 0.5
	}
	return sa / total
}
