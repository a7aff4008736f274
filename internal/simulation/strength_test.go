package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

func TestCompositeStrengthOrdersByRecord(t *testing.T) {
	w := DefaultWeights()
	strong := models.Team{ID: "a", Wins: 9, Losses: 1, Seed: 1}
	weak := models.Team{ID: "b", Wins: 1, Losses: 9, Seed: 8}

	assert.Greater(t, CompositeStrength(strong, w), CompositeStrength(weak, w))
}

func TestCompositeStrengthRedistributesH2HWeight(t *testing.T) {
	w := DefaultWeights()
	team := models.Team{ID: "a", Wins: 5, Losses: 5, Seed: 10}

	// Without h2h data the h2h weight folds into standings and seed
	// proportionally, so the blend still spans the full weight budget.
	wStand := w.Standings + w.H2H*(w.Standings/(w.Standings+w.Draw))
	wSeed := w.Draw + w.H2H*(w.Draw/(w.Standings+w.Draw))
	want := wStand*0.5 + wSeed*(1.0-10.0/50.0)

	assert.InDelta(t, want, CompositeStrength(team, w), 1e-9)
}

func TestCompositeStrengthUsesH2HWhenPresent(t *testing.T) {
	w := DefaultWeights()
	base := models.Team{ID: "a", Wins: 5, Losses: 5, Seed: 10}
	dominant := base
	dominant.H2H = map[string]models.H2H{"b": {Wins: 4, Losses: 0}}

	assert.Greater(t, CompositeStrength(dominant, w), CompositeStrength(base, w))
}

func TestCompositeStrengthUnseededTeam(t *testing.T) {
	w := Weights{Standings: 0, H2H: 0, Draw: 1}
	unseeded := models.Team{ID: "a"}

	// Seed 0 is treated as rank 50, the bottom of the scale.
	assert.InDelta(t, 0.0, CompositeStrength(unseeded, w), 1e-9)
}

func TestPairwiseWinProb(t *testing.T) {
	assert.InDelta(t, 0.5, PairwiseWinProb(0, 0), 1e-9)
	assert.InDelta(t, 0.75, PairwiseWinProb(3, 1), 1e-9)
	assert.InDelta(t, 1.0, PairwiseWinProb(1, 0), 1e-9)
}

func TestH2HStrengthDefaultsToHalf(t *testing.T) {
	assert.InDelta(t, 0.5, h2hStrength(models.Team{ID: "a"}), 1e-9)

	team := models.Team{ID: "a", H2H: map[string]models.H2H{
		"b": {Wins: 3, Losses: 1},
		"c": {Wins: 1, Losses: 3},
	}}
	assert.InDelta(t, 0.5, h2hStrength(team), 1e-9)
}
