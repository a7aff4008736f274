package simulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bonspiel-calcutta/internal/bracket"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// simTeams builds 8 teams with strictly decreasing records so t1 is the
// strongest and t8 the weakest.
func simTeams() []models.Team {
	teams := make([]models.Team, 0, 8)
	for i := 1; i <= 8; i++ {
		teams = append(teams, models.Team{
			ID:     fmt.Sprintf("t%d", i),
			Name:   fmt.Sprintf("Team %d", i),
			Wins:   9 - i,
			Losses: i,
			Seed:   i,
		})
	}
	return teams
}

// simForest mirrors an 8-team draw: four two-team A qualifiers, one
// consolation bracket fed by the A loser slots, and a C final fed by the
// consolation's first-round losers.
func simForest(t *testing.T) *bracket.Forest {
	t.Helper()
	f := &bracket.Forest{
		AEvent: []*bracket.Node{
			bracket.MatchNode(bracket.TeamNode("t1"), bracket.TeamNode("t2"), "a1-loser"),
			bracket.MatchNode(bracket.TeamNode("t3"), bracket.TeamNode("t4"), "a2-loser"),
			bracket.MatchNode(bracket.TeamNode("t5"), bracket.TeamNode("t6"), "a3-loser"),
			bracket.MatchNode(bracket.TeamNode("t7"), bracket.TeamNode("t8"), "a4-loser"),
		},
		BEvent: []*bracket.Node{
			bracket.MatchNode(
				bracket.MatchNode(bracket.SlotNode("a1-loser"), bracket.SlotNode("a2-loser"), "c-entry1"),
				bracket.MatchNode(bracket.SlotNode("a3-loser"), bracket.SlotNode("a4-loser"), "c-entry2"),
				"",
			),
		},
		CEvent: bracket.MatchNode(bracket.SlotNode("c-entry1"), bracket.SlotNode("c-entry2"), ""),
		Championship: bracket.Championship{
			NumQualifiers: 4,
			SemiPairs:     [][2]int{{0, 1}, {2, 3}},
		},
	}
	require.NoError(t, f.Validate())
	return f
}

func TestRunIsDeterministicWithSeed(t *testing.T) {
	cfg := Config{Iterations: 500, Seed: 42}
	forest := simForest(t)
	teams := simTeams()

	first, err := Run(context.Background(), teams, forest, cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), teams, forest, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunEventProbabilitiesSumToOne(t *testing.T) {
	cfg := Config{Iterations: 2000, Seed: 7}
	rows, err := Run(context.Background(), simTeams(), simForest(t), cfg)
	require.NoError(t, err)
	require.Len(t, rows, 8)

	var sumA, sumB, sumC, sumD float64
	for _, row := range rows {
		sumA += row.A
		sumB += row.B
		sumC += row.C
		sumD += row.D
		assert.LessOrEqual(t, row.Any, 1.0)
		assert.InDelta(t, row.A+row.B+row.C+row.D, row.Any, 1e-9)
	}

	// Every iteration crowns exactly one champion, one consolation
	// winner, and one C winner; there is no D bracket in this draw.
	assert.InDelta(t, 1.0, sumA, 1e-9)
	assert.InDelta(t, 1.0, sumB, 1e-9)
	assert.InDelta(t, 1.0, sumC, 1e-9)
	assert.Zero(t, sumD)
}

func TestRunStrongerTeamWinsMore(t *testing.T) {
	cfg := Config{Iterations: 5000, Seed: 99}
	rows, err := Run(context.Background(), simTeams(), simForest(t), cfg)
	require.NoError(t, err)

	byID := make(map[string]models.OddsRow)
	for _, row := range rows {
		byID[row.TeamID] = row
	}
	assert.Greater(t, byID["t1"].A, byID["t8"].A)
}

func TestRunHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, simTeams(), simForest(t), Config{Iterations: 100, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFewerThanTwoTeams(t *testing.T) {
	rows, err := Run(context.Background(), simTeams()[:1], simForest(t), Config{Iterations: 10, Seed: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].A)
}

func TestRunQuarterSeededChampionship(t *testing.T) {
	f := &bracket.Forest{
		AEvent: []*bracket.Node{
			bracket.TeamNode("t1"), bracket.TeamNode("t2"),
			bracket.TeamNode("t3"), bracket.TeamNode("t4"),
		},
		Championship: bracket.Championship{
			NumQualifiers: 4,
			QuarterSeed:   [][2]int{{0, 1}, {2, 3}},
			SemiPairs:     [][2]int{{0, 1}},
		},
	}
	require.NoError(t, f.Validate())

	rows, err := Run(context.Background(), simTeams()[:4], f, Config{Iterations: 1000, Seed: 3})
	require.NoError(t, err)

	var sumA, sumB float64
	for _, row := range rows {
		sumA += row.A
		sumB += row.B
	}
	// Quarterfinal losers contest the consolation side.
	assert.InDelta(t, 1.0, sumA, 1e-9)
	assert.InDelta(t, 1.0, sumB, 1e-9)
}
