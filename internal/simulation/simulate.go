package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/yourusername/bonspiel-calcutta/internal/bracket"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// Config controls one simulation run
type Config struct {
	Iterations int
	Seed       int64
	Weights    Weights
}

// Run simulates the full tournament Config.Iterations times and returns
// each team's empirical probability of winning each event.
func Run(ctx context.Context, teams []models.Team, forest *bracket.Forest, cfg Config) ([]models.OddsRow, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 50000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}

	if len(teams) < 2 {
		rows := make([]models.OddsRow, 0, len(teams))
		for _, t := range teams {
			rows = append(rows, models.OddsRow{TeamID: t.ID, TeamName: t.Name})
		}
		return rows, nil
	}

	strengths := make(map[string]float64, len(teams))
	for _, t := range teams {
		strengths[t.ID] = CompositeStrength(t, cfg.Weights)
	}

	rng := rand.New(rand.NewSource(seed))
	sim := &simulator{forest: forest, strengths: strengths, rng: rng}

	wins := make(map[models.Event]map[string]int, len(models.Events))
	for _, e := range models.Events {
		wins[e] = make(map[string]int, len(teams))
	}

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sim.runOnce(wins)
	}

	n := float64(cfg.Iterations)
	rows := make([]models.OddsRow, 0, len(teams))
	for _, t := range teams {
		row := models.OddsRow{
			TeamID:   t.ID,
			TeamName: t.Name,
			A:        float64(wins[models.EventA][t.ID]) / n,
			B:        float64(wins[models.EventB][t.ID]) / n,
			C:        float64(wins[models.EventC][t.ID]) / n,
			D:        float64(wins[models.EventD][t.ID]) / n,
		}
		row.Any = math.Min(1.0, row.A+row.B+row.C+row.D)
		rows = append(rows, row)
	}
	return rows, nil
}

// simulator holds the per-run state for one tournament simulation
type simulator struct {
	forest    *bracket.Forest
	strengths map[string]float64
	rng       *rand.Rand
	slots     map[string]string
}

// runOnce plays out one full tournament: A qualifiers, B qualifiers, the
// championship and consolation, then the C and D events, threading losers
// through the slot map in bracket order.
func (s *simulator) runOnce(wins map[models.Event]map[string]int) {
	s.slots = make(map[string]string)

	qualifiers := make([]string, 0, len(s.forest.AEvent)+len(s.forest.BEvent))
	for _, tree := range s.forest.AEvent {
		winner, err := s.playTree(tree)
		if err != nil {
			return
		}
		qualifiers = append(qualifiers, winner)
	}
	var bWinners []string
	for _, tree := range s.forest.BEvent {
		winner, err := s.playTree(tree)
		if err != nil {
			return
		}
		qualifiers = append(qualifiers, winner)
		bWinners = append(bWinners, winner)
	}

	champion, consolation := s.playChampionship(qualifiers)
	if champion != "" {
		wins[models.EventA][champion]++
	}
	// Draws without a quarterfinal consolation decide event B inside the
	// consolation bracket itself.
	if consolation == "" && len(bWinners) == 1 && bWinners[0] != champion {
		consolation = bWinners[0]
	}
	if consolation != "" {
		wins[models.EventB][consolation]++
	}

	// Some C/D slots stay unfilled when brackets are partial; skip the
	// event for this iteration rather than aborting the run.
	if s.forest.CEvent != nil {
		if winner, err := s.playTree(s.forest.CEvent); err == nil {
			wins[models.EventC][winner]++
		}
	}
	if s.forest.DEvent != nil {
		if winner, err := s.playTree(s.forest.DEvent); err == nil {
			wins[models.EventD][winner]++
		}
	}
}

// playTree recursively simulates a bracket tree and returns the winner.
// Losers of matches with a loser slot are recorded in the slot map so
// downstream brackets can pick them up.
func (s *simulator) playTree(node *bracket.Node) (string, error) {
	switch node.Kind() {
	case bracket.KindTeam:
		return node.TeamID, nil
	case bracket.KindSlot:
		team, ok := s.slots[node.SlotName]
		if !ok {
			return "", fmt.Errorf("slot %s not yet filled", node.SlotName)
		}
		return team, nil
	default:
		left, err := s.playTree(node.Match.Left)
		if err != nil {
			return "", err
		}
		right, err := s.playTree(node.Match.Right)
		if err != nil {
			return "", err
		}
		winner, loser := s.playGame(left, right)
		if node.Match.LoserSlot != "" {
			s.slots[node.Match.LoserSlot] = loser
		}
		return winner, nil
	}
}

// playChampionship runs the pairing-table bracket over qualifier winners,
// returning the champion (event A) and the consolation winner (event B).
func (s *simulator) playChampionship(qualifiers []string) (string, string) {
	champ := s.forest.Championship

	entries := qualifiers
	var losers []string
	if len(champ.QuarterSeed) > 0 {
		winners := make([]string, 0, len(champ.QuarterSeed))
		losers = make([]string, 0, len(champ.QuarterSeed))
		for _, pair := range champ.QuarterSeed {
			if pair[0] >= len(qualifiers) || pair[1] >= len(qualifiers) {
				return "", ""
			}
			w, l := s.playGame(qualifiers[pair[0]], qualifiers[pair[1]])
			winners = append(winners, w)
			losers = append(losers, l)
		}
		entries = winners
	}

	champion := s.playPairs(entries, champ.SemiPairs)
	consolation := ""
	if losers != nil {
		consolation = s.playPairs(losers, champ.SemiPairs)
	}
	return champion, consolation
}

// playPairs plays the semifinal pairing table over the given entrants and
// then a final between the semifinal winners.
func (s *simulator) playPairs(entries []string, pairs [][2]int) string {
	if len(pairs) == 0 {
		if len(entries) == 1 {
			return entries[0]
		}
		return ""
	}

	winners := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair[0] >= len(entries) || pair[1] >= len(entries) {
			return ""
		}
		w, _ := s.playGame(entries[pair[0]], entries[pair[1]])
		winners = append(winners, w)
	}
	if len(winners) == 1 {
		return winners[0]
	}

	final := winners[0]
	for _, next := range winners[1:] {
		final, _ = s.playGame(final, next)
	}
	return final
}

// playGame decides one game with the Bradley-Terry model
func (s *simulator) playGame(a, b string) (winner, loser string) {
	sa := s.strength(a)
	sb := s.strength(b)
	if s.rng.Float64() < PairwiseWinProb(sa, sb) {
		return a, b
	}
	return b, a
}

func (s *simulator) strength(teamID string) float64 {
	if v, ok := s.strengths[teamID]; ok {
		return v
	}
	return 0.5
}
