package auction

import (
	"time"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// Snapshot is a caller-owned, immutable view of one division's auction
// state. Recomputation is a pure function of a snapshot, so there is no
// process-wide cached analysis to go stale.
type Snapshot struct {
	Division       string
	Teams          []models.Team
	Bids           []models.Bid
	PriorPayouts   []models.PriorPayout
	PriorPoolTotal float64
	Odds           []models.OddsRow
	Config         Config
}

// Analysis is the derived state for one division: payout estimates and
// valuations are always rebuilt together, never independently, so callers
// can never observe stale EV rows next to fresh payout rows.
type Analysis struct {
	Division      string                   `json:"division"`
	Estimates     []models.PayoutEstimate  `json:"estimates"`
	Valuations    []models.ValuationResult `json:"valuations"`
	EstimatedPool float64                  `json:"estimatedPool"`
	ComputedAt    time.Time                `json:"computedAt"`
}

// Analyze performs one atomic, all-or-nothing recompute of a division's
// estimates and valuations.
func Analyze(snap Snapshot) Analysis {
	estimates, pool := EstimatePayouts(EstimateInput{
		Teams:          snap.Teams,
		Bids:           snap.Bids,
		PriorPayouts:   snap.PriorPayouts,
		PriorPoolTotal: snap.PriorPoolTotal,
	})

	estByTeam := make(map[string]models.PayoutEstimate, len(estimates))
	for _, est := range estimates {
		estByTeam[est.TeamID] = est
	}
	oddsByTeam := make(map[string]models.OddsRow, len(snap.Odds))
	for _, row := range snap.Odds {
		oddsByTeam[row.TeamID] = row
	}
	modeByTeam := buyBackModes(snap.Bids)

	payouts := PayoutsForPool(pool, snap.Config.PayoutPcts)

	valuations := make([]models.ValuationResult, 0, len(snap.Teams))
	for _, team := range snap.Teams {
		probs, ok := oddsByTeam[team.ID]
		if !ok {
			probs = models.OddsRow{TeamID: team.ID}
		}
		est := estByTeam[team.ID]
		mode := models.BuyBackModeStandard
		if m, ok := modeByTeam[team.ID]; ok {
			mode = m
		}
		poolCtx := &PoolContext{
			PoolWithoutTeam: pool - est.PredictedPayout,
			PayoutPcts:      snap.Config.PayoutPcts,
		}
		valuations = append(valuations, ComputeEV(probs, payouts, est.Bid, mode, snap.Config, poolCtx))
	}

	return Analysis{
		Division:      snap.Division,
		Estimates:     estimates,
		Valuations:    valuations,
		EstimatedPool: pool,
		ComputedAt:    time.Now().UTC(),
	}
}

// buyBackModes extracts each team's effective buy-back mode from its most
// recent bid.
func buyBackModes(bids []models.Bid) map[string]models.BuyBackMode {
	latest := make(map[string]time.Time)
	modes := make(map[string]models.BuyBackMode)
	for _, b := range bids {
		if ts, ok := latest[b.TeamID]; ok && b.CreatedAt.Before(ts) {
			continue
		}
		latest[b.TeamID] = b.CreatedAt
		modes[b.TeamID] = b.BuyBack
	}
	return modes
}
