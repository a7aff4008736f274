package auction

import (
	"sort"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// EstimateInput bundles the inputs to one payout estimation pass. All of
// it is a caller-owned snapshot; the estimator is a pure function of its
// arguments.
type EstimateInput struct {
	Teams          []models.Team
	Bids           []models.Bid
	PriorPayouts   []models.PriorPayout
	PriorPoolTotal float64
}

// EstimatePayouts derives a predicted payout per team and the estimated
// total pool.
//
// A realized sale is definitionally the best estimate of that team's pool
// contribution, so a sold team predicts its bid. Unsold teams predict
// their prior-year payout when known, else an even share of the prior
// pool. Unsold teams are deliberately not rescaled by how other teams
// have sold: one outlier sale must not distort every still-unsold team's
// projection.
func EstimatePayouts(in EstimateInput) ([]models.PayoutEstimate, float64) {
	sold := latestSaleByTeam(in.Bids)
	priors := make(map[string]float64, len(in.PriorPayouts))
	for _, p := range in.PriorPayouts {
		priors[p.TeamID] = p.Amount
	}

	evenShare := 0.0
	if len(in.Teams) > 0 && in.PriorPoolTotal > 0 {
		evenShare = in.PriorPoolTotal / float64(len(in.Teams))
	}

	scale := scaleFactor(sold, priors)

	estimates := make([]models.PayoutEstimate, 0, len(in.Teams))
	pool := 0.0
	for _, team := range in.Teams {
		est := models.PayoutEstimate{
			TeamID:      team.ID,
			ScaleFactor: scale,
		}
		if prior, ok := priors[team.ID]; ok {
			est.PriorPayout = prior
		}
		if bid, ok := sold[team.ID]; ok {
			est.Bid = bid
			est.Sold = true
			est.PredictedPayout = bid
		} else if _, ok := priors[team.ID]; ok {
			est.PredictedPayout = est.PriorPayout
		} else {
			est.PredictedPayout = evenShare
		}
		pool += est.PredictedPayout
		estimates = append(estimates, est)
	}
	return estimates, pool
}

// latestSaleByTeam reduces the bid table to one realized sale per team,
// keeping the most recent positive bid when a team was re-auctioned.
func latestSaleByTeam(bids []models.Bid) map[string]float64 {
	ordered := make([]models.Bid, len(bids))
	copy(ordered, bids)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	sold := make(map[string]float64)
	for _, b := range ordered {
		if b.IsSold() {
			sold[b.TeamID] = b.Amount
		}
	}
	return sold
}

// scaleFactor is informational only: sold-bid total over the matching
// prior total, 1.0 when nothing has sold or the priors sum to zero. It is
// exposed to callers but never adjusts unsold teams' projections.
func scaleFactor(sold map[string]float64, priors map[string]float64) float64 {
	bidSum, priorSum := 0.0, 0.0
	for teamID, bid := range sold {
		prior, ok := priors[teamID]
		if !ok {
			continue
		}
		bidSum += bid
		priorSum += prior
	}
	if priorSum <= 0 {
		return 1.0
	}
	return bidSum / priorSum
}
