package auction

import "github.com/yourusername/bonspiel-calcutta/internal/models"

// EventPayouts is the dollar payout per event for a given pool
type EventPayouts struct {
	A float64
	B float64
	C float64
	D float64
}

// Get returns the payout for one event
func (p EventPayouts) Get(e models.Event) float64 {
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

// PayoutsForPool splits an estimated pool across the four events
func PayoutsForPool(pool float64, pcts EventPercents) EventPayouts {
	return EventPayouts{
		A: pool * pcts.A,
		B: pool * pcts.B,
		C: pool * pcts.C,
		D: pool * pcts.D,
	}
}

// PoolContext supplies the pool-elasticity inputs for the optimal bid: a
// team's own bid feeds the pool that pays it, so break-even must account
// for the bid's own contribution.
type PoolContext struct {
	// PoolWithoutTeam is the estimated total pool excluding this team's
	// contribution.
	PoolWithoutTeam float64
	PayoutPcts      EventPercents
}

// ComputeEV combines win probabilities, event payouts, and the buy-back
// rule into the buyer's expected value and break-even bid.
//
// With a pool context, the self-consistent break-even solves
// bid = keepFrac × weightedProbability × (poolWithoutTeam + bid); the
// closed form diverges when keepFrac × weightedProbability reaches 1, in
// which case the result reports no finite bid rather than infinity.
// Without a pool context it falls back to the non-elastic break-even,
// the buyer's return itself.
func ComputeEV(probs models.OddsRow, payouts EventPayouts, bid float64, mode models.BuyBackMode, cfg Config, pool *PoolContext) models.ValuationResult {
	result := models.ValuationResult{TeamID: probs.TeamID}

	for _, e := range models.Events {
		result.GrossEV += probs.Prob(e) * payouts.Get(e)
	}

	keep := cfg.keepFrac(mode)
	result.BuyerReturn = result.GrossEV * keep
	result.BuyerEV = result.BuyerReturn - bid

	if pool == nil {
		result.OptimalBid = result.BuyerReturn
		return result
	}

	weighted := 0.0
	for _, e := range models.Events {
		weighted += probs.Prob(e) * pool.PayoutPcts.Get(e)
	}
	k := keep * weighted
	if k >= 1 {
		result.NoFiniteBid = true
		return result
	}
	result.OptimalBid = k * pool.PoolWithoutTeam / (1 - k)
	return result
}
