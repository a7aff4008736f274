package models

// PayoutEstimate is the derived per-team payout projection. It has no
// independent identity and is rebuilt whenever bids, roster, or prior
// payouts change.
type PayoutEstimate struct {
	TeamID          string  `json:"teamId"`
	Bid             float64 `json:"bid"`
	PriorPayout     float64 `json:"priorPayout"`
	PredictedPayout float64 `json:"predictedPayout"`
	Sold            bool    `json:"sold"`
	// ScaleFactor is informational only: sold-bid total over the matching
	// prior total. It never adjusts unsold teams' projections.
	ScaleFactor float64 `json:"scaleFactor"`
}

// ValuationResult is the derived per-team economic valuation, recomputed
// together with PayoutEstimate.
type ValuationResult struct {
	TeamID      string  `json:"teamId"`
	GrossEV     float64 `json:"grossEV"`
	BuyerReturn float64 `json:"buyerReturn"`
	BuyerEV     float64 `json:"buyerEV"`
	OptimalBid  float64 `json:"optimalBid"`
	// NoFiniteBid marks the pool-elastic break-even as unbounded; in that
	// case OptimalBid is zero and must not be read as a price.
	NoFiniteBid bool `json:"noFiniteBid"`
}
