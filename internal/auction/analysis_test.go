package auction

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Division: "open",
		Teams: []models.Team{
			{ID: "t1", Name: "Team Stone"},
			{ID: "t2", Name: "Team Hammer"},
		},
		Bids: []models.Bid{{
			ID:        uuid.New(),
			TeamID:    "t1",
			Buyer:     "alice",
			Amount:    150,
			BuyBack:   models.BuyBackModeStandard,
			CreatedAt: time.Now(),
		}},
		PriorPoolTotal: 400,
		Odds: []models.OddsRow{
			{TeamID: "t1", TeamName: "Team Stone", A: 0.6, B: 0.1},
			{TeamID: "t2", TeamName: "Team Hammer", A: 0.4, B: 0.3},
		},
		Config: DefaultConfig(),
	}
}

func TestAnalyzeRebuildsEverythingTogether(t *testing.T) {
	snap := testSnapshot()
	analysis := Analyze(snap)

	assert.Equal(t, "open", analysis.Division)
	require.Len(t, analysis.Estimates, 2)
	require.Len(t, analysis.Valuations, 2)

	// t1 sold for 150, t2 unsold at the 200 even share.
	assert.InDelta(t, 350.0, analysis.EstimatedPool, 1e-9)
	assert.False(t, analysis.ComputedAt.IsZero())
}

func TestAnalyzePoolElasticityExcludesOwnContribution(t *testing.T) {
	snap := testSnapshot()
	analysis := Analyze(snap)

	var t1 models.ValuationResult
	for _, v := range analysis.Valuations {
		if v.TeamID == "t1" {
			t1 = v
		}
	}

	// k = 0.75 * (0.6*0.40 + 0.1*0.30); pool without t1 = 350 - 150.
	k := 0.75 * (0.6*0.40 + 0.1*0.30)
	want := k * 200 / (1 - k)
	assert.InDelta(t, want, t1.OptimalBid, 1e-9)
}

func TestAnalyzeTeamWithoutOddsGetsZeroEV(t *testing.T) {
	snap := testSnapshot()
	snap.Odds = snap.Odds[:1]

	analysis := Analyze(snap)
	for _, v := range analysis.Valuations {
		if v.TeamID == "t2" {
			assert.Zero(t, v.GrossEV)
			assert.Zero(t, v.OptimalBid)
		}
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	snap := testSnapshot()
	first := Analyze(snap)
	second := Analyze(snap)

	assert.Equal(t, first.Estimates, second.Estimates)
	assert.Equal(t, first.Valuations, second.Valuations)
	assert.Equal(t, first.EstimatedPool, second.EstimatedPool)
}

func TestBuildReportSortsByBuyerEV(t *testing.T) {
	snap := testSnapshot()
	report := BuildReport(snap.Teams, Analyze(snap))

	require.Len(t, report.Rows, 2)
	assert.True(t, report.Rows[0].BuyerEV.GreaterThanOrEqual(report.Rows[1].BuyerEV))
	assert.Equal(t, "open", report.Division)
	assert.Equal(t, "350", report.EstimatedPool.String())
}

func TestConsoleReportMarksNoFiniteBid(t *testing.T) {
	report := Report{
		Division: "open",
		Rows: []ReportRow{{
			TeamID:      "t1",
			TeamName:    "Team Stone",
			NoFiniteBid: true,
		}},
	}

	out := ConsoleReport(report)
	assert.True(t, strings.Contains(out, "no finite bid"))
}

func TestAnalyzeBidMonotonicity(t *testing.T) {
	valuationFor := func(amount float64) (float64, float64) {
		snap := testSnapshot()
		snap.Bids[0].Amount = amount
		analysis := Analyze(snap)
		var payout, buyerEV float64
		for _, est := range analysis.Estimates {
			if est.TeamID == "t1" {
				payout = est.PredictedPayout
			}
		}
		for _, v := range analysis.Valuations {
			if v.TeamID == "t1" {
				buyerEV = v.BuyerEV
			}
		}
		return payout, buyerEV
	}

	lowPayout, lowEV := valuationFor(100)
	highPayout, highEV := valuationFor(300)

	// A higher winning bid raises the team's own predicted payout and
	// lowers what the buyer nets from it.
	assert.Greater(t, highPayout, lowPayout)
	assert.Less(t, highEV, lowEV)
}
