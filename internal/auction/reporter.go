package auction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// ReportRow is one team's valuation in currency-rounded form for export
type ReportRow struct {
	TeamID          string          `json:"teamId"`
	TeamName        string          `json:"teamName"`
	Sold            bool            `json:"sold"`
	Bid             decimal.Decimal `json:"bid"`
	PriorPayout     decimal.Decimal `json:"priorPayout"`
	PredictedPayout decimal.Decimal `json:"predictedPayout"`
	GrossEV         decimal.Decimal `json:"grossEV"`
	BuyerReturn     decimal.Decimal `json:"buyerReturn"`
	BuyerEV         decimal.Decimal `json:"buyerEV"`
	OptimalBid      decimal.Decimal `json:"optimalBid"`
	NoFiniteBid     bool            `json:"noFiniteBid"`
}

// Report is the exportable valuation table for one division
type Report struct {
	Division      string          `json:"division"`
	EstimatedPool decimal.Decimal `json:"estimatedPool"`
	ScaleFactor   float64         `json:"scaleFactor"`
	Rows          []ReportRow     `json:"rows"`
}

// BuildReport joins an analysis with the roster into a currency-rounded
// report, sorted by buyer EV descending.
func BuildReport(teams []models.Team, analysis Analysis) Report {
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	estByTeam := make(map[string]models.PayoutEstimate, len(analysis.Estimates))
	for _, est := range analysis.Estimates {
		estByTeam[est.TeamID] = est
	}

	money := func(v float64) decimal.Decimal {
		return decimal.NewFromFloat(v).Round(2)
	}

	scale := 1.0
	rows := make([]ReportRow, 0, len(analysis.Valuations))
	for _, val := range analysis.Valuations {
		est := estByTeam[val.TeamID]
		scale = est.ScaleFactor
		rows = append(rows, ReportRow{
			TeamID:          val.TeamID,
			TeamName:        names[val.TeamID],
			Sold:            est.Sold,
			Bid:             money(est.Bid),
			PriorPayout:     money(est.PriorPayout),
			PredictedPayout: money(est.PredictedPayout),
			GrossEV:         money(val.GrossEV),
			BuyerReturn:     money(val.BuyerReturn),
			BuyerEV:         money(val.BuyerEV),
			OptimalBid:      money(val.OptimalBid),
			NoFiniteBid:     val.NoFiniteBid,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].BuyerEV.GreaterThan(rows[j].BuyerEV)
	})

	return Report{
		Division:      analysis.Division,
		EstimatedPool: money(analysis.EstimatedPool),
		ScaleFactor:   scale,
		Rows:          rows,
	}
}

// WriteReport writes the report as indented JSON
func WriteReport(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ConsoleReport formats the report for terminal output
func ConsoleReport(report Report) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Valuations for %s\n", report.Division))
	builder.WriteString(fmt.Sprintf("Estimated pool: $%s (scale %.2f)\n", report.EstimatedPool.StringFixed(2), report.ScaleFactor))
	builder.WriteString(fmt.Sprintf("%-20s %10s %10s %10s %12s\n", "Team", "Bid", "GrossEV", "BuyerEV", "OptimalBid"))
	for _, row := range report.Rows {
		optimal := "$" + row.OptimalBid.StringFixed(2)
		if row.NoFiniteBid {
			optimal = "no finite bid"
		}
		builder.WriteString(fmt.Sprintf("%-20s %10s %10s %10s %12s\n",
			row.TeamName,
			"$"+row.Bid.StringFixed(2),
			"$"+row.GrossEV.StringFixed(2),
			"$"+row.BuyerEV.StringFixed(2),
			optimal,
		))
	}
	return builder.String()
}
