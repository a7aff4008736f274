// Package main provides the one-shot valuation CLI. It reads a division's
// bracket, teams, bids, prior payouts, and odds files, then emits payout
// estimates, valuations, and per-team bracket paths.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/yourusername/bonspiel-calcutta/internal/auction"
	"github.com/yourusername/bonspiel-calcutta/internal/bracket"
	"github.com/yourusername/bonspiel-calcutta/internal/config"
	"github.com/yourusername/bonspiel-calcutta/internal/datasource"
	"github.com/yourusername/bonspiel-calcutta/internal/logger"
)

// fullReport is the CLI's JSON output: the money report plus each team's
// route to every payout event.
type fullReport struct {
	Report auction.Report    `json:"report"`
	Paths  []bracket.PathSet `json:"paths"`
}

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		division   = flag.String("division", "", "Division to value (required)")
		output     = flag.String("output", "", "Write full JSON report to this path")
		withPaths  = flag.Bool("paths", true, "Include bracket paths in the JSON report")
		logLevel   = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	log := logger.NewLogger(*logLevel)

	if *division == "" {
		log.Fatal("-division is required")
	}

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store := datasource.NewFileStore(cfg.Data.Dir)

	bracketJSON, err := store.Bracket(*division)
	if err != nil {
		log.Fatalf("Failed to read bracket: %v", err)
	}
	forest, err := bracket.ParseForest(bracketJSON)
	if err != nil {
		log.Fatalf("Failed to parse bracket: %v", err)
	}
	if err := forest.Validate(); err != nil {
		log.Fatalf("Bracket failed validation: %v", err)
	}

	teams, err := store.Teams(*division)
	if err != nil {
		log.Fatalf("Failed to read teams: %v", err)
	}
	bids, err := store.Bids(*division)
	if err != nil {
		log.Fatalf("Failed to read bids: %v", err)
	}
	priors, err := store.Priors(*division)
	if err != nil {
		log.Fatalf("Failed to read prior payouts: %v", err)
	}
	odds, err := store.Odds(*division)
	if err != nil {
		log.Fatalf("Failed to read odds: %v", err)
	}

	snap := auction.Snapshot{
		Division:       *division,
		Teams:          teams,
		Bids:           bids,
		PriorPayouts:   priors,
		PriorPoolTotal: cfg.PriorPool(*division),
		Odds:           odds,
		Config:         cfg.Auction.ToAuction(),
	}

	analysis := auction.Analyze(snap)
	report := auction.BuildReport(teams, analysis)

	fmt.Print(auction.ConsoleReport(report))

	if *output == "" {
		return
	}

	if !*withPaths {
		if err := auction.WriteReport(report, *output); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Infof("Report written to %s", *output)
		return
	}

	out := fullReport{Report: report}
	resolver := bracket.NewResolver(forest)
	finder := bracket.NewPathFinder(forest, resolver)
	for _, team := range teams {
		out.Paths = append(out.Paths, finder.FindPaths(team.ID))
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.Infof("Report written to %s", *output)
}
