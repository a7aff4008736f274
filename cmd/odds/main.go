// Package main provides the Monte Carlo odds generator CLI. It reads a
// division's bracket and team files, simulates the bonspiel, and writes
// per-event win probabilities.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bonspiel-calcutta/internal/bracket"
	"github.com/yourusername/bonspiel-calcutta/internal/datasource"
	"github.com/yourusername/bonspiel-calcutta/internal/logger"
	"github.com/yourusername/bonspiel-calcutta/internal/simulation"
)

func main() {
	var (
		dataDir    = flag.String("data-dir", "./data", "Directory holding division JSON files")
		division   = flag.String("division", "", "Division to simulate (required)")
		iterations = flag.Int("iterations", 50000, "Number of Monte Carlo iterations")
		seed       = flag.Int64("seed", 0, "RNG seed, 0 means time-based")
		logLevel   = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log := logger.NewLogger(*logLevel)

	if *division == "" {
		log.Fatal("-division is required")
	}

	store := datasource.NewFileStore(*dataDir)

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

	cfg := simulation.Config{
		Iterations: *iterations,
		Seed:       *seed,
		Weights:    simulation.DefaultWeights(),
	}

	log.WithFields(logrus.Fields{
		"division":   *division,
		"teams":      len(teams),
		"iterations": *iterations,
	}).Info("Starting bracket simulation")

	rows, err := simulation.Run(context.Background(), teams, forest, cfg)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if err := store.WriteOdds(*division, rows); err != nil {
		log.Fatalf("Failed to write odds: %v", err)
	}

	for _, row := range rows {
		fmt.Fprintf(os.Stdout, "%-24s A=%.3f B=%.3f C=%.3f D=%.3f any=%.3f\n",
			row.TeamName, row.A, row.B, row.C, row.D, row.Any)
	}

	log.WithField("teams", len(rows)).Info("Odds written")
}
