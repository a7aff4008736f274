package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// LeagueStanding is one row of the league standings feed.
type LeagueStanding struct {
	Team   string `json:"team"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
}

// standingsResponse is the wire shape of the standings endpoint.
type standingsResponse struct {
	Standings []LeagueStanding `json:"standings"`
	UpdatedAt string           `json:"updatedAt"`
}

// StandingsConfig configures the standings fetcher.
type StandingsConfig struct {
	SourceURL string
	APIKey    string
	Timeout   time.Duration
	// NicknameMap translates a league display name to the canonical
	// name used elsewhere, e.g. "The Sweeper Keepers" -> "Team Jones".
	NicknameMap map[string]string
	// RosterMap translates a canonical name to a bonspiel team id. Several
	// league entries may map onto one bonspiel team when a skip fields
	// multiple league teams.
	RosterMap map[string]string
	// ManualRecords pins a team's record regardless of what the feed says,
	// keyed by bonspiel team id. Used for teams that play outside the
	// tracked league.
	ManualRecords map[string]ManualRecord
}

// ManualRecord is a hand-entered win/loss/tie record.
type ManualRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// StandingsFetcher pulls current league standings and folds them into
// bonspiel team records.
type StandingsFetcher struct {
	cfg    StandingsConfig
	client *RateLimitedHTTPClient
	logger *logrus.Logger
}

// NewStandingsFetcher creates a standings fetcher backed by a rate-limited client.
func NewStandingsFetcher(cfg StandingsConfig, client *RateLimitedHTTPClient, logger *logrus.Logger) *StandingsFetcher {
	return &StandingsFetcher{cfg: cfg, client: client, logger: logger}
}

// Fetch retrieves the raw league standings from the configured source.
func (f *StandingsFetcher) Fetch(ctx context.Context) ([]LeagueStanding, error) {
	if f.cfg.SourceURL == "" {
		return nil, fmt.Errorf("standings source URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building standings request: %w", err)
	}
	if f.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("standings endpoint returned status %d", resp.StatusCode)
	}

	var parsed standingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding standings: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"rows":       len(parsed.Standings),
		"updated_at": parsed.UpdatedAt,
	}).Info("Fetched league standings")

	return parsed.Standings, nil
}

// Apply folds league standings into the given teams and returns the set of
// team ids whose records changed. League rows that map to no bonspiel team
// are skipped; multiple rows mapping to one team have their records summed.
// Manual records win over anything the feed reports for the same team.
func (f *StandingsFetcher) Apply(standings []LeagueStanding, teams map[string]*models.Team) []string {
	type record struct{ wins, losses, ties int }
	accum := make(map[string]record)

	for _, row := range standings {
		name := f.canonicalName(row.Team)
		teamID, ok := f.cfg.RosterMap[name]
		if !ok {
			f.logger.WithField("league_team", row.Team).Debug("League team has no bonspiel mapping, skipping")
			continue
		}
		r := accum[teamID]
		r.wins += row.Wins
		r.losses += row.Losses
		r.ties += row.Ties
		accum[teamID] = r
	}

	for teamID, m := range f.cfg.ManualRecords {
		accum[teamID] = record{wins: m.Wins, losses: m.Losses, ties: m.Ties}
	}

	var changed []string
	for teamID, r := range accum {
		team, ok := teams[teamID]
		if !ok {
			f.logger.WithField("team_id", teamID).Warn("Roster map references unknown team")
			continue
		}
		if team.Wins == r.wins && team.Losses == r.losses && team.Ties == r.ties {
			continue
		}
		team.Wins = r.wins
		team.Losses = r.losses
		team.Ties = r.ties
		changed = append(changed, teamID)
	}

	return changed
}

// ManualTeamIDs lists the team ids with hand-entered records.
func (f *StandingsFetcher) ManualTeamIDs() []string {
	ids := make([]string, 0, len(f.cfg.ManualRecords))
	for id := range f.cfg.ManualRecords {
		ids = append(ids, id)
	}
	return ids
}

// TeamIDFor resolves a league team name to a bonspiel team id.
func (f *StandingsFetcher) TeamIDFor(leagueName string) (string, bool) {
	id, ok := f.cfg.RosterMap[f.canonicalName(leagueName)]
	return id, ok
}

// canonicalName applies the nickname map, falling back to a trimmed
// case-preserving match on the raw league name.
func (f *StandingsFetcher) canonicalName(leagueName string) string {
	trimmed := strings.TrimSpace(leagueName)
	if canonical, ok := f.cfg.NicknameMap[trimmed]; ok {
		return canonical
	}
	return trimmed
}
