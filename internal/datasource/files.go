package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// FileStore reads and writes the per-division JSON inputs the CLIs run
// from: bracket_<division>.json, teams_<division>.json, and so on.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(kind, division string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", kind, division))
}

// Bracket returns the raw bracket JSON for a division.
func (s *FileStore) Bracket(division string) ([]byte, error) {
	data, err := os.ReadFile(s.path("bracket", division))
	if err != nil {
		return nil, fmt.Errorf("reading bracket file: %w", err)
	}
	return data, nil
}

// Teams loads a division's team list.
func (s *FileStore) Teams(division string) ([]models.Team, error) {
	var teams []models.Team
	if err := s.read("teams", division, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Bids loads a division's bid log. A missing file means the auction has
// not started and yields an empty log.
func (s *FileStore) Bids(division string) ([]models.Bid, error) {
	var bids []models.Bid
	if err := s.readOptional("bids", division, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// Priors loads a division's prior-year payouts, empty when the division
// has no history.
func (s *FileStore) Priors(division string) ([]models.PriorPayout, error) {
	var priors []models.PriorPayout
	if err := s.readOptional("priors", division, &priors); err != nil {
		return nil, err
	}
	return priors, nil
}

// Odds loads a division's simulated odds rows.
func (s *FileStore) Odds(division string) ([]models.OddsRow, error) {
	var rows []models.OddsRow
	if err := s.read("odds", division, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteOdds writes a division's odds rows as indented JSON.
func (s *FileStore) WriteOdds(division string, rows []models.OddsRow) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding odds: %w", err)
	}
	if err := os.WriteFile(s.path("odds", division), data, 0o644); err != nil {
		return fmt.Errorf("writing odds file: %w", err)
	}
	return nil
}

func (s *FileStore) read(kind, division string, v interface{}) error {
	data, err := os.ReadFile(s.path(kind, division))
	if err != nil {
		return fmt.Errorf("reading %s file: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s file: %w", kind, err)
	}
	return nil
}

func (s *FileStore) readOptional(kind, division string, v interface{}) error {
	err := s.read(kind, division, v)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
