package models

// Team represents a bonspiel team entry
type Team struct {
	ID     string         `db:"id" json:"id" validate:"required"`
	Name   string         `db:"name" json:"name" validate:"required,min=1,max=255"`
	Wins   int            `db:"wins" json:"wins" validate:"gte=0"`
	Losses int            `db:"losses" json:"losses" validate:"gte=0"`
	Ties   int            `db:"ties" json:"ties" validate:"gte=0"`
	Seed   int            `db:"seed" json:"seed" validate:"gte=0"`
	H2H    map[string]H2H `json:"h2h,omitempty"`
}

// H2H is a head-to-head record against a single tracked opponent
type H2H struct {
	Wins   int `json:"w"`
	Losses int `json:"l"`
}

// GamesPlayed returns the total number of league games played
func (t *Team) GamesPlayed() int {
	return t.Wins + t.Losses + t.Ties
}

// WinPct returns the team's win percentage with ties counted as half a win.
// Teams with no games played default to 0.5.
func (t *Team) WinPct() float64 {
	gp := t.GamesPlayed()
	if gp == 0 {
		return 0.5
	}
	return (float64(t.Wins) + 0.5*float64(t.Ties)) / float64(gp)
}
