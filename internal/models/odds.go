package models

// Event identifies one of the four payout tiers
type Event string

const (
	EventA Event = "A" // championship
	EventB Event = "B" // consolation
	EventC Event = "C"
	EventD Event = "D"
)

// Events lists the payout tiers in display order
var Events = []Event{EventA, EventB, EventC, EventD}

// OddsRow holds a team's externally computed probability of winning each
// event. The engine treats these as read-only input.
type OddsRow struct {
	TeamID   string  `json:"teamId" validate:"required"`
	TeamName string  `json:"teamName,omitempty"`
	A        float64 `json:"A" validate:"gte=0,lte=1"`
	B        float64 `json:"B" validate:"gte=0,lte=1"`
	C        float64 `json:"C" validate:"gte=0,lte=1"`
	D        float64 `json:"D" validate:"gte=0,lte=1"`
	Any      float64 `json:"any" validate:"gte=0,lte=1"`
}

// Prob returns the probability of winning a single event
func (o *OddsRow) Prob(e Event) float64 {
	switch e {
	case EventA:
		return o.A
	case EventB:
		return o.B
	case EventC:
		return o.C
	case EventD:
		return o.D
	}
	return 0
}
