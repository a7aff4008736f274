package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BuyBackMode represents how the seller's buy-back rule applies to a sale
type BuyBackMode string

const (
	// BuyBackModeStandard keeps the default seller retention percentage.
	BuyBackModeStandard BuyBackMode = "standard"
	// BuyBackModeSelf marks the original owner buying their own team back.
	BuyBackModeSelf BuyBackMode = "self"
	// BuyBackModeNone opts the team out of buy-back entirely; the buyer
	// keeps the full payout.
	BuyBackModeNone BuyBackMode = "none"
)

// Bid represents a single auction sale for a team
type Bid struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	TeamID    string      `db:"team_id" json:"teamId" validate:"required"`
	Buyer     string      `db:"buyer" json:"buyer" validate:"required,min=1,max=255"`
	Amount    float64     `db:"amount" json:"amount" validate:"gte=0"`
	BuyBack   BuyBackMode `db:"buy_back" json:"buyBack" validate:"required,oneof=standard self none"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// IsSold reports whether the bid represents a realized sale
func (b *Bid) IsSold() bool {
	return b.Amount > 0
}

// UnmarshalJSON accepts either the buyBack mode string or the older
// selfBuyBack/noBuyBack boolean flags still present in exported bid files.
func (b *Bid) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID          uuid.UUID `json:"id"`
		TeamID      string    `json:"teamId"`
		Buyer       string    `json:"buyer"`
		Amount      float64   `json:"amount"`
		BuyBack     string    `json:"buyBack"`
		SelfBuyBack bool      `json:"selfBuyBack"`
		NoBuyBack   bool      `json:"noBuyBack"`
		CreatedAt   time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	mode := BuyBackMode(wire.BuyBack)
	if wire.BuyBack == "" {
		switch {
		case wire.NoBuyBack:
			mode = BuyBackModeNone
		case wire.SelfBuyBack:
			mode = BuyBackModeSelf
		default:
			mode = BuyBackModeStandard
		}
	}

	*b = Bid{
		ID:        wire.ID,
		TeamID:    wire.TeamID,
		Buyer:     wire.Buyer,
		Amount:    wire.Amount,
		BuyBack:   mode,
		CreatedAt: wire.CreatedAt,
	}
	return nil
}

// PriorPayout is last cycle's realized payout for a team, used as a
// baseline estimate before the team sells this cycle.
type PriorPayout struct {
	TeamID string  `db:"team_id" json:"teamId" validate:"required"`
	Amount float64 `db:"amount" json:"amount" validate:"gte=0"`
}
