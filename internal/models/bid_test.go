package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidUnmarshalBuyBackModes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want BuyBackMode
	}{
		{
			name: "explicit mode string",
			json: `{"teamId": "t1", "buyer": "alice", "amount": 100, "buyBack": "self"}`,
			want: BuyBackModeSelf,
		},
		{
			name: "legacy selfBuyBack flag",
			json: `{"teamId": "t1", "buyer": "alice", "amount": 100, "selfBuyBack": true}`,
			want: BuyBackModeSelf,
		},
		{
			name: "legacy noBuyBack flag",
			json: `{"teamId": "t1", "buyer": "alice", "amount": 100, "noBuyBack": true}`,
			want: BuyBackModeNone,
		},
		{
			name: "no flag defaults to standard",
			json: `{"teamId": "t1", "buyer": "alice", "amount": 100}`,
			want: BuyBackModeStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bid Bid
			require.NoError(t, json.Unmarshal([]byte(tt.json), &bid))
			assert.Equal(t, tt.want, bid.BuyBack)
			assert.Equal(t, "t1", bid.TeamID)
		})
	}
}

func TestBidIsSold(t *testing.T) {
	assert.True(t, (&Bid{Amount: 50}).IsSold())
	assert.False(t, (&Bid{Amount: 0}).IsSold())
}

func TestTeamWinPct(t *testing.T) {
	assert.Equal(t, 0.5, (&Team{}).WinPct())
	assert.Equal(t, 0.75, (&Team{Wins: 7, Losses: 2, Ties: 1}).WinPct())
}
