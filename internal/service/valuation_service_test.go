package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bonspiel-calcutta/internal/auction"
	"github.com/yourusername/bonspiel-calcutta/internal/bracket"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
)

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Upsert(ctx context.Context, division string, team *models.Team) error {
	args := m.Called(ctx, division, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, division, teamID string) (*models.Team, error) {
	args := m.Called(ctx, division, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByDivision(ctx context.Context, division string) ([]*models.Team, error) {
	args := m.Called(ctx, division)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *MockTeamRepository) UpdateRecord(ctx context.Context, division, teamID string, wins, losses, ties int) error {
	args := m.Called(ctx, division, teamID, wins, losses, ties)
	return args.Error(0)
}

// MockBidRepository is a mock implementation of BidRepository
type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) Create(ctx context.Context, division string, bid *models.Bid) error {
	args := m.Called(ctx, division, bid)
	return args.Error(0)
}

func (m *MockBidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *MockBidRepository) ListByDivision(ctx context.Context, division string) ([]*models.Bid, error) {
	args := m.Called(ctx, division)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bid), args.Error(1)
}

// MockPriorPayoutRepository is a mock implementation of PriorPayoutRepository
type MockPriorPayoutRepository struct {
	mock.Mock
}

func (m *MockPriorPayoutRepository) Replace(ctx context.Context, division string, payouts []models.PriorPayout) error {
	args := m.Called(ctx, division, payouts)
	return args.Error(0)
}

func (m *MockPriorPayoutRepository) ListByDivision(ctx context.Context, division string) ([]models.PriorPayout, error) {
	args := m.Called(ctx, division)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriorPayout), args.Error(1)
}

// MockOddsRepository is a mock implementation of OddsRepository
type MockOddsRepository struct {
	mock.Mock
}

func (m *MockOddsRepository) Replace(ctx context.Context, division string, rows []models.OddsRow) error {
	args := m.Called(ctx, division, rows)
	return args.Error(0)
}

func (m *MockOddsRepository) ListByDivision(ctx context.Context, division string) ([]models.OddsRow, error) {
	args := m.Called(ctx, division)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OddsRow), args.Error(1)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type serviceMocks struct {
	teams  *MockTeamRepository
	bids   *MockBidRepository
	priors *MockPriorPayoutRepository
	odds   *MockOddsRepository
}

func newTestService() (*ValuationService, *serviceMocks) {
	m := &serviceMocks{
		teams:  new(MockTeamRepository),
		bids:   new(MockBidRepository),
		priors: new(MockPriorPayoutRepository),
		odds:   new(MockOddsRepository),
	}
	svc := NewValuationService(
		m.teams, m.bids, m.priors, m.odds,
		auction.DefaultConfig(),
		map[string]float64{"mens": 400},
		quietLogger(),
	)
	return svc, m
}

func testBracketJSON(t *testing.T) []byte {
	t.Helper()
	f := &bracket.Forest{
		AEvent: []*bracket.Node{
			bracket.MatchNode(bracket.TeamNode("t1"), bracket.TeamNode("t2"), "a1-loser"),
			bracket.MatchNode(bracket.TeamNode("t3"), bracket.TeamNode("t4"), "a2-loser"),
		},
		BEvent: []*bracket.Node{
			bracket.MatchNode(bracket.SlotNode("a1-loser"), bracket.SlotNode("a2-loser"), ""),
		},
		Championship: bracket.Championship{
			NumQualifiers: 2,
			SemiPairs:     [][2]int{{0, 1}},
		},
	}
	require.NoError(t, f.Validate())
	data, err := json.Marshal(f)
	require.NoError(t, err)
	return data
}

func TestLoadForestRejectsMalformedBracket(t *testing.T) {
	svc, _ := newTestService()

	err := svc.LoadForest("mens", []byte(`{"a_event": [{"slot": "orphan"}]}`))
	assert.Error(t, err)
}

func TestPathsUnknownDivision(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Paths("mixed", "t1")
	assert.ErrorIs(t, err, models.ErrUnknownDivision)
}

func TestPathsAfterLoadForest(t *testing.T) {
	svc, _ := newTestService()
	require.NoError(t, svc.LoadForest("mens", testBracketJSON(t)))

	paths, err := svc.Paths("mens", "t1")
	require.NoError(t, err)
	assert.True(t, paths.Found)
	assert.True(t, paths.A.Applicable)

	missing, err := svc.Paths("mens", "t99")
	require.NoError(t, err)
	assert.False(t, missing.Found)
}

func TestRecordBidRejectsNegativeAmount(t *testing.T) {
	svc, m := newTestService()

	bid := &models.Bid{TeamID: "t1", Buyer: "alice", Amount: -5}
	_, err := svc.RecordBid(context.Background(), "mens", bid)
	assert.ErrorIs(t, err, models.ErrInvalidBidAmount)
	m.bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordBidRejectsUnknownTeam(t *testing.T) {
	svc, m := newTestService()
	m.teams.On("GetByID", mock.Anything, "mens", "ghost").Return(nil, models.ErrNotFound)

	bid := &models.Bid{TeamID: "ghost", Buyer: "alice", Amount: 50}
	_, err := svc.RecordBid(context.Background(), "mens", bid)
	assert.ErrorIs(t, err, models.ErrNotFound)
	m.bids.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordBidStoresAndRecomputes(t *testing.T) {
	svc, m := newTestService()

	team := &models.Team{ID: "t1", Name: "Team Stone"}
	m.teams.On("GetByID", mock.Anything, "mens", "t1").Return(team, nil)
	m.bids.On("Create", mock.Anything, "mens", mock.Anything).Return(nil)

	m.teams.On("ListByDivision", mock.Anything, "mens").Return([]*models.Team{team}, nil)
	m.bids.On("ListByDivision", mock.Anything, "mens").Return([]*models.Bid{}, nil)
	m.priors.On("ListByDivision", mock.Anything, "mens").Return([]models.PriorPayout{}, nil)
	m.odds.On("ListByDivision", mock.Anything, "mens").Return([]models.OddsRow{}, nil)

	bid := &models.Bid{TeamID: "t1", Buyer: "alice", Amount: 120}
	analysis, err := svc.RecordBid(context.Background(), "mens", bid)
	require.NoError(t, err)

	// Defaults are filled in before persisting.
	assert.NotEqual(t, uuid.Nil, bid.ID)
	assert.False(t, bid.CreatedAt.IsZero())
	assert.Equal(t, models.BuyBackModeStandard, bid.BuyBack)

	assert.Equal(t, "mens", analysis.Division)
	m.bids.AssertCalled(t, "Create", mock.Anything, "mens", bid)
}

func TestValuationsUsesCachedAnalysis(t *testing.T) {
	svc, m := newTestService()

	m.teams.On("ListByDivision", mock.Anything, "mens").Return([]*models.Team{{ID: "t1", Name: "Team Stone"}}, nil).Once()
	m.bids.On("ListByDivision", mock.Anything, "mens").Return([]*models.Bid{}, nil).Once()
	m.priors.On("ListByDivision", mock.Anything, "mens").Return([]models.PriorPayout{}, nil).Once()
	m.odds.On("ListByDivision", mock.Anything, "mens").Return([]models.OddsRow{}, nil).Once()

	first, err := svc.Valuations(context.Background(), "mens")
	require.NoError(t, err)

	// A second call is served from cache: the Once() expectations above
	// would fail if the repositories were hit again.
	second, err := svc.Valuations(context.Background(), "mens")
	require.NoError(t, err)
	assert.Equal(t, first.ComputedAt, second.ComputedAt)

	m.teams.AssertExpectations(t)
}

func TestInvalidateAnalysisForcesRecompute(t *testing.T) {
	svc, m := newTestService()

	teams := []*models.Team{{ID: "t1", Name: "Team Stone"}}
	m.teams.On("ListByDivision", mock.Anything, "mens").Return(teams, nil).Twice()
	m.bids.On("ListByDivision", mock.Anything, "mens").Return([]*models.Bid{}, nil).Twice()
	m.priors.On("ListByDivision", mock.Anything, "mens").Return([]models.PriorPayout{}, nil).Twice()
	m.odds.On("ListByDivision", mock.Anything, "mens").Return([]models.OddsRow{}, nil).Twice()

	_, err := svc.Valuations(context.Background(), "mens")
	require.NoError(t, err)

	svc.InvalidateAnalysis("mens")

	_, err = svc.Valuations(context.Background(), "mens")
	require.NoError(t, err)

	m.teams.AssertExpectations(t)
}

func TestReplaceOddsInvalidatesCache(t *testing.T) {
	svc, m := newTestService()
	m.odds.On("Replace", mock.Anything, "mens", mock.Anything).Return(nil)

	err := svc.ReplaceOdds(context.Background(), "mens", []models.OddsRow{{TeamID: "t1"}})
	require.NoError(t, err)
	m.odds.AssertExpectations(t)
}
