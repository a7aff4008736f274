package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bonspiel-calcutta/internal/auction"
	"github.com/yourusername/bonspiel-calcutta/internal/config"
	"github.com/yourusername/bonspiel-calcutta/internal/service"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestServer wires a server around a service with no repositories. That is
// enough for the request-validation paths, which never reach storage.
func newTestServer() *Server {
	svc := service.NewValuationService(
		nil, nil, nil, nil,
		auction.DefaultConfig(),
		map[string]float64{"mens": 400},
		quietLogger(),
	)
	hub := NewHub(quietLogger())
	return NewServer(config.ServerConfig{Port: 0}, config.MetricsConfig{}, svc, hub, nil, quietLogger())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestHandleTeamsRequiresDivision(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	rec := httptest.NewRecorder()
	srv.handleTeams(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "division")
}

func TestHandlePathsUnknownDivision(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/paths/t1?division=mixed", nil)
	req.SetPathValue("teamId", "t1")
	rec := httptest.NewRecorder()
	srv.handlePaths(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleBidValidation(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "malformed json",
			body:     `{"division": `,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing buyer",
			body:     `{"division": "mens", "teamId": "t1", "amount": 50}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "negative amount",
			body:     `{"division": "mens", "teamId": "t1", "buyer": "alice", "amount": -10}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bids", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.handleBid(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "auction-server", body["service"])
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHandleReady(t *testing.T) {
	t.Run("not ready before startup completes", func(t *testing.T) {
		srv := newTestServer()

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.handleReady(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("ready without database", func(t *testing.T) {
		srv := newTestServer()
		srv.SetReady(true)

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.handleReady(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("database failure flips readiness", func(t *testing.T) {
		srv := newTestServer()
		srv.SetReady(true)
		srv.db = failingPinger{}

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.handleReady(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHubBroadcastDoesNotBlockWithoutClients(t *testing.T) {
	hub := NewHub(quietLogger())

	assert.NotPanics(t, func() {
		for i := 0; i < 300; i++ {
			hub.BroadcastStandings("mens", 3)
		}
	})
	assert.Equal(t, 0, hub.ClientCount())
}
