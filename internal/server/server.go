// Package server exposes the auction-night HTTP API: team listings, bracket
// path queries, live valuations, bid entry, and a websocket stream of
// refreshed analyses.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bonspiel-calcutta/internal/config"
	"github.com/yourusername/bonspiel-calcutta/internal/metrics"
	"github.com/yourusername/bonspiel-calcutta/internal/models"
	"github.com/yourusername/bonspiel-calcutta/internal/service"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Server is the auction-night HTTP server.
type Server struct {
	cfg       config.ServerConfig
	metricCfg config.MetricsConfig
	svc       *service.ValuationService
	hub       *Hub
	db        DatabasePinger
	logger    *logrus.Logger

	srv   *http.Server
	mu    sync.RWMutex
	ready bool
}

// NewServer creates the auction server.
func NewServer(cfg config.ServerConfig, metricCfg config.MetricsConfig, svc *service.ValuationService, hub *Hub, db DatabasePinger, log *logrus.Logger) *Server {
	return &Server{
		cfg:       cfg,
		metricCfg: metricCfg,
		svc:       svc,
		hub:       hub,
		db:        db,
		logger:    log,
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start starts the HTTP server in the background and shuts it down when the
// context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/teams", s.handleTeams)
	mux.HandleFunc("GET /api/paths/{teamId}", s.handlePaths)
	mux.HandleFunc("GET /api/valuations", s.handleValuations)
	mux.HandleFunc("POST /api/bids", s.handleBid)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("/ws", s.hub.ServeWS)
	if s.metricCfg.Enabled {
		mux.Handle("GET "+s.metricCfg.Path, metrics.Handler())
	}

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.hub.Run()

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Auction server starting")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Auction server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("Auction server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.srv.Shutdown(ctx)
}

// bidRequest is the wire form of a bid entry.
type bidRequest struct {
	Division string  `json:"division"`
	TeamID   string  `json:"teamId"`
	Buyer    string  `json:"buyer"`
	Amount   float64 `json:"amount"`
	BuyBack  string  `json:"buyBack,omitempty"`
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	if division == "" {
		writeError(w, http.StatusBadRequest, "division query parameter is required")
		return
	}

	teams, err := s.svc.Teams(r.Context(), division)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list teams")
		writeError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}

	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	if division == "" {
		writeError(w, http.StatusBadRequest, "division query parameter is required")
		return
	}
	teamID := r.PathValue("teamId")

	paths, err := s.svc.Paths(division, teamID)
	if err != nil {
		if errors.Is(err, models.ErrUnknownDivision) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.WithError(err).Error("Path query failed")
		writeError(w, http.StatusInternalServerError, "path query failed")
		return
	}

	writeJSON(w, http.StatusOK, paths)
}

func (s *Server) handleValuations(w http.ResponseWriter, r *http.Request) {
	division := r.URL.Query().Get("division")
	if division == "" {
		writeError(w, http.StatusBadRequest, "division query parameter is required")
		return
	}

	analysis, err := s.svc.Valuations(r.Context(), division)
	if err != nil {
		s.logger.WithError(err).Error("Valuation recompute failed")
		writeError(w, http.StatusInternalServerError, "valuation recompute failed")
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid bid payload")
		return
	}
	if req.Division == "" || req.TeamID == "" || req.Buyer == "" {
		writeError(w, http.StatusBadRequest, "division, teamId, and buyer are required")
		return
	}

	bid := &models.Bid{
		TeamID:  req.TeamID,
		Buyer:   req.Buyer,
		Amount:  req.Amount,
		BuyBack: models.BuyBackMode(req.BuyBack),
	}

	analysis, err := s.svc.RecordBid(r.Context(), req.Division, bid)
	if err != nil {
		if errors.Is(err, models.ErrInvalidBidAmount) || errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.WithError(err).Error("Bid entry failed")
		writeError(w, http.StatusInternalServerError, "bid entry failed")
		return
	}

	s.hub.BroadcastBid(req.Division, bid)
	s.hub.BroadcastValuation(req.Division, analysis)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"bid":      bid,
		"analysis": analysis,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "auction-server",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	if !s.IsReady() {
		healthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
