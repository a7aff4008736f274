// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for auction-night data
// entry: every accepted bid and recompute is recorded with its inputs so
// disputed sales can be reconstructed afterwards.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBidEntry logs an accepted auction sale.
func (al *AuditLogger) LogBidEntry(bidID, division, teamID, buyer string, amount float64, buyBack string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"bid_id":    bidID,
		"division":  division,
		"team_id":   teamID,
		"buyer":     buyer,
		"amount":    amount,
		"buy_back":  buyBack,
		"timestamp": timestamp.Unix(),
	}).Info("Bid recorded")
}

// LogBidRejected logs a bid that failed validation.
func (al *AuditLogger) LogBidRejected(division, teamID, buyer, reason string) {
	al.WithFields(logrus.Fields{
		"division": division,
		"team_id":  teamID,
		"buyer":    buyer,
		"reason":   reason,
	}).Warn("Bid rejected")
}

// LogRecompute logs an atomic valuation refresh.
func (al *AuditLogger) LogRecompute(division string, teamCount, bidCount int, estimatedPool float64, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"division":       division,
		"team_count":     teamCount,
		"bid_count":      bidCount,
		"estimated_pool": estimatedPool,
		"duration_ms":    duration.Milliseconds(),
	}).Info("Valuations recomputed")
}

// LogStandingsUpdate logs a league standings synchronization.
func (al *AuditLogger) LogStandingsUpdate(division string, updated, missing int) {
	al.WithFields(logrus.Fields{
		"division": division,
		"updated":  updated,
		"missing":  missing,
	}).Info("Standings updated")
}
