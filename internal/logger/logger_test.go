package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestAuditLoggerBidEntry(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogBidEntry(
		"0c9d4a1e-7f6b-4c2d-9e8a-1b2c3d4e5f60",
		"mens",
		"t1",
		"alice",
		150.0,
		"standard",
		time.Date(2026, 2, 7, 19, 30, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "mens", logEntry["division"])
	assert.Equal(t, "t1", logEntry["team_id"])
	assert.Equal(t, "alice", logEntry["buyer"])
	assert.Equal(t, 150.0, logEntry["amount"])
}

func TestAuditLoggerBidRejected(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogBidRejected("mens", "t1", "alice", "negative amount")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "negative amount", logEntry["reason"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestAuditLoggerRecompute(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogRecompute("womens", 16, 9, 2450.0, 12*time.Millisecond)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(16), logEntry["team_count"])
	assert.Equal(t, float64(9), logEntry["bid_count"])
	assert.Equal(t, 2450.0, logEntry["estimated_pool"])
}

func TestAuditLoggerStandingsUpdate(t *testing.T) {
	log, buf := setupTestLogger()
	audit := NewAuditLogger(log)

	audit.LogStandingsUpdate("mens", 4, 1)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(4), logEntry["updated"])
	assert.Equal(t, float64(1), logEntry["missing"])
}
