package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	// Initialize the registry
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()

	assert.Same(t, first, second)
}

func TestHandler(t *testing.T) {
	InitRegistry()

	assert.NotNil(t, Handler())
}

func TestRecordBid(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBid("mens")
		RecordBidRejected("mens")
	})
}

func TestRecordPathQuery(t *testing.T) {
	InitRegistry()
	durationSeconds := 0.002

	assert.NotPanics(t, func() {
		RecordPathQuery(durationSeconds)
	})
}

func TestRecordRecompute(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name string
		pool float64
		sold int
	}{
		{
			name: "empty auction",
			pool: 0,
			sold: 0,
		},
		{
			name: "partial auction",
			pool: 1250.50,
			sold: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordRecompute("womens", 0.01, tt.pool, tt.sold)
			})
		})
	}
}

func TestRecordSimulation(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSimulation(1.5)
	})
}
