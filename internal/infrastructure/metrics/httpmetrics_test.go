package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	require.NoError(t, err)

	m.ObserveRequest("GET", "/api/auth/me", "200", 2*time.Millisecond)
	m.ObserveRequest("GET", "/api/auth/me", "401", time.Millisecond)
	m.ObserveRequest("GET", "/api/auth/me", "200", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]int)
	for _, f := range families {
		byName[f.GetName()] = len(f.GetMetric())
	}
	assert.Equal(t, 2, byName["sessiond_http_requests_total"])
	assert.Equal(t, 1, byName["sessiond_http_request_duration_seconds"])
}

func TestNewHTTPMetrics_NilRegisterer(t *testing.T) {
	m, err := NewHTTPMetrics(nil)
	require.NoError(t, err)
	m.ObserveRequest("POST", "/api/auth/login", "200", time.Millisecond)
}
