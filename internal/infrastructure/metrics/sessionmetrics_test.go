package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSessionMetrics(reg)
	require.NoError(t, err)

	m.ObserveOperation("login", "ok", 3*time.Millisecond)
	m.ObserveOperation("login", "ok", 4*time.Millisecond)
	m.ObserveOperation("authenticate", "unauthenticated", time.Millisecond)
	m.SetOnline(5)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]int)
	for _, f := range families {
		byName[f.GetName()] = len(f.GetMetric())
	}
	assert.Equal(t, 2, byName["sessiond_session_operations_total"])
	assert.Equal(t, 2, byName["sessiond_session_operation_duration_seconds"])
	assert.Equal(t, 1, byName["sessiond_session_online_accounts"])

	for _, f := range families {
		switch f.GetName() {
		case "sessiond_session_online_accounts":
			assert.Equal(t, 5.0, f.GetMetric()[0].GetGauge().GetValue())
		case "sessiond_session_operations_total":
			for _, metric := range f.GetMetric() {
				if metric.GetLabel()[0].GetValue() == "login" {
					assert.Equal(t, 2.0, metric.GetCounter().GetValue())
				}
			}
		}
	}
}

func TestNewSessionMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSessionMetrics(reg)
	require.NoError(t, err)

	_, err = NewSessionMetrics(reg)
	assert.Error(t, err)
}
