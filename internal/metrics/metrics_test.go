package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetricsWithRegisterer(registry)

	m.RecordRegisterOpened()
	m.RecordRegisterOpened()
	m.RecordRegisterClosed()
	m.RecordRegisterConflict()
	m.RecordDispatchCreated()
	m.RecordStoreUnavailable("abrir caja")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.registerOpened))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.registerClosed))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.registerConflicts))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dispatchesCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storeUnavailable.WithLabelValues("abrir caja")))
}

func TestMetrics_OpenRegisterAlert(t *testing.T) {
	m := NewMetricsWithRegisterer(prometheus.NewRegistry())

	m.SetOpenRegisterAlert(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.openRegisterAlert))

	m.SetOpenRegisterAlert(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.openRegisterAlert))
}

func TestMetrics_RegistroDuplicadoReutilizaColetor(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := NewMetricsWithRegisterer(registry)
	second := NewMetricsWithRegisterer(registry)

	first.RecordRegisterOpened()
	second.RecordRegisterOpened()

	assert.Equal(t, float64(2), testutil.ToFloat64(first.registerOpened))
}

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetricsWithRegisterer(registry)

	m.ObserveHTTPRequest("GET", "/v1/register/today", 200, 15*time.Millisecond)

	count, err := testutil.GatherAndCount(registry, "marlogas_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
