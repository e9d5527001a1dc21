package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTx("deliver", "escrow/claim", "ok", time.Millisecond)
	m.ObserveTx("deliver", "escrow/claim", "ok", time.Millisecond)
	m.ObserveTx("check", "escrow/claim", "1001", time.Millisecond)
	m.IncPublished("escrow/claim")
	m.IncPublishFailure("kafka")
	m.SetHeight(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Txs.WithLabelValues("deliver", "escrow/claim", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Txs.WithLabelValues("check", "escrow/claim", "1001")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("escrow/claim")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PublishFailures.WithLabelValues("kafka")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.Height))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)

	// a second set of collectors cannot share the registry
	assert.Panics(t, func() { New(reg) })
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTx("check", "cash/send", "ok", time.Second)
		m.IncPublished("escrow/claim")
		m.IncPublishFailure("kafka")
		m.SetHeight(1)
	})
}
