package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveFlush(time.Millisecond, 3)
	m.RecordRender("Counter")
	m.RecordHostOp("append_child")
	m.RecordRecovered("effect")
	assert.Nil(t, m.Registry())
	assert.Nil(t, NewMetrics(MetricsConfig{Enabled: false}))
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "test"})
	require.NotNil(t, m)

	m.ObserveFlush(2*time.Millisecond, 3)
	m.ObserveFlush(time.Millisecond, 1)
	m.RecordRender("Counter")
	m.RecordRender("Counter")
	m.RecordHostOp("insert_before")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.flushes))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.mutations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.renders.WithLabelValues("Counter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hostOps.WithLabelValues("insert_before")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_flushes_total")
}

func TestLoggerLevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf).Component("scheduler")

	l.Info().Msg("hidden")
	l.Warn().Int("loops", 25).Msg("render loop limit")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, `"component":"scheduler"`)
	assert.Contains(t, out, `"loops":25`)
}

func TestSpansUseGlobalProvider(t *testing.T) {
	ctx, span := StartFlush(context.Background(), 2, 1)
	defer span.End()
	assert.NotNil(t, ctx)
	_, child := StartRender(ctx)
	child.End()
}
