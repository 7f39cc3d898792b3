package observability

import (
	"context"
	"testing"
	"time"

	"challenger/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsProvider_NilIsNoop(t *testing.T) {
	var mp *MetricsProvider

	assert.NotPanics(t, func() {
		mp.RecordTransition("completed")
		mp.RecordSettlement("sweep", "winner")
		mp.RecordSweep(time.Second, 2)
		mp.RecordLedgerTransaction("challenge_win")
		mp.RecordNotification("verdict_issued", NotificationResultSent)
		mp.RecordNATSMessagePublished("challenge_created")
	})
}

func TestMetricsProvider_Disabled(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.False(t, mp.isEnabled())
	assert.NotPanics(t, func() { mp.RecordTransition("accepted") })
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_ConsoleExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelServiceName = "challenger-test"
	cfg.OTelExporterType = "console"
	cfg.OTelExportIntervalMillis = 60000

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	require.True(t, mp.isEnabled())

	mp.RecordTransition("in_progress")
	mp.RecordSettlement("verdict", "winner")
	mp.RecordSweep(250*time.Millisecond, 1)

	require.NoError(t, mp.Shutdown(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.ErrorContains(t, err, "unknown exporter type")
}
