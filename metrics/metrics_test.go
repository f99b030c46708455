package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/polysat/satnet-ipc/metrics"
)

func TestCodecErrorCountIncrements(t *testing.T) {
	metrics.CodecErrorCount.Reset()
	metrics.CodecErrorCount.WithLabelValues("BufferTooSmall").Inc()

	got := testutil.ToFloat64(metrics.CodecErrorCount.WithLabelValues("BufferTooSmall"))
	if got != 1 {
		t.Fatalf("got %v, want 1", got)
	}
}

func TestPendingTableSizeIsAGauge(t *testing.T) {
	metrics.PendingTableSize.Set(3)
	if got := testutil.ToFloat64(metrics.PendingTableSize); got != 3 {
		t.Fatalf("got %v, want 3", got)
	}
}

func TestMetricsAreValidPrometheusCollectors(t *testing.T) {
	collectors := []prometheus.Collector{
		metrics.EncodeTimeHistogram,
		metrics.DecodeTimeHistogram,
		metrics.CodecErrorCount,
		metrics.IPCRefRate,
		metrics.PendingTableSize,
		metrics.ResponseResultCount,
		metrics.EndpointErrorCount,
	}
	for _, c := range collectors {
		if c == nil {
			t.Fatal("nil collector registered")
		}
	}
}
