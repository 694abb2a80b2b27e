package callgate

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricTokenIssued)
	m.Observe(MetricIssueLatency, 10*time.Millisecond)

	if got := m.Value(MetricTokenIssued); got != 0 {
		t.Fatalf("Value = %d on disabled metrics", got)
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatal("disabled snapshot not empty")
	}
}

func TestMetricsConcurrentIncrements(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				m.Inc(MetricAuthorizeSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricAuthorizeSuccess); got != goroutines*perGoroutine {
		t.Fatalf("counter = %d, want %d", got, goroutines*perGoroutine)
	}
}

func TestLatencyHistogramBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricIssueLatency, 3*time.Millisecond)   // bucket 0
	m.Observe(MetricIssueLatency, 40*time.Millisecond)  // bucket 3
	m.Observe(MetricIssueLatency, 900*time.Millisecond) // bucket 7

	buckets := m.Snapshot().Histograms[MetricIssueLatency]
	if len(buckets) != 8 {
		t.Fatalf("bucket count = %d, want 8", len(buckets))
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("buckets = %v", buckets)
	}
}

func TestObserveIgnoresCounterIDs(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricTokenIssued, time.Millisecond)

	snap := m.Snapshot()
	if _, exists := snap.Histograms[MetricTokenIssued]; exists {
		t.Fatal("counter metric recorded a histogram")
	}
}
