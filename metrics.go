package memarena

import "sync/atomic"

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    allocCounter prometheus.Counter
//	    allocBytes   prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordAlloc(size uintptr) {
//	    p.allocCounter.Inc()
//	    p.allocBytes.Add(float64(size))
//	}
type MetricsCollector interface {
	// RecordAlloc is called after each allocation. size is the size of the
	// allocated value in bytes (zero for zero-sized types).
	RecordAlloc(size uintptr)

	// RecordFinalize is called for each allocation finalized during Close.
	RecordFinalize(size uintptr)

	// RecordCheckFailure is called each time a checked handle accessor
	// trips the liveness check, whether the failure surfaces as a panic
	// (Get, Leak, String) or as an error (the TryGet variants).
	RecordCheckFailure()

	// RecordClose is called once when Close tears the arena down.
	// finalized is the number of allocations that were finalized.
	RecordClose(finalized int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(uintptr)    {}
func (NoopMetricsCollector) RecordFinalize(uintptr) {}
func (NoopMetricsCollector) RecordCheckFailure()    {}
func (NoopMetricsCollector) RecordClose(int64)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount    atomic.Int64
	AllocBytes    atomic.Int64
	FinalizeCount atomic.Int64
	FinalizeBytes atomic.Int64
	CheckFailures atomic.Int64
	CloseCount    atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(size uintptr) {
	b.AllocCount.Add(1)
	b.AllocBytes.Add(int64(size))
}

// RecordFinalize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFinalize(size uintptr) {
	b.FinalizeCount.Add(1)
	b.FinalizeBytes.Add(int64(size))
}

// RecordCheckFailure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheckFailure() {
	b.CheckFailures.Add(1)
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(int64) {
	b.CloseCount.Add(1)
}
