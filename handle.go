package memarena

import (
	"fmt"
	"sync/atomic"
)

// Mut is a checked mutable handle to an arena allocation.
//
// A Mut pairs a pointer to the stored value with the allocation's shared
// liveness flag. Every checked accessor verifies the flag before handing
// out the pointer, converting a use-after-finalize into a deterministic
// panic carrying ErrDropped instead of a silent read of destroyed state.
//
// A Mut does not own the allocation: discarding it has no effect on the
// value or on other handles. Treat a Mut as having move semantics: after
// Freeze, Leak or LeakUnchecked the handle must not be used again.
type Mut[T any] struct {
	value   *T
	dropped *atomic.Bool
	metrics MetricsCollector
	logger  *Logger
}

// Get returns a pointer to the allocated value, through which it may be
// read and mutated.
//
// Get panics with ErrDropped if the allocation has been finalized.
func (h *Mut[T]) Get() *T {
	h.ensureLive()
	return h.value
}

// TryGet returns a pointer to the allocated value, or ErrDropped if the
// allocation has been finalized.
func (h *Mut[T]) TryGet() (*T, error) {
	if h.dropped.Load() {
		h.recordCheckFailure()
		return nil, ErrDropped
	}
	return h.value, nil
}

// GetUnchecked returns a pointer to the allocated value without a liveness
// check. The caller asserts that the allocation has not been finalized.
func (h *Mut[T]) GetUnchecked() *T {
	return h.value
}

// Dropped reports whether the allocation has been finalized. It never
// panics.
func (h *Mut[T]) Dropped() bool {
	return h.dropped.Load()
}

// Leak consumes the handle and returns the bare pointer, whose validity is
// tied to the arena rather than the handle. The handle must not be used
// afterwards.
//
// Leak panics with ErrDropped if the allocation has been finalized.
func (h *Mut[T]) Leak() *T {
	h.ensureLive()
	return h.value
}

// LeakUnchecked consumes the handle and returns the bare pointer without a
// liveness check. The handle must not be used afterwards.
func (h *Mut[T]) LeakUnchecked() *T {
	return h.value
}

// Freeze consumes the mutable handle and returns an immutable handle to
// the same allocation, sharing the same liveness flag. The Mut must not be
// used afterwards.
func (h *Mut[T]) Freeze() Ref[T] {
	return Ref[T]{
		value:   h.value,
		dropped: h.dropped,
		metrics: h.metrics,
		logger:  h.logger,
	}
}

// String implements fmt.Stringer by formatting the allocated value through
// the checked accessor. It panics with ErrDropped if the allocation has
// been finalized.
func (h *Mut[T]) String() string {
	return fmt.Sprintf("%v", *h.Get())
}

func (h *Mut[T]) ensureLive() {
	if h.dropped.Load() {
		h.recordCheckFailure()
		panic(ErrDropped)
	}
}

func (h *Mut[T]) recordCheckFailure() {
	h.metrics.RecordCheckFailure()
	h.logger.LogCheckFailure()
}

// Ref is a checked immutable handle to an arena allocation.
//
// A Ref grants shared read access: the pointer returned by Get must not be
// written through. Because it grants no exclusive access, a Ref is freely
// copyable; every copy shares the same liveness flag.
type Ref[T any] struct {
	value   *T
	dropped *atomic.Bool
	metrics MetricsCollector
	logger  *Logger
}

// Get returns a pointer to the allocated value. The value must not be
// mutated through it.
//
// Get panics with ErrDropped if the allocation has been finalized.
func (h Ref[T]) Get() *T {
	h.ensureLive()
	return h.value
}

// TryGet returns a pointer to the allocated value, or ErrDropped if the
// allocation has been finalized.
func (h Ref[T]) TryGet() (*T, error) {
	if h.dropped.Load() {
		h.recordCheckFailure()
		return nil, ErrDropped
	}
	return h.value, nil
}

// GetUnchecked returns a pointer to the allocated value without a liveness
// check. The caller asserts that the allocation has not been finalized.
func (h Ref[T]) GetUnchecked() *T {
	return h.value
}

// Dropped reports whether the allocation has been finalized. It never
// panics.
func (h Ref[T]) Dropped() bool {
	return h.dropped.Load()
}

// Leak consumes the handle and returns the bare pointer, whose validity is
// tied to the arena rather than the handle.
//
// Leak panics with ErrDropped if the allocation has been finalized.
func (h Ref[T]) Leak() *T {
	h.ensureLive()
	return h.value
}

// LeakUnchecked consumes the handle and returns the bare pointer without a
// liveness check.
func (h Ref[T]) LeakUnchecked() *T {
	return h.value
}

// String implements fmt.Stringer by formatting the allocated value through
// the checked accessor. It panics with ErrDropped if the allocation has
// been finalized.
func (h Ref[T]) String() string {
	return fmt.Sprintf("%v", *h.Get())
}

func (h Ref[T]) ensureLive() {
	if h.dropped.Load() {
		h.recordCheckFailure()
		panic(ErrDropped)
	}
}

func (h Ref[T]) recordCheckFailure() {
	h.metrics.RecordCheckFailure()
	h.logger.LogCheckFailure()
}
