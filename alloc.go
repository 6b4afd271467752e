package memarena

import (
	"sync/atomic"
	"unsafe"
)

// Finalizer is implemented by values that carry destruction logic. When the
// arena finalizes an allocation whose type implements Finalizer (on either
// the value or pointer receiver), Finalize is called exactly once, in LIFO
// order relative to allocation.
//
// Finalize runs after the allocation's liveness flag has been flipped, so a
// finalizer that reaches a sibling allocation through a checked handle sees
// the truth about whether that sibling has already been finalized.
type Finalizer interface {
	Finalize()
}

// record is the type-erased container for one allocation: a captured
// finalize closure standing in for the stored value's destruction logic,
// the allocation's size, and the shared liveness flag.
type record struct {
	size     uintptr
	dropped  *atomic.Bool
	finalize func()
}

// newRecord places value into fresh memory and builds the record that owns
// it. Zero-sized types reserve no meaningful storage (the runtime hands
// back its shared zero-size base) but still have their Finalize captured.
func newRecord[T any](value T) (*T, record) {
	ptr := new(T)
	*ptr = value

	rec := record{
		size:    unsafe.Sizeof(value),
		dropped: new(atomic.Bool),
	}
	if f, ok := any(ptr).(Finalizer); ok {
		rec.finalize = f.Finalize
	}

	return ptr, rec
}

// destroy flips the liveness flag, then runs the captured finalizer. The
// flag must be visible as true before any finalizer logic runs.
func (r *record) destroy() {
	r.dropped.Store(true)
	if r.finalize != nil {
		r.finalize()
	}
}

// Alloc places value into the arena and returns a checked mutable handle
// to it. The value is finalized, together with everything else the arena
// holds, when the arena is closed; accessing it through the handle after
// that point fails deterministically with ErrDropped.
//
// Alloc is safe to call concurrently from multiple goroutines on the same
// arena. It panics with ErrClosed if the arena has already been closed.
func Alloc[T any](a *Arena, value T) *Mut[T] {
	ptr, dropped := store(a, value)

	return &Mut[T]{
		value:   ptr,
		dropped: dropped,
		metrics: a.opts.MetricsCollector,
		logger:  a.opts.Logger,
	}
}

// AllocUnchecked places value into the arena and returns a raw pointer to
// it, with no liveness tracking at the access site. The allocation itself
// is identical to Alloc: the value is still finalized on Close.
//
// The returned pointer silently observes finalized state when used after
// Close; there is no detection and no recovery. It exists purely as a
// zero-overhead escape hatch for callers who accept that contract.
func AllocUnchecked[T any](a *Arena, value T) *T {
	ptr, _ := store(a, value)

	return ptr
}

// store runs the shared allocation path: build the record, publish it to
// the concurrent store, bump counters.
func store[T any](a *Arena, value T) (*T, *atomic.Bool) {
	if a.closed.Load() {
		panic(ErrClosed)
	}

	ptr, rec := newRecord(value)
	a.records.PushFront(rec)

	a.allocs.Add(1)
	if rec.size == 0 {
		a.zeroSized.Add(1)
	} else {
		a.bytes.Add(int64(rec.size))
	}

	a.opts.MetricsCollector.RecordAlloc(rec.size)
	a.opts.Logger.LogAlloc(rec.size)

	return ptr, rec.dropped
}
