package memarena

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/memarena/clist"
)

// Arena owns a set of heterogeneous allocations with a single collective
// destruction point. Values of any type are placed into the arena with
// Alloc or AllocUnchecked; nothing is finalized until Close, at which point
// every allocation is finalized in LIFO order relative to insertion.
//
// Alloc and AllocUnchecked are safe to call concurrently from any number of
// goroutines; they contend only on the lock-free insertion point of the
// backing store. Close must not race with an in-flight allocation: the
// caller is responsible for ensuring that no allocation is in progress when
// teardown begins.
type Arena struct {
	records clist.List[record]
	closed  atomic.Bool

	allocs    atomic.Int64
	bytes     atomic.Int64
	zeroSized atomic.Int64
	finalized atomic.Int64

	opts Options
}

// Options represents the options for configuring an Arena.
type Options struct {
	// MetricsCollector receives allocation and finalization events.
	// Defaults to NoopMetricsCollector.
	MetricsCollector MetricsCollector

	// Logger is used for structured logging of arena lifecycle events.
	// Allocation is hot-path, so it only logs at debug level; Close logs
	// at info level. Defaults to NoopLogger().
	Logger *Logger
}

// DefaultOptions are the options applied by New before any option
// functions run.
var DefaultOptions = Options{
	MetricsCollector: NoopMetricsCollector{},
}

// New creates a new empty Arena.
func New(optFns ...func(o *Options)) *Arena {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MetricsCollector == nil {
		opts.MetricsCollector = NoopMetricsCollector{}
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	return &Arena{opts: opts}
}

// WithMetricsCollector configures the metrics collector used by the arena.
func WithMetricsCollector(mc MetricsCollector) func(o *Options) {
	return func(o *Options) {
		o.MetricsCollector = mc
	}
}

// WithLogger configures the logger used by the arena.
func WithLogger(logger *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Close finalizes every allocation still held by the arena, most recently
// allocated first, and marks the arena closed. Finalizing an allocation
// first flips its shared liveness flag, then runs its Finalize method (if
// any); a finalizer that reads a sibling allocation through a checked
// handle therefore always observes an accurate liveness state.
//
// Close is idempotent; the second and later calls do nothing and return
// nil. Close must not be called concurrently with Alloc or AllocUnchecked.
func (a *Arena) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	var n int64
	a.records.Drain(func(rec record) {
		rec.destroy()
		n++
		a.finalized.Add(1)
		a.opts.MetricsCollector.RecordFinalize(rec.size)
	})

	a.opts.MetricsCollector.RecordClose(n)
	a.opts.Logger.LogClose(n)

	return nil
}

// Closed reports whether the arena has been closed.
func (a *Arena) Closed() bool {
	return a.closed.Load()
}

// Stats returns a snapshot of the arena's allocation counters.
func (a *Arena) Stats() Stats {
	return Stats{
		Allocations: a.allocs.Load(),
		Bytes:       a.bytes.Load(),
		ZeroSized:   a.zeroSized.Load(),
		Finalized:   a.finalized.Load(),
	}
}

// Stats is a point-in-time snapshot of an arena's allocation counters.
type Stats struct {
	// Allocations is the total number of values placed into the arena.
	Allocations int64
	// Bytes is the total size of all non-zero-sized allocations.
	Bytes int64
	// ZeroSized is the number of zero-sized allocations.
	ZeroSized int64
	// Finalized is the number of allocations finalized by Close.
	Finalized int64
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf(
		"allocations=%s bytes=%s zero-sized=%s finalized=%s",
		humanize.Comma(s.Allocations),
		humanize.Bytes(uint64(s.Bytes)),
		humanize.Comma(s.ZeroSized),
		humanize.Comma(s.Finalized),
	)
}
