package memarena_test

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/memarena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// dropLog records finalization order across allocations.
type dropLog struct {
	mu  sync.Mutex
	ids []int
}

func (l *dropLog) add(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = append(l.ids, id)
}

func (l *dropLog) snapshot() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int(nil), l.ids...)
}

// tracked is a value whose finalizer appends its id to a shared log.
type tracked struct {
	id  int
	log *dropLog
}

func (m *tracked) Finalize() {
	m.log.add(m.id)
}

func TestAllocRoundTrip(t *testing.T) {
	arena := memarena.New()
	defer arena.Close()

	v := memarena.Alloc(arena, 10)
	assert.Equal(t, 10, *v.Get())

	v = memarena.Alloc(arena, 20)
	assert.Equal(t, 20, *v.Get())
}

func TestAllocUnchecked(t *testing.T) {
	arena := memarena.New()
	defer arena.Close()

	v := memarena.AllocUnchecked(arena, 10)
	assert.Equal(t, 10, *v)

	*v = 11
	assert.Equal(t, 11, *v)
}

func TestCloseEmptyArena(t *testing.T) {
	arena := memarena.New()
	require.NoError(t, arena.Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	log := &dropLog{}

	arena := memarena.New()
	memarena.Alloc(arena, tracked{id: 1, log: log})

	require.NoError(t, arena.Close())
	require.NoError(t, arena.Close())

	assert.Equal(t, []int{1}, log.snapshot())
	assert.True(t, arena.Closed())
}

func TestCloseFinalizesLIFO(t *testing.T) {
	log := &dropLog{}

	arena := memarena.New()
	memarena.Alloc(arena, tracked{id: 10, log: log})
	memarena.Alloc(arena, tracked{id: 20, log: log})
	memarena.Alloc(arena, tracked{id: 30, log: log})

	require.NoError(t, arena.Close())

	assert.Equal(t, []int{30, 20, 10}, log.snapshot())
}

func TestAllocAfterClosePanics(t *testing.T) {
	arena := memarena.New()
	require.NoError(t, arena.Close())

	assert.PanicsWithError(t, memarena.ErrClosed.Error(), func() {
		memarena.Alloc(arena, 1)
	})
	assert.PanicsWithError(t, memarena.ErrClosed.Error(), func() {
		memarena.AllocUnchecked(arena, 1)
	})
}

func TestMonotonicLiveness(t *testing.T) {
	arena := memarena.New()

	h := memarena.Alloc(arena, 42)
	assert.False(t, h.Dropped())

	require.NoError(t, arena.Close())

	assert.True(t, h.Dropped())
	// The flag never reverts.
	assert.True(t, h.Dropped())
}

func TestPostCloseAccess(t *testing.T) {
	arena := memarena.New()
	h := memarena.Alloc(arena, 42)

	require.NoError(t, arena.Close())

	assert.PanicsWithError(t, memarena.ErrDropped.Error(), func() {
		h.Get()
	})

	_, err := h.TryGet()
	assert.ErrorIs(t, err, memarena.ErrDropped)

	assert.True(t, h.Dropped())
}

// zeroFinalizeCalls counts finalizations of zero-sized values. A zero-sized
// type has no fields to capture a per-test log, so the counter is package
// level.
var zeroFinalizeCalls atomic.Int64

type zeroSized struct{}

func (zeroSized) Finalize() {
	zeroFinalizeCalls.Add(1)
}

func TestZeroSizedAllocation(t *testing.T) {
	arena := memarena.New()

	h := memarena.Alloc(arena, zeroSized{})
	assert.False(t, h.Dropped())

	before := zeroFinalizeCalls.Load()

	require.NoError(t, arena.Close())

	assert.Equal(t, before+1, zeroFinalizeCalls.Load())
	assert.True(t, h.Dropped())

	stats := arena.Stats()
	assert.Equal(t, int64(1), stats.ZeroSized)
	assert.Equal(t, int64(0), stats.Bytes)
}

func TestConcurrentAllocCompleteness(t *testing.T) {
	const (
		goroutines = 4
		perRoutine = 10000
	)

	log := &dropLog{}
	arena := memarena.New()

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < perRoutine; j++ {
				memarena.Alloc(arena, tracked{id: j, log: log})
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.NoError(t, arena.Close())

	got := log.snapshot()
	require.Len(t, got, goroutines*perRoutine)

	sort.Ints(got)
	expected := make([]int, 0, goroutines*perRoutine)
	for i := 0; i < perRoutine; i++ {
		for j := 0; j < goroutines; j++ {
			expected = append(expected, i)
		}
	}
	assert.Equal(t, expected, got)
}

// cyclic is a value whose finalizer reads a sibling allocation through a
// checked handle.
type cyclic struct {
	id   int
	peer *memarena.Mut[cyclic]
	log  *dropLog
}

func (c *cyclic) Finalize() {
	if c.peer != nil {
		// The peer was allocated later, so LIFO teardown has already
		// finalized it; this checked access must trip the liveness check
		// instead of reading destroyed state.
		c.peer.Get().id = 0
	}
	c.log.add(c.id)
}

func TestSelfReferenceUseAfterFreeCaught(t *testing.T) {
	log := &dropLog{}
	arena := memarena.New()

	first := memarena.Alloc(arena, cyclic{id: 1, log: log})
	second := memarena.Alloc(arena, cyclic{id: 2, log: log})
	first.Get().peer = second

	assert.PanicsWithError(t, memarena.ErrDropped.Error(), func() {
		arena.Close()
	})

	// The later allocation was finalized cleanly before the first's
	// finalizer tripped the check.
	assert.Equal(t, []int{2}, log.snapshot())
}

func TestStats(t *testing.T) {
	arena := memarena.New()

	memarena.Alloc(arena, int64(1))
	memarena.Alloc(arena, int64(2))
	memarena.Alloc(arena, zeroSized{})

	stats := arena.Stats()
	assert.Equal(t, int64(3), stats.Allocations)
	assert.Equal(t, int64(16), stats.Bytes)
	assert.Equal(t, int64(1), stats.ZeroSized)
	assert.Equal(t, int64(0), stats.Finalized)

	require.NoError(t, arena.Close())

	stats = arena.Stats()
	assert.Equal(t, int64(3), stats.Finalized)
	assert.Contains(t, stats.String(), "allocations=3")
}
