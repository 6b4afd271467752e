package slot

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/memarena"
)

// Handle identifies one entry in a Table: a slot index plus the generation
// the slot had when the entry was inserted. Handles are small comparable
// values and may be freely copied and stored inside other entries.
//
// A Handle can never be used to reach a value other than the one it was
// issued for: once the entry is removed, the slot's generation is bumped
// and every outstanding handle to it goes stale.
type Handle struct {
	Index      uint32
	Generation uint32
}

// entry is one slot. Entries are allocated behind a pointer so that the
// *T returned by Get stays valid when the backing slice grows.
type entry[T any] struct {
	value      T
	generation uint32
}

// Table is a generational slot table: the index-plus-generation
// realization of the checked-access contract offered by memarena.Arena.
// Unlike the arena, a Table supports removing individual entries and
// reuses their slots; the generation counter is what keeps stale handles
// detectable across reuse.
//
// All methods are safe for concurrent use. Finalizers run while the table
// lock is held and must not call back into the table; entries that need to
// inspect siblings during finalization belong in a memarena.Arena instead.
type Table[T any] struct {
	mu       sync.RWMutex
	entries  []*entry[T]
	occupied *bitset.BitSet
	free     []uint32
	closed   bool
}

// NewTable creates a new empty Table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		occupied: bitset.New(0),
	}
}

// Insert places value into a free slot and returns its Handle.
// It panics with ErrClosed if the table has been closed.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		panic(ErrClosed)
	}

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
		t.entries[idx].value = value
	} else {
		idx = uint32(len(t.entries))
		t.entries = append(t.entries, &entry[T]{value: value})
	}
	t.occupied.Set(uint(idx))

	return Handle{Index: idx, Generation: t.entries[idx].generation}
}

// Get returns a pointer to the value identified by h. The pointer stays
// valid until the entry is removed or the table is closed; reading or
// writing through it after that point is the caller's responsibility, just
// like the unchecked accessors of memarena.
//
// If h is stale (the entry was removed, or the slot has been reused for a
// newer entry), Get returns a *StaleHandleError wrapping ErrStale.
func (t *Table[T]) Get(h Handle) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.check(h); err != nil {
		return nil, err
	}

	return &t.entries[h.Index].value, nil
}

// Remove finalizes the entry identified by h and recycles its slot. If the
// value implements memarena.Finalizer, Finalize is called before the slot
// is reused. The slot's generation is bumped so every outstanding handle
// to the removed entry becomes stale.
//
// If h is already stale, Remove returns a *StaleHandleError.
func (t *Table[T]) Remove(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.check(h); err != nil {
		return err
	}

	t.release(h.Index)
	t.free = append(t.free, h.Index)

	return nil
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return int(t.occupied.Count())
}

// Live returns a snapshot of the indexes of all live slots.
func (t *Table[T]) Live() *roaring.Bitmap {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rb := roaring.New()
	for i, ok := t.occupied.NextSet(0); ok; i, ok = t.occupied.NextSet(i + 1) {
		rb.Add(uint32(i))
	}

	return rb
}

// Range calls fn for each live entry in ascending slot order until fn
// returns false. The table is read-locked for the duration: fn must not
// call back into the table.
func (t *Table[T]) Range(fn func(h Handle, value *T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, ok := t.occupied.NextSet(0); ok; i, ok = t.occupied.NextSet(i + 1) {
		e := t.entries[i]
		if !fn(Handle{Index: uint32(i), Generation: e.generation}, &e.value) {
			return
		}
	}
}

// Close finalizes every remaining live entry, highest slot index first,
// and marks the table closed. After Close, Insert panics with ErrClosed
// and every outstanding handle is stale.
//
// Close is idempotent; the second and later calls do nothing and return
// nil.
func (t *Table[T]) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.occupied.Test(uint(i)) {
			t.release(uint32(i))
		}
	}
	t.free = nil

	return nil
}

// check validates h against the slot's occupancy and generation.
// Caller holds at least the read lock.
func (t *Table[T]) check(h Handle) error {
	if h.Index >= uint32(len(t.entries)) ||
		!t.occupied.Test(uint(h.Index)) ||
		t.entries[h.Index].generation != h.Generation {
		return &StaleHandleError{Index: h.Index, Generation: h.Generation}
	}
	return nil
}

// release finalizes the entry at idx, zeroes it and bumps the slot
// generation. Caller holds the write lock and has validated occupancy.
func (t *Table[T]) release(idx uint32) {
	e := t.entries[idx]
	t.occupied.Clear(uint(idx))
	e.generation++

	if f, ok := any(&e.value).(memarena.Finalizer); ok {
		f.Finalize()
	}

	var zero T
	e.value = zero
}
