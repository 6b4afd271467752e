// Package memarena provides a heterogeneous allocation arena with checked
// handles for Go.
//
// An Arena owns dynamically-typed values for a bounded lifetime and
// finalizes all of them at a single collective destruction point. This
// makes it easy to build graph-like structures (nodes referencing other
// nodes, including cycles) without establishing a single owner for every
// value, while still detecting, deterministically and at the point of use,
// any attempt to access a value whose finalizer has already run.
//
// # Quick Start
//
//	arena := memarena.New()
//	defer arena.Close()
//
//	n := memarena.Alloc(arena, Node{Name: "root"})
//	n.Get().Name = "renamed"
//
// # Safety Model
//
// Every allocation carries a shared liveness flag, created once and cloned
// into every handle derived from it. Close flips the flag before running
// the value's Finalize method, so a finalizer that follows a handle to a
// sibling allocation always observes an accurate answer to "has this been
// finalized yet?". Checked accessors (Get, Leak, String) panic with
// ErrDropped once the flag is set; TryGet returns the error instead. This
// converts what would otherwise be a use-after-free into a deterministic,
// localized, always-reproducible failure.
//
// # Finalization Order
//
// Close finalizes allocations in LIFO order: the most recently allocated
// value is finalized first. This is a documented invariant, not an
// accident of the backing store. It makes the failure mode of cyclic
// structures reproducible: if A holds a handle to the later-allocated B,
// teardown finalizes B first, and A's finalizer deterministically trips
// the liveness check when it reaches for B.
//
// # Unchecked Access
//
// AllocUnchecked, GetUnchecked and LeakUnchecked skip the liveness check
// entirely. They exist as a zero-overhead escape hatch; using them after
// Close silently observes finalized state with no detection.
//
// # Concurrency
//
// Alloc is lock-free: concurrent allocations contend only on an atomic
// compare-and-swap over the store's head, and some goroutine always makes
// progress. Close must not race with an in-flight allocation. Handles to
// different allocations are independent; two handles to the same
// allocation are not synchronized by this package; wrap the stored value
// in its own lock if it is mutated concurrently.
//
// # Subpackages
//
//   - clist: the lock-free concurrent list backing the arena
//   - slot: a generational slot table offering the same checked-access
//     contract through copyable integer handles, with slot reuse
package memarena
