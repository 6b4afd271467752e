// Package clist provides a lock-free singly-linked list.
//
// The list supports concurrent PushFront from any number of goroutines
// without external locking. Insertion publishes a fully-linked node via a
// compare-and-swap on the head pointer, so a concurrent traversal can never
// observe a half-constructed node. Removal is limited to Drain, which
// assumes exclusive ownership and is intended for teardown.
package clist

import "sync/atomic"

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// List is a lock-free singly-linked list. The zero value is an empty list
// ready for use.
//
// PushFront and Range are safe for concurrent use. Drain is not; it must
// only be called once no concurrent PushFront or Range is in flight.
type List[T any] struct {
	head atomic.Pointer[node[T]]
}

// New creates a new empty List.
func New[T any]() *List[T] {
	return &List[T]{}
}

// PushFront inserts value at the front of the list.
//
// The new node is fully constructed and linked to the current head before
// it is published with a compare-and-swap. On contention the swap fails and
// the same node is re-linked against the fresh head and retried. No
// goroutine ever blocks, and some goroutine always makes progress.
func (l *List[T]) PushFront(value T) {
	n := &node[T]{value: value}
	for {
		head := l.head.Load()
		n.next.Store(head)
		if l.head.CompareAndSwap(head, n) {
			return
		}
	}
}

// Range calls fn for each element, most recently inserted first, until fn
// returns false. The pointer passed to fn is valid for the lifetime of the
// list.
//
// Range is safe to run concurrently with PushFront; it observes a prefix
// that is at least as fresh as the head at the time of the call.
func (l *List[T]) Range(fn func(*T) bool) {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if !fn(&n.value) {
			return
		}
	}
}

// Len reports the number of elements by traversal. O(n); intended for
// diagnostics and tests.
func (l *List[T]) Len() int {
	count := 0
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		count++
	}
	return count
}

// Drain removes every element, calling fn on each in LIFO order relative to
// insertion. The caller must guarantee that no PushFront or Range is
// running concurrently; Drain takes no locks and assumes exclusive
// ownership.
func (l *List[T]) Drain(fn func(T)) {
	for {
		head := l.head.Load()
		if head == nil {
			return
		}
		l.head.Store(head.next.Load())
		fn(head.value)
	}
}
