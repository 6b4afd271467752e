package memarena

import "errors"

var (
	// ErrDropped is the panic value raised by checked handle accessors, and
	// the error returned by the TryGet variants, when the referenced
	// allocation has already been finalized by Arena.Close.
	ErrDropped = errors.New("memarena: allocation already finalized")

	// ErrClosed is the panic value raised by Alloc and AllocUnchecked when
	// the arena has already been closed.
	ErrClosed = errors.New("memarena: arena already closed")
)
