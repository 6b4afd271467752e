package slot

import (
	"errors"
	"fmt"
)

var (
	// ErrStale is the sentinel wrapped by every StaleHandleError. Use
	// errors.Is(err, ErrStale) to detect stale-handle failures without
	// inspecting the handle details.
	ErrStale = errors.New("stale handle")

	// ErrClosed is the panic value raised by Insert when the table has
	// already been closed.
	ErrClosed = errors.New("slot: table already closed")
)

// StaleHandleError indicates that a handle refers to an entry that has
// been removed, or to a slot that has since been reused for a newer entry.
type StaleHandleError struct {
	Index      uint32
	Generation uint32
}

func (e *StaleHandleError) Error() string {
	return fmt.Sprintf("slot: %v: slot %d, generation %d", ErrStale, e.Index, e.Generation)
}

func (e *StaleHandleError) Unwrap() error { return ErrStale }
