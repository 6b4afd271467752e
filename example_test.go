package memarena_test

import (
	"fmt"

	"github.com/hupe1980/memarena"
)

// Example demonstrates basic allocation and checked access.
func Example() {
	arena := memarena.New()
	defer arena.Close()

	type node struct {
		Name string
	}

	h := memarena.Alloc(arena, node{Name: "root"})
	h.Get().Name = "renamed"

	fmt.Println(h.Get().Name)
	// Output: renamed
}

// logged is a value that announces its own finalization.
type logged struct {
	ID int
}

func (l *logged) Finalize() {
	fmt.Println("finalized", l.ID)
}

// Example_finalization demonstrates LIFO finalization on Close.
func Example_finalization() {
	arena := memarena.New()

	memarena.Alloc(arena, logged{ID: 1})
	memarena.Alloc(arena, logged{ID: 2})
	memarena.Alloc(arena, logged{ID: 3})

	arena.Close()
	// Output:
	// finalized 3
	// finalized 2
	// finalized 1
}

// Example_checkedAccess demonstrates deterministic detection of access
// after teardown.
func Example_checkedAccess() {
	arena := memarena.New()
	h := memarena.Alloc(arena, 42)

	arena.Close()

	fmt.Println(h.Dropped())

	if _, err := h.TryGet(); err != nil {
		fmt.Println(err)
	}
	// Output:
	// true
	// memarena: allocation already finalized
}

// Example_freeze demonstrates converting a mutable handle into a freely
// copyable immutable one.
func Example_freeze() {
	arena := memarena.New()
	defer arena.Close()

	m := memarena.Alloc(arena, "shared")
	r := m.Freeze()
	r2 := r // copies share the same liveness flag

	fmt.Println(*r.Get(), *r2.Get())
	// Output: shared shared
}
