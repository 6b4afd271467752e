// Package slot provides a generational slot table: an index-plus-
// generation realization of the checked-access contract offered by the
// root memarena package.
//
// Where memarena.Arena hands out pointer-carrying handles and defers all
// finalization to Close, a slot.Table hands out small copyable integer
// handles and additionally supports removing individual entries. A removed
// entry's slot is recycled for later inserts; the generation counter
// guarantees that handles issued for the removed entry are detected as
// stale rather than silently resolving to the slot's new occupant.
//
//	table := slot.NewTable[Node]()
//	defer table.Close()
//
//	h := table.Insert(Node{Name: "root"})
//	n, err := table.Get(h)
//
//	_ = table.Remove(h)
//	_, err = table.Get(h) // errors.Is(err, slot.ErrStale)
//
// Occupancy is tracked in a bitset; Live exposes a Roaring Bitmap snapshot
// of the live slot indexes for diagnostics and bulk set operations.
package slot
