package tbucket

import (
	"math/rand/v2"
	"runtime"
	"sync/atomic"
)

// paddedCell is sized so that it occupies exactly one 64-byte
// cache line on every platform Go targets (8 bytes for the atomic.Int64
// plus 7 more int64 words of padding).
type paddedCell struct {
	v   atomic.Int64
	_   [7]int64
}

// distributedAdder is a multi-cell counter that spreads write contention
// across cache-line-padded cells. Add is concurrent from any goroutine;
// SumAndReset atomically reads and zeroes every cell.
//
// SumAndReset is not required to produce a snapshot instantaneous with any
// other operation; it is linearisable with respect to itself (two
// concurrent SumAndReset calls collectively return what a single sequential
// run would have returned) and never loses or double-counts an Add.
type distributedAdder struct {
	cells []paddedCell
	mask  uint64
}

// newDistributedAdder creates an adder with a power-of-two cell count at
// least shards. A shards value of 0 or 1 still works (single cell, no
// sharding).
func newDistributedAdder(shards int) *distributedAdder {
	if shards < 1 {
		shards = 1
	}
	n := 1
	for n < shards {
		n <<= 1
	}
	return &distributedAdder{
		cells: make([]paddedCell, n),
		mask:  uint64(n - 1),
	}
}

// newDistributedAdderForGOMAXPROCS sizes the adder to the next power of two
// at or above runtime.GOMAXPROCS(0), the common sizing for per-CPU sharded
// counters.
func newDistributedAdderForGOMAXPROCS() *distributedAdder {
	return newDistributedAdder(runtime.GOMAXPROCS(0))
}

// cellIndex picks a starting cell for the calling goroutine. It does not
// need to be stable across calls — only cheap and well-distributed — since
// contention is resolved by re-probing on CAS failure, not by a fixed
// goroutine-to-cell mapping.
func (d *distributedAdder) cellIndex() uint64 {
	// The runtime's per-thread random source spreads callers across cells
	// without a true per-goroutine identifier and without any shared
	// counter that every caller would have to write.
	return rand.Uint64() & d.mask
}

// Add atomically adds delta to the adder, spreading contention across
// cells. delta may be negative, though tokenbucket callers only ever add
// non-negative consumption counts.
func (d *distributedAdder) Add(delta int64) {
	if delta == 0 {
		return
	}
	idx := d.cellIndex()
	for i := uint64(0); ; i++ {
		cell := &d.cells[(idx+i)&d.mask]
		old := cell.v.Load()
		if cell.v.CompareAndSwap(old, old+delta) {
			return
		}
		// CAS failure means contention on this cell; re-probe the next one
		// rather than retrying the same cell indefinitely.
	}
}

// SumAndReset atomically reads and zeroes every cell, returning their sum.
// Cells are drained one at a time via Swap, so a concurrent Add observed
// mid-drain is either fully included (if it lands before the Swap) or fully
// excluded and left for the next SumAndReset (if it lands after) — it is
// never split or double-counted.
func (d *distributedAdder) SumAndReset() int64 {
	var total int64
	for i := range d.cells {
		total += d.cells[i].v.Swap(0)
	}
	return total
}
