package nav

// Frontier is the relaxation work queue: a FIFO of pending cell indices with
// a pending bitmap so a cell is never enqueued twice concurrently. Combined
// with repeated relaxation this yields an SPFA-style label-correcting search:
// not work-optimal, but simple, allocation-free after warmup, and guaranteed
// to terminate because edge costs are positive and the grid is finite.
type Frontier struct {
	queue   []int32
	head    int
	pending []bool
}

// NewFrontier creates a frontier for a grid with the given cell count.
func NewFrontier(cells int) *Frontier {
	return &Frontier{
		queue:   make([]int32, 0, 1024),
		pending: make([]bool, cells),
	}
}

// Push enqueues a cell index. It is a no-op (returning false) if the cell is
// already pending.
func (f *Frontier) Push(idx int32) bool {
	if f.pending[idx] {
		return false
	}
	f.pending[idx] = true
	f.queue = append(f.queue, idx)
	return true
}

// Pop removes and returns the cell that has waited longest. Callers must
// check Len first, popping an empty frontier panics.
func (f *Frontier) Pop() int32 {
	idx := f.queue[f.head]
	f.head++
	f.pending[idx] = false

	// Reclaim the dead prefix once it dominates the backing array.
	if f.head > 4096 && f.head*2 > len(f.queue) {
		n := copy(f.queue, f.queue[f.head:])
		f.queue = f.queue[:n]
		f.head = 0
	}
	return idx
}

// Len returns the number of pending cells.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}
