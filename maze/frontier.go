package maze

import "github.com/zyedidia/generic/heap"

// frontier is a min-heap of entries ordered by distance, then by push order.
// It has no decrease-key: improved states are pushed again and the old copy
// is skipped when popped.
type frontier[S any] struct {
	heap *heap.Heap[entry[S]]
	seq  uint64
}

type entry[S any] struct {
	state S
	dist  int
	seq   uint64
}

func newFrontier[S any]() *frontier[S] {
	return &frontier[S]{
		heap: heap.New[entry[S]](func(a, b entry[S]) bool {
			if a.dist != b.dist {
				return a.dist < b.dist
			}
			return a.seq < b.seq
		}),
	}
}

func (f *frontier[S]) push(state S, dist int) {
	f.heap.Push(entry[S]{state: state, dist: dist, seq: f.seq})
	f.seq++
}

func (f *frontier[S]) pop() (S, int, bool) {
	e, ok := f.heap.Pop()
	return e.state, e.dist, ok
}

func (f *frontier[S]) len() int { return f.heap.Size() }
