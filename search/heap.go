package search

import (
	"errors"

	"github.com/brensch/othello/board"
)

var (
	ErrEmptyStructure   = errors.New("heap is empty")
	ErrCapacityExceeded = errors.New("heap capacity exceeded")
)

// Entry is a heap element. Payload is usually a square, Priority a score.
type Entry struct {
	Priority int
	Payload  int
}

// MaxHeap is a fixed-capacity binary max-heap of Entries.
//
// Equal priorities are not ordered: whichever entry the sift leaves on top
// is popped first.
type MaxHeap struct {
	items []Entry
}

// NewMaxHeap returns an empty heap holding at most capacity entries. The
// capacity is clamped to [0, 64].
func NewMaxHeap(capacity int) *MaxHeap {
	capacity = max(0, min(capacity, board.Squares))
	return &MaxHeap{items: make([]Entry, 0, capacity)}
}

func (h *MaxHeap) IsEmpty() bool { return len(h.items) == 0 }
func (h *MaxHeap) Size() int     { return len(h.items) }
func (h *MaxHeap) Capacity() int { return cap(h.items) }

// Peek returns the highest-priority entry without removing it.
func (h *MaxHeap) Peek() (Entry, error) {
	if len(h.items) == 0 {
		return Entry{}, ErrEmptyStructure
	}
	return h.items[0], nil
}

// Pop removes and returns the highest-priority entry.
func (h *MaxHeap) Pop() (Entry, error) {
	n := len(h.items)
	if n == 0 {
		return Entry{}, ErrEmptyStructure
	}
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	h.down(0)
	return top, nil
}

// Insert adds e, failing once the heap is full.
func (h *MaxHeap) Insert(e Entry) error {
	if len(h.items) == cap(h.items) {
		return ErrCapacityExceeded
	}
	h.items = append(h.items, e)
	h.up(len(h.items) - 1)
	return nil
}

func (h *MaxHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[parent].Priority >= h.items[i].Priority {
			return
		}
		h.items[parent], h.items[i] = h.items[i], h.items[parent]
		i = parent
	}
}

func (h *MaxHeap) down(i int) {
	n := len(h.items)
	for {
		largest := i
		l, r := 2*i+1, 2*i+2
		if l < n && h.items[l].Priority > h.items[largest].Priority {
			largest = l
		}
		if r < n && h.items[r].Priority > h.items[largest].Priority {
			largest = r
		}
		if largest == i {
			return
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}
