package search

import (
	"errors"
	"math/rand"
	"testing"
)

func TestMaxHeap_Empty(t *testing.T) {
	h := NewMaxHeap(4)
	if !h.IsEmpty() || h.Size() != 0 {
		t.Fatalf("new heap size=%d", h.Size())
	}
	if _, err := h.Peek(); !errors.Is(err, ErrEmptyStructure) {
		t.Fatalf("peek err=%v want ErrEmptyStructure", err)
	}
	if _, err := h.Pop(); !errors.Is(err, ErrEmptyStructure) {
		t.Fatalf("pop err=%v want ErrEmptyStructure", err)
	}
}

func TestMaxHeap_Capacity(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0}, {0, 0}, {10, 10}, {64, 64}, {100, 64},
	}
	for _, tt := range tests {
		if got := NewMaxHeap(tt.in).Capacity(); got != tt.want {
			t.Fatalf("capacity(%d)=%d want=%d", tt.in, got, tt.want)
		}
	}

	h := NewMaxHeap(2)
	for i := 0; i < 2; i++ {
		if err := h.Insert(Entry{Priority: i}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if err := h.Insert(Entry{Priority: 9}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("insert past capacity err=%v", err)
	}
	if e, _ := h.Peek(); e.Priority != 1 {
		t.Fatalf("rejected insert changed top to %d", e.Priority)
	}
	if err := NewMaxHeap(0).Insert(Entry{}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("zero-capacity insert err=%v", err)
	}
}

func TestMaxHeap_RandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h := NewMaxHeap(64)
	var shadow []int

	maxOf := func() int {
		m := shadow[0]
		for _, v := range shadow[1:] {
			m = max(m, v)
		}
		return m
	}

	for step := 0; step < 5000; step++ {
		if len(shadow) < 64 && (len(shadow) == 0 || rng.Intn(3) > 0) {
			p := rng.Intn(200) - 100
			if err := h.Insert(Entry{Priority: p, Payload: step}); err != nil {
				t.Fatalf("step=%d insert: %v", step, err)
			}
			shadow = append(shadow, p)
		} else {
			e, err := h.Pop()
			if err != nil {
				t.Fatalf("step=%d pop: %v", step, err)
			}
			if want := maxOf(); e.Priority != want {
				t.Fatalf("step=%d pop=%d want=%d", step, e.Priority, want)
			}
			for i, v := range shadow {
				if v == e.Priority {
					shadow = append(shadow[:i], shadow[i+1:]...)
					break
				}
			}
		}
		if h.Size() != len(shadow) {
			t.Fatalf("step=%d size=%d want=%d", step, h.Size(), len(shadow))
		}
		if len(shadow) > 0 {
			top, err := h.Peek()
			if err != nil || top.Priority != maxOf() {
				t.Fatalf("step=%d peek=%d want=%d err=%v", step, top.Priority, maxOf(), err)
			}
		}
	}

	prev := int(^uint(0) >> 1)
	for !h.IsEmpty() {
		e, _ := h.Pop()
		if e.Priority > prev {
			t.Fatalf("pop sequence increased: %d after %d", e.Priority, prev)
		}
		prev = e.Priority
	}
}

func TestMaxHeap_PayloadTravelsWithPriority(t *testing.T) {
	h := NewMaxHeap(8)
	for _, c := range []int{19, 26, 37, 44} {
		_ = h.Insert(Entry{Priority: c, Payload: c * 10})
	}
	for _, want := range []int{44, 37, 26, 19} {
		e, err := h.Pop()
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if e.Priority != want || e.Payload != want*10 {
			t.Fatalf("pop=%+v want priority=%d payload=%d", e, want, want*10)
		}
	}
}
