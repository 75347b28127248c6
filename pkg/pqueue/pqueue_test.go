package pqueue

import (
	"math"
	"slices"
	"testing"
)

func intLess(a, b int) bool { return a < b }

func TestBounded_KeepsLargest(t *testing.T) {
	q := NewBounded(3, intLess)
	for _, v := range []int{5, 1, 9, 3, 7, 2, 8} {
		q.Push(v)
	}

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	got := q.DrainDescending()
	want := []int{9, 8, 7}
	if !slices.Equal(got, want) {
		t.Errorf("DrainDescending() = %v, want %v", got, want)
	}
	if q.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", q.Len())
	}
}

func TestBounded_ZeroCapacity(t *testing.T) {
	q := NewBounded(0, intLess)
	q.Push(1)
	q.Push(2)

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if got := q.DrainDescending(); len(got) != 0 {
		t.Errorf("DrainDescending() = %v, want empty", got)
	}
}

func TestBounded_NegativeCapacity(t *testing.T) {
	q := NewBounded(-4, intLess)
	q.Push(1)
	if q.Cap() != 0 || q.Len() != 0 {
		t.Errorf("Cap()=%d Len()=%d, want 0 and 0", q.Cap(), q.Len())
	}
}

func TestBounded_FewerThanCapacity(t *testing.T) {
	q := NewBounded(10, intLess)
	q.Push(4)
	q.Push(2)

	got := q.DrainDescending()
	if !slices.Equal(got, []int{4, 2}) {
		t.Errorf("DrainDescending() = %v, want [4 2]", got)
	}
}

func TestBounded_PeekPop(t *testing.T) {
	q := NewBounded(2, intLess)
	if _, ok := q.Peek(); ok {
		t.Error("Peek() on empty queue should report false")
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should report false")
	}

	q.Push(6)
	q.Push(3)
	q.Push(4) // evicts 3

	if v, ok := q.Peek(); !ok || v != 4 {
		t.Errorf("Peek() = %d, %v; want 4, true", v, ok)
	}
	if v, _ := q.Pop(); v != 4 {
		t.Errorf("Pop() = %d, want 4", v)
	}
	if v, _ := q.Pop(); v != 6 {
		t.Errorf("Pop() = %d, want 6", v)
	}
}

func TestBounded_CustomOrdering(t *testing.T) {
	type scored struct {
		id    string
		score int
	}
	less := func(a, b scored) bool {
		if a.score != b.score {
			return a.score < b.score
		}
		return a.id > b.id
	}

	q := NewBounded(2, less)
	q.Push(scored{"c", 1})
	q.Push(scored{"b", 1})
	q.Push(scored{"a", 1})

	got := q.DrainDescending()
	if got[0].id != "a" || got[1].id != "b" {
		t.Errorf("DrainDescending() = %v, want a then b", got)
	}
}

func TestBounded_HugeCapacity(t *testing.T) {
	q := NewBounded(math.MaxInt, intLess)
	for v := range 2000 {
		q.Push(v)
	}
	if q.Cap() != math.MaxInt || q.Len() != 2000 {
		t.Fatalf("Cap()=%d Len()=%d, want MaxInt and 2000", q.Cap(), q.Len())
	}
	if got := q.DrainDescending(); got[0] != 1999 || got[len(got)-1] != 0 {
		t.Errorf("DrainDescending() ends = %d..%d, want 1999..0", got[0], got[len(got)-1])
	}
}
