package arena

import (
	"errors"
	"testing"
)

func expectExhausted(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrCapacityExhausted) {
			t.Fatalf("expected capacity panic, got %v", r)
		}
	}()
	fn()
}

func TestBufferPushPopInsert(t *testing.T) {
	s := NewScope("frame", 0)
	b := NewBuffer[int](s, "ints", 4)
	b.Push(1)
	b.Push(4)
	b.Insert(1, 2)
	*b.At(1) = 2
	*b.At(2) = 3

	want := []int{1, 2, 3, 4}
	for i, v := range b.Items() {
		if v != want[i] {
			t.Fatalf("item %d: got %d, want %d", i, v, want[i])
		}
	}
	if got := b.Pop(); got != 4 {
		t.Errorf("Pop: got %d, want 4", got)
	}
	if b.Len() != 3 {
		t.Errorf("Len: got %d, want 3", b.Len())
	}
}

func TestBufferOverflowIsFatal(t *testing.T) {
	s := NewScope("frame", 0)
	b := NewBuffer[int](s, "pairs", 2)
	b.Push(1)
	b.Push(2)
	expectExhausted(t, func() { b.Push(3) })
	expectExhausted(t, func() { b.Insert(0, 1) })
}

func TestScopeResetClearsBuffers(t *testing.T) {
	s := NewScope("frame", 0)
	b := NewBuffer[int](s, "ints", 3)
	b.Push(7)
	b.Push(8)
	s.Reset()
	if b.Len() != 0 {
		t.Fatalf("Len after reset: got %d, want 0", b.Len())
	}
	b.Push(1)
	if raw := b.items[:cap(b.items)]; raw[1] != 0 {
		t.Errorf("slot 1 not zeroed after reset: %d", raw[1])
	}
	if s.Resets() != 1 {
		t.Errorf("Resets: got %d, want 1", s.Resets())
	}
}

func TestScopeBudget(t *testing.T) {
	s := NewScope("persistent", 16)
	_ = MakeSlice[int32](s, 4)
	if s.Used() != 16 {
		t.Fatalf("Used: got %d, want 16", s.Used())
	}
	expectExhausted(t, func() { _ = New[int32](s) })
	s.Reset()
	if p := New[int32](s); *p != 0 {
		t.Errorf("New returned non-zero value %d", *p)
	}
}
