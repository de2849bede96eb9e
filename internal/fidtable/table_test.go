package fidtable

import (
	"testing"
	"time"
)

func TestInsertGetRemove(t *testing.T) {
	tb := New()
	if err := tb.Insert(1, "root"); err != nil {
		t.Fatal(err)
	}
	if err := tb.Insert(1, "dup"); err != ErrInUse {
		t.Fatalf("got %v, want ErrInUse", err)
	}
	state, release, ok := tb.Get(1)
	if !ok || state != "root" {
		t.Fatalf("Get(1) = %v, %v, want root, true", state, ok)
	}
	release()

	state, ok = tb.Remove(1)
	if !ok || state != "root" {
		t.Fatalf("Remove(1) = %v, %v, want root, true", state, ok)
	}
	if _, _, ok := tb.Get(1); ok {
		t.Fatal("Get succeeded after Remove")
	}
	if err := tb.Insert(1, "reused"); err != nil {
		t.Fatalf("Insert after Remove: %v", err)
	}
}

func TestRemoveBlocksForOutstandingRefs(t *testing.T) {
	tb := New()
	tb.Insert(2, "state")
	_, release, _ := tb.Get(2)

	done := make(chan struct{})
	go func() {
		tb.Remove(2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Remove returned before the outstanding reference was released")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Remove did not unblock after release")
	}
}

func TestDrain(t *testing.T) {
	tb := New()
	tb.Insert(1, "a")
	tb.Insert(2, "b")
	got := tb.Drain()
	if len(got) != 2 {
		t.Fatalf("Drain returned %d states, want 2", len(got))
	}
	if tb.Has(1) || tb.Has(2) {
		t.Fatal("entries survived Drain")
	}
}
