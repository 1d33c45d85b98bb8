package handles

import (
	"errors"
	"sync"
	"testing"
)

type dropRecorder struct {
	dropped *int
}

func (d dropRecorder) Drop() { *d.dropped++ }

func TestTable_Basic(t *testing.T) {
	table := New()

	h, err := table.Insert(1, "test")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %v, %v", val, ok)
	}

	if _, ok := table.GetKind(h, 1); !ok {
		t.Fatal("GetKind with matching kind failed")
	}
	if _, ok := table.GetKind(h, 2); ok {
		t.Fatal("GetKind with wrong kind should fail")
	}

	val, ok = table.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove = %v, %v", val, ok)
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Get after Remove should fail")
	}
	if _, ok := table.Remove(h); ok {
		t.Fatal("double Remove should fail")
	}
	if table.Len() != 0 {
		t.Fatalf("Len = %d, want 0", table.Len())
	}
}

func TestTable_ZeroHandle(t *testing.T) {
	table := New()
	if _, ok := table.Get(0); ok {
		t.Fatal("handle 0 must be invalid")
	}
	if _, ok := table.Remove(0); ok {
		t.Fatal("handle 0 must not be removable")
	}
	if _, ok := table.Get(99); ok {
		t.Fatal("out of range handle must be invalid")
	}
}

func TestTable_Reuse(t *testing.T) {
	table := New()
	h1, _ := table.Insert(1, "a")
	h2, _ := table.Insert(1, "b")
	table.Remove(h1)

	h3, _ := table.Insert(1, "c")
	if h3 != h1 {
		t.Fatalf("expected freed handle %d to be reused, got %d", h1, h3)
	}
	if v, _ := table.Get(h2); v != "b" {
		t.Fatalf("neighbour entry changed: %v", v)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
}

func TestTable_Close(t *testing.T) {
	table := New()
	dropped := 0
	table.Insert(1, dropRecorder{&dropped})
	table.Insert(1, dropRecorder{&dropped})
	table.Insert(2, "plain")

	if err := table.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if dropped != 2 {
		t.Fatalf("dropped = %d, want 2", dropped)
	}
	if _, err := table.Insert(1, "late"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Insert after Close: %v", err)
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h, err := table.Insert(uint32(i), j)
				if err != nil {
					t.Error(err)
					return
				}
				if v, ok := table.GetKind(h, uint32(i)); !ok || v != j {
					t.Errorf("GetKind(%d) = %v, %v", h, v, ok)
					return
				}
				table.Remove(h)
			}
		}(i)
	}
	wg.Wait()
	if table.Len() != 0 {
		t.Fatalf("Len = %d, want 0", table.Len())
	}
}
