package handles

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("handle table closed")

// Handle is an opaque reference to a value in a Table.
type Handle uint32

// Dropper is implemented by values that must be notified when the table
// discards them on Close.
type Dropper interface {
	Drop()
}

// Table is an in-memory handle table with a free list.
type Table struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	kind  uint32
	valid bool
}

// New creates an empty table.
func New() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Insert stores value under kind and returns its handle.
func (t *Table) Insert(kind uint32, value any) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	e := entry{kind: kind, value: value, valid: true}

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h, nil
	}

	t.entries = append(t.entries, e)
	return Handle(len(t.entries)), nil
}

// Get retrieves a value by handle.
func (t *Table) Get(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// GetKind retrieves a value only if it was inserted under kind.
func (t *Table) GetKind(h Handle, kind uint32) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// Remove drops the entry and returns its value.
func (t *Table) Remove(h Handle) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := h - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.kind = 0
	t.freeList = append(t.freeList, h)
	return value, true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries) - len(t.freeList)
}

// Close drops every live entry. Values implementing Dropper are notified.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for i := range t.entries {
		if t.entries[i].valid {
			if d, ok := t.entries[i].value.(Dropper); ok {
				d.Drop()
			}
			t.entries[i].valid = false
			t.entries[i].value = nil
		}
	}
	t.entries = nil
	t.freeList = nil
	return nil
}
