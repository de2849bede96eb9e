// Package fidtable implements the per-connection mapping from 9P fid
// numbers to opaque back-end handle state.
//
// The table favors readers: many concurrent Get calls on the same id
// are allowed (parallel reads at different offsets, for instance),
// and only Remove, Replace and Drain block, each waiting for every
// outstanding Get on the ids it touches to release its reference. The table
// itself never inspects the values it stores.
package fidtable

import (
	"errors"
	"sync"
)

// ErrInUse is returned by Insert when the requested id is already
// present in the table.
var ErrInUse = errors.New("fid already in use")

type entry struct {
	state interface{}
	refs  int
}

// A Table maps fid numbers to back-end state for a single
// connection. The zero value is not usable; use New.
type Table struct {
	mu   sync.Mutex
	cond *sync.Cond
	m    map[uint32]*entry
}

// New creates an empty Table.
func New() *Table {
	t := &Table{m: make(map[uint32]*entry)}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Insert adds state under id. It fails with ErrInUse if id is
// already present.
func (t *Table) Insert(id uint32, state interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.m[id]; ok {
		return ErrInUse
	}
	t.m[id] = &entry{state: state}
	return nil
}

// Has reports whether id is currently present, without taking a
// reference on it. Used by the dispatcher to validate that a
// newfid-introducing request targets a free id.
func (t *Table) Has(id uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.m[id]
	return ok
}

// Get returns the state stored under id and a release function that
// must be called exactly once when the caller is done with it. Get
// blocks only on the table's own mutex, never on a concurrent Remove;
// a racing Remove instead waits for this and every other outstanding
// reference to be released.
func (t *Table) Get(id uint32) (state interface{}, release func(), ok bool) {
	t.mu.Lock()
	e, ok := t.m[id]
	if !ok {
		t.mu.Unlock()
		return nil, nil, false
	}
	e.refs++
	t.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			t.mu.Lock()
			e.refs--
			if e.refs == 0 {
				t.cond.Broadcast()
			}
			t.mu.Unlock()
		})
	}
	return e.state, release, true
}

// Replace swaps the state stored under id, which must already be
// present, blocking until every outstanding Get reference on it is
// released, and returns the state that was displaced so the caller
// can release it against the back-end. Used when a walk targets its
// own fid in place, and when an operation (Tlcreate, Txattrcreate)
// repoints an existing fid at new state. A caller that holds a Get
// reference on id must release it first, or Replace never returns.
func (t *Table) Replace(id uint32, state interface{}) (old interface{}, ok bool) {
	t.mu.Lock()
	e, ok := t.m[id]
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	for e.refs > 0 {
		t.cond.Wait()
	}
	old = e.state
	e.state = state
	t.mu.Unlock()
	return old, true
}

// Remove removes id from the table and returns its state, blocking
// until every Get reference taken on it has been released. Once
// Remove has taken the entry out of the map, subsequent Get and
// Insert calls for id proceed as if it had never existed.
func (t *Table) Remove(id uint32) (state interface{}, ok bool) {
	t.mu.Lock()
	e, ok := t.m[id]
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	delete(t.m, id)
	for e.refs > 0 {
		t.cond.Wait()
	}
	t.mu.Unlock()
	return e.state, true
}

// Drain removes and returns every remaining entry, in unspecified
// order, for release at session teardown.
func (t *Table) Drain() []interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]interface{}, 0, len(t.m))
	for id, e := range t.m {
		for e.refs > 0 {
			t.cond.Wait()
		}
		out = append(out, e.state)
		delete(t.m, id)
	}
	return out
}
