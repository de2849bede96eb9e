// Package qidpool manages pools of 9P Qids, 13-byte unique identifiers
// for files.
package qidpool

import (
	"sync"
	"sync/atomic"

	"github.com/ninelib/styxl/styxproto"
)

// A Pool maintains a pool of unique Qids for files on a 9P2000.L file
// server, keyed by an arbitrary backend-chosen name (typically a path
// or inode number). A Pool must be created with a call to New.
type Pool struct {
	m    sync.Map
	path uint64
}

// New returns a new, empty Pool.
func New() *Pool {
	return &Pool{}
}

// LoadOrStore creates a new, unique Qid of the given type and adds it to
// the pool. The returned Qid should be considered read-only. LoadOrStore
// will not modify an existing Qid; if there is already a Qid associated
// with name, it is returned instead.
func (p *Pool) LoadOrStore(name string, qtype styxproto.QidType) styxproto.Qid {
	if v, ok := p.m.Load(name); ok {
		return v.(styxproto.Qid)
	}
	buf := make([]byte, styxproto.QidLen)
	path := atomic.AddUint64(&p.path, 1)
	qid := styxproto.PutQid(buf, qtype, 0, path)

	return p.LoadOrStoreQid(name, qid)
}

// LoadOrStoreQid adds a caller-constructed Qid to the pool under name,
// unless one is already present, in which case the existing Qid is
// returned instead.
func (p *Pool) LoadOrStoreQid(name string, qid styxproto.Qid) styxproto.Qid {
	actual, _ := p.m.LoadOrStore(name, qid)
	return actual.(styxproto.Qid)
}

// Del removes a Qid from a Pool. Once a Qid is removed from a pool, it
// will never be used again.
func (p *Pool) Del(name string) {
	p.m.Delete(name)
}

// Load fetches the Qid currently associated with name from the pool. The
// Qid is only valid if the second return value is true.
func (p *Pool) Load(name string) (styxproto.Qid, bool) {
	if v, ok := p.m.Load(name); ok {
		return v.(styxproto.Qid), true
	}
	return nil, false
}
