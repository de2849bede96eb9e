package styxl

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/ninelib/styxl/internal/fidtable"
	"github.com/ninelib/styxl/styxproto"
)

// sessionState is the per-connection protocol phase: a connection
// starts Unversioned, moves to Versioned once Tversion negotiates
// successfully, and moves to Closed on teardown.
type sessionState int32

const (
	stateUnversioned sessionState = iota
	stateVersioned
	stateClosed
)

// fidRecord is the value a conn stores in its fid table. It wraps the
// back-end's opaque FidState with the walk-depth accounting the
// dispatcher needs for max_walk_depth, which is server-local and not
// part of the back-end's contract.
type fidRecord struct {
	state FidState
	depth int32
}

// A conn is the server side of one 9P2000.L connection. It owns the
// wire codec, the fid table, and the tag -> cancellation map used by
// Tflush. Multiple fids may be multiplexed over it, but unlike legacy
// 9P there is exactly one session per connection.
type conn struct {
	id  string
	rwc io.ReadWriteCloser
	bw  *bufio.Writer
	dec *styxproto.Decoder
	enc *styxproto.Encoder
	srv *Server

	mu    sync.Mutex
	state sessionState
	msize uint32

	fids *fidtable.Table

	pendingMu sync.Mutex
	pending   map[uint16]*pendingReq

	wg sync.WaitGroup
}

// pendingReq tracks one outstanding tagged request, so that Tflush can
// both cancel it and wait for its (possibly still-in-flight) reply to
// reach the wire before acknowledging the flush.
type pendingReq struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func newConn(rwc io.ReadWriteCloser, srv *Server) *conn {
	bw := newBufioWriter(rwc)
	return &conn{
		id:      uuid.NewString(),
		rwc:     rwc,
		srv:     srv,
		bw:      bw,
		dec:     newDecoder(rwc),
		enc:     styxproto.NewEncoder(bw),
		fids:    fidtable.New(),
		pending: make(map[uint16]*pendingReq),
	}
}

func (c *conn) getState() sessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *conn) setState(s sessionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *conn) getMsize() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msize
}

func (c *conn) setMsize(n uint32) {
	c.mu.Lock()
	c.msize = n
	c.mu.Unlock()
	// Keep the encoder's own ceiling in lockstep so that
	// backend-controlled variable-length replies (Rreadlink,
	// Rgetlock) are caught and turned into Rlerror{EMSGSIZE} instead
	// of writing an over-msize frame to the wire.
	c.enc.SetMaxSize(int64(n))
}

// register installs a cancellation token for tag, failing if tag is
// already outstanding. The dispatcher turns that failure into
// Rlerror{EPROTO}, the decision recorded for the tag-reuse open
// question. finish must be called exactly once, after the reply for
// tag has been written, to unblock any Tflush waiting on it.
func (c *conn) register(tag uint16) (ctx context.Context, finish func(), ok bool) {
	c.pendingMu.Lock()
	if _, exists := c.pending[tag]; exists {
		c.pendingMu.Unlock()
		return nil, nil, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingReq{cancel: cancel, done: make(chan struct{})}
	c.pending[tag] = p
	c.pendingMu.Unlock()

	var once sync.Once
	finish = func() {
		once.Do(func() {
			c.pendingMu.Lock()
			delete(c.pending, tag)
			c.pendingMu.Unlock()
			close(p.done)
		})
	}
	return ctx, finish, true
}

// flush signals the cancellation token registered for oldtag and
// blocks until that request's reply has been written (or, if oldtag
// is unknown to the dispatcher, returns immediately: an unregistered
// tag is treated as already completed).
func (c *conn) flush(oldtag uint16) {
	c.pendingMu.Lock()
	p, ok := c.pending[oldtag]
	c.pendingMu.Unlock()
	if !ok {
		return
	}
	p.cancel()
	<-p.done
}

// abort closes the transport after a fatal protocol or codec error,
// without touching the pooled decoder/writer: the read loop in serve
// observes the resulting error and runs the ordinary teardown path
// (wg.Wait, drain, close) exactly once.
func (c *conn) abort() {
	c.setState(stateClosed)
	c.rwc.Close()
}

// resetForVersion cancels every outstanding request and releases
// every fid, for a Tversion received on an already-Versioned
// connection: per the protocol, renegotiating version aborts
// everything in flight.
func (c *conn) resetForVersion() {
	c.pendingMu.Lock()
	for _, p := range c.pending {
		p.cancel()
	}
	c.pendingMu.Unlock()
	c.wg.Wait()
	c.drain()
}

func (c *conn) close() error {
	c.setState(stateClosed)
	putDecoder(c.dec)
	putBufioWriter(c.bw)
	return c.rwc.Close()
}

// drain releases every fid still installed when the session closes,
// concurrently, so that one slow Release does not hold up the others.
func (c *conn) drain() {
	states := c.fids.Drain()
	var wg sync.WaitGroup
	for _, s := range states {
		rec, ok := s.(*fidRecord)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(rec *fidRecord) {
			defer wg.Done()
			c.srv.Backend.Release(rec.state)
		}(rec)
	}
	wg.Wait()
}

func (c *conn) serve() {
	defer func() {
		if r := recover(); r != nil {
			c.srv.logf("connection %s: panic: %v", c.id, r)
		}
		c.wg.Wait()
		c.drain()
		c.close()
	}()

	connectionsTotal.Inc()

	for c.dec.Next() {
		m := c.dec.Msg()
		c.dispatch(m)
	}
	if err := c.dec.Err(); err != nil && err != io.EOF {
		c.srv.logf("connection %s: decode error: %v", c.id, err)
	}
}

// isL9Version reports whether v names the 9P2000.L dialect exactly.
// Any other string, including a bare "9P2000", negotiates "unknown"
// per the version-downgrade scenario.
func isL9Version(v []byte) bool {
	return bytes.Equal(v, []byte("9P2000.L"))
}
