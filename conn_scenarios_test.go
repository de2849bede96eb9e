package styxl_test

import (
	"context"
	"testing"
	"time"

	"github.com/ninelib/styxl"
	"github.com/ninelib/styxl/internal/memfs"
	"github.com/ninelib/styxl/internal/netutil"
	"github.com/ninelib/styxl/styxproto"
)

// harness wires a Server to an in-process PipeListener and a fresh
// memfs back-end, exercising the literal scenarios from the testable
// properties section end to end.
type harness struct {
	t   *testing.T
	ln  *netutil.PipeListener
	enc *styxproto.Encoder
	dec *styxproto.Decoder
}

func newHarness(t *testing.T, srv *styxl.Server) *harness {
	t.Helper()
	ln := &netutil.PipeListener{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go srv.Serve(ctx, ln)

	conn, err := ln.Dial()
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &harness{
		t:   t,
		ln:  ln,
		enc: styxproto.NewEncoder(conn),
		dec: styxproto.NewDecoder(conn),
	}
}

func (h *harness) next() styxproto.Msg {
	h.t.Helper()
	if !h.dec.Next() {
		h.t.Fatalf("decode: %v", h.dec.Err())
	}
	return h.dec.Msg()
}

func (h *harness) versionL(msize uint32) styxproto.Rversion {
	h.t.Helper()
	if err := h.enc.Tversion(msize, "9P2000.L"); err != nil {
		h.t.Fatalf("Tversion: %v", err)
	}
	if err := h.enc.Flush(); err != nil {
		h.t.Fatalf("flush: %v", err)
	}
	rv, ok := h.next().(styxproto.Rversion)
	if !ok {
		h.t.Fatalf("expected Rversion, got %T", h.dec.Msg())
	}
	return rv
}

func newTestServer() *styxl.Server {
	return &styxl.Server{
		Backend:      memfs.New(0, 0),
		MsizeCeiling: 65536,
	}
}

// S1 — a non-"9P2000.L" version string negotiates "unknown" and the
// session stays Unversioned: a follow-up Tattach must fail.
func TestVersionDowngrade(t *testing.T) {
	srv := newTestServer()
	h := newHarness(t, srv)

	if err := h.enc.Tversion(131072, "9P2000"); err != nil {
		t.Fatalf("Tversion: %v", err)
	}
	h.enc.Flush()

	rv, ok := h.next().(styxproto.Rversion)
	if !ok {
		t.Fatalf("expected Rversion, got %T", h.dec.Msg())
	}
	if rv.Msize() != 65536 {
		t.Errorf("msize = %d, want 65536", rv.Msize())
	}
	if string(rv.Version()) != "unknown" {
		t.Errorf("version = %q, want \"unknown\"", rv.Version())
	}

	h.enc.Tattach(1, 0, styxproto.NoFid, "u", "", 1000)
	h.enc.Flush()
	if lerr, ok := h.next().(styxproto.Rlerror); !ok {
		t.Fatalf("expected Rlerror after non-versioned Tattach, got %T", h.dec.Msg())
	} else {
		_ = lerr
	}
}

// S2 — attach succeeds and the root's first two readdir entries are
// "." and "..".
func TestAttachAndReaddirRoot(t *testing.T) {
	srv := newTestServer()
	h := newHarness(t, srv)
	h.versionL(65536)

	if err := h.enc.Tattach(1, 0, styxproto.NoFid, "u", "", 1000); err != nil {
		t.Fatalf("Tattach: %v", err)
	}
	h.enc.Flush()
	if _, ok := h.next().(styxproto.Rattach); !ok {
		t.Fatalf("expected Rattach, got %T", h.dec.Msg())
	}

	if err := h.enc.Treaddir(2, 0, 0, 8192); err != nil {
		t.Fatalf("Treaddir: %v", err)
	}
	h.enc.Flush()
	rd, ok := h.next().(styxproto.Rreaddir)
	if !ok {
		t.Fatalf("expected Rreaddir, got %T", h.dec.Msg())
	}

	data := rd.Data()
	d1 := styxproto.Dirent(data)
	if string(d1.Name()) != "." {
		t.Errorf("first dirent = %q, want \".\"", d1.Name())
	}
	d2 := styxproto.Dirent(data[d1.Len():])
	if string(d2.Name()) != ".." {
		t.Errorf("second dirent = %q, want \"..\"", d2.Name())
	}
}

func attachRoot(t *testing.T, h *harness) {
	t.Helper()
	h.versionL(65536)
	h.enc.Tattach(1, 0, styxproto.NoFid, "u", "", 1000)
	h.enc.Flush()
	if _, ok := h.next().(styxproto.Rattach); !ok {
		t.Fatalf("expected Rattach, got %T", h.dec.Msg())
	}
}

// S3 — a walk through an existing prefix that fails on its last
// component replies with the qids reached and installs nothing.
func TestPartialWalk(t *testing.T) {
	srv := newTestServer()
	h := newHarness(t, srv)
	attachRoot(t, h)

	mkdir(t, h, 0, "a")
	mkdirAt(t, h, "a", "b")

	if err := h.enc.Twalk(3, 0, 1, "a", "b", "nonexistent"); err != nil {
		t.Fatalf("Twalk: %v", err)
	}
	h.enc.Flush()
	rw, ok := h.next().(styxproto.Rwalk)
	if !ok {
		t.Fatalf("expected Rwalk, got %T", h.dec.Msg())
	}
	if rw.Nwqid() != 2 {
		t.Fatalf("nwqid = %d, want 2", rw.Nwqid())
	}

	h.enc.Tgetattr(4, 1, 0)
	h.enc.Flush()
	lerr, ok := h.next().(styxproto.Rlerror)
	if !ok {
		t.Fatalf("expected Rlerror for un-installed fid, got %T", h.dec.Msg())
	}
	if lerr.Ecode() != 9 {
		t.Errorf("ecode = %d, want 9 (EBADF)", lerr.Ecode())
	}
}

// S4 — walking a nonexistent first component fails the whole request.
func TestFirstComponentWalkFailure(t *testing.T) {
	srv := newTestServer()
	h := newHarness(t, srv)
	attachRoot(t, h)

	h.enc.Twalk(4, 0, 2, "nope")
	h.enc.Flush()
	lerr, ok := h.next().(styxproto.Rlerror)
	if !ok {
		t.Fatalf("expected Rlerror, got %T", h.dec.Msg())
	}
	if lerr.Ecode() != 2 {
		t.Errorf("ecode = %d, want 2 (ENOENT)", lerr.Ecode())
	}
}

// S6 — exceeding max_walk_depth fails the walk with ELOOP at the
// component that would push depth past the configured maximum, and
// installs no fid.
func TestMaxWalkDepthExceeded(t *testing.T) {
	srv := newTestServer()
	srv.MaxWalkDepth = 3
	h := newHarness(t, srv)
	attachRoot(t, h)

	mkdir(t, h, 0, "a")
	mkdirAt(t, h, "a", "b")
	mkdirAtPath(t, h, []string{"a", "b"}, "c")
	mkdirAtPath(t, h, []string{"a", "b", "c"}, "d")

	h.enc.Twalk(5, 0, 9, "a", "b", "c", "d")
	h.enc.Flush()
	lerr, ok := h.next().(styxproto.Rlerror)
	if !ok {
		t.Fatalf("expected Rlerror, got %T", h.dec.Msg())
	}
	if lerr.Ecode() != 40 {
		t.Errorf("ecode = %d, want 40 (ELOOP)", lerr.Ecode())
	}

	h.enc.Tgetattr(6, 9, 0)
	h.enc.Flush()
	if _, ok := h.next().(styxproto.Rlerror); !ok {
		t.Fatalf("expected fid 9 to be un-installed")
	}
}

// Flush of an already-completed tag acknowledges immediately instead
// of blocking: the dispatcher treats an unknown tag as already done.
func TestFlushUnknownTagIsNoop(t *testing.T) {
	srv := newTestServer()
	h := newHarness(t, srv)
	attachRoot(t, h)

	h.enc.Tflush(99, 12345)
	h.enc.Flush()

	done := make(chan struct{})
	go func() {
		if _, ok := h.next().(styxproto.Rflush); !ok {
			t.Errorf("expected Rflush, got %T", h.dec.Msg())
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Rflush for unknown tag never arrived")
	}
}

func mkdir(t *testing.T, h *harness, dfid uint32, name string) {
	t.Helper()
	h.enc.Tmkdir(100, dfid, name, 0755, 0)
	h.enc.Flush()
	if _, ok := h.next().(styxproto.Rmkdir); !ok {
		t.Fatalf("Tmkdir(%q): expected Rmkdir, got %T", name, h.dec.Msg())
	}
}

// mkdirAt walks to parent, then creates name inside it, using a
// scratch fid it clunks afterward.
func mkdirAt(t *testing.T, h *harness, parent, name string) {
	t.Helper()
	mkdirAtPath(t, h, []string{parent}, name)
}

func mkdirAtPath(t *testing.T, h *harness, path []string, name string) {
	t.Helper()
	const scratch = 50
	h.enc.Twalk(101, 0, scratch, path...)
	h.enc.Flush()
	if _, ok := h.next().(styxproto.Rwalk); !ok {
		t.Fatalf("walk to %v: expected Rwalk, got %T", path, h.dec.Msg())
	}
	mkdir(t, h, scratch, name)
	h.enc.Tclunk(102, scratch)
	h.enc.Flush()
	if _, ok := h.next().(styxproto.Rclunk); !ok {
		t.Fatalf("expected Rclunk, got %T", h.dec.Msg())
	}
}
