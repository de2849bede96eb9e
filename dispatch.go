package styxl

import (
	"context"
	"syscall"

	"github.com/ninelib/styxl/errno"
	"github.com/ninelib/styxl/styxproto"
)

// minMsize is the smallest msize the dispatcher will ever negotiate:
// enough headroom for the largest fixed-size message header plus a
// short string field.
const minMsize = 256

// dispatch is the entry point called once per decoded message. It
// enforces protocol phase, then either handles a message inline
// (Tversion, the fatal paths) or hands it to a goroutine so that slow
// back-end calls don't stall the read loop.
func (c *conn) dispatch(m styxproto.Msg) {
	if bad, ok := m.(styxproto.BadMessage); ok {
		c.replyErrno(bad.Tag(), errno.Of(errno.Protocol))
		c.abort()
		return
	}

	if tv, ok := m.(styxproto.Tversion); ok {
		c.handleVersion(tv)
		return
	}

	if c.getState() != stateVersioned {
		c.replyErrno(m.Tag(), errno.Of(errno.Protocol))
		c.abort()
		return
	}

	if tf, ok := m.(styxproto.Tflush); ok {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.handleFlush(tf)
		}()
		return
	}

	if m.Len() > int64(c.getMsize()) {
		c.replyErrno(m.Tag(), errno.Of(errno.Msize))
		return
	}

	ctx, finish, ok := c.register(m.Tag())
	if !ok {
		// tag reuse while the original request is still outstanding
		c.replyErrno(m.Tag(), syscall.EPROTO)
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer finish()
		c.dispatchVersioned(ctx, m)
	}()
}

// handleVersion implements the version/msize negotiation that happens
// entirely outside the tag-tracked request machinery: it runs on the
// read-loop goroutine and never spawns a child.
func (c *conn) handleVersion(tv styxproto.Tversion) {
	if c.getState() == stateVersioned {
		c.resetForVersion()
		c.setState(stateUnversioned)
	}

	msize := tv.Msize()
	if msize < minMsize {
		c.replyErrno(tv.Tag(), syscall.EINVAL)
		c.abort()
		return
	}
	if ceiling := c.srv.msizeCeiling(); msize > ceiling {
		msize = ceiling
	}

	version := "unknown"
	if isL9Version(tv.Version()) {
		version = "9P2000.L"
	}

	if err := c.enc.Rversion(msize, version); err != nil {
		c.srv.logf("connection %s: Rversion: %v", c.id, err)
		c.abort()
		return
	}
	if err := c.enc.Flush(); err != nil {
		c.srv.logf("connection %s: flush: %v", c.id, err)
		c.abort()
		return
	}

	c.setMsize(msize)
	if version == "9P2000.L" {
		c.setState(stateVersioned)
	}
}

// handleFlush cancels the request registered for oldtag and waits for
// it to stop touching the wire before acknowledging.
func (c *conn) handleFlush(tf styxproto.Tflush) {
	c.flush(tf.Oldtag())
	if err := c.enc.Rflush(tf.Tag()); err != nil {
		c.srv.logf("connection %s: Rflush: %v", c.id, err)
		return
	}
	c.flushReply()
}

// dispatchVersioned routes one request to its handler. It runs on a
// per-request goroutine; ctx is canceled if the request is flushed.
func (c *conn) dispatchVersioned(ctx context.Context, m styxproto.Msg) {
	done := observeRequest(msgName(m))
	var err error
	switch m := m.(type) {
	case styxproto.Tattach:
		err = c.handleAttach(ctx, m)
	case styxproto.Tauth:
		err = c.handleAuth(ctx, m)
	case styxproto.Twalk:
		err = c.handleWalk(ctx, m)
	case styxproto.Tlopen:
		err = c.handleLopen(ctx, m)
	case styxproto.Tlcreate:
		err = c.handleLcreate(ctx, m)
	case styxproto.Tsymlink:
		err = c.handleSymlink(ctx, m)
	case styxproto.Tmknod:
		err = c.handleMknod(ctx, m)
	case styxproto.Tmkdir:
		err = c.handleMkdir(ctx, m)
	case styxproto.Trename:
		err = c.handleRename(ctx, m)
	case styxproto.Treadlink:
		err = c.handleReadlink(ctx, m)
	case styxproto.Tgetattr:
		err = c.handleGetattr(ctx, m)
	case styxproto.Tsetattr:
		err = c.handleSetattr(ctx, m)
	case styxproto.Tstatfs:
		err = c.handleStatfs(ctx, m)
	case styxproto.Txattrwalk:
		err = c.handleXattrwalk(ctx, m)
	case styxproto.Txattrcreate:
		err = c.handleXattrcreate(ctx, m)
	case styxproto.Tlink:
		err = c.handleLink(ctx, m)
	case styxproto.Trenameat:
		err = c.handleRenameat(ctx, m)
	case styxproto.Tunlinkat:
		err = c.handleUnlinkat(ctx, m)
	case styxproto.Tread:
		err = c.handleRead(ctx, m)
	case styxproto.Twrite:
		err = c.handleWrite(ctx, m)
	case styxproto.Treaddir:
		err = c.handleReaddir(ctx, m)
	case styxproto.Tfsync:
		err = c.handleFsync(ctx, m)
	case styxproto.Tlock:
		err = c.handleLock(ctx, m)
	case styxproto.Tgetlock:
		err = c.handleGetlock(ctx, m)
	case styxproto.Tclunk:
		err = c.handleClunk(ctx, m)
	case styxproto.Tremove:
		err = c.handleRemove(ctx, m)
	default:
		c.replyErrno(m.Tag(), syscall.EPROTO)
		err = syscall.EPROTO
	}
	done(err)
}

// --- reply helpers ---

func (c *conn) flushReply() {
	if err := c.enc.Flush(); err != nil {
		c.srv.logf("connection %s: flush: %v", c.id, err)
	}
}

func (c *conn) replyErrno(tag uint16, ecode syscall.Errno) {
	if err := c.enc.Rlerror(tag, uint32(ecode)); err != nil {
		c.srv.logf("connection %s: Rlerror: %v", c.id, err)
		return
	}
	c.flushReply()
}

// finishEncode is called with the error from encoding a successful
// reply. Per §4.3, a reply that turned out too large for the
// negotiated msize is not a transport failure: it becomes
// Rlerror{EMSGSIZE} like any other per-request error, and the
// connection stays open. Any other encode error is a transport
// failure and propagates to close the connection.
func (c *conn) finishEncode(tag uint16, name string, err error) error {
	if err == nil {
		c.flushReply()
		return nil
	}
	if err == styxproto.ErrMsgSize {
		c.replyErrno(tag, syscall.EMSGSIZE)
		return syscall.EMSGSIZE
	}
	c.srv.logf("connection %s: %s: %v", c.id, name, err)
	return err
}

// flushed reports whether ctx was canceled by a Tflush; the spec
// requires that a flushed request never writes its reply.
func flushed(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (c *conn) getFid(tag uint16, fid uint32) (*fidRecord, func(), bool) {
	v, release, ok := c.fids.Get(fid)
	if !ok {
		c.replyErrno(tag, syscall.EBADF)
		return nil, nil, false
	}
	return v.(*fidRecord), release, true
}

// --- handlers ---

func (c *conn) handleAttach(ctx context.Context, m styxproto.Tattach) error {
	if c.fids.Has(m.Fid()) {
		c.replyErrno(m.Tag(), syscall.EMFILE)
		return syscall.EMFILE
	}

	var afidState FidState
	hasAfid := m.Afid() != styxproto.NoFid
	var afidRelease func()
	if hasAfid {
		rec, release, ok := c.getFid(m.Tag(), m.Afid())
		if !ok {
			return syscall.EBADF
		}
		afidState = rec.state
		afidRelease = release
		defer afidRelease()
	}

	state, qid, err := c.srv.Backend.Attach(ctx, afidState, hasAfid, string(m.Uname()), string(m.Aname()), m.Nuname())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}

	if insertErr := c.fids.Insert(m.Fid(), &fidRecord{state: state}); insertErr != nil {
		c.srv.Backend.Release(state)
		c.replyErrno(m.Tag(), syscall.EMFILE)
		return syscall.EMFILE
	}

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rattach(m.Tag(), qid); err != nil {
		c.srv.logf("connection %s: Rattach: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleAuth(ctx context.Context, m styxproto.Tauth) error {
	ab := c.srv.AuthBackend
	if ab == nil {
		c.replyErrno(m.Tag(), syscall.EOPNOTSUPP)
		return syscall.EOPNOTSUPP
	}
	if c.fids.Has(m.Afid()) {
		c.replyErrno(m.Tag(), syscall.EMFILE)
		return syscall.EMFILE
	}

	state, qid, err := ab.Auth(ctx, string(m.Uname()), string(m.Aname()), m.Nuname())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}

	if insertErr := c.fids.Insert(m.Afid(), &fidRecord{state: state}); insertErr != nil {
		c.srv.Backend.Release(state)
		c.replyErrno(m.Tag(), syscall.EMFILE)
		return syscall.EMFILE
	}

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rauth(m.Tag(), qid); err != nil {
		c.srv.logf("connection %s: Rauth: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleWalk(ctx context.Context, m styxproto.Twalk) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	n := m.Nwname()
	samefid := m.Newfid() == m.Fid()
	if samefid && n > 0 {
		c.replyErrno(m.Tag(), syscall.EINVAL)
		return syscall.EINVAL
	}

	if n == 0 {
		newState, _, err := c.srv.Backend.Walk(ctx, rec.state, nil)
		if err != nil {
			ecode := errno.FromError(err)
			c.replyErrno(m.Tag(), ecode)
			return ecode
		}
		// An in-place clone goes through fids.Replace, which waits for
		// every Get reference on the fid, including this one.
		release()
		if !c.installWalked(m.Tag(), m.Newfid(), samefid, &fidRecord{state: newState, depth: rec.depth}) {
			return syscall.EMFILE
		}
		if flushed(ctx) {
			return nil
		}
		if err := c.enc.Rwalk(m.Tag()); err != nil {
			c.srv.logf("connection %s: Rwalk: %v", c.id, err)
			return err
		}
		c.flushReply()
		return nil
	}

	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = string(m.Wname(i))
	}

	allowed, final := walkDepth(rec.depth, names, c.srv.MaxWalkDepth)
	if allowed < len(names) {
		c.replyErrno(m.Tag(), syscall.ELOOP)
		return syscall.ELOOP
	}

	newState, qids, err := c.srv.Backend.Walk(ctx, rec.state, names)
	if err != nil {
		if len(qids) == 0 {
			ecode := errno.FromError(err)
			c.replyErrno(m.Tag(), ecode)
			return ecode
		}
		// partial walk: reply with the qids reached, install nothing
		if flushed(ctx) {
			return nil
		}
		if err := c.enc.Rwalk(m.Tag(), qids...); err != nil {
			c.srv.logf("connection %s: Rwalk: %v", c.id, err)
			return err
		}
		c.flushReply()
		return nil
	}

	if !c.installWalked(m.Tag(), m.Newfid(), samefid, &fidRecord{state: newState, depth: final}) {
		return syscall.EMFILE
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rwalk(m.Tag(), qids...); err != nil {
		c.srv.logf("connection %s: Rwalk: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

// installWalked installs a newly walked fid-state, releasing it
// instead if installation fails (collision on a distinct newfid) so
// that a rejected walk never leaks a back-end handle. In the samefid
// (in-place revalidation) case, Walk always hands back a freshly
// IncRef'd handle on the same node, so the fid's previous handle must
// be released here or its reference is leaked forever.
func (c *conn) installWalked(tag uint16, newfid uint32, samefid bool, rec *fidRecord) bool {
	if samefid {
		if old, ok := c.fids.Replace(newfid, rec); ok {
			c.releaseRecord(old)
		}
		return true
	}
	if err := c.fids.Insert(newfid, rec); err != nil {
		c.srv.Backend.Release(rec.state)
		c.replyErrno(tag, syscall.EMFILE)
		return false
	}
	return true
}

// releaseRecord releases the back-end state held by a fidRecord
// displaced from the table by Replace, as opposed to the raw
// FidState values Get/Remove/Drain deal in.
func (c *conn) releaseRecord(old interface{}) {
	if rec, ok := old.(*fidRecord); ok && rec != nil {
		c.srv.Backend.Release(rec.state)
	}
}

func (c *conn) handleLopen(ctx context.Context, m styxproto.Tlopen) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	qid, iounit, err := c.srv.Backend.Open(ctx, rec.state, m.Flags())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rlopen(m.Tag(), qid, iounit); err != nil {
		c.srv.logf("connection %s: Rlopen: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleLcreate(ctx context.Context, m styxproto.Tlcreate) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	newState, qid, iounit, err := c.srv.Backend.Create(ctx, rec.state, string(m.Name()), m.Flags(), m.Mode(), m.Gid())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	// Create transitions fid from the directory to the new file; the
	// directory handle it used to hold is done and must be released,
	// unlike Txattrcreate's in-place repoint of the same node. Replace
	// waits for every Get reference on fid, so ours is dropped first.
	release()
	if old, ok := c.fids.Replace(m.Fid(), &fidRecord{state: newState, depth: rec.depth}); ok {
		c.releaseRecord(old)
	}

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rlcreate(m.Tag(), qid, iounit); err != nil {
		c.srv.logf("connection %s: Rlcreate: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleSymlink(ctx context.Context, m styxproto.Tsymlink) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	newState, qid, err := c.srv.Backend.Symlink(ctx, rec.state, string(m.Name()), string(m.Symtgt()), m.Gid())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	// the wire protocol has no fid for the new symlink
	c.srv.Backend.Release(newState)

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rsymlink(m.Tag(), qid); err != nil {
		c.srv.logf("connection %s: Rsymlink: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleMknod(ctx context.Context, m styxproto.Tmknod) error {
	rec, release, ok := c.getFid(m.Tag(), m.Dfid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	qid, err := c.srv.Backend.Mknod(ctx, rec.state, string(m.Name()), m.Mode(), m.Major(), m.Minor(), m.Gid())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rmknod(m.Tag(), qid); err != nil {
		c.srv.logf("connection %s: Rmknod: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleMkdir(ctx context.Context, m styxproto.Tmkdir) error {
	rec, release, ok := c.getFid(m.Tag(), m.Dfid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	qid, err := c.srv.Backend.Mkdir(ctx, rec.state, string(m.Name()), m.Mode(), m.Gid())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rmkdir(m.Tag(), qid); err != nil {
		c.srv.logf("connection %s: Rmkdir: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleRename(ctx context.Context, m styxproto.Trename) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()
	drec, drelease, ok := c.getFid(m.Tag(), m.Dfid())
	if !ok {
		return syscall.EBADF
	}
	defer drelease()

	err := c.srv.Backend.Rename(ctx, rec.state, drec.state, string(m.Name()))
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rrename(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rrename: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleReadlink(ctx context.Context, m styxproto.Treadlink) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	target, err := c.srv.Backend.Readlink(ctx, rec.state)
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	return c.finishEncode(m.Tag(), "Rreadlink", c.enc.Rreadlink(m.Tag(), target))
}

func (c *conn) handleGetattr(ctx context.Context, m styxproto.Tgetattr) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	a, err := c.srv.Backend.GetAttr(ctx, rec.state, m.RequestMask())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rgetattr(m.Tag(), a.Valid, a.Qid, a.Mode, a.Uid, a.Gid, a.Nlink, a.Rdev, a.Size, a.Blksize, a.Blocks,
		a.AtimeSec, a.AtimeNsec, a.MtimeSec, a.MtimeNsec, a.CtimeSec, a.CtimeNsec, a.BtimeSec, a.BtimeNsec, a.Gen, a.DataVersion); err != nil {
		c.srv.logf("connection %s: Rgetattr: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleSetattr(ctx context.Context, m styxproto.Tsetattr) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	attr := SetAttr{
		Valid:     m.Valid(),
		Mode:      m.Mode(),
		Uid:       m.Uid(),
		Gid:       m.Gid(),
		Size:      m.Size(),
		AtimeSec:  m.AtimeSec(),
		AtimeNsec: m.AtimeNsec(),
		MtimeSec:  m.MtimeSec(),
		MtimeNsec: m.MtimeNsec(),
	}
	if err := c.srv.Backend.SetAttr(ctx, rec.state, attr); err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rsetattr(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rsetattr: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleStatfs(ctx context.Context, m styxproto.Tstatfs) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	s, err := c.srv.Backend.Statfs(ctx, rec.state)
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rstatfs(m.Tag(), s.Type, s.Bsize, s.Blocks, s.Bfree, s.Bavail, s.Files, s.Ffree, s.Fsid, s.Namelen); err != nil {
		c.srv.logf("connection %s: Rstatfs: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleXattrwalk(ctx context.Context, m styxproto.Txattrwalk) error {
	if c.fids.Has(m.Newfid()) {
		c.replyErrno(m.Tag(), syscall.EMFILE)
		return syscall.EMFILE
	}
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	newState, size, err := c.srv.Backend.XattrWalk(ctx, rec.state, string(m.Name()))
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if insertErr := c.fids.Insert(m.Newfid(), &fidRecord{state: newState}); insertErr != nil {
		c.srv.Backend.Release(newState)
		c.replyErrno(m.Tag(), syscall.EMFILE)
		return syscall.EMFILE
	}

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rxattrwalk(m.Tag(), size); err != nil {
		c.srv.logf("connection %s: Rxattrwalk: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleXattrcreate(ctx context.Context, m styxproto.Txattrcreate) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	newState, err := c.srv.Backend.XattrCreate(ctx, rec.state, string(m.Name()), m.AttrSize(), m.Flags())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	// XattrCreate repoints fid at the same node without taking a new
	// reference (see Backend.Release's xattrWrite case), so the
	// displaced record must not be released here: that would drop the
	// node's only remaining reference out from under the new handle.
	// Replace waits for every Get reference on fid, so ours is dropped
	// first.
	release()
	c.fids.Replace(m.Fid(), &fidRecord{state: newState, depth: rec.depth})

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rxattrcreate(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rxattrcreate: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleLink(ctx context.Context, m styxproto.Tlink) error {
	drec, drelease, ok := c.getFid(m.Tag(), m.Dfid())
	if !ok {
		return syscall.EBADF
	}
	defer drelease()
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	err := c.srv.Backend.Link(ctx, drec.state, rec.state, string(m.Name()))
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rlink(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rlink: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleRenameat(ctx context.Context, m styxproto.Trenameat) error {
	oldrec, oldrelease, ok := c.getFid(m.Tag(), m.Olddirfid())
	if !ok {
		return syscall.EBADF
	}
	defer oldrelease()
	newrec, newrelease, ok := c.getFid(m.Tag(), m.Newdirfid())
	if !ok {
		return syscall.EBADF
	}
	defer newrelease()

	err := c.srv.Backend.RenameAt(ctx, oldrec.state, string(m.Oldname()), newrec.state, string(m.Newname()))
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rrenameat(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rrenameat: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleUnlinkat(ctx context.Context, m styxproto.Tunlinkat) error {
	rec, release, ok := c.getFid(m.Tag(), m.Dirfid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	err := c.srv.Backend.UnlinkAt(ctx, rec.state, string(m.Name()), m.Flags())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Runlinkat(m.Tag()); err != nil {
		c.srv.logf("connection %s: Runlinkat: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

// readHeaderLen is the fixed portion of an Rread reply ahead of its
// data: size[4] type[1] tag[2] count[4].
const readHeaderLen = 11

func (c *conn) handleRead(ctx context.Context, m styxproto.Tread) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	count := m.Count()
	if budget := c.getMsize() - readHeaderLen; count > budget {
		count = budget
	}

	data, err := c.srv.Backend.Read(ctx, rec.state, m.Offset(), count)
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if uint32(len(data)) > count {
		c.replyErrno(m.Tag(), syscall.EMSGSIZE)
		return syscall.EMSGSIZE
	}
	if flushed(ctx) {
		return nil
	}
	if _, err := c.enc.Rread(m.Tag(), data); err != nil {
		c.srv.logf("connection %s: Rread: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleWrite(ctx context.Context, m styxproto.Twrite) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	n, err := c.srv.Backend.Write(ctx, rec.state, m.Offset(), m.Data())
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rwrite(m.Tag(), n); err != nil {
		c.srv.logf("connection %s: Rwrite: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleReaddir(ctx context.Context, m styxproto.Treaddir) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	count := m.Count()
	if budget := c.getMsize() - readHeaderLen; count > budget {
		count = budget
	}

	dirents, err := c.srv.Backend.Readdir(ctx, rec.state, m.Offset(), count)
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}

	buf := make([]byte, 0, count)
	for _, d := range dirents {
		entryLen := 24 + len(d.Name)
		if uint32(len(buf)+entryLen) > count {
			break
		}
		buf = buf[:len(buf)+entryLen]
		styxproto.PutDirent(buf[len(buf)-entryLen:], d.Qid, d.Offset, d.Type, d.Name)
	}

	if flushed(ctx) {
		return nil
	}
	if _, err := c.enc.Rreaddir(m.Tag(), buf); err != nil {
		c.srv.logf("connection %s: Rreaddir: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleFsync(ctx context.Context, m styxproto.Tfsync) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	if err := c.srv.Backend.Fsync(ctx, rec.state); err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rfsync(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rfsync: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleLock(ctx context.Context, m styxproto.Tlock) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	lk := Lock{
		Type:     uint32(m.Type()),
		Flags:    m.Flags(),
		Start:    m.Start(),
		Length:   m.Length(),
		ProcID:   m.ProcID(),
		ClientID: string(m.ClientID()),
	}
	status, err := c.srv.Backend.Lock(ctx, rec.state, lk)
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rlock(m.Tag(), status); err != nil {
		c.srv.logf("connection %s: Rlock: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleGetlock(ctx context.Context, m styxproto.Tgetlock) error {
	rec, release, ok := c.getFid(m.Tag(), m.Fid())
	if !ok {
		return syscall.EBADF
	}
	defer release()

	lk := GetLock{
		Type:     uint32(m.Type()),
		Start:    m.Start(),
		Length:   m.Length(),
		ProcID:   m.ProcID(),
		ClientID: string(m.ClientID()),
	}
	result, err := c.srv.Backend.GetLock(ctx, rec.state, lk)
	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	err = c.enc.Rgetlock(m.Tag(), uint8(result.Type), result.Start, result.Length, result.ProcID, result.ClientID)
	return c.finishEncode(m.Tag(), "Rgetlock", err)
}

func (c *conn) handleClunk(ctx context.Context, m styxproto.Tclunk) error {
	state, ok := c.fids.Remove(m.Fid())
	if !ok {
		c.replyErrno(m.Tag(), syscall.EBADF)
		return syscall.EBADF
	}
	rec := state.(*fidRecord)
	c.srv.Backend.Release(rec.state)

	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rclunk(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rclunk: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

func (c *conn) handleRemove(ctx context.Context, m styxproto.Tremove) error {
	state, ok := c.fids.Remove(m.Fid())
	if !ok {
		c.replyErrno(m.Tag(), syscall.EBADF)
		return syscall.EBADF
	}
	rec := state.(*fidRecord)

	// a failed Remove still takes the fid out of the table and still
	// releases it
	err := c.srv.Backend.Remove(ctx, rec.state)
	c.srv.Backend.Release(rec.state)

	if err != nil {
		ecode := errno.FromError(err)
		c.replyErrno(m.Tag(), ecode)
		return ecode
	}
	if flushed(ctx) {
		return nil
	}
	if err := c.enc.Rremove(m.Tag()); err != nil {
		c.srv.logf("connection %s: Rremove: %v", c.id, err)
		return err
	}
	c.flushReply()
	return nil
}

// msgName returns the metric label for a dispatched message.
func msgName(m styxproto.Msg) string {
	switch m.(type) {
	case styxproto.Tattach:
		return "attach"
	case styxproto.Tauth:
		return "auth"
	case styxproto.Twalk:
		return "walk"
	case styxproto.Tlopen:
		return "lopen"
	case styxproto.Tlcreate:
		return "lcreate"
	case styxproto.Tsymlink:
		return "symlink"
	case styxproto.Tmknod:
		return "mknod"
	case styxproto.Tmkdir:
		return "mkdir"
	case styxproto.Trename:
		return "rename"
	case styxproto.Treadlink:
		return "readlink"
	case styxproto.Tgetattr:
		return "getattr"
	case styxproto.Tsetattr:
		return "setattr"
	case styxproto.Tstatfs:
		return "statfs"
	case styxproto.Txattrwalk:
		return "xattrwalk"
	case styxproto.Txattrcreate:
		return "xattrcreate"
	case styxproto.Tlink:
		return "link"
	case styxproto.Trenameat:
		return "renameat"
	case styxproto.Tunlinkat:
		return "unlinkat"
	case styxproto.Tread:
		return "read"
	case styxproto.Twrite:
		return "write"
	case styxproto.Treaddir:
		return "readdir"
	case styxproto.Tfsync:
		return "fsync"
	case styxproto.Tlock:
		return "lock"
	case styxproto.Tgetlock:
		return "getlock"
	case styxproto.Tclunk:
		return "clunk"
	case styxproto.Tremove:
		return "remove"
	default:
		return "unknown"
	}
}
