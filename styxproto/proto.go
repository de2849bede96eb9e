package styxproto

import "fmt"

// This package does not unmarshal messages into structures. Instead,
// the underlying bytes are kept as-is and fields are parsed on demand
// via methods, following the msg helper type in msg.go.

// Tversion negotiates the maximum message size and protocol version
// for a connection, and must be the first message sent. A Tversion on
// an already-versioned connection resets it: every outstanding
// request is aborted and every fid is released.
type Tversion msg

func (m Tversion) Tag() uint16     { return msg(m).Tag() }
func (m Tversion) Len() int64      { return msg(m).Len() }
func (m Tversion) Msize() uint32   { return guint32(m[7:11]) }
func (m Tversion) Version() []byte { return msg(m).nthField(11, 0) }
func (m Tversion) String() string {
	return fmt.Sprintf("Tversion msize=%d version=%q", m.Msize(), m.Version())
}

// Rversion answers a Tversion with the msize and protocol version the
// server has chosen; both must be less than or equal to what the
// client proposed.
type Rversion msg

func (m Rversion) Tag() uint16     { return msg(m).Tag() }
func (m Rversion) Len() int64      { return msg(m).Len() }
func (m Rversion) Msize() uint32   { return guint32(m[7:11]) }
func (m Rversion) Version() []byte { return msg(m).nthField(11, 0) }
func (m Rversion) String() string {
	return fmt.Sprintf("Rversion msize=%d version=%q", m.Msize(), m.Version())
}

// Tauth begins authentication of a user on a connection; afid becomes
// an authentication file the client performs I/O on to complete
// whatever auth protocol the server requires.
type Tauth msg

func (m Tauth) Tag() uint16    { return msg(m).Tag() }
func (m Tauth) Len() int64     { return msg(m).Len() }
func (m Tauth) Afid() uint32   { return guint32(m[7:11]) }
func (m Tauth) Uname() []byte  { return msg(m).nthField(11, 0) }
func (m Tauth) Aname() []byte  { return msg(m).nthField(11, 1) }
func (m Tauth) Nuname() uint32 { return guint32(m[msg(m).fieldEnd(11, 1):][:4]) }
func (m Tauth) String() string {
	return fmt.Sprintf("Tauth afid=%x uname=%q aname=%q", m.Afid(), m.Uname(), m.Aname())
}

// Rauth returns the qid of the afid established by a Tauth, always of
// type QTAUTH.
type Rauth msg

func (m Rauth) Tag() uint16    { return msg(m).Tag() }
func (m Rauth) Len() int64     { return msg(m).Len() }
func (m Rauth) Aqid() Qid      { return Qid(m[7:20]) }
func (m Rauth) String() string { return fmt.Sprintf("Rauth aqid=%v", m.Aqid()) }

// Tattach introduces a user to the file tree named by aname, binding
// fid to its root. Afid, if not NoFid, must reference a completed
// Tauth exchange.
type Tattach msg

func (m Tattach) Tag() uint16    { return msg(m).Tag() }
func (m Tattach) Len() int64     { return msg(m).Len() }
func (m Tattach) Fid() uint32    { return guint32(m[7:11]) }
func (m Tattach) Afid() uint32   { return guint32(m[11:15]) }
func (m Tattach) Uname() []byte  { return msg(m).nthField(15, 0) }
func (m Tattach) Aname() []byte  { return msg(m).nthField(15, 1) }
func (m Tattach) Nuname() uint32 { return guint32(m[msg(m).fieldEnd(15, 1):][:4]) }
func (m Tattach) String() string {
	return fmt.Sprintf("Tattach fid=%x afid=%x uname=%q aname=%q",
		m.Fid(), m.Afid(), m.Uname(), m.Aname())
}

// Rattach replies with the qid of the root of the attached tree.
type Rattach msg

func (m Rattach) Tag() uint16    { return msg(m).Tag() }
func (m Rattach) Len() int64     { return msg(m).Len() }
func (m Rattach) Qid() Qid       { return Qid(m[7:20]) }
func (m Rattach) String() string { return fmt.Sprintf("Rattach qid=%v", m.Qid()) }

// Rlerror replaces every error reply in 9P2000.L: rather than a
// textual Rerror, the server returns a bare Linux errno.
type Rlerror msg

func (m Rlerror) Tag() uint16    { return msg(m).Tag() }
func (m Rlerror) Len() int64     { return msg(m).Len() }
func (m Rlerror) Ecode() uint32  { return guint32(m[7:11]) }
func (m Rlerror) Error() string  { return fmt.Sprintf("errno %d", m.Ecode()) }
func (m Rlerror) String() string { return m.Error() }

// Tflush cancels a pending request named by Oldtag. If Oldtag's
// request still produces a reply, that reply is sent before the
// Rflush; a request canceled by the flush gets no reply at all.
type Tflush msg

func (m Tflush) Tag() uint16    { return msg(m).Tag() }
func (m Tflush) Len() int64     { return msg(m).Len() }
func (m Tflush) Oldtag() uint16 { return guint16(m[7:9]) }
func (m Tflush) String() string { return fmt.Sprintf("Tflush oldtag=%x", m.Oldtag()) }

// Rflush carries no fields; it confirms the flush has taken effect.
type Rflush msg

func (m Rflush) Tag() uint16    { return msg(m).Tag() }
func (m Rflush) Len() int64     { return msg(m).Len() }
func (m Rflush) String() string { return "Rflush" }

// Twalk descends, one path element at a time, from Fid and associates
// the final element reached with Newfid. A zero-length walk (Nwname
// == 0) clones Fid onto Newfid without touching the backing store.
type Twalk msg

func (m Twalk) Tag() uint16         { return msg(m).Tag() }
func (m Twalk) Len() int64          { return msg(m).Len() }
func (m Twalk) Fid() uint32         { return guint32(m[7:11]) }
func (m Twalk) Newfid() uint32      { return guint32(m[11:15]) }
func (m Twalk) Nwname() int         { return int(guint16(m[15:17])) }
func (m Twalk) Wname(n int) []byte  { return msg(m).nthField(17, n) }
func (m Twalk) String() string {
	return fmt.Sprintf("Twalk fid=%x newfid=%x nwname=%d", m.Fid(), m.Newfid(), m.Nwname())
}

// Rwalk replies with one qid per path element successfully walked. A
// short Rwalk (Nwqid < Twalk.Nwname) means the walk stopped partway;
// Newfid is installed only if Nwqid == Twalk.Nwname.
type Rwalk msg

func (m Rwalk) Tag() uint16       { return msg(m).Tag() }
func (m Rwalk) Len() int64        { return msg(m).Len() }
func (m Rwalk) Nwqid() int        { return int(guint16(m[7:9])) }
func (m Rwalk) Wqid(n int) Qid    { return Qid(m[9+n*QidLen : 9+n*QidLen+QidLen]) }
func (m Rwalk) String() string    { return fmt.Sprintf("Rwalk nwqid=%d", m.Nwqid()) }

// Tlopen prepares a fid, previously established by Twalk or Tattach,
// for I/O. Flags follow Linux open(2) semantics (O_RDONLY, O_RDWR,
// O_TRUNC, and so on).
type Tlopen msg

func (m Tlopen) Tag() uint16   { return msg(m).Tag() }
func (m Tlopen) Len() int64    { return msg(m).Len() }
func (m Tlopen) Fid() uint32   { return guint32(m[7:11]) }
func (m Tlopen) Flags() uint32 { return guint32(m[11:15]) }
func (m Tlopen) String() string {
	return fmt.Sprintf("Tlopen fid=%x flags=%#o", m.Fid(), m.Flags())
}

// Rlopen confirms a Tlopen, returning the qid of the opened file and
// a suggested I/O unit size (0 means "no preference").
type Rlopen msg

func (m Rlopen) Tag() uint16    { return msg(m).Tag() }
func (m Rlopen) Len() int64     { return msg(m).Len() }
func (m Rlopen) Qid() Qid       { return Qid(m[7:20]) }
func (m Rlopen) IOunit() uint32 { return guint32(m[20:24]) }
func (m Rlopen) String() string {
	return fmt.Sprintf("Rlopen qid=%v iounit=%d", m.Qid(), m.IOunit())
}

// Tlcreate creates and opens a new regular file as a child of Fid.
type Tlcreate msg

func (m Tlcreate) Tag() uint16  { return msg(m).Tag() }
func (m Tlcreate) Len() int64   { return msg(m).Len() }
func (m Tlcreate) Fid() uint32  { return guint32(m[7:11]) }
func (m Tlcreate) Name() []byte { return msg(m).nthField(11, 0) }
func (m Tlcreate) Flags() uint32 {
	off := msg(m).fieldEnd(11, 0)
	return guint32(m[off : off+4])
}
func (m Tlcreate) Mode() uint32 {
	off := msg(m).fieldEnd(11, 0) + 4
	return guint32(m[off : off+4])
}
func (m Tlcreate) Gid() uint32 {
	off := msg(m).fieldEnd(11, 0) + 8
	return guint32(m[off : off+4])
}
func (m Tlcreate) String() string {
	return fmt.Sprintf("Tlcreate fid=%x name=%q mode=%#o", m.Fid(), m.Name(), m.Mode())
}

// Rlcreate confirms a Tlcreate, in the same shape as Rlopen.
type Rlcreate msg

func (m Rlcreate) Tag() uint16    { return msg(m).Tag() }
func (m Rlcreate) Len() int64     { return msg(m).Len() }
func (m Rlcreate) Qid() Qid       { return Qid(m[7:20]) }
func (m Rlcreate) IOunit() uint32 { return guint32(m[20:24]) }
func (m Rlcreate) String() string {
	return fmt.Sprintf("Rlcreate qid=%v iounit=%d", m.Qid(), m.IOunit())
}

// Tsymlink creates a symbolic link named Name, pointing at Symtgt, as
// a child of Fid.
type Tsymlink msg

func (m Tsymlink) Tag() uint16   { return msg(m).Tag() }
func (m Tsymlink) Len() int64    { return msg(m).Len() }
func (m Tsymlink) Fid() uint32   { return guint32(m[7:11]) }
func (m Tsymlink) Name() []byte  { return msg(m).nthField(11, 0) }
func (m Tsymlink) Symtgt() []byte { return msg(m).nthField(11, 1) }
func (m Tsymlink) Gid() uint32 {
	off := msg(m).fieldEnd(11, 1)
	return guint32(m[off : off+4])
}
func (m Tsymlink) String() string {
	return fmt.Sprintf("Tsymlink fid=%x name=%q -> %q", m.Fid(), m.Name(), m.Symtgt())
}

// Rsymlink returns the qid of the newly-created symlink.
type Rsymlink msg

func (m Rsymlink) Tag() uint16    { return msg(m).Tag() }
func (m Rsymlink) Len() int64     { return msg(m).Len() }
func (m Rsymlink) Qid() Qid       { return Qid(m[7:20]) }
func (m Rsymlink) String() string { return fmt.Sprintf("Rsymlink qid=%v", m.Qid()) }

// Tmknod creates a device special file, fifo, or socket as a child of
// Dfid. Major/minor are meaningful only for character and block
// devices.
type Tmknod msg

func (m Tmknod) Tag() uint16  { return msg(m).Tag() }
func (m Tmknod) Len() int64   { return msg(m).Len() }
func (m Tmknod) Dfid() uint32 { return guint32(m[7:11]) }
func (m Tmknod) Name() []byte { return msg(m).nthField(11, 0) }
func (m Tmknod) Mode() uint32 {
	off := msg(m).fieldEnd(11, 0)
	return guint32(m[off : off+4])
}
func (m Tmknod) Major() uint32 {
	off := msg(m).fieldEnd(11, 0) + 4
	return guint32(m[off : off+4])
}
func (m Tmknod) Minor() uint32 {
	off := msg(m).fieldEnd(11, 0) + 8
	return guint32(m[off : off+4])
}
func (m Tmknod) Gid() uint32 {
	off := msg(m).fieldEnd(11, 0) + 12
	return guint32(m[off : off+4])
}
func (m Tmknod) String() string {
	return fmt.Sprintf("Tmknod dfid=%x name=%q mode=%#o", m.Dfid(), m.Name(), m.Mode())
}

// Rmknod returns the qid of the new node.
type Rmknod msg

func (m Rmknod) Tag() uint16    { return msg(m).Tag() }
func (m Rmknod) Len() int64     { return msg(m).Len() }
func (m Rmknod) Qid() Qid       { return Qid(m[7:20]) }
func (m Rmknod) String() string { return fmt.Sprintf("Rmknod qid=%v", m.Qid()) }

// Trename renames the file named by Fid to Name, as a child of Dfid
// (which may equal Fid's current parent, for a plain rename).
type Trename msg

func (m Trename) Tag() uint16  { return msg(m).Tag() }
func (m Trename) Len() int64   { return msg(m).Len() }
func (m Trename) Fid() uint32  { return guint32(m[7:11]) }
func (m Trename) Dfid() uint32 { return guint32(m[11:15]) }
func (m Trename) Name() []byte { return msg(m).nthField(15, 0) }
func (m Trename) String() string {
	return fmt.Sprintf("Trename fid=%x dfid=%x name=%q", m.Fid(), m.Dfid(), m.Name())
}

// Rrename carries no fields.
type Rrename msg

func (m Rrename) Tag() uint16    { return msg(m).Tag() }
func (m Rrename) Len() int64     { return msg(m).Len() }
func (m Rrename) String() string { return "Rrename" }

// Treadlink reads the target of a symbolic link named by Fid.
type Treadlink msg

func (m Treadlink) Tag() uint16    { return msg(m).Tag() }
func (m Treadlink) Len() int64     { return msg(m).Len() }
func (m Treadlink) Fid() uint32    { return guint32(m[7:11]) }
func (m Treadlink) String() string { return fmt.Sprintf("Treadlink fid=%x", m.Fid()) }

// Rreadlink returns the symlink target.
type Rreadlink msg

func (m Rreadlink) Tag() uint16    { return msg(m).Tag() }
func (m Rreadlink) Len() int64     { return msg(m).Len() }
func (m Rreadlink) Target() []byte { return msg(m).nthField(7, 0) }
func (m Rreadlink) String() string { return fmt.Sprintf("Rreadlink target=%q", m.Target()) }

// Tstatfs requests filesystem-wide statistics, in the manner of
// Unix statfs(2).
type Tstatfs msg

func (m Tstatfs) Tag() uint16    { return msg(m).Tag() }
func (m Tstatfs) Len() int64     { return msg(m).Len() }
func (m Tstatfs) Fid() uint32    { return guint32(m[7:11]) }
func (m Tstatfs) String() string { return fmt.Sprintf("Tstatfs fid=%x", m.Fid()) }

// Rstatfs answers a Tstatfs.
type Rstatfs msg

func (m Rstatfs) Tag() uint16    { return msg(m).Tag() }
func (m Rstatfs) Len() int64     { return msg(m).Len() }
func (m Rstatfs) Type() uint32   { return guint32(m[7:11]) }
func (m Rstatfs) Bsize() uint32  { return guint32(m[11:15]) }
func (m Rstatfs) Blocks() uint64 { return guint64(m[15:23]) }
func (m Rstatfs) Bfree() uint64  { return guint64(m[23:31]) }
func (m Rstatfs) Bavail() uint64 { return guint64(m[31:39]) }
func (m Rstatfs) Files() uint64  { return guint64(m[39:47]) }
func (m Rstatfs) Ffree() uint64  { return guint64(m[47:55]) }
func (m Rstatfs) Fsid() uint64   { return guint64(m[55:63]) }
func (m Rstatfs) Namelen() uint32 { return guint32(m[63:67]) }
func (m Rstatfs) String() string {
	return fmt.Sprintf("Rstatfs blocks=%d bfree=%d bavail=%d", m.Blocks(), m.Bfree(), m.Bavail())
}

// Txattrwalk prepares Newfid to read (via Tread on Newfid) the value
// of the extended attribute Name on the file named by Fid; if Name is
// empty, Newfid is prepared to list all attribute names instead.
type Txattrwalk msg

func (m Txattrwalk) Tag() uint16   { return msg(m).Tag() }
func (m Txattrwalk) Len() int64    { return msg(m).Len() }
func (m Txattrwalk) Fid() uint32   { return guint32(m[7:11]) }
func (m Txattrwalk) Newfid() uint32 { return guint32(m[11:15]) }
func (m Txattrwalk) Name() []byte  { return msg(m).nthField(15, 0) }
func (m Txattrwalk) String() string {
	return fmt.Sprintf("Txattrwalk fid=%x newfid=%x name=%q", m.Fid(), m.Newfid(), m.Name())
}

// Rxattrwalk returns the size, in bytes, of the value a following
// Tread on Newfid will return.
type Rxattrwalk msg

func (m Rxattrwalk) Tag() uint16    { return msg(m).Tag() }
func (m Rxattrwalk) Len() int64     { return msg(m).Len() }
func (m Rxattrwalk) Size() uint64   { return guint64(m[7:15]) }
func (m Rxattrwalk) String() string { return fmt.Sprintf("Rxattrwalk size=%d", m.Size()) }

// Txattrcreate prepares Fid to set the value of extended attribute
// Name via a following Twrite; the attribute is committed on Tclunk.
type Txattrcreate msg

func (m Txattrcreate) Tag() uint16    { return msg(m).Tag() }
func (m Txattrcreate) Len() int64     { return msg(m).Len() }
func (m Txattrcreate) Fid() uint32    { return guint32(m[7:11]) }
func (m Txattrcreate) Name() []byte   { return msg(m).nthField(11, 0) }
func (m Txattrcreate) AttrSize() uint64 {
	off := msg(m).fieldEnd(11, 0)
	return guint64(m[off : off+8])
}
func (m Txattrcreate) Flags() uint32 {
	off := msg(m).fieldEnd(11, 0) + 8
	return guint32(m[off : off+4])
}
func (m Txattrcreate) String() string {
	return fmt.Sprintf("Txattrcreate fid=%x name=%q size=%d", m.Fid(), m.Name(), m.AttrSize())
}

// Rxattrcreate carries no fields.
type Rxattrcreate msg

func (m Rxattrcreate) Tag() uint16    { return msg(m).Tag() }
func (m Rxattrcreate) Len() int64     { return msg(m).Len() }
func (m Rxattrcreate) String() string { return "Rxattrcreate" }

// Tclunk releases a fid. The fid may be reused by a later Twalk once
// the server replies.
type Tclunk msg

func (m Tclunk) Tag() uint16    { return msg(m).Tag() }
func (m Tclunk) Len() int64     { return msg(m).Len() }
func (m Tclunk) Fid() uint32    { return guint32(m[7:11]) }
func (m Tclunk) String() string { return fmt.Sprintf("Tclunk fid=%x", m.Fid()) }

// Rclunk carries no fields.
type Rclunk msg

func (m Rclunk) Tag() uint16    { return msg(m).Tag() }
func (m Rclunk) Len() int64     { return msg(m).Len() }
func (m Rclunk) String() string { return "Rclunk" }

// Tremove unlinks the file named by Fid and then clunks it, whether
// or not the unlink succeeded.
type Tremove msg

func (m Tremove) Tag() uint16    { return msg(m).Tag() }
func (m Tremove) Len() int64     { return msg(m).Len() }
func (m Tremove) Fid() uint32    { return guint32(m[7:11]) }
func (m Tremove) String() string { return fmt.Sprintf("Tremove fid=%x", m.Fid()) }

// Rremove carries no fields.
type Rremove msg

func (m Rremove) Tag() uint16    { return msg(m).Tag() }
func (m Rremove) Len() int64     { return msg(m).Len() }
func (m Rremove) String() string { return "Rremove" }

// Tfsync flushes any buffered writes for the file named by Fid to
// stable storage.
type Tfsync msg

func (m Tfsync) Tag() uint16    { return msg(m).Tag() }
func (m Tfsync) Len() int64     { return msg(m).Len() }
func (m Tfsync) Fid() uint32    { return guint32(m[7:11]) }
func (m Tfsync) String() string { return fmt.Sprintf("Tfsync fid=%x", m.Fid()) }

// Rfsync carries no fields.
type Rfsync msg

func (m Rfsync) Tag() uint16    { return msg(m).Tag() }
func (m Rfsync) Len() int64     { return msg(m).Len() }
func (m Rfsync) String() string { return "Rfsync" }

// Tlink creates a hard link named Name, as a child of Dfid, pointing
// at the file named by Fid.
type Tlink msg

func (m Tlink) Tag() uint16  { return msg(m).Tag() }
func (m Tlink) Len() int64   { return msg(m).Len() }
func (m Tlink) Dfid() uint32 { return guint32(m[7:11]) }
func (m Tlink) Fid() uint32  { return guint32(m[11:15]) }
func (m Tlink) Name() []byte { return msg(m).nthField(15, 0) }
func (m Tlink) String() string {
	return fmt.Sprintf("Tlink dfid=%x fid=%x name=%q", m.Dfid(), m.Fid(), m.Name())
}

// Rlink carries no fields.
type Rlink msg

func (m Rlink) Tag() uint16    { return msg(m).Tag() }
func (m Rlink) Len() int64     { return msg(m).Len() }
func (m Rlink) String() string { return "Rlink" }

// Tmkdir creates a new directory named Name as a child of Dfid.
type Tmkdir msg

func (m Tmkdir) Tag() uint16  { return msg(m).Tag() }
func (m Tmkdir) Len() int64   { return msg(m).Len() }
func (m Tmkdir) Dfid() uint32 { return guint32(m[7:11]) }
func (m Tmkdir) Name() []byte { return msg(m).nthField(11, 0) }
func (m Tmkdir) Mode() uint32 {
	off := msg(m).fieldEnd(11, 0)
	return guint32(m[off : off+4])
}
func (m Tmkdir) Gid() uint32 {
	off := msg(m).fieldEnd(11, 0) + 4
	return guint32(m[off : off+4])
}
func (m Tmkdir) String() string {
	return fmt.Sprintf("Tmkdir dfid=%x name=%q mode=%#o", m.Dfid(), m.Name(), m.Mode())
}

// Rmkdir returns the qid of the new directory.
type Rmkdir msg

func (m Rmkdir) Tag() uint16    { return msg(m).Tag() }
func (m Rmkdir) Len() int64     { return msg(m).Len() }
func (m Rmkdir) Qid() Qid       { return Qid(m[7:20]) }
func (m Rmkdir) String() string { return fmt.Sprintf("Rmkdir qid=%v", m.Qid()) }

// Trenameat renames Oldname, a child of Olddirfid, to Newname, a
// child of Newdirfid, without requiring a fid on the file itself
// (unlike Trename). This is the form used by Linux's renameat(2).
type Trenameat msg

func (m Trenameat) Tag() uint16     { return msg(m).Tag() }
func (m Trenameat) Len() int64      { return msg(m).Len() }
func (m Trenameat) Olddirfid() uint32 { return guint32(m[7:11]) }
func (m Trenameat) Oldname() []byte { return msg(m).nthField(11, 0) }
func (m Trenameat) Newdirfid() uint32 {
	off := msg(m).fieldEnd(11, 0)
	return guint32(m[off : off+4])
}
func (m Trenameat) Newname() []byte {
	off := msg(m).fieldEnd(11, 0) + 4
	return msg(m).nthField(off, 0)
}
func (m Trenameat) String() string {
	return fmt.Sprintf("Trenameat olddirfid=%x oldname=%q newdirfid=%x newname=%q",
		m.Olddirfid(), m.Oldname(), m.Newdirfid(), m.Newname())
}

// Rrenameat carries no fields.
type Rrenameat msg

func (m Rrenameat) Tag() uint16    { return msg(m).Tag() }
func (m Rrenameat) Len() int64     { return msg(m).Len() }
func (m Rrenameat) String() string { return "Rrenameat" }

// Tunlinkat removes Name, a child of Dirfid. Flags may carry
// AT_REMOVEDIR to require that Name be an empty directory.
type Tunlinkat msg

func (m Tunlinkat) Tag() uint16  { return msg(m).Tag() }
func (m Tunlinkat) Len() int64   { return msg(m).Len() }
func (m Tunlinkat) Dirfid() uint32 { return guint32(m[7:11]) }
func (m Tunlinkat) Name() []byte { return msg(m).nthField(11, 0) }
func (m Tunlinkat) Flags() uint32 {
	off := msg(m).fieldEnd(11, 0)
	return guint32(m[off : off+4])
}
func (m Tunlinkat) String() string {
	return fmt.Sprintf("Tunlinkat dirfid=%x name=%q flags=%#x", m.Dirfid(), m.Name(), m.Flags())
}

// Runlinkat carries no fields.
type Runlinkat msg

func (m Runlinkat) Tag() uint16    { return msg(m).Tag() }
func (m Runlinkat) Len() int64     { return msg(m).Len() }
func (m Runlinkat) String() string { return "Runlinkat" }

// Tread requests Count bytes from the file named by Fid, starting at
// Offset.
type Tread msg

func (m Tread) Tag() uint16    { return msg(m).Tag() }
func (m Tread) Len() int64     { return msg(m).Len() }
func (m Tread) Fid() uint32    { return guint32(m[7:11]) }
func (m Tread) Offset() uint64 { return guint64(m[11:19]) }
func (m Tread) Count() uint32  { return guint32(m[19:23]) }
func (m Tread) String() string {
	return fmt.Sprintf("Tread fid=%x offset=%d count=%d", m.Fid(), m.Offset(), m.Count())
}

// Rread carries the bytes a Tread asked for. Its Data method exposes
// the payload without copying it out of the decode buffer.
type Rread msg

func (m Rread) Tag() uint16   { return msg(m).Tag() }
func (m Rread) Len() int64    { return msg(m).Len() }
func (m Rread) Count() uint32 { return guint32(m[7:11]) }
func (m Rread) Data() []byte  { return m[11 : 11+m.Count()] }
func (m Rread) String() string {
	return fmt.Sprintf("Rread count=%d", m.Count())
}

// Treaddir requests up to Count bytes of packed Dirent values from
// the directory named by Fid, resuming after Offset (0 to start from
// the beginning; the offset of the final Dirent of a short read to
// continue).
type Treaddir msg

func (m Treaddir) Tag() uint16    { return msg(m).Tag() }
func (m Treaddir) Len() int64     { return msg(m).Len() }
func (m Treaddir) Fid() uint32    { return guint32(m[7:11]) }
func (m Treaddir) Offset() uint64 { return guint64(m[11:19]) }
func (m Treaddir) Count() uint32  { return guint32(m[19:23]) }
func (m Treaddir) String() string {
	return fmt.Sprintf("Treaddir fid=%x offset=%d count=%d", m.Fid(), m.Offset(), m.Count())
}

// Rreaddir carries a run of packed Dirent values; Data's length is
// Count.
type Rreaddir msg

func (m Rreaddir) Tag() uint16   { return msg(m).Tag() }
func (m Rreaddir) Len() int64    { return msg(m).Len() }
func (m Rreaddir) Count() uint32 { return guint32(m[7:11]) }
func (m Rreaddir) Data() []byte  { return m[11 : 11+m.Count()] }
func (m Rreaddir) String() string {
	return fmt.Sprintf("Rreaddir count=%d", m.Count())
}

// Twrite carries Count bytes to be written to the file named by Fid
// at Offset. Data exposes the payload without copying.
type Twrite msg

func (m Twrite) Tag() uint16    { return msg(m).Tag() }
func (m Twrite) Len() int64     { return msg(m).Len() }
func (m Twrite) Fid() uint32    { return guint32(m[7:11]) }
func (m Twrite) Offset() uint64 { return guint64(m[11:19]) }
func (m Twrite) Count() uint32  { return guint32(m[19:23]) }
func (m Twrite) Data() []byte   { return m[23 : 23+m.Count()] }
func (m Twrite) String() string {
	return fmt.Sprintf("Twrite fid=%x offset=%d count=%d", m.Fid(), m.Offset(), m.Count())
}

// Rwrite reports how many bytes were actually written.
type Rwrite msg

func (m Rwrite) Tag() uint16   { return msg(m).Tag() }
func (m Rwrite) Len() int64    { return msg(m).Len() }
func (m Rwrite) Count() uint32 { return guint32(m[7:11]) }
func (m Rwrite) String() string {
	return fmt.Sprintf("Rwrite count=%d", m.Count())
}
