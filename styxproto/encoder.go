package styxproto

import (
	"bufio"
	"io"
	"math"
	"sync"

	"github.com/ninelib/styxl/internal"
)

// An Encoder writes 9P2000.L messages to an underlying io.Writer.
type Encoder struct {
	// MaxSize is the negotiated msize ceiling; a negative value (the
	// default) means no limit, matching Decoder.MaxSize's convention.
	// R-message methods whose body is backend-controlled and not
	// otherwise bounded check their encoded size against it and
	// return ErrMsgSize, writing nothing, rather than put an
	// over-msize frame on the wire (§4.1/§4.3, Testable Property #3).
	MaxSize int64
	mu      sync.Mutex
	w       *bufio.Writer
}

// NewEncoder creates a new Encoder that writes 9P2000.L messages to w.
// Encoders are safe to use from multiple goroutines; each message is
// written atomically.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriterSize(w, MinBufSize), MaxSize: -1}
}

// SetMaxSize sets the Encoder's msize ceiling, synchronized against
// any in-flight R-message writes. Called once per connection after
// Tversion negotiation completes.
func (enc *Encoder) SetMaxSize(n int64) {
	enc.mu.Lock()
	enc.MaxSize = n
	enc.mu.Unlock()
}

// checkSize reports ErrMsgSize if size exceeds the negotiated
// MaxSize. Callers hold enc.mu already; this never itself locks.
func (enc *Encoder) checkSize(size uint32) error {
	if enc.MaxSize >= 0 && int64(size) > enc.MaxSize {
		return ErrMsgSize
	}
	return nil
}

// Err returns the first error encountered by an Encoder when writing
// data to its underlying io.Writer.
func (enc *Encoder) Err() error {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	_, err := enc.w.Write(nil)
	return err
}

// Flush flushes any buffered data to the underlying io.Writer.
func (enc *Encoder) Flush() error {
	enc.mu.Lock()
	defer enc.mu.Unlock()
	return enc.w.Flush()
}

// Tversion writes a Tversion message. The tag of the written message
// is always NoTag. If version is longer than MaxVersionLen, it is
// truncated.
func (enc *Encoder) Tversion(msize uint32, version string) error {
	if len(version) > MaxVersionLen {
		version = version[:MaxVersionLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTversion] + len(version))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTversion, NoTag)
	puint32(w, msize)
	pstring(w, version)
	return w.Err
}

// Rversion writes an Rversion message. If version is longer than
// MaxVersionLen, it is truncated.
func (enc *Encoder) Rversion(msize uint32, version string) error {
	if len(version) > MaxVersionLen {
		version = version[:MaxVersionLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgRversion] + len(version))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRversion, NoTag)
	puint32(w, msize)
	pstring(w, version)
	return w.Err
}

// Tauth begins authentication of uname on aname. Uname and aname are
// truncated if they exceed MaxUidLen and MaxAttachLen, respectively.
func (enc *Encoder) Tauth(tag uint16, afid uint32, uname, aname string, nuname uint32) error {
	if len(uname) > MaxUidLen {
		uname = uname[:MaxUidLen]
	}
	if len(aname) > MaxAttachLen {
		aname = aname[:MaxAttachLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTauth] + len(uname) + len(aname))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTauth, tag)
	puint32(w, afid)
	pstring(w, uname, aname)
	puint32(w, nuname)
	return w.Err
}

// Rauth answers a Tauth with the qid of the afid, always of type
// QTAUTH.
func (enc *Encoder) Rauth(tag uint16, aqid Qid) error {
	size := uint32(minMsgSize + minBodyLen[msgRauth])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRauth, tag)
	pqid(w, aqid)
	return w.Err
}

// Tattach introduces uname to the tree named by aname, binding fid to
// its root. Afid should be NoFid if no authentication is required.
func (enc *Encoder) Tattach(tag uint16, fid, afid uint32, uname, aname string, nuname uint32) error {
	if len(uname) > MaxUidLen {
		uname = uname[:MaxUidLen]
	}
	if len(aname) > MaxAttachLen {
		aname = aname[:MaxAttachLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTattach] + len(uname) + len(aname))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTattach, tag)
	puint32(w, fid, afid)
	pstring(w, uname, aname)
	puint32(w, nuname)
	return w.Err
}

// Rattach replies with the qid of the root of the attached tree.
func (enc *Encoder) Rattach(tag uint16, qid Qid) error {
	size := uint32(minMsgSize + minBodyLen[msgRattach])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRattach, tag)
	pqid(w, qid)
	return w.Err
}

// Rlerror writes an Rlerror message, the sole error reply in
// 9P2000.L: a bare Linux errno rather than a textual message.
func (enc *Encoder) Rlerror(tag uint16, ecode uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgRlerror])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRlerror, tag)
	puint32(w, ecode)
	return w.Err
}

// Tflush cancels the pending request tagged oldtag.
func (enc *Encoder) Tflush(tag, oldtag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgTflush])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTflush, tag)
	puint16(w, oldtag)
	return w.Err
}

// Rflush confirms a flush has taken effect.
func (enc *Encoder) Rflush(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRflush])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRflush, tag)
	return w.Err
}

// Twalk walks, one element at a time, from fid to newfid. An error is
// returned if wname has more than MaxWElem elements or any element is
// longer than MaxFilenameLen.
func (enc *Encoder) Twalk(tag uint16, fid, newfid uint32, wname ...string) error {
	if len(wname) > MaxWElem {
		return errMaxWElem
	}
	size := uint32(minMsgSize + minBodyLen[msgTwalk])
	for _, v := range wname {
		if len(v) > MaxFilenameLen {
			return errLongFilename
		}
		size += uint32(2 + len(v))
	}

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTwalk, tag)
	puint32(w, fid, newfid)
	puint16(w, uint16(len(wname)))
	pstring(w, wname...)
	return w.Err
}

// Rwalk replies with one qid per path element walked. An error is
// returned if wqid has more than MaxWElem elements.
func (enc *Encoder) Rwalk(tag uint16, wqid ...Qid) error {
	if len(wqid) > MaxWElem {
		return errMaxWElem
	}
	size := uint32(minMsgSize+minBodyLen[msgRwalk]) + uint32(QidLen*len(wqid))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRwalk, tag)
	puint16(w, uint16(len(wqid)))
	pqid(w, wqid...)
	return w.Err
}

// Tlopen prepares fid for I/O. Flags follow Linux open(2) semantics.
func (enc *Encoder) Tlopen(tag uint16, fid, flags uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTlopen])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTlopen, tag)
	puint32(w, fid, flags)
	return w.Err
}

// Rlopen confirms a Tlopen with the qid of the opened file and a
// suggested I/O unit size.
func (enc *Encoder) Rlopen(tag uint16, qid Qid, iounit uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgRlopen])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRlopen, tag)
	pqid(w, qid)
	puint32(w, iounit)
	return w.Err
}

// Tlcreate creates and opens a new regular file as a child of fid. If
// name is longer than MaxFilenameLen, it is truncated.
func (enc *Encoder) Tlcreate(tag uint16, fid uint32, name string, flags, mode, gid uint32) error {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTlcreate] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTlcreate, tag)
	puint32(w, fid)
	pstring(w, name)
	puint32(w, flags, mode, gid)
	return w.Err
}

// Rlcreate confirms a Tlcreate, in the same shape as Rlopen.
func (enc *Encoder) Rlcreate(tag uint16, qid Qid, iounit uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgRlcreate])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRlcreate, tag)
	pqid(w, qid)
	puint32(w, iounit)
	return w.Err
}

// Tsymlink creates a symbolic link named name, pointing at symtgt, as
// a child of fid.
func (enc *Encoder) Tsymlink(tag uint16, fid uint32, name, symtgt string, gid uint32) error {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTsymlink] + len(name) + len(symtgt))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTsymlink, tag)
	puint32(w, fid)
	pstring(w, name, symtgt)
	puint32(w, gid)
	return w.Err
}

// Rsymlink returns the qid of the newly-created symlink.
func (enc *Encoder) Rsymlink(tag uint16, qid Qid) error {
	size := uint32(minMsgSize + minBodyLen[msgRsymlink])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRsymlink, tag)
	pqid(w, qid)
	return w.Err
}

// Tmknod creates a device special file, fifo, or socket as a child of
// dfid.
func (enc *Encoder) Tmknod(tag uint16, dfid uint32, name string, mode, major, minor, gid uint32) error {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTmknod] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTmknod, tag)
	puint32(w, dfid)
	pstring(w, name)
	puint32(w, mode, major, minor, gid)
	return w.Err
}

// Rmknod returns the qid of the new node.
func (enc *Encoder) Rmknod(tag uint16, qid Qid) error {
	size := uint32(minMsgSize + minBodyLen[msgRmknod])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRmknod, tag)
	pqid(w, qid)
	return w.Err
}

// Trename renames the file named by fid to name, as a child of dfid.
func (enc *Encoder) Trename(tag uint16, fid, dfid uint32, name string) error {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTrename] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTrename, tag)
	puint32(w, fid, dfid)
	pstring(w, name)
	return w.Err
}

// Rrename carries no fields.
func (enc *Encoder) Rrename(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRrename])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRrename, tag)
	return w.Err
}

// Treadlink reads the target of the symbolic link named by fid.
func (enc *Encoder) Treadlink(tag uint16, fid uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTreadlink])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTreadlink, tag)
	puint32(w, fid)
	return w.Err
}

// Rreadlink returns the symlink target. Unlike Rread/Rreaddir, target
// is not bounded by any request-supplied count, so it is checked
// against MaxSize here: a back-end can hand back a target of any
// length.
func (enc *Encoder) Rreadlink(tag uint16, target string) error {
	size := uint32(minMsgSize + minBodyLen[msgRreadlink] + len(target))

	enc.mu.Lock()
	defer enc.mu.Unlock()
	if err := enc.checkSize(size); err != nil {
		return err
	}

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRreadlink, tag)
	pstring(w, target)
	return w.Err
}

// Tstatfs requests filesystem-wide statistics for the tree containing
// fid.
func (enc *Encoder) Tstatfs(tag uint16, fid uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTstatfs])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTstatfs, tag)
	puint32(w, fid)
	return w.Err
}

// Rstatfs answers a Tstatfs, mirroring Unix statfs(2).
func (enc *Encoder) Rstatfs(tag uint16, typ, bsize uint32, blocks, bfree, bavail, files, ffree, fsid uint64, namelen uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgRstatfs])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRstatfs, tag)
	puint32(w, typ, bsize)
	puint64(w, blocks, bfree, bavail, files, ffree, fsid)
	puint32(w, namelen)
	return w.Err
}

// Txattrwalk prepares newfid to read the value of extended attribute
// name on fid; an empty name prepares newfid to list attribute names.
func (enc *Encoder) Txattrwalk(tag uint16, fid, newfid uint32, name string) error {
	size := uint32(minMsgSize + minBodyLen[msgTxattrwalk] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTxattrwalk, tag)
	puint32(w, fid, newfid)
	pstring(w, name)
	return w.Err
}

// Rxattrwalk returns the size of the value a following Tread on
// newfid will return.
func (enc *Encoder) Rxattrwalk(tag uint16, size64 uint64) error {
	size := uint32(minMsgSize + minBodyLen[msgRxattrwalk])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRxattrwalk, tag)
	puint64(w, size64)
	return w.Err
}

// Txattrcreate prepares fid to set the value of extended attribute
// name via a following Twrite, committed on Tclunk.
func (enc *Encoder) Txattrcreate(tag uint16, fid uint32, name string, attrSize uint64, flags uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTxattrcreate] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTxattrcreate, tag)
	puint32(w, fid)
	pstring(w, name)
	puint64(w, attrSize)
	puint32(w, flags)
	return w.Err
}

// Rxattrcreate carries no fields.
func (enc *Encoder) Rxattrcreate(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRxattrcreate])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRxattrcreate, tag)
	return w.Err
}

// Tclunk releases fid.
func (enc *Encoder) Tclunk(tag uint16, fid uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTclunk])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTclunk, tag)
	puint32(w, fid)
	return w.Err
}

// Rclunk carries no fields.
func (enc *Encoder) Rclunk(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRclunk])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRclunk, tag)
	return w.Err
}

// Tremove unlinks the file named by fid, then clunks it.
func (enc *Encoder) Tremove(tag uint16, fid uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTremove])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTremove, tag)
	puint32(w, fid)
	return w.Err
}

// Rremove carries no fields.
func (enc *Encoder) Rremove(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRremove])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRremove, tag)
	return w.Err
}

// Tfsync flushes buffered writes for fid to stable storage.
func (enc *Encoder) Tfsync(tag uint16, fid uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTfsync])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTfsync, tag)
	puint32(w, fid)
	return w.Err
}

// Rfsync carries no fields.
func (enc *Encoder) Rfsync(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRfsync])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRfsync, tag)
	return w.Err
}

// Tlink creates a hard link named name, as a child of dfid, pointing
// at the file named by fid.
func (enc *Encoder) Tlink(tag uint16, dfid, fid uint32, name string) error {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTlink] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTlink, tag)
	puint32(w, dfid, fid)
	pstring(w, name)
	return w.Err
}

// Rlink carries no fields.
func (enc *Encoder) Rlink(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRlink])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRlink, tag)
	return w.Err
}

// Tmkdir creates a new directory named name as a child of dfid.
func (enc *Encoder) Tmkdir(tag uint16, dfid uint32, name string, mode, gid uint32) error {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTmkdir] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTmkdir, tag)
	puint32(w, dfid)
	pstring(w, name)
	puint32(w, mode, gid)
	return w.Err
}

// Rmkdir returns the qid of the new directory.
func (enc *Encoder) Rmkdir(tag uint16, qid Qid) error {
	size := uint32(minMsgSize + minBodyLen[msgRmkdir])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRmkdir, tag)
	pqid(w, qid)
	return w.Err
}

// Trenameat renames oldname, a child of olddirfid, to newname, a
// child of newdirfid, without requiring a fid on the file itself.
func (enc *Encoder) Trenameat(tag uint16, olddirfid uint32, oldname string, newdirfid uint32, newname string) error {
	size := uint32(minMsgSize + minBodyLen[msgTrenameat] + len(oldname) + len(newname))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTrenameat, tag)
	puint32(w, olddirfid)
	pstring(w, oldname)
	puint32(w, newdirfid)
	pstring(w, newname)
	return w.Err
}

// Rrenameat carries no fields.
func (enc *Encoder) Rrenameat(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRrenameat])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRrenameat, tag)
	return w.Err
}

// Tunlinkat removes name, a child of dirfid. Flags may carry
// AT_REMOVEDIR.
func (enc *Encoder) Tunlinkat(tag uint16, dirfid uint32, name string, flags uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTunlinkat] + len(name))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTunlinkat, tag)
	puint32(w, dirfid)
	pstring(w, name)
	puint32(w, flags)
	return w.Err
}

// Runlinkat carries no fields.
func (enc *Encoder) Runlinkat(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRunlinkat])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRunlinkat, tag)
	return w.Err
}

// Tread requests count bytes from fid, starting at offset. An error
// is returned if count exceeds the maximum value of a uint32.
func (enc *Encoder) Tread(tag uint16, fid uint32, offset int64, count int64) error {
	if count > math.MaxUint32 {
		return errMaxCount
	}
	size := uint32(minMsgSize + minBodyLen[msgTread])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTread, tag)
	puint32(w, fid)
	puint64(w, uint64(offset))
	puint32(w, uint32(count))
	return w.Err
}

// Rread writes a single Rread message carrying data. Callers that
// need to honor a negotiated msize should split data into chunks
// before calling Rread; unlike legacy 9P's unbounded Twrite/Rread,
// 9P2000.L has no provision for the Encoder to do this split on the
// caller's behalf, since reply sizing is governed by the Tread's own
// Count.
func (enc *Encoder) Rread(tag uint16, data []byte) (int, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return 0, errMaxCount
	}
	size := uint32(minMsgSize+minBodyLen[msgRread]) + uint32(len(data))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRread, tag)
	pdata(w, data)
	return len(data), w.Err
}

// Treaddir requests up to count bytes of packed Dirent values from
// the directory named by fid, resuming after offset.
func (enc *Encoder) Treaddir(tag uint16, fid uint32, offset int64, count uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgTreaddir])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTreaddir, tag)
	puint32(w, fid)
	puint64(w, uint64(offset))
	puint32(w, count)
	return w.Err
}

// Rreaddir writes a single Rreaddir message carrying a run of packed
// Dirent values, typically built with PutDirent.
func (enc *Encoder) Rreaddir(tag uint16, data []byte) (int, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return 0, errMaxCount
	}
	size := uint32(minMsgSize+minBodyLen[msgRreaddir]) + uint32(len(data))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRreaddir, tag)
	pdata(w, data)
	return len(data), w.Err
}

// Twrite writes a Twrite message carrying data to fid at offset. An
// error is returned if data does not fit inside a single message.
func (enc *Encoder) Twrite(tag uint16, fid uint32, offset int64, data []byte) (int, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return 0, errTooBig
	}
	size := uint32(minMsgSize+minBodyLen[msgTwrite]) + uint32(len(data))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTwrite, tag)
	puint32(w, fid)
	puint64(w, uint64(offset))
	pdata(w, data)
	return len(data), w.Err
}

// Rwrite reports how many bytes were actually written.
func (enc *Encoder) Rwrite(tag uint16, count uint32) error {
	size := uint32(minMsgSize + minBodyLen[msgRwrite])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRwrite, tag)
	puint32(w, count)
	return w.Err
}

// Tgetattr requests a file's attributes. Mask is a bitwise-or of
// Getattr* constants.
func (enc *Encoder) Tgetattr(tag uint16, fid uint32, mask uint64) error {
	size := uint32(minMsgSize + minBodyLen[msgTgetattr])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTgetattr, tag)
	puint32(w, fid)
	puint64(w, mask)
	return w.Err
}

// Rgetattr carries the attributes of a single file. Valid is a
// bitwise-or of Getattr* constants naming which of the fields that
// follow are meaningful.
func (enc *Encoder) Rgetattr(tag uint16, valid uint64, qid Qid, mode, uid, gid uint32, nlink, rdev, size64, blksize, blocks uint64,
	atimeSec, atimeNsec, mtimeSec, mtimeNsec, ctimeSec, ctimeNsec, btimeSec, btimeNsec, gen, dataVersion uint64) error {
	size := uint32(minMsgSize + minBodyLen[msgRgetattr])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRgetattr, tag)
	puint64(w, valid)
	pqid(w, qid)
	puint32(w, mode, uid, gid)
	puint64(w, nlink, rdev, size64, blksize, blocks)
	puint64(w, atimeSec, atimeNsec, mtimeSec, mtimeNsec, ctimeSec, ctimeNsec, btimeSec, btimeNsec, gen, dataVersion)
	return w.Err
}

// Tsetattr requests a change to one or more attributes of a file.
// Valid is a bitwise-or of Setattr* constants.
func (enc *Encoder) Tsetattr(tag uint16, fid uint32, valid, mode, uid, gid uint32, size64,
	atimeSec, atimeNsec, mtimeSec, mtimeNsec uint64) error {
	size := uint32(minMsgSize + minBodyLen[msgTsetattr])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTsetattr, tag)
	puint32(w, fid, valid, mode, uid, gid)
	puint64(w, size64, atimeSec, atimeNsec, mtimeSec, mtimeNsec)
	return w.Err
}

// Rsetattr carries no fields.
func (enc *Encoder) Rsetattr(tag uint16) error {
	size := uint32(minMsgSize + minBodyLen[msgRsetattr])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRsetattr, tag)
	return w.Err
}

// Tlock asks the server to acquire or release a byte-range advisory
// lock on fid, of Type LockType{Rdlck,Wrlck,Unlck}.
func (enc *Encoder) Tlock(tag uint16, fid uint32, typ uint8, flags uint32, start, length uint64, procID uint32, clientID string) error {
	if len(clientID) > MaxUidLen {
		clientID = clientID[:MaxUidLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTlock] + len(clientID))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTlock, tag)
	puint32(w, fid)
	puint8(w, typ)
	puint32(w, flags)
	puint64(w, start, length)
	puint32(w, procID)
	pstring(w, clientID)
	return w.Err
}

// Rlock carries the outcome of a Tlock request: one of the Lock*
// status constants.
func (enc *Encoder) Rlock(tag uint16, status uint8) error {
	size := uint32(minMsgSize + minBodyLen[msgRlock])

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRlock, tag)
	puint8(w, status)
	return w.Err
}

// Tgetlock asks whether a byte range on fid is locked, without
// acquiring it.
func (enc *Encoder) Tgetlock(tag uint16, fid uint32, typ uint8, start, length uint64, procID uint32, clientID string) error {
	if len(clientID) > MaxUidLen {
		clientID = clientID[:MaxUidLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgTgetlock] + len(clientID))

	enc.mu.Lock()
	defer enc.mu.Unlock()

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgTgetlock, tag)
	puint32(w, fid)
	puint8(w, typ)
	puint64(w, start, length)
	puint32(w, procID)
	pstring(w, clientID)
	return w.Err
}

// Rgetlock echoes back the lock state for the queried range: Type is
// LockTypeUnlck if nothing conflicts, otherwise it and the other
// fields describe the conflicting lock.
func (enc *Encoder) Rgetlock(tag uint16, typ uint8, start, length uint64, procID uint32, clientID string) error {
	if len(clientID) > MaxUidLen {
		clientID = clientID[:MaxUidLen]
	}
	size := uint32(minMsgSize + minBodyLen[msgRgetlock] + len(clientID))

	enc.mu.Lock()
	defer enc.mu.Unlock()
	if err := enc.checkSize(size); err != nil {
		return err
	}

	w := &internal.ErrWriter{W: enc.w}
	pheader(w, size, msgRgetlock, tag)
	puint8(w, typ)
	puint64(w, start, length)
	puint32(w, procID)
	pstring(w, clientID)
	return w.Err
}
