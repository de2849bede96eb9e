package styxl

import (
	"context"

	"github.com/ninelib/styxl/styxproto"
)

// FidState is the opaque, back-end-defined state associated with a
// fid. The dispatcher stores values of this type in the fid table and
// passes them back into Backend methods; it never inspects them.
type FidState interface{}

// Attr is the reply to a Getattr call, mirroring the 9P2000.L getattr
// wire structure.
type Attr struct {
	Valid                              uint64
	Qid                                styxproto.Qid
	Mode, Uid, Gid                     uint32
	Nlink, Rdev, Size                  uint64
	Blksize, Blocks                    uint64
	AtimeSec, AtimeNsec                uint64
	MtimeSec, MtimeNsec                uint64
	CtimeSec, CtimeNsec                uint64
	BtimeSec, BtimeNsec                uint64
	Gen, DataVersion                   uint64
}

// SetAttr carries the fields a client asked to change via Tsetattr.
// Valid is the P9_ATTR_* bitmask from stat.go; fields not named by
// Valid are untouched by the back-end.
type SetAttr struct {
	Valid                    uint32
	Mode, Uid, Gid           uint32
	Size                     uint64
	AtimeSec, AtimeNsec      uint64
	MtimeSec, MtimeNsec      uint64
}

// Statfs is the reply to a Statfs call.
type Statfs struct {
	Type, Bsize                      uint32
	Blocks, Bfree, Bavail            uint64
	Files, Ffree, Fsid               uint64
	Namelen                          uint32
}

// Lock describes a Tlock request.
type Lock struct {
	Type, Flags            uint32
	Start, Length          uint64
	ProcID                 uint32
	ClientID               string
}

// GetLock describes both a Tgetlock request and its reply; back-ends
// return the lock that conflicts, or, if none does, the request with
// Type set to LockTypeUnlck.
type GetLock struct {
	Type          uint32
	Start, Length uint64
	ProcID        uint32
	ClientID      string
}

// Dirent is a single packed directory entry, returned by Readdir.
type Dirent struct {
	Qid    styxproto.Qid
	Offset uint64
	Type   uint8
	Name   string
}

// Backend is the capability surface a filesystem implementation
// exposes to the dispatcher. One method per 9P2000.L request that
// isn't pure protocol bookkeeping (Version and Flush are handled
// entirely by the dispatcher). Every method receives the FidState
// installed for the fid(s) it operates on, already resolved from the
// fid table, and an error return carrying a POSIX errno (see the
// errno package) that becomes the Rlerror reply.
//
// Release is invoked exactly once per fid, when it leaves the fid
// table via Clunk, Remove, or session teardown. It must not itself
// fail visibly to the client.
type Backend interface {
	Attach(ctx context.Context, afid FidState, hasAfid bool, uname, aname string, nuname uint32) (FidState, styxproto.Qid, error)
	Walk(ctx context.Context, state FidState, names []string) (FidState, []styxproto.Qid, error)
	Open(ctx context.Context, state FidState, flags uint32) (styxproto.Qid, uint32, error)
	Create(ctx context.Context, state FidState, name string, flags, mode, gid uint32) (FidState, styxproto.Qid, uint32, error)
	Read(ctx context.Context, state FidState, offset uint64, count uint32) ([]byte, error)
	Write(ctx context.Context, state FidState, offset uint64, data []byte) (uint32, error)
	Readdir(ctx context.Context, state FidState, offset uint64, count uint32) ([]Dirent, error)
	GetAttr(ctx context.Context, state FidState, mask uint64) (Attr, error)
	SetAttr(ctx context.Context, state FidState, attr SetAttr) error
	Statfs(ctx context.Context, state FidState) (Statfs, error)
	Readlink(ctx context.Context, state FidState) (string, error)
	Symlink(ctx context.Context, dir FidState, name, target string, gid uint32) (FidState, styxproto.Qid, error)
	Link(ctx context.Context, dir, target FidState, name string) error
	Mknod(ctx context.Context, dir FidState, name string, mode, major, minor, gid uint32) (styxproto.Qid, error)
	Mkdir(ctx context.Context, dir FidState, name string, mode, gid uint32) (styxproto.Qid, error)
	Rename(ctx context.Context, state, dir FidState, name string) error
	RenameAt(ctx context.Context, oldDir FidState, oldName string, newDir FidState, newName string) error
	UnlinkAt(ctx context.Context, dir FidState, name string, flags uint32) error
	Remove(ctx context.Context, state FidState) error
	Fsync(ctx context.Context, state FidState) error
	Lock(ctx context.Context, state FidState, lk Lock) (uint8, error)
	GetLock(ctx context.Context, state FidState, lk GetLock) (GetLock, error)
	XattrWalk(ctx context.Context, state FidState, name string) (FidState, uint64, error)
	XattrCreate(ctx context.Context, state FidState, name string, size uint64, flags uint32) (FidState, error)
	Release(state FidState)
}

// AuthBackend is implemented by back-ends that support the 9P
// authentication handshake and is installed through the
// Server.AuthBackend field. When that field is nil, the dispatcher
// rejects Tauth with EOPNOTSUPP and only allows Tattach with
// afid == NoFid.
type AuthBackend interface {
	Auth(ctx context.Context, uname, aname string, nuname uint32) (FidState, styxproto.Qid, error)
}
