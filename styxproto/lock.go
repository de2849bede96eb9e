package styxproto

import "fmt"

// Lock types and status codes for Tlock/Rlock/Tgetlock/Rgetlock,
// mirroring Linux's P9_LOCK_TYPE_* and P9_LOCK_{SUCCESS,BLOCKED,
// ERROR,GRACE} constants.
const (
	LockTypeRdlck uint8 = 0
	LockTypeWrlck uint8 = 1
	LockTypeUnlck uint8 = 2

	LockSuccess uint8 = 0
	LockBlocked uint8 = 1
	LockError   uint8 = 2
	LockGrace   uint8 = 3
)

// Lock flag bits for Tlock.
const (
	LockFlagBlock   uint32 = 1
	LockFlagReclaim uint32 = 2
)

// Tlock asks the server to acquire or release a byte-range advisory
// lock on an open file.
type Tlock msg

func (m Tlock) Tag() uint16 { return msg(m).Tag() }
func (m Tlock) Len() int64  { return msg(m).Len() }

func (m Tlock) Fid() uint32      { return guint32(m[7:11]) }
func (m Tlock) Type() uint8      { return m[11] }
func (m Tlock) Flags() uint32    { return guint32(m[12:16]) }
func (m Tlock) Start() uint64    { return guint64(m[16:24]) }
func (m Tlock) Length() uint64   { return guint64(m[24:32]) }
func (m Tlock) ProcID() uint32   { return guint32(m[32:36]) }
func (m Tlock) ClientID() []byte { return msg(m).nthField(36, 0) }

func (m Tlock) String() string {
	return fmt.Sprintf("Tlock fid=%x type=%d start=%d length=%d",
		m.Fid(), m.Type(), m.Start(), m.Length())
}

// Rlock carries the outcome of a Tlock request: one of the Lock*
// status constants.
type Rlock msg

func (m Rlock) Tag() uint16    { return msg(m).Tag() }
func (m Rlock) Len() int64     { return msg(m).Len() }
func (m Rlock) Status() uint8  { return m[7] }
func (m Rlock) String() string { return fmt.Sprintf("Rlock status=%d", m.Status()) }

// Tgetlock asks whether a byte range is locked, without acquiring it.
type Tgetlock msg

func (m Tgetlock) Tag() uint16 { return msg(m).Tag() }
func (m Tgetlock) Len() int64  { return msg(m).Len() }

func (m Tgetlock) Fid() uint32      { return guint32(m[7:11]) }
func (m Tgetlock) Type() uint8      { return m[11] }
func (m Tgetlock) Start() uint64    { return guint64(m[12:20]) }
func (m Tgetlock) Length() uint64   { return guint64(m[20:28]) }
func (m Tgetlock) ProcID() uint32   { return guint32(m[28:32]) }
func (m Tgetlock) ClientID() []byte { return msg(m).nthField(32, 0) }

func (m Tgetlock) String() string {
	return fmt.Sprintf("Tgetlock fid=%x start=%d length=%d", m.Fid(), m.Start(), m.Length())
}

// Rgetlock echoes back the lock state for the queried range: Type is
// LockTypeUnlck if nothing conflicts, otherwise it and the other
// fields describe the conflicting lock.
type Rgetlock msg

func (m Rgetlock) Tag() uint16 { return msg(m).Tag() }
func (m Rgetlock) Len() int64  { return msg(m).Len() }

func (m Rgetlock) Type() uint8      { return m[7] }
func (m Rgetlock) Start() uint64    { return guint64(m[8:16]) }
func (m Rgetlock) Length() uint64   { return guint64(m[16:24]) }
func (m Rgetlock) ProcID() uint32   { return guint32(m[24:28]) }
func (m Rgetlock) ClientID() []byte { return msg(m).nthField(28, 0) }

func (m Rgetlock) String() string {
	return fmt.Sprintf("Rgetlock type=%d start=%d length=%d", m.Type(), m.Start(), m.Length())
}
