package styxproto

import "fmt"

// Getattr request-mask and Rgetattr valid bits, mirroring Linux's
// P9_GETATTR_* constants. A server may always return more fields than
// requested; GetattrBasic covers everything a traditional stat(2)
// reports.
const (
	GetattrMode        uint64 = 0x00000001
	GetattrNlink       uint64 = 0x00000002
	GetattrUid         uint64 = 0x00000004
	GetattrGid         uint64 = 0x00000008
	GetattrRdev        uint64 = 0x00000010
	GetattrAtime       uint64 = 0x00000020
	GetattrMtime       uint64 = 0x00000040
	GetattrCtime       uint64 = 0x00000080
	GetattrIno         uint64 = 0x00000100
	GetattrSize        uint64 = 0x00000200
	GetattrBlocks      uint64 = 0x00000400
	GetattrBtime       uint64 = 0x00000800
	GetattrGen         uint64 = 0x00001000
	GetattrDataVersion uint64 = 0x00002000

	GetattrBasic uint64 = 0x000007ff
	GetattrAll   uint64 = 0x00003fff
)

// Setattr valid bits, mirroring Linux's P9_ATTR_* constants.
const (
	SetattrMode     uint32 = 0x00000001
	SetattrUid      uint32 = 0x00000002
	SetattrGid      uint32 = 0x00000004
	SetattrSize     uint32 = 0x00000008
	SetattrAtime    uint32 = 0x00000010
	SetattrMtime    uint32 = 0x00000020
	SetattrCtime    uint32 = 0x00000040
	SetattrAtimeSet uint32 = 0x00000080
	SetattrMtimeSet uint32 = 0x00000100
)

// Tgetattr requests a file's attributes. RequestMask is a bitwise-or
// of Getattr* constants naming the fields the client is interested
// in; a server is free to fill in more than asked.
type Tgetattr msg

func (m Tgetattr) Tag() uint16        { return msg(m).Tag() }
func (m Tgetattr) Len() int64         { return msg(m).Len() }
func (m Tgetattr) Fid() uint32        { return guint32(m[7:11]) }
func (m Tgetattr) RequestMask() uint64 { return guint64(m[11:19]) }
func (m Tgetattr) String() string {
	return fmt.Sprintf("Tgetattr fid=%x mask=%#x", m.Fid(), m.RequestMask())
}

// Rgetattr carries the attributes of a single file, the 9P2000.L
// analog of a Unix stat(2) struct plus a few Plan-9-style extras
// (Qid, btime, a change generation counter).
type Rgetattr msg

func (m Rgetattr) Tag() uint16 { return msg(m).Tag() }
func (m Rgetattr) Len() int64  { return msg(m).Len() }

func (m Rgetattr) Valid() uint64     { return guint64(m[7:15]) }
func (m Rgetattr) Qid() Qid          { return Qid(m[15:28]) }
func (m Rgetattr) Mode() uint32      { return guint32(m[28:32]) }
func (m Rgetattr) Uid() uint32       { return guint32(m[32:36]) }
func (m Rgetattr) Gid() uint32       { return guint32(m[36:40]) }
func (m Rgetattr) Nlink() uint64     { return guint64(m[40:48]) }
func (m Rgetattr) Rdev() uint64      { return guint64(m[48:56]) }
func (m Rgetattr) Size() uint64      { return guint64(m[56:64]) }
func (m Rgetattr) Blksize() uint64   { return guint64(m[64:72]) }
func (m Rgetattr) Blocks() uint64    { return guint64(m[72:80]) }
func (m Rgetattr) AtimeSec() uint64  { return guint64(m[80:88]) }
func (m Rgetattr) AtimeNsec() uint64 { return guint64(m[88:96]) }
func (m Rgetattr) MtimeSec() uint64  { return guint64(m[96:104]) }
func (m Rgetattr) MtimeNsec() uint64 { return guint64(m[104:112]) }
func (m Rgetattr) CtimeSec() uint64  { return guint64(m[112:120]) }
func (m Rgetattr) CtimeNsec() uint64 { return guint64(m[120:128]) }
func (m Rgetattr) BtimeSec() uint64  { return guint64(m[128:136]) }
func (m Rgetattr) BtimeNsec() uint64 { return guint64(m[136:144]) }
func (m Rgetattr) Gen() uint64       { return guint64(m[144:152]) }
func (m Rgetattr) DataVersion() uint64 { return guint64(m[152:160]) }

func (m Rgetattr) String() string {
	return fmt.Sprintf("Rgetattr qid=%v mode=%o size=%d", m.Qid(), m.Mode(), m.Size())
}

// Tsetattr requests a change to one or more attributes of a file.
// Valid is a bitwise-or of Setattr* constants; only the named fields
// are meaningful.
type Tsetattr msg

func (m Tsetattr) Tag() uint16 { return msg(m).Tag() }
func (m Tsetattr) Len() int64  { return msg(m).Len() }

func (m Tsetattr) Fid() uint32       { return guint32(m[7:11]) }
func (m Tsetattr) Valid() uint32     { return guint32(m[11:15]) }
func (m Tsetattr) Mode() uint32      { return guint32(m[15:19]) }
func (m Tsetattr) Uid() uint32       { return guint32(m[19:23]) }
func (m Tsetattr) Gid() uint32       { return guint32(m[23:27]) }
func (m Tsetattr) Size() uint64      { return guint64(m[27:35]) }
func (m Tsetattr) AtimeSec() uint64  { return guint64(m[35:43]) }
func (m Tsetattr) AtimeNsec() uint64 { return guint64(m[43:51]) }
func (m Tsetattr) MtimeSec() uint64  { return guint64(m[51:59]) }
func (m Tsetattr) MtimeNsec() uint64 { return guint64(m[59:67]) }

func (m Tsetattr) String() string {
	return fmt.Sprintf("Tsetattr fid=%x valid=%#x", m.Fid(), m.Valid())
}

// Rsetattr carries no fields; its presence confirms the Tsetattr
// succeeded.
type Rsetattr msg

func (m Rsetattr) Tag() uint16    { return msg(m).Tag() }
func (m Rsetattr) Len() int64     { return msg(m).Len() }
func (m Rsetattr) String() string { return "Rsetattr" }
