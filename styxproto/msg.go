package styxproto

// guint16/guint32/guint64/buint16/buint32/buint64 (little-endian shorthand)
// live in pack.go and are shared across this file.

// NoTag is used in a Tversion/Rversion message, the only exchange
// that happens before a tag pool has been established.
const NoTag uint16 = 0xFFFF

// NoFid signals the absence of a fid, e.g. an unauthenticated Tattach.
const NoFid uint32 = 0xFFFFFFFF

// message type tags, as transmitted in the 1-byte type field. 9P2000.L
// reuses the base 9P2000 numbering for Tversion..Tremove and adds a
// disjoint range (6-77) for its Linux-specific extensions.
const (
	msgTlerror = 6
	msgRlerror = 7

	msgTstatfs = 8
	msgRstatfs = 9

	msgTlopen = 12
	msgRlopen = 13

	msgTlcreate = 14
	msgRlcreate = 15

	msgTsymlink = 16
	msgRsymlink = 17

	msgTmknod = 18
	msgRmknod = 19

	msgTrename = 20
	msgRrename = 21

	msgTreadlink = 22
	msgRreadlink = 23

	msgTgetattr = 24
	msgRgetattr = 25

	msgTsetattr = 26
	msgRsetattr = 27

	msgTxattrwalk = 30
	msgRxattrwalk = 31

	msgTxattrcreate = 32
	msgRxattrcreate = 33

	msgTreaddir = 40
	msgRreaddir = 41

	msgTfsync = 50
	msgRfsync = 51

	msgTlock = 52
	msgRlock = 53

	msgTgetlock = 54
	msgRgetlock = 55

	msgTlink = 70
	msgRlink = 71

	msgTmkdir = 72
	msgRmkdir = 73

	msgTrenameat = 74
	msgRrenameat = 75

	msgTunlinkat = 76
	msgRunlinkat = 77

	msgTversion = 100
	msgRversion = 101
	msgTauth    = 102
	msgRauth    = 103
	msgTattach  = 104
	msgRattach  = 105
	// 106/107 (Terror/Rerror) do not exist in 9P2000.L; Rlerror replaces them.
	msgTflush = 108
	msgRflush = 109
	msgTwalk  = 110
	msgRwalk  = 111
	// 112-115 (Topen/Ropen/Tcreate/Rcreate) are superseded by Tlopen/Tlcreate.
	msgTread  = 116
	msgRread  = 117
	msgTwrite = 118
	msgRwrite = 119
	msgTclunk = 120
	msgRclunk = 121
	msgTremove = 122
	msgRremove = 123
	// 124-127 (Tstat/Rstat/Twstat/Rwstat) are superseded by get/setattr.

	msgMax = 128
)

// msg is the common, untyped representation of any 9P message: a
// length-prefixed byte slice that has already passed size validation.
// Individual message types are distinct slice types over the same
// underlying bytes, exposing typed field accessors.
type msg []byte

func (m msg) Type() uint8  { return m[4] }
func (m msg) Tag() uint16  { return guint16(m[5:7]) }
func (m msg) Len() int64   { return int64(guint32(m[0:4])) }
func (m msg) Body() []byte { return m[7:] }

// nthField returns the nth (0-indexed) 2-byte-length-prefixed string
// field starting at byte offset off in m.
func (m msg) nthField(off, n int) []byte {
	b := m[off:]
	size := int(guint16(b[:2]))
	for i := 0; i < n; i++ {
		b = b[2+size:]
		size = int(guint16(b[:2]))
	}
	return b[2 : 2+size]
}

// fieldEnd returns the absolute offset of the byte just past the nth
// (0-indexed) string field starting at byte offset off in m. Messages
// with fixed-size fields after one or more variable-length strings
// (Tauth's n_uname, Tlcreate's flags/mode/gid, and so on) use this to
// locate them.
func (m msg) fieldEnd(off, n int) int {
	b := off
	for i := 0; i <= n; i++ {
		size := int(guint16(m[b : b+2]))
		b += 2 + size
	}
	return b
}

// A Msg is any 9P2000.L message, T- or R-.
type Msg interface {
	// Tag is the client-assigned transaction identifier. R-messages
	// must echo the Tag of the T-message they respond to.
	Tag() uint16

	// Len returns the total length of the message on the wire,
	// including the 4-byte size field itself.
	Len() int64
}

// BadMessage represents a message that failed validation. Servers
// should reply with Rlerror{EPROTO} citing BadMessage's Tag, then
// typically close the connection, per the fatal-protocol-error policy.
type BadMessage struct {
	Err error
	tag uint16
	raw msg
}

func (m BadMessage) Tag() uint16 { return m.tag }
func (m BadMessage) Len() int64  { return m.raw.Len() }
func (m BadMessage) String() string {
	return "malformed message: " + m.Err.Error()
}
