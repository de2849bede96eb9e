package styxproto

import "fmt"

// A Qid is the server's unique identifier for the file being accessed:
// two files on the same connection are the same file if and only if
// their Qids are equal. A Qid is 13 bytes on the wire: a type byte, a
// 4-byte version, and an 8-byte path.
type Qid []byte

// PutQid packs a Qid into the first 13 bytes of buf, which must have
// length at least QidLen, and returns the packed Qid.
func PutQid(buf []byte, qtype QidType, version uint32, path uint64) Qid {
	_ = buf[QidLen-1]
	buf[0] = byte(qtype)
	buint32(buf[1:5], version)
	buint64(buf[5:13], path)
	return Qid(buf[:QidLen])
}

// Type returns the type of a file (directory, symlink, etc), as a set
// of QidType bits.
func (q Qid) Type() QidType { return QidType(q[0]) }

// Version increases whenever the file's contents change; servers that
// cannot track this may always report 0.
func (q Qid) Version() uint32 { return guint32(q[1:5]) }

// Path uniquely identifies a file within a given attach point, for as
// long as that file exists. A deleted and recreated file under the
// same name must not reuse the old Path.
func (q Qid) Path() uint64 { return guint64(q[5:13]) }

func (q Qid) String() string {
	return fmt.Sprintf("(%02x %d %x)", q.Type(), q.Version(), q.Path())
}

// A QidType is a bit vector describing the kind of file a Qid refers
// to. QidTypeFromMode derives it from a Unix mode's file-type bits.
type QidType uint8

const (
	QTDIR     QidType = 0x80 // directory
	QTAPPEND  QidType = 0x40 // append-only file
	QTEXCL    QidType = 0x20 // exclusive-use file
	QTMOUNT   QidType = 0x10 // mounted channel
	QTAUTH    QidType = 0x08 // authentication file (afid)
	QTTMP     QidType = 0x04 // non-backed-up file
	QTSYMLINK QidType = 0x02 // symbolic link
	QTLINK    QidType = 0x01 // hard link
	QTFILE    QidType = 0x00 // plain file
)

// QidTypeFromMode derives the Qid type bits from a Unix file mode's
// type bits.
func QidTypeFromMode(mode uint32) QidType {
	const sIFMT = 0170000
	const (
		sIFDIR  = 0040000
		sIFLNK  = 0120000
	)
	switch mode & sIFMT {
	case sIFDIR:
		return QTDIR
	case sIFLNK:
		return QTSYMLINK
	default:
		return QTFILE
	}
}
