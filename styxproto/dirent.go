package styxproto

import "fmt"

// A Dirent is one packed entry in an Rreaddir reply: qid[13] offset[8]
// type[1] name[s]. Offset is the value a client should send back as
// the offset of the following Treaddir to resume the listing after
// this entry.
type Dirent []byte

func (d Dirent) Qid() Qid       { return Qid(d[0:13]) }
func (d Dirent) Offset() uint64 { return guint64(d[13:21]) }
func (d Dirent) Type() uint8    { return d[21] }
func (d Dirent) Name() []byte   { return msg(d).nthField(22, 0) }

// Len returns the number of bytes this entry occupies on the wire.
func (d Dirent) Len() int { return 22 + 2 + len(d.Name()) }

func (d Dirent) String() string {
	return fmt.Sprintf("%s off=%d type=%d qid=%v", d.Name(), d.Offset(), d.Type(), d.Qid())
}

// PutDirent packs one directory entry into buf, which must have
// length at least 24+len(name), and returns the number of bytes
// written.
func PutDirent(buf []byte, qid Qid, offset uint64, etype uint8, name string) int {
	copy(buf[0:13], qid[:QidLen])
	buint64(buf[13:21], offset)
	buf[21] = etype
	buint16(buf[22:24], uint16(len(name)))
	copy(buf[24:], name)
	return 24 + len(name)
}
