package styxproto

import (
	"encoding/binary"
	"io"

	"github.com/ninelib/styxl/internal"
)

// Shorthand for parsing and packing little-endian numbers.
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64

	buint16 = binary.LittleEndian.PutUint16
	buint32 = binary.LittleEndian.PutUint32
	buint64 = binary.LittleEndian.PutUint64
)

// bit-packing functions used by the Encoder. Each writes through an
// internal.ErrWriter, so a failed write anywhere in a message short-
// circuits the rest of the call chain; the caller checks err once at
// the end rather than after every field.

func puint8(w *internal.ErrWriter, v uint8) {
	w.WriteByte(v)
}

func puint16(w *internal.ErrWriter, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.Write(buf[:])
}

func puint32(w *internal.ErrWriter, v ...uint32) {
	var buf [4]byte
	for _, vv := range v {
		binary.LittleEndian.PutUint32(buf[:], vv)
		w.Write(buf[:])
	}
}

func puint64(w *internal.ErrWriter, v ...uint64) {
	var buf [8]byte
	for _, vv := range v {
		binary.LittleEndian.PutUint64(buf[:], vv)
		w.Write(buf[:])
	}
}

func pqid(w *internal.ErrWriter, qids ...Qid) {
	for _, q := range qids {
		w.Write(q[:QidLen])
	}
}

func pstring(w *internal.ErrWriter, s ...string) {
	for _, ss := range s {
		if len(ss) > 0xFFFF {
			w.Err = errLongFilename
			return
		}
		puint16(w, uint16(len(ss)))
		io.WriteString(w, ss)
	}
}

func pdata(w *internal.ErrWriter, p []byte) {
	puint32(w, uint32(len(p)))
	w.Write(p)
}

func pheader(w *internal.ErrWriter, size uint32, mtype uint8, tag uint16) {
	puint32(w, size)
	puint8(w, mtype)
	puint16(w, tag)
}
