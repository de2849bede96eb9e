package styxproto

import (
	"bytes"
	"io/ioutil"
	"testing"
)

// sampleTraffic builds a representative back-to-back sequence of
// 9P2000.L messages, standing in for a capture off the wire.
func sampleTraffic(b *testing.B) []byte {
	b.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	check := func(err error) {
		if err != nil {
			b.Fatal(err)
		}
	}
	check(enc.Tversion(1<<16, "9P2000.L"))
	check(enc.Rversion(1<<16, "9P2000.L"))
	check(enc.Tattach(1, 0, NoFid, "gopher", "/", 1000))
	aqid := qidFor(QTDIR, 1, 1)
	check(enc.Rattach(1, aqid))
	check(enc.Twalk(2, 0, 1, "etc", "passwd"))
	wqid := []Qid{qidFor(QTDIR, 1, 2), qidFor(QTFILE, 1, 3)}
	check(enc.Rwalk(2, wqid...))
	check(enc.Tlopen(3, 1, 0))
	check(enc.Rlopen(3, qidFor(QTFILE, 1, 3), 8192))
	check(enc.Tread(4, 1, 0, 4096))
	_, err := enc.Rread(4, bytes.Repeat([]byte("x"), 512))
	check(err)
	_, err = enc.Twrite(5, 1, 0, bytes.Repeat([]byte("y"), 512))
	check(err)
	check(enc.Rwrite(5, 512))
	check(enc.Tgetattr(6, 1, GetattrBasic))
	check(enc.Rgetattr(6, GetattrBasic, qidFor(QTFILE, 1, 3),
		0644, 1000, 1000, 1, 0, 512, 4096, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0))
	check(enc.Tclunk(7, 1))
	check(enc.Rclunk(7))
	check(enc.Flush())
	return buf.Bytes()
}

func benchmarkDecode(b *testing.B, data []byte) {
	r := bytes.NewReader(data)
	d := NewDecoder(r)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for d.Next() {
		}
		if err := d.Err(); err != nil {
			b.Error(err)
		}
		r.Reset(data)
		d.Reset(r)
	}
}

func copyQid(q Qid) Qid {
	c := make(Qid, QidLen)
	copy(c, q)
	return c
}

func copyBytes(p []byte) []byte {
	c := make([]byte, len(p))
	copy(c, p)
	return c
}

// benchmarkEncode decodes a sample traffic capture once, recording one
// closure per message, then replays those closures against a fresh
// Encoder every iteration.
func benchmarkEncode(b *testing.B, data []byte) {
	d := NewDecoder(bytes.NewReader(data))

	var operations []func(*Encoder)

	type Fcall interface {
		Fid() uint32
	}
	for d.Next() {
		var op func(*Encoder)
		var fid uint32
		tag := d.Msg().Tag()

		if f, ok := d.Msg().(Fcall); ok {
			fid = f.Fid()
		}
		// The decoder reuses its buffer space on every call to Next,
		// so anything retained across iterations must be copied.
		switch m := d.Msg().(type) {
		case Tversion:
			msize := m.Msize()
			version := string(m.Version())
			op = func(e *Encoder) { e.Tversion(msize, version) }
		case Rversion:
			msize := m.Msize()
			version := string(m.Version())
			op = func(e *Encoder) { e.Rversion(msize, version) }
		case Tattach:
			afid := m.Afid()
			uname := string(m.Uname())
			aname := string(m.Aname())
			nuname := m.Nuname()
			op = func(e *Encoder) { e.Tattach(tag, fid, afid, uname, aname, nuname) }
		case Rattach:
			qid := copyQid(m.Qid())
			op = func(e *Encoder) { e.Rattach(tag, qid) }
		case Twalk:
			newfid := m.Newfid()
			wname := make([]string, 0, m.Nwname())
			for i := 0; i < m.Nwname(); i++ {
				wname = append(wname, string(m.Wname(i)))
			}
			op = func(e *Encoder) { e.Twalk(tag, fid, newfid, wname...) }
		case Rwalk:
			wqid := make([]Qid, 0, m.Nwqid())
			for i := 0; i < m.Nwqid(); i++ {
				wqid = append(wqid, copyQid(m.Wqid(i)))
			}
			op = func(e *Encoder) { e.Rwalk(tag, wqid...) }
		case Tlopen:
			flags := m.Flags()
			op = func(e *Encoder) { e.Tlopen(tag, fid, flags) }
		case Rlopen:
			qid := copyQid(m.Qid())
			iounit := m.IOunit()
			op = func(e *Encoder) { e.Rlopen(tag, qid, iounit) }
		case Tread:
			offset := m.Offset()
			count := m.Count()
			op = func(e *Encoder) { e.Tread(tag, fid, int64(offset), int64(count)) }
		case Rread:
			rdata := copyBytes(m.Data())
			op = func(e *Encoder) { e.Rread(tag, rdata) }
		case Twrite:
			wdata := copyBytes(m.Data())
			offset := m.Offset()
			op = func(e *Encoder) { e.Twrite(tag, fid, int64(offset), wdata) }
		case Rwrite:
			count := m.Count()
			op = func(e *Encoder) { e.Rwrite(tag, count) }
		case Tgetattr:
			mask := m.RequestMask()
			op = func(e *Encoder) { e.Tgetattr(tag, fid, mask) }
		case Rgetattr:
			valid := m.Valid()
			qid := copyQid(m.Qid())
			mode, uid, gid := m.Mode(), m.Uid(), m.Gid()
			nlink, rdev, size := m.Nlink(), m.Rdev(), m.Size()
			blksize, blocks := m.Blksize(), m.Blocks()
			op = func(e *Encoder) {
				e.Rgetattr(tag, valid, qid, mode, uid, gid, nlink, rdev, size,
					blksize, blocks, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
			}
		case Tclunk:
			op = func(e *Encoder) { e.Tclunk(tag, fid) }
		case Rclunk:
			op = func(e *Encoder) { e.Rclunk(tag) }
		default:
			b.Fatalf("unhandled type %T in encoder benchmark", m)
		}
		operations = append(operations, op)
	}
	if err := d.Err(); err != nil {
		b.Fatal(err)
	}

	e := NewEncoder(ioutil.Discard)
	b.ResetTimer()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		for _, op := range operations {
			op(e)
		}
	}
}

func BenchmarkDecode(b *testing.B) { benchmarkDecode(b, sampleTraffic(b)) }
func BenchmarkEncode(b *testing.B) { benchmarkEncode(b, sampleTraffic(b)) }
