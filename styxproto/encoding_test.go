package styxproto

import (
	"bytes"
	"testing"
)

// roundtrip encodes one message with fn, decodes it back, and hands
// the decoded Msg to check for field-level verification.
func roundtrip(t *testing.T, name string, fn func(*Encoder) error, check func(Msg)) {
	t.Helper()

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := fn(enc); err != nil {
		t.Fatalf("%s: encode: %s", name, err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("%s: flush: %s", name, err)
	}

	dec := NewDecoder(&buf)
	if !dec.Next() {
		t.Fatalf("%s: decode: %s", name, dec.Err())
	}
	m := dec.Msg()
	if bad, ok := m.(BadMessage); ok {
		t.Fatalf("%s: decoded a BadMessage: %s", name, bad.Err)
	}
	check(m)
}

func qidFor(t QidType, vers uint32, path uint64) Qid {
	buf := make([]byte, QidLen)
	return PutQid(buf, t, vers, path)
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	qid := qidFor(QTFILE, 1, 0x83208)

	roundtrip(t, "Tversion", func(e *Encoder) error {
		return e.Tversion(1<<16, "9P2000.L")
	}, func(m Msg) {
		v := m.(Tversion)
		if string(v.Version()) != "9P2000.L" || v.Msize() != 1<<16 {
			t.Errorf("Tversion roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tauth", func(e *Encoder) error {
		return e.Tauth(1, 9, "gopher", "", 1000)
	}, func(m Msg) {
		v := m.(Tauth)
		if string(v.Uname()) != "gopher" || v.Afid() != 9 || v.Nuname() != 1000 {
			t.Errorf("Tauth roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rauth", func(e *Encoder) error {
		return e.Rauth(1, qid)
	}, func(m Msg) {
		v := m.(Rauth)
		if v.Aqid().Path() != qid.Path() {
			t.Errorf("Rauth roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tattach", func(e *Encoder) error {
		return e.Tattach(2, 4, NoFid, "gopher", "/", 1000)
	}, func(m Msg) {
		v := m.(Tattach)
		if v.Fid() != 4 || v.Afid() != NoFid || string(v.Aname()) != "/" {
			t.Errorf("Tattach roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rlerror", func(e *Encoder) error {
		return e.Rlerror(3, 2)
	}, func(m Msg) {
		v := m.(Rlerror)
		if v.Ecode() != 2 {
			t.Errorf("Rlerror roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Twalk", func(e *Encoder) error {
		return e.Twalk(4, 4, 5, "var", "log", "messages")
	}, func(m Msg) {
		v := m.(Twalk)
		if v.Nwname() != 3 || string(v.Wname(2)) != "messages" {
			t.Errorf("Twalk roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rwalk", func(e *Encoder) error {
		return e.Rwalk(4, qid, qid)
	}, func(m Msg) {
		v := m.(Rwalk)
		if v.Nwqid() != 2 {
			t.Errorf("Rwalk roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tlopen", func(e *Encoder) error {
		return e.Tlopen(5, 4, 0)
	}, func(m Msg) {
		v := m.(Tlopen)
		if v.Fid() != 4 {
			t.Errorf("Tlopen roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rlopen", func(e *Encoder) error {
		return e.Rlopen(5, qid, 8192)
	}, func(m Msg) {
		v := m.(Rlopen)
		if v.IOunit() != 8192 {
			t.Errorf("Rlopen roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tlcreate", func(e *Encoder) error {
		return e.Tlcreate(6, 4, "frogs.txt", 0, 0755, 0)
	}, func(m Msg) {
		v := m.(Tlcreate)
		if string(v.Name()) != "frogs.txt" || v.Mode() != 0755 {
			t.Errorf("Tlcreate roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tsymlink", func(e *Encoder) error {
		return e.Tsymlink(7, 4, "link", "target", 0)
	}, func(m Msg) {
		v := m.(Tsymlink)
		if string(v.Name()) != "link" || string(v.Symtgt()) != "target" {
			t.Errorf("Tsymlink roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tmknod", func(e *Encoder) error {
		return e.Tmknod(8, 4, "dev0", 0, 8, 1, 0)
	}, func(m Msg) {
		v := m.(Tmknod)
		if v.Major() != 8 || v.Minor() != 1 {
			t.Errorf("Tmknod roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Trename", func(e *Encoder) error {
		return e.Trename(9, 4, 5, "newname")
	}, func(m Msg) {
		v := m.(Trename)
		if string(v.Name()) != "newname" {
			t.Errorf("Trename roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Treadlink", func(e *Encoder) error {
		return e.Treadlink(10, 4)
	}, func(m Msg) {
		v := m.(Treadlink)
		if v.Fid() != 4 {
			t.Errorf("Treadlink roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rreadlink", func(e *Encoder) error {
		return e.Rreadlink(10, "/usr/bin/go")
	}, func(m Msg) {
		v := m.(Rreadlink)
		if string(v.Target()) != "/usr/bin/go" {
			t.Errorf("Rreadlink roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rstatfs", func(e *Encoder) error {
		return e.Rstatfs(11, 0xEF53, 4096, 1000, 500, 400, 100, 50, 0, 255)
	}, func(m Msg) {
		v := m.(Rstatfs)
		if v.Bsize() != 4096 || v.Blocks() != 1000 {
			t.Errorf("Rstatfs roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Txattrwalk", func(e *Encoder) error {
		return e.Txattrwalk(12, 4, 6, "user.test")
	}, func(m Msg) {
		v := m.(Txattrwalk)
		if string(v.Name()) != "user.test" {
			t.Errorf("Txattrwalk roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rxattrwalk", func(e *Encoder) error {
		return e.Rxattrwalk(12, 42)
	}, func(m Msg) {
		v := m.(Rxattrwalk)
		if v.Size() != 42 {
			t.Errorf("Rxattrwalk roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Txattrcreate", func(e *Encoder) error {
		return e.Txattrcreate(13, 4, "user.test", 5, 0)
	}, func(m Msg) {
		v := m.(Txattrcreate)
		if v.AttrSize() != 5 {
			t.Errorf("Txattrcreate roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tfsync", func(e *Encoder) error {
		return e.Tfsync(14, 4)
	}, func(m Msg) {
		v := m.(Tfsync)
		if v.Fid() != 4 {
			t.Errorf("Tfsync roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tlink", func(e *Encoder) error {
		return e.Tlink(15, 4, 5, "hardlink")
	}, func(m Msg) {
		v := m.(Tlink)
		if string(v.Name()) != "hardlink" {
			t.Errorf("Tlink roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tmkdir", func(e *Encoder) error {
		return e.Tmkdir(16, 4, "subdir", 0755, 0)
	}, func(m Msg) {
		v := m.(Tmkdir)
		if string(v.Name()) != "subdir" {
			t.Errorf("Tmkdir roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Trenameat", func(e *Encoder) error {
		return e.Trenameat(17, 4, "old", 5, "new")
	}, func(m Msg) {
		v := m.(Trenameat)
		if string(v.Oldname()) != "old" || string(v.Newname()) != "new" {
			t.Errorf("Trenameat roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tunlinkat", func(e *Encoder) error {
		return e.Tunlinkat(18, 4, "gone", 0)
	}, func(m Msg) {
		v := m.(Tunlinkat)
		if string(v.Name()) != "gone" {
			t.Errorf("Tunlinkat roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tread", func(e *Encoder) error {
		return e.Tread(19, 4, 0, 1024)
	}, func(m Msg) {
		v := m.(Tread)
		if v.Count() != 1024 {
			t.Errorf("Tread roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rread", func(e *Encoder) error {
		_, err := e.Rread(19, []byte("hello, world!"))
		return err
	}, func(m Msg) {
		v := m.(Rread)
		if string(v.Data()) != "hello, world!" {
			t.Errorf("Rread roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Treaddir", func(e *Encoder) error {
		return e.Treaddir(20, 4, 0, 4096)
	}, func(m Msg) {
		v := m.(Treaddir)
		if v.Count() != 4096 {
			t.Errorf("Treaddir roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rreaddir", func(e *Encoder) error {
		buf := make([]byte, 64)
		n := PutDirent(buf, qid, 1, uint8(QTFILE), "entry")
		_, err := e.Rreaddir(20, buf[:n])
		return err
	}, func(m Msg) {
		v := m.(Rreaddir)
		d := Dirent(v.Data())
		if string(d.Name()) != "entry" {
			t.Errorf("Rreaddir roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Twrite", func(e *Encoder) error {
		_, err := e.Twrite(21, 4, 0, []byte("goodbye, world!"))
		return err
	}, func(m Msg) {
		v := m.(Twrite)
		if string(v.Data()) != "goodbye, world!" {
			t.Errorf("Twrite roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rwrite", func(e *Encoder) error {
		return e.Rwrite(21, 15)
	}, func(m Msg) {
		v := m.(Rwrite)
		if v.Count() != 15 {
			t.Errorf("Rwrite roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tgetattr", func(e *Encoder) error {
		return e.Tgetattr(22, 4, GetattrBasic)
	}, func(m Msg) {
		v := m.(Tgetattr)
		if v.RequestMask() != GetattrBasic {
			t.Errorf("Tgetattr roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rgetattr", func(e *Encoder) error {
		return e.Rgetattr(22, GetattrBasic, qid, 0644, 1000, 1000, 1, 0, 4096, 4096, 8,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	}, func(m Msg) {
		v := m.(Rgetattr)
		if v.Mode() != 0644 || v.Size() != 4096 {
			t.Errorf("Rgetattr roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tsetattr", func(e *Encoder) error {
		return e.Tsetattr(23, 4, SetattrMode|SetattrSize, 0600, 0, 0, 0, 0, 0, 0, 0)
	}, func(m Msg) {
		v := m.(Tsetattr)
		if v.Valid()&SetattrMode == 0 || v.Mode() != 0600 {
			t.Errorf("Tsetattr roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tlock", func(e *Encoder) error {
		return e.Tlock(24, 4, LockTypeWrlck, LockFlagBlock, 0, 100, 9999, "client0")
	}, func(m Msg) {
		v := m.(Tlock)
		if v.Type() != LockTypeWrlck || string(v.ClientID()) != "client0" {
			t.Errorf("Tlock roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rlock", func(e *Encoder) error {
		return e.Rlock(24, LockSuccess)
	}, func(m Msg) {
		v := m.(Rlock)
		if v.Status() != LockSuccess {
			t.Errorf("Rlock roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Tgetlock", func(e *Encoder) error {
		return e.Tgetlock(25, 4, LockTypeRdlck, 0, 100, 9999, "client0")
	}, func(m Msg) {
		v := m.(Tgetlock)
		if v.Type() != LockTypeRdlck {
			t.Errorf("Tgetlock roundtrip mismatch: %v", v)
		}
	})

	roundtrip(t, "Rgetlock", func(e *Encoder) error {
		return e.Rgetlock(25, LockTypeUnlck, 0, 0, 0, "")
	}, func(m Msg) {
		v := m.(Rgetlock)
		if v.Type() != LockTypeUnlck {
			t.Errorf("Rgetlock roundtrip mismatch: %v", v)
		}
	})
}

func TestTwalkMaxWElem(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	wname := make([]string, MaxWElem+1)
	for i := range wname {
		wname[i] = "a"
	}
	if err := enc.Twalk(1, 4, 5, wname...); err != errMaxWElem {
		t.Errorf("Twalk with %d elements: got err %v, want errMaxWElem", len(wname), err)
	}
}
