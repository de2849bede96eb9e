package styxproto

import "unicode/utf8"

// verifyBody holds, per message type, a function that checks the
// variable-length and semantic parts of a message a minBodyLen check
// alone cannot catch (string encodings, walk element counts, and so
// on). A nil entry means the type is unknown to this decoder.
var verifyBody [msgMax]func(msg) error

// newMsgLUT converts a verified msg into its typed representation.
var newMsgLUT [msgMax]func(msg) Msg

func init() {
	fixed := func(t uint8) func(msg) error {
		return func(m msg) error {
			if len(m)-7 != minBodyLen[t] {
				return errLongSize
			}
			return nil
		}
	}

	verifyBody[msgTversion] = verifyVersion
	verifyBody[msgRversion] = verifyVersion
	verifyBody[msgTauth] = verifyAuthBody
	verifyBody[msgRauth] = verifyQidBody(7)
	verifyBody[msgTattach] = verifyAttachBody
	verifyBody[msgRattach] = verifyQidBody(7)
	verifyBody[msgRlerror] = fixed(msgRlerror)
	verifyBody[msgTflush] = fixed(msgTflush)
	verifyBody[msgRflush] = fixed(msgRflush)
	verifyBody[msgTwalk] = verifyTwalk
	verifyBody[msgRwalk] = verifyRwalk
	verifyBody[msgTread] = fixed(msgTread)
	verifyBody[msgRread] = verifyCountedData(7, msgRread)
	verifyBody[msgTwrite] = verifyCountedData(19, msgTwrite)
	verifyBody[msgRwrite] = fixed(msgRwrite)
	verifyBody[msgTclunk] = fixed(msgTclunk)
	verifyBody[msgRclunk] = fixed(msgRclunk)
	verifyBody[msgTremove] = fixed(msgTremove)
	verifyBody[msgRremove] = fixed(msgRremove)
	verifyBody[msgTstatfs] = fixed(msgTstatfs)
	verifyBody[msgRstatfs] = fixed(msgRstatfs)
	verifyBody[msgTlopen] = fixed(msgTlopen)
	verifyBody[msgRlopen] = verifyQidIounitBody
	verifyBody[msgTlcreate] = verifyTlcreate
	verifyBody[msgRlcreate] = verifyQidIounitBody
	verifyBody[msgTsymlink] = verifyTsymlink
	verifyBody[msgRsymlink] = verifyQidBody(7)
	verifyBody[msgTmknod] = verifyTmknod
	verifyBody[msgRmknod] = verifyQidBody(7)
	verifyBody[msgTrename] = verifyTrename
	verifyBody[msgRrename] = fixed(msgRrename)
	verifyBody[msgTreadlink] = fixed(msgTreadlink)
	verifyBody[msgRreadlink] = verifySingleString(7, 0)
	verifyBody[msgTgetattr] = fixed(msgTgetattr)
	verifyBody[msgRgetattr] = fixed(msgRgetattr)
	verifyBody[msgTsetattr] = fixed(msgTsetattr)
	verifyBody[msgRsetattr] = fixed(msgRsetattr)
	verifyBody[msgTxattrwalk] = verifyTxattrwalk
	verifyBody[msgRxattrwalk] = fixed(msgRxattrwalk)
	verifyBody[msgTxattrcreate] = verifyTxattrcreate
	verifyBody[msgRxattrcreate] = fixed(msgRxattrcreate)
	verifyBody[msgTreaddir] = fixed(msgTreaddir)
	verifyBody[msgRreaddir] = verifyCountedData(7, msgRreaddir)
	verifyBody[msgTfsync] = fixed(msgTfsync)
	verifyBody[msgRfsync] = fixed(msgRfsync)
	verifyBody[msgTlock] = verifyTlock
	verifyBody[msgRlock] = fixed(msgRlock)
	verifyBody[msgTgetlock] = verifyTgetlock
	verifyBody[msgRgetlock] = verifyRgetlock
	verifyBody[msgTlink] = verifyTlink
	verifyBody[msgRlink] = fixed(msgRlink)
	verifyBody[msgTmkdir] = verifyTmkdir
	verifyBody[msgRmkdir] = verifyQidBody(7)
	verifyBody[msgTrenameat] = verifyTrenameat
	verifyBody[msgRrenameat] = fixed(msgRrenameat)
	verifyBody[msgTunlinkat] = verifyTunlinkat
	verifyBody[msgRunlinkat] = fixed(msgRunlinkat)

	newMsgLUT[msgTversion] = func(m msg) Msg { return Tversion(m) }
	newMsgLUT[msgRversion] = func(m msg) Msg { return Rversion(m) }
	newMsgLUT[msgTauth] = func(m msg) Msg { return Tauth(m) }
	newMsgLUT[msgRauth] = func(m msg) Msg { return Rauth(m) }
	newMsgLUT[msgTattach] = func(m msg) Msg { return Tattach(m) }
	newMsgLUT[msgRattach] = func(m msg) Msg { return Rattach(m) }
	newMsgLUT[msgRlerror] = func(m msg) Msg { return Rlerror(m) }
	newMsgLUT[msgTflush] = func(m msg) Msg { return Tflush(m) }
	newMsgLUT[msgRflush] = func(m msg) Msg { return Rflush(m) }
	newMsgLUT[msgTwalk] = func(m msg) Msg { return Twalk(m) }
	newMsgLUT[msgRwalk] = func(m msg) Msg { return Rwalk(m) }
	newMsgLUT[msgTread] = func(m msg) Msg { return Tread(m) }
	newMsgLUT[msgRread] = func(m msg) Msg { return Rread(m) }
	newMsgLUT[msgTwrite] = func(m msg) Msg { return Twrite(m) }
	newMsgLUT[msgRwrite] = func(m msg) Msg { return Rwrite(m) }
	newMsgLUT[msgTclunk] = func(m msg) Msg { return Tclunk(m) }
	newMsgLUT[msgRclunk] = func(m msg) Msg { return Rclunk(m) }
	newMsgLUT[msgTremove] = func(m msg) Msg { return Tremove(m) }
	newMsgLUT[msgRremove] = func(m msg) Msg { return Rremove(m) }
	newMsgLUT[msgTstatfs] = func(m msg) Msg { return Tstatfs(m) }
	newMsgLUT[msgRstatfs] = func(m msg) Msg { return Rstatfs(m) }
	newMsgLUT[msgTlopen] = func(m msg) Msg { return Tlopen(m) }
	newMsgLUT[msgRlopen] = func(m msg) Msg { return Rlopen(m) }
	newMsgLUT[msgTlcreate] = func(m msg) Msg { return Tlcreate(m) }
	newMsgLUT[msgRlcreate] = func(m msg) Msg { return Rlcreate(m) }
	newMsgLUT[msgTsymlink] = func(m msg) Msg { return Tsymlink(m) }
	newMsgLUT[msgRsymlink] = func(m msg) Msg { return Rsymlink(m) }
	newMsgLUT[msgTmknod] = func(m msg) Msg { return Tmknod(m) }
	newMsgLUT[msgRmknod] = func(m msg) Msg { return Rmknod(m) }
	newMsgLUT[msgTrename] = func(m msg) Msg { return Trename(m) }
	newMsgLUT[msgRrename] = func(m msg) Msg { return Rrename(m) }
	newMsgLUT[msgTreadlink] = func(m msg) Msg { return Treadlink(m) }
	newMsgLUT[msgRreadlink] = func(m msg) Msg { return Rreadlink(m) }
	newMsgLUT[msgTgetattr] = func(m msg) Msg { return Tgetattr(m) }
	newMsgLUT[msgRgetattr] = func(m msg) Msg { return Rgetattr(m) }
	newMsgLUT[msgTsetattr] = func(m msg) Msg { return Tsetattr(m) }
	newMsgLUT[msgRsetattr] = func(m msg) Msg { return Rsetattr(m) }
	newMsgLUT[msgTxattrwalk] = func(m msg) Msg { return Txattrwalk(m) }
	newMsgLUT[msgRxattrwalk] = func(m msg) Msg { return Rxattrwalk(m) }
	newMsgLUT[msgTxattrcreate] = func(m msg) Msg { return Txattrcreate(m) }
	newMsgLUT[msgRxattrcreate] = func(m msg) Msg { return Rxattrcreate(m) }
	newMsgLUT[msgTreaddir] = func(m msg) Msg { return Treaddir(m) }
	newMsgLUT[msgRreaddir] = func(m msg) Msg { return Rreaddir(m) }
	newMsgLUT[msgTfsync] = func(m msg) Msg { return Tfsync(m) }
	newMsgLUT[msgRfsync] = func(m msg) Msg { return Rfsync(m) }
	newMsgLUT[msgTlock] = func(m msg) Msg { return Tlock(m) }
	newMsgLUT[msgRlock] = func(m msg) Msg { return Rlock(m) }
	newMsgLUT[msgTgetlock] = func(m msg) Msg { return Tgetlock(m) }
	newMsgLUT[msgRgetlock] = func(m msg) Msg { return Rgetlock(m) }
	newMsgLUT[msgTlink] = func(m msg) Msg { return Tlink(m) }
	newMsgLUT[msgRlink] = func(m msg) Msg { return Rlink(m) }
	newMsgLUT[msgTmkdir] = func(m msg) Msg { return Tmkdir(m) }
	newMsgLUT[msgRmkdir] = func(m msg) Msg { return Rmkdir(m) }
	newMsgLUT[msgTrenameat] = func(m msg) Msg { return Trenameat(m) }
	newMsgLUT[msgRrenameat] = func(m msg) Msg { return Rrenameat(m) }
	newMsgLUT[msgTunlinkat] = func(m msg) Msg { return Tunlinkat(m) }
	newMsgLUT[msgRunlinkat] = func(m msg) Msg { return Runlinkat(m) }
}

func verifyString(s []byte) error {
	if !utf8.Valid(s) {
		return errInvalidUTF8
	}
	return nil
}

func verifyPathElem(s []byte) error {
	if err := verifyString(s); err != nil {
		return err
	}
	if len(s) > MaxFilenameLen {
		return errLongFilename
	}
	for _, b := range s {
		if b == '/' {
			return errContainsSlash
		}
	}
	return nil
}

func verifyQidType(q Qid) error {
	switch q.Type() &^ (QTDIR | QTAPPEND | QTEXCL | QTMOUNT | QTAUTH | QTTMP | QTSYMLINK | QTLINK) {
	case 0:
		return nil
	}
	return errInvalidQidType
}

func verifyQidBody(off int) func(msg) error {
	return func(m msg) error {
		if len(m)-7 != off-7+QidLen {
			return errLongSize
		}
		return verifyQidType(Qid(m[off : off+QidLen]))
	}
}

func verifyQidIounitBody(m msg) error {
	if len(m)-7 != QidLen+4 {
		return errLongSize
	}
	return verifyQidType(Qid(m[7 : 7+QidLen]))
}

func verifySingleString(off, n int) func(msg) error {
	return func(m msg) error {
		s := m.nthField(off, n)
		if err := verifyString(s); err != nil {
			return err
		}
		if m.fieldEnd(off, n) != len(m) {
			return errLongSize
		}
		return nil
	}
}

func verifyVersion(m msg) error {
	ver := m.nthField(11, 0)
	if err := verifyString(ver); err != nil {
		return err
	}
	if len(ver) > MaxVersionLen {
		return errLongVersion
	}
	if m.fieldEnd(11, 0) != len(m) {
		return errLongSize
	}
	return nil
}

// verifyUnameAname checks the uname/aname pair (plus trailing
// n_uname[4]) common to Tauth and Tattach, starting at off.
func verifyUnameAname(m msg, off int) error {
	uname := m.nthField(off, 0)
	if err := verifyString(uname); err != nil {
		return err
	}
	if len(uname) > MaxUidLen {
		return errLongUsername
	}
	aname := m.nthField(off, 1)
	if err := verifyString(aname); err != nil {
		return err
	}
	if len(aname) > MaxAttachLen {
		return errLongAname
	}
	if m.fieldEnd(off, 1)+4 != len(m) {
		return errLongSize
	}
	return nil
}

func verifyAuthBody(m msg) error { return verifyUnameAname(m, 11) }

func verifyAttachBody(m msg) error { return verifyUnameAname(m, 15) }

func verifyTwalk(m msg) error {
	nwname := int(guint16(m[15:17]))
	if nwname > MaxWElem {
		return errMaxWElem
	}
	off := 17
	for i := 0; i < nwname; i++ {
		el := m.nthField(17, i)
		if err := verifyPathElem(el); err != nil {
			return err
		}
	}
	off = m.fieldEnd(17, nwname-1)
	if nwname == 0 {
		off = 17
	}
	if off != len(m) {
		return errLongSize
	}
	return nil
}

func verifyRwalk(m msg) error {
	nwqid := int(guint16(m[7:9]))
	if nwqid > MaxWElem {
		return errMaxWElem
	}
	if len(m)-9 != nwqid*QidLen {
		return errLongSize
	}
	for i := 0; i < nwqid; i++ {
		if err := verifyQidType(Qid(m[9+i*QidLen : 9+(i+1)*QidLen])); err != nil {
			return err
		}
	}
	return nil
}

// verifyCountedData checks the count[4] field at off against the
// trailing raw payload, used by Rread/Twrite/Rreaddir.
func verifyCountedData(off int, _ uint8) func(msg) error {
	return func(m msg) error {
		count := int64(guint32(m[off : off+4]))
		want := int64(off+4) + count
		if want != int64(len(m)) {
			if want < int64(len(m)) {
				return errUnderSize
			}
			return errOverSize
		}
		return nil
	}
}

func verifyTlcreate(m msg) error {
	name := m.nthField(11, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(11, 0)+12 != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTsymlink(m msg) error {
	name := m.nthField(11, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	tgt := m.nthField(11, 1)
	if err := verifyString(tgt); err != nil {
		return err
	}
	if m.fieldEnd(11, 1)+4 != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTmknod(m msg) error {
	name := m.nthField(11, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(11, 0)+16 != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTrename(m msg) error {
	name := m.nthField(15, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(15, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTxattrwalk(m msg) error {
	name := m.nthField(15, 0)
	if err := verifyString(name); err != nil {
		return err
	}
	if len(name) > MaxFilenameLen {
		return errLongFilename
	}
	if m.fieldEnd(15, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTxattrcreate(m msg) error {
	name := m.nthField(11, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(11, 0)+12 != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTlock(m msg) error {
	cid := m.nthField(36, 0)
	if err := verifyString(cid); err != nil {
		return err
	}
	if len(cid) > MaxUidLen {
		return errLongUsername
	}
	if m.fieldEnd(36, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTgetlock(m msg) error {
	cid := m.nthField(32, 0)
	if err := verifyString(cid); err != nil {
		return err
	}
	if len(cid) > MaxUidLen {
		return errLongUsername
	}
	if m.fieldEnd(32, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyRgetlock(m msg) error {
	cid := m.nthField(28, 0)
	if err := verifyString(cid); err != nil {
		return err
	}
	if len(cid) > MaxUidLen {
		return errLongUsername
	}
	if m.fieldEnd(28, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTlink(m msg) error {
	name := m.nthField(15, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(15, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTmkdir(m msg) error {
	name := m.nthField(11, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(11, 0)+8 != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTrenameat(m msg) error {
	oldname := m.nthField(11, 0)
	if err := verifyPathElem(oldname); err != nil {
		return err
	}
	off := m.fieldEnd(11, 0)
	newname := m.nthField(off+4, 0)
	if err := verifyPathElem(newname); err != nil {
		return err
	}
	if m.fieldEnd(off+4, 0) != len(m) {
		return errLongSize
	}
	return nil
}

func verifyTunlinkat(m msg) error {
	name := m.nthField(11, 0)
	if err := verifyPathElem(name); err != nil {
		return err
	}
	if m.fieldEnd(11, 0)+4 != len(m) {
		return errLongSize
	}
	return nil
}
