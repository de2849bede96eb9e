package styxproto

// Validating messages becomes more complicated if we allow arbitrarily-long
// values for some of the non-fixed fields in a message. To simplify things,
// we put hard limits on how big any of these fields can be.

// MaxVersionLen is the maximum length of the protocol version string, in bytes.
const MaxVersionLen = 20

// MaxFilenameLen is the maximum length of a single path element, in bytes.
const MaxFilenameLen = 512

// MaxWElem is the maximum number of path elements in a single Twalk request.
const MaxWElem = 16

// MaxUidLen is the maximum length (in bytes) of a uname or client_id string.
const MaxUidLen = 45

// MaxAttachLen is the maximum length (in bytes) of the aname field of
// Tattach and Tauth.
const MaxAttachLen = 255

// MaxErrorLen bounds any textual error styxl logs locally. 9P2000.L never
// puts an error string on the wire (Rlerror carries only a numeric ecode),
// so this is not a wire limit, just a sanity bound for local log lines.
const MaxErrorLen = 512

// MinBufSize is the minimum size, in bytes, of a Decoder or Encoder's
// internal buffer. It must be large enough to hold the largest fixed-size
// message header, a Twalk with MaxWElem path elements.
const MinBufSize = MaxWElem*(MaxFilenameLen+2) + 32

// DefaultBufSize is the default buffer size used by a Decoder.
const DefaultBufSize = 1 << 20

// DefaultMaxSize is the msize a Conn offers in Rversion if the caller
// configured none.
const DefaultMaxSize = 64 * 1024

// QidLen is the wire length, in bytes, of a packed Qid.
const QidLen = 13

// largest possible message, bound by the width of the size[4] field.
const maxMsgSize = 1<<32 - 1

// smallest possible message: size[4] type[1] tag[2], no body.
const minMsgSize = 4 + 1 + 2

// minBodyLen gives, for each message type, the minimum number of bytes
// that must follow the 7-byte size+type+tag header: every variable-length
// field at its minimum (an empty string is still a 2-byte length prefix).
// A message shorter than this cannot be well-formed and is rejected before
// its variable-length fields are even scanned.
var minBodyLen = [msgMax]int{
	msgTversion: 4 + 2, // msize[4] version[s]
	msgRversion: 4 + 2,

	msgTauth: 4 + 2 + 2 + 4, // afid[4] uname[s] aname[s] n_uname[4]
	msgRauth: QidLen,

	msgTattach: 4 + 4 + 2 + 2 + 4, // fid[4] afid[4] uname[s] aname[s] n_uname[4]
	msgRattach: QidLen,

	msgRlerror: 4, // ecode[4]

	msgTflush: 2, // oldtag[2]
	msgRflush: 0,

	msgTwalk: 4 + 4 + 2, // fid[4] newfid[4] nwname[2]
	msgRwalk: 2,         // nwqid[2]

	msgTread:  4 + 8 + 4, // fid[4] offset[8] count[4]
	msgRread:  4,         // count[4]
	msgTwrite: 4 + 8 + 4, // fid[4] offset[8] count[4]
	msgRwrite: 4,         // count[4]

	msgTclunk:  4,
	msgRclunk:  0,
	msgTremove: 4,
	msgRremove: 0,

	msgTstatfs: 4, // fid[4]
	msgRstatfs: 4 + 4 + 8 + 8 + 8 + 8 + 8 + 8 + 4,

	msgTlopen: 4 + 4, // fid[4] flags[4]
	msgRlopen: QidLen + 4,

	msgTlcreate: 4 + 2 + 4 + 4 + 4, // fid[4] name[s] flags[4] mode[4] gid[4]
	msgRlcreate: QidLen + 4,

	msgTsymlink: 4 + 2 + 2 + 4, // fid[4] name[s] symtgt[s] gid[4]
	msgRsymlink: QidLen,

	msgTmknod: 4 + 2 + 4 + 4 + 4 + 4, // dfid[4] name[s] mode[4] major[4] minor[4] gid[4]
	msgRmknod: QidLen,

	msgTrename: 4 + 4 + 2, // fid[4] dfid[4] name[s]
	msgRrename: 0,

	msgTreadlink: 4, // fid[4]
	msgRreadlink: 2, // target[s]

	msgTgetattr: 4 + 8,                                                // fid[4] request_mask[8]
	msgRgetattr: 8 + QidLen + 4 + 4 + 4 + 8 + 8 + 8 + 8 + 8 + (8 * 10), // valid..data_version

	msgTsetattr: 4 + 4 + 4 + 4 + 4 + 8 + 8 + 8 + 8 + 8,
	msgRsetattr: 0,

	msgTxattrwalk: 4 + 4 + 2, // fid[4] newfid[4] name[s]
	msgRxattrwalk: 8,         // size[8]

	msgTxattrcreate: 4 + 2 + 8 + 4, // fid[4] name[s] attr_size[8] flags[4]
	msgRxattrcreate: 0,

	msgTreaddir: 4 + 8 + 4, // fid[4] offset[8] count[4]
	msgRreaddir: 4,         // count[4]

	msgTfsync: 4,
	msgRfsync: 0,

	msgTlock: 4 + 1 + 4 + 8 + 8 + 4 + 2, // fid type flags start length proc_id client_id[s]
	msgRlock: 1,

	msgTgetlock: 4 + 1 + 8 + 8 + 4 + 2, // fid type start length proc_id client_id[s]
	msgRgetlock: 1 + 8 + 8 + 4 + 2,

	msgTlink: 4 + 4 + 2, // dfid[4] fid[4] name[s]
	msgRlink: 0,

	msgTmkdir: 4 + 2 + 4 + 4, // dfid[4] name[s] mode[4] gid[4]
	msgRmkdir: QidLen,

	msgTrenameat: 4 + 2 + 4 + 2, // olddirfid[4] oldname[s] newdirfid[4] newname[s]
	msgRrenameat: 0,

	msgTunlinkat: 4 + 2 + 4, // dirfid[4] name[s] flags[4]
	msgRunlinkat: 0,
}
