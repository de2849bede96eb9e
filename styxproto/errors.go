package styxproto

import "errors"

type parseError string

func (p parseError) Error() string { return string(p) }

var (
	errContainsSlash  = parseError("slash in path element")
	errInvalidMsgType = parseError("invalid message type")
	errInvalidQidType = parseError("invalid type field in qid")
	errInvalidUTF8    = parseError("string is not valid utf8")
	errLongAname      = parseError("aname field too long")
	errLongFilename   = parseError("file name too long")
	errLongSize       = parseError("size field disagrees with actual message size")
	errLongUsername   = parseError("uid or client_id field too long")
	errLongVersion    = parseError("protocol version string too long")
	errMaxWElem       = parseError("maximum walk elements exceeded")
	errNullString     = parseError("NUL in string field")
	errOverSize       = parseError("size of field exceeds size of message")
	errShortBody      = parseError("message body shorter than its type requires")
	errTooBig         = parseError("message is too long")
	errTooSmall       = parseError("message is too small")
	errUnderSize      = parseError("empty space in message")
	errZeroLen        = parseError("zero-length message")
	errMaxCount       = parseError("count field exceeds maximum value of a uint32")
)

// ErrMaxSize is returned during parsing if a message exceeds the
// msize negotiated during the Tversion/Rversion exchange.
var ErrMaxSize = errors.New("message exceeds msize")

// ErrMsgSize is returned by an Encoder's R-message methods when the
// encoded size of a backend-controlled, variable-length reply would
// exceed the Encoder's MaxSize. Nothing is written to the wire when
// this is returned.
var ErrMsgSize = errors.New("encoded message exceeds msize")
