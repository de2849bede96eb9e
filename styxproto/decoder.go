package styxproto

import (
	"bufio"
	"errors"
	"io"
)

var errFillOverflow = errors.New("cannot fill buffer past maxInt")

const maxInt = int(^uint(0) >> 1)

// NewDecoder returns a Decoder with an internal buffer of size
// DefaultBufSize.
func NewDecoder(r io.Reader) *Decoder {
	return NewDecoderSize(r, DefaultBufSize)
}

// NewDecoderSize returns a Decoder with an internal buffer of size
// max(MinBufSize, bufsize) bytes. Because a Decoder buffers an entire
// message before returning it (9P2000.L messages are bounded by the
// negotiated msize, unlike legacy 9P's unbounded Twrite/Rread), bufsize
// should be at least as large as the msize a Conn intends to offer.
func NewDecoderSize(r io.Reader, bufsize int) *Decoder {
	if bufsize < MinBufSize {
		bufsize = MinBufSize
	}
	return &Decoder{r: r, br: bufio.NewReaderSize(r, bufsize), MaxSize: -1}
}

// A Decoder reads a stream of 9P2000.L messages from an io.Reader.
// Successive calls to Next fetch and validate one message at a time
// until EOF or another error is hit.
//
// A Decoder is not safe for concurrent use; callers that share one
// across goroutines must serialize access with a mutex.
type Decoder struct {
	// MaxSize is the largest message a Decoder will accept, matching
	// the msize negotiated on the connection. -1 means no limit.
	MaxSize int64

	r  io.Reader
	br *bufio.Reader

	start, pos int

	msg Msg
	err error
}

// Reset discards any buffered data and state, preparing the Decoder
// to read from r.
func (d *Decoder) Reset(r io.Reader) {
	d.MaxSize = -1
	d.r = r
	d.br.Reset(r)
	d.start, d.pos = 0, 0
	d.msg = nil
	d.err = nil
}

// Err returns the first error encountered during decoding. io.EOF is
// not considered an error and is not returned.
func (d *Decoder) Err() error {
	if d.err == io.EOF {
		return nil
	}
	return d.err
}

// Msg returns the most recently decoded message. It is valid only
// until the next call to Next.
func (d *Decoder) Msg() Msg {
	return d.msg
}

// Next fetches and validates the next message on the wire. It
// returns false on EOF or any decoding/IO error; callers should then
// consult Err.
func (d *Decoder) Next() bool {
	if d.msg != nil {
		if err := d.discardLast(); err != nil {
			d.err = err
			d.msg = nil
			return false
		}
		d.msg = nil
	}
	if d.err != nil {
		return false
	}
	d.resetdot()
	d.msg, d.err = d.fetchMessage()
	return d.msg != nil
}

func (d *Decoder) discardLast() error {
	n := d.msg.Len()
	for n > 0 {
		chunk := maxInt
		if n < int64(chunk) {
			chunk = int(n)
		}
		k, err := d.br.Discard(chunk)
		n -= int64(k)
		if err != nil {
			return err
		}
	}
	return nil
}

// A bufio.Reader doubles as a sliding window over the byte stream.
// The terminology (dot, mark, advance, growdot) follows the sam text
// editor, where "dot" names the current selection.
func (d *Decoder) dot() []byte {
	buf, err := d.br.Peek(d.pos)
	if err != nil {
		panic(err) // unreachable: d.pos bytes were already filled
	}
	return buf[d.start:]
}

func (d *Decoder) resetdot() { d.start, d.pos = 0, 0 }

func (d *Decoder) advance(n int) { d.pos += n }

func (d *Decoder) mark() { d.start = d.pos }

func (d *Decoder) dotlen() int { return d.pos - d.start }

func (d *Decoder) growdot(n int) ([]byte, error) {
	if err := d.fill(n - d.dotlen()); err != nil {
		return nil, err
	}
	d.advance(n - d.dotlen())
	return d.dot(), nil
}

func (d *Decoder) fill(n int) error {
	if maxInt-n < d.pos {
		return errFillOverflow
	}
	_, err := d.br.Peek(d.pos + n)
	return err
}

// fetchMessage reads one complete, size-validated message and runs
// its type-specific field validation.
func (d *Decoder) fetchMessage() (Msg, error) {
	if _, err := d.growdot(minMsgSize); err != nil {
		return nil, err
	}
	header := msg(d.dot())
	size := int64(guint32(header[:4]))

	if size < minMsgSize {
		return nil, errTooSmall
	}
	if size > maxMsgSize {
		return nil, errTooBig
	}
	if d.MaxSize >= 0 && size > d.MaxSize {
		return nil, ErrMaxSize
	}

	raw, err := d.growdot(int(size))
	if err == io.EOF {
		// the stream ended inside a frame whose header was already read
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}
	d.mark()

	dot := msg(raw)
	t := dot.Type()
	if int(t) >= msgMax || verifyBody[t] == nil {
		return BadMessage{Err: errInvalidMsgType, tag: dot.Tag(), raw: dot}, nil
	}
	if len(dot)-7 < minBodyLen[t] {
		return BadMessage{Err: errShortBody, tag: dot.Tag(), raw: dot}, nil
	}
	if err := verifyBody[t](dot); err != nil {
		return BadMessage{Err: err, tag: dot.Tag(), raw: dot}, nil
	}
	return newMsgLUT[t](dot), nil
}
