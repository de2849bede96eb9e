package styxl

import (
	"bufio"
	"io"
	"sync"

	"github.com/ninelib/styxl/styxproto"
)

var (
	decoderPool     sync.Pool
	bufioWriterPool sync.Pool
)

func newDecoder(r io.Reader) *styxproto.Decoder {
	if v := decoderPool.Get(); v != nil {
		d := v.(*styxproto.Decoder)
		d.Reset(r)
		return d
	}
	return styxproto.NewDecoderSize(r, styxproto.DefaultBufSize)
}

func putDecoder(d *styxproto.Decoder) {
	d.Reset(nil)
	decoderPool.Put(d)
}

func newBufioWriter(w io.Writer) *bufio.Writer {
	if v := bufioWriterPool.Get(); v != nil {
		bw := v.(*bufio.Writer)
		bw.Reset(w)
		return bw
	}
	return bufio.NewWriterSize(w, styxproto.MinBufSize)
}

func putBufioWriter(w *bufio.Writer) {
	w.Reset(nil)
	bufioWriterPool.Put(w)
}
