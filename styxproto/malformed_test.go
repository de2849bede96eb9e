package styxproto

import (
	"strings"
	"testing"
)

// These messages are hand-crafted to fail validation without crashing
// the decoder.

func u32le(n uint32) string {
	return string([]byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)})
}

var malformedMessages = []string{
	// unknown message type, no body
	u32le(7) + "\x63" + "\x00\x00",
	// Tversion with a body shorter than minBodyLen requires
	u32le(9) + "\x64" + "\x00\x00" + "\x00\x00",
	// Rlerror whose size field disagrees with the fixed length of its type
	u32le(12) + "\x07" + "\x01\x00" + "\x00\x00\x00\x00\x00",
}

func TestInvalidMsg(t *testing.T) {
	for _, s := range malformedMessages {
		d := NewDecoder(strings.NewReader(s))
		if !d.Next() {
			t.Errorf("%q: Next returned false, want a BadMessage; err=%v", s, d.Err())
			continue
		}
		if _, ok := d.Msg().(BadMessage); !ok {
			t.Errorf("%q: decoded %T, want BadMessage", s, d.Msg())
		}
	}
}

func TestTruncatedStream(t *testing.T) {
	// declares a size far larger than the data that follows
	s := u32le(1 << 20) + "\x64" + "\xff\xff" + "9P2000.L"
	d := NewDecoder(strings.NewReader(s))
	if d.Next() {
		t.Fatalf("Next succeeded on a truncated stream")
	}
	if d.Err() == nil {
		t.Fatal("expected a non-nil error after a truncated stream")
	}
}
