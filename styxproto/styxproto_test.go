package styxproto

import (
	"bytes"
	"fmt"
	"testing"
)

// TestDecodeStream exercises the Decoder against a sequence of
// messages produced by the Encoder, the way they would appear back
// to back on a wire.
func TestDecodeStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	if err := enc.Tversion(1<<16, "9P2000.L"); err != nil {
		t.Fatal(err)
	}
	if err := enc.Tattach(1, 0, NoFid, "gopher", "/", 1000); err != nil {
		t.Fatal(err)
	}
	if err := enc.Twalk(2, 0, 1, "etc", "passwd"); err != nil {
		t.Fatal(err)
	}
	if err := enc.Tclunk(3, 1); err != nil {
		t.Fatal(err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatal(err)
	}

	dec := NewDecoder(&buf)
	var got []Msg
	for dec.Next() {
		got = append(got, dec.Msg())
	}
	if err := dec.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("decoded %d messages, want 4", len(got))
	}
	for _, m := range got {
		if s, ok := m.(fmt.Stringer); ok {
			t.Logf("%d %s", m.Tag(), s.String())
		} else {
			t.Logf("%d %v", m.Tag(), m)
		}
	}
}
