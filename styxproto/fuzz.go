//+build gofuzz

package styxproto

import (
	"bytes"
)

// Automated fuzz testing

func Fuzz(data []byte) int {
	d := NewDecoder(bytes.NewReader(data))
	for d.Next() {
		if d.Msg() == nil {
			panic("d.Next reported a message without returning one")
		}
		return 1
	}
	return 0
}
