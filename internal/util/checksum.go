package util

import "hash/crc64"

var table = crc64.MakeTable(crc64.ECMA)

// Hash64 returns a 64-bit hash of p, used to derive a Qid's Version
// field from file content so it rolls whenever the content changes.
func Hash64(p []byte) uint64 {
	return crc64.Checksum(p, table)
}
