package styxfile

import "os"

// Unix file type bits, as reported in the mode field of Tsetattr/Rgetattr
// and used to derive a Qid's type.
const (
	sIFMT  = 0170000
	sIFLNK = 0120000
	sIFREG = 0100000
	sIFDIR = 0040000
)

// ModeOS converts a 9P2000.L Unix mode word to an os.FileMode, for
// backends that want to reuse Go's os.FileMode bit vocabulary
// internally.
func ModeOS(mode uint32) os.FileMode {
	perm := os.FileMode(mode) & os.ModePerm
	switch mode & sIFMT {
	case sIFDIR:
		return perm | os.ModeDir
	case sIFLNK:
		return perm | os.ModeSymlink
	default:
		return perm
	}
}

// Mode9P converts an os.FileMode back to a 9P2000.L Unix mode word.
func Mode9P(mode os.FileMode) uint32 {
	perm := uint32(mode.Perm())
	switch {
	case mode&os.ModeDir != 0:
		return perm | sIFDIR
	case mode&os.ModeSymlink != 0:
		return perm | sIFLNK
	default:
		return perm | sIFREG
	}
}
