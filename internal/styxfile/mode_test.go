package styxfile

import (
	"os"
	"testing"
)

func TestFileModeDir(t *testing.T) {
	var st uint32 = sIFDIR | 0750
	mode := ModeOS(st)
	if mode&os.ModeDir == 0 {
		t.Error("expected os.ModeDir set")
	}
	if mode&os.ModePerm != 0750 {
		t.Errorf("perm %o != %o", mode&os.ModePerm, 0750)
	}
}

func TestFileModeSymlink(t *testing.T) {
	mode := ModeOS(sIFLNK | 0777)
	if mode&os.ModeSymlink == 0 {
		t.Error("expected os.ModeSymlink set")
	}
}

func TestFileModeRegular(t *testing.T) {
	mode := ModeOS(sIFREG | 0644)
	if mode&(os.ModeDir|os.ModeSymlink) != 0 {
		t.Error("expected no type bits set for a regular file")
	}
	if mode&os.ModePerm != 0644 {
		t.Errorf("perm %o != %o", mode&os.ModePerm, 0644)
	}
}

func TestMode9P(t *testing.T) {
	perm := Mode9P(os.ModeDir | 0750)
	if perm&sIFMT != sIFDIR {
		t.Error("expected sIFDIR bits")
	}
	if perm&0777 != 0750 {
		t.Error("wrong permission bits")
	}

	perm = Mode9P(os.ModeSymlink | 0777)
	if perm&sIFMT != sIFLNK {
		t.Error("expected sIFLNK bits")
	}

	perm = Mode9P(0644)
	if perm&sIFMT != sIFREG {
		t.Error("expected sIFREG bits for a plain file")
	}
}
