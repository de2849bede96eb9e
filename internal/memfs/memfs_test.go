package memfs

import (
	"context"
	"testing"

	"github.com/ninelib/styxl"
)

func attach(t *testing.T, fs *FS) styxl.FidState {
	t.Helper()
	state, _, err := fs.Attach(context.Background(), nil, false, "gopher", "", 1000)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return state
}

func TestCreateWriteRead(t *testing.T) {
	fs := New(0, 0)
	root := attach(t, fs)

	child, _, _, err := fs.Create(context.Background(), root, "greeting", 0, 0644, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := fs.Write(context.Background(), child, 0, []byte("hello, 9p"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 9 {
		t.Fatalf("Write returned %d, want 9", n)
	}

	got, err := fs.Read(context.Background(), child, 0, 64)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "hello, 9p" {
		t.Errorf("Read = %q, want %q", got, "hello, 9p")
	}
}

func TestXattrRoundTrip(t *testing.T) {
	fs := New(0, 0)
	root := attach(t, fs)

	child, _, _, err := fs.Create(context.Background(), root, "f", 0, 0644, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	writeState, err := fs.XattrCreate(context.Background(), child, "user.note", 5, 0)
	if err != nil {
		t.Fatalf("XattrCreate: %v", err)
	}
	if _, err := fs.Write(context.Background(), writeState, 0, []byte("hello")); err != nil {
		t.Fatalf("Write xattr: %v", err)
	}
	fs.Release(writeState)

	readState, size, err := fs.XattrWalk(context.Background(), child, "user.note")
	if err != nil {
		t.Fatalf("XattrWalk: %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
	got, err := fs.Read(context.Background(), readState, 0, 64)
	if err != nil {
		t.Fatalf("Read xattr: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("xattr value = %q, want %q", got, "hello")
	}
	fs.Release(readState)
}

func TestXattrWalkMissing(t *testing.T) {
	fs := New(0, 0)
	root := attach(t, fs)

	if _, _, err := fs.XattrWalk(context.Background(), root, "user.absent"); err == nil {
		t.Fatal("expected an error for a missing xattr")
	}
}

func TestMkdirAndReaddirHasDotDotDot(t *testing.T) {
	fs := New(0, 0)
	root := attach(t, fs)

	if _, err := fs.Mkdir(context.Background(), root, "sub", 0755, 0); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	dirents, err := fs.Readdir(context.Background(), root, 0, 8192)
	if err != nil {
		t.Fatalf("Readdir: %v", err)
	}
	if len(dirents) < 3 {
		t.Fatalf("got %d dirents, want at least 3 (., .., sub)", len(dirents))
	}
	if dirents[0].Name != "." || dirents[1].Name != ".." {
		t.Errorf("dirents[0:2] = %q, %q; want \".\", \"..\"", dirents[0].Name, dirents[1].Name)
	}
}
