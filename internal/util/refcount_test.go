package util_test

import (
	"testing"

	"github.com/ninelib/styxl/internal/util"
)

type session struct {
	util.RefCount
	User, Tree string
}

func TestRefCount(t *testing.T) {
	var s session
	const refs = 10

	for i := 0; i < refs; i++ {
		s.IncRef()
	}

	for i := 0; i < refs; i++ {
		remaining := s.DecRef()
		if i < refs-1 && !remaining {
			t.Fatalf("DecRef reported no references remaining after release %d of %d", i+1, refs)
		}
		if i == refs-1 && remaining {
			t.Fatal("DecRef reported references remaining after releasing the last one")
		}
	}
}
