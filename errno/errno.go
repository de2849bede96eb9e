// Package errno centralizes the mapping between internal error causes
// and the POSIX errno values carried on the wire in an Rlerror reply.
package errno

import (
	"errors"
	"syscall"
)

// Cause identifies the broad category of an internal failure, used to
// pick a wire errno when the failure did not originate from a
// back-end (which supplies its own syscall.Errno).
type Cause string

const (
	Codec    Cause = "codec"
	Protocol Cause = "protocol"
	Msize    Cause = "msize"
	Resource Cause = "resource"
)

// Of maps a Cause to the Linux errno reported to the client.
func Of(c Cause) syscall.Errno {
	switch c {
	case Codec, Protocol:
		return syscall.EPROTO
	case Msize:
		return syscall.EMSGSIZE
	case Resource:
		return syscall.EAGAIN
	default:
		return syscall.EIO
	}
}

// FromError extracts a syscall.Errno from err, for back-end errors
// that cross the capability boundary. Back-ends are expected to
// return errors wrapping a syscall.Errno (e.g. via os.PathError or a
// plain syscall.Errno); anything else becomes EIO, matching the
// taxonomy in the error handling design.
func FromError(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}
