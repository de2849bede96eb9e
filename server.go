package styxl

import (
	"context"
	"net"
	"time"

	"aqwari.net/retry"
	"golang.org/x/sync/errgroup"

	"github.com/ninelib/styxl/internal/util"
)

// DefaultMsizeCeiling bounds the msize a Server will ever negotiate,
// used when Server.MsizeCeiling is zero.
const DefaultMsizeCeiling = 64 * 1024

// A Server accepts 9P2000.L connections and dispatches requests
// against a Backend. The zero value is not usable; Backend must be
// set before Serve is called.
type Server struct {
	// Backend implements the filesystem operations the dispatcher
	// exposes over the wire.
	Backend Backend

	// AuthBackend, if non-nil, enables the Tauth handshake. Without
	// it, Tauth is rejected with EOPNOTSUPP and Tattach must supply
	// NoFid as its afid.
	AuthBackend AuthBackend

	// Logger receives accept errors, decode errors and recovered
	// panics. A nil Logger discards them.
	Logger Logger

	// MsizeCeiling caps the msize the server will ever agree to
	// during Tversion, regardless of what the client offers. Zero
	// means DefaultMsizeCeiling.
	MsizeCeiling uint32

	// MaxWalkDepth bounds how many directory levels a single walk
	// chain (tracked per-fid, not per-message) may descend before the
	// dispatcher rejects it with ELOOP. Zero means unlimited.
	MaxWalkDepth int32
}

func (srv *Server) logf(format string, v ...interface{}) {
	if srv.Logger != nil {
		srv.Logger.Printf(format, v...)
	}
}

func (srv *Server) msizeCeiling() uint32 {
	if srv.MsizeCeiling == 0 {
		return DefaultMsizeCeiling
	}
	return srv.MsizeCeiling
}

// Serve accepts connections on ln until ln.Accept returns a
// non-temporary error or ctx is canceled, dispatching each one against
// srv.Backend. Temporary accept errors are retried with exponential
// backoff rather than aborting the whole server.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		backoff := retry.Exponential(time.Millisecond).Max(time.Second)
		try := 0
		for {
			rwc, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				if util.IsTempErr(err) {
					try++
					d := backoff(try)
					srv.logf("styxl: accept error: %v; retrying in %v", err, d)
					select {
					case <-time.After(d):
						continue
					case <-ctx.Done():
						return nil
					}
				}
				return err
			}
			try = 0
			c := newConn(rwc, srv)
			go c.serve()
		}
	})

	err := g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

// ListenAndServe is a convenience wrapper that listens on network/addr
// and serves until ctx is canceled.
func (srv *Server) ListenAndServe(ctx context.Context, network, addr string) error {
	ln, err := net.Listen(network, addr)
	if err != nil {
		return err
	}
	return srv.Serve(ctx, ln)
}
