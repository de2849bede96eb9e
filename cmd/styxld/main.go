// Command styxld is a reference 9P2000.L server: it wires the styxl
// dispatcher to the in-memory test back-end (internal/memfs) and
// listens on a single configured endpoint. It is a thin collaborator
// per spec §1/§6, not part of the protocol core.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/ninelib/styxl"
	"github.com/ninelib/styxl/internal/addr"
	"github.com/ninelib/styxl/internal/memfs"
)

func main() {
	var (
		listen       = flag.String("listen", "tcp!0.0.0.0!564", "listen endpoint, scheme!address!port")
		msizeCeiling = flag.Uint32("msize-ceiling", styxl.DefaultMsizeCeiling, "maximum msize the server will negotiate, in bytes")
		maxWalkDepth = flag.Int32("max-walk-depth", 0, "reject walks deeper than this many non-.. components (0 = unlimited)")
		uid          = flag.Uint32("uid", 0, "owning uid of the in-memory export root")
		gid          = flag.Uint32("gid", 0, "owning gid of the in-memory export root")
		verbose      = flag.BoolP("verbose", "v", false, "enable debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	network, address, err := addr.Parse(*listen)
	if err != nil {
		log.Fatalf("styxld: %v", err)
	}

	srv := &styxl.Server{
		Backend:      memfs.New(*uid, *gid),
		Logger:       log,
		MsizeCeiling: *msizeCeiling,
		MaxWalkDepth: *maxWalkDepth,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("styxld: listening on %s (%s), msize-ceiling=%d", *listen, network, *msizeCeiling)
	if err := srv.ListenAndServe(ctx, network, address); err != nil {
		fmt.Fprintln(os.Stderr, "styxld:", err)
		os.Exit(1)
	}
}
