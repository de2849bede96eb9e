/*
Package styxl is the server-side core of a 9P2000.L file server: wire
codec, per-connection session state machine, fid table, and request
dispatcher. Filesystem implementations plug in behind the Backend
capability interface; styxl owns everything about the protocol and
nothing about what the files actually are.

A minimal server looks like:

	ln, err := net.Listen("tcp", ":564")
	srv := &styxl.Server{Backend: myBackend, Logger: log.Default()}
	err = srv.Serve(context.Background(), ln)

styxl does not implement a filesystem of its own, transport security,
or a 9P client; see SPEC_FULL.md for the full boundary.
*/
package styxl
