// Package addr parses the server's transport-endpoint syntax,
// "<scheme>!<address>!<port>", into the (network, address) pair
// net.Listen expects. It is a thin collaborator (see spec §1/§6), not
// part of the protocol core.
package addr

import (
	"fmt"
	"net"
	"strings"
)

// Parse turns s, of the form "tcp!host!port" or "unix!path!port", into
// arguments suitable for net.Listen. For "tcp" host and port are
// joined into "host:port", with an IPv6 host enclosed in brackets
// ("[::1]:564"). For "unix" the port is appended to
// the path as a ":<port>" suffix, producing the literal socket path
// net.Listen should bind (matching how the reference back-end's export
// directory and a per-instance suffix combine into one path).
func Parse(s string) (network, address string, err error) {
	parts := strings.Split(s, "!")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("addr: invalid endpoint %q: want scheme!address!port", s)
	}
	scheme, host, port := parts[0], parts[1], parts[2]

	switch scheme {
	case "tcp":
		return "tcp", net.JoinHostPort(host, port), nil
	case "unix":
		return "unix", host + ":" + port, nil
	default:
		return "", "", fmt.Errorf("addr: unknown scheme %q in endpoint %q", scheme, s)
	}
}
