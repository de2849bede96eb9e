package addr

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in          string
		network, ok string
	}{
		{"tcp!0.0.0.0!564", "tcp", "0.0.0.0:564"},
		{"tcp!::1!564", "tcp", "[::1]:564"},
		{"unix!/var/run/styxl!0", "unix", "/var/run/styxl:0"},
	}
	for _, c := range cases {
		network, address, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if network != c.network || address != c.ok {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", c.in, network, address, c.network, c.ok)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"tcp!host", "sctp!host!1", ""} {
		if _, _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}
