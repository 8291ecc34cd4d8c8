package header_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gohttp/header"
)

func TestParseVia(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    *header.Via
		wantStr string
		wantErr error
	}{
		{"empty", "", nil, "", header.ErrEmptyInput},
		{"version only", "1.0 fred", &header.Via{ProtocolVersion: "1.0", ReceivedBy: "fred"}, "1.0 fred", nil},
		{
			"full",
			"HTTP/1.1 proxy.example.com:8080 (Apache/2.4 (Unix))",
			&header.Via{
				ProtocolName:    "HTTP",
				ProtocolVersion: "1.1",
				ReceivedBy:      "proxy.example.com:8080",
				Comment:         "(Apache/2.4 (Unix))",
			},
			"HTTP/1.1 proxy.example.com:8080 (Apache/2.4 (Unix))",
			nil,
		},
		{
			"spaced name",
			"HTTP / 2 gw",
			&header.Via{ProtocolName: "HTTP", ProtocolVersion: "2", ReceivedBy: "gw"},
			"HTTP/2 gw",
			nil,
		},
		{"no received-by", "1.0", nil, "", header.ErrMalformedInput},
		{"empty port", "1.0 fred:", nil, "", header.ErrMalformedInput},
		{"spaced port", "1.0 fred : 80", nil, "", header.ErrMalformedInput},
		{"unterminated comment", "1.0 fred (proxy", nil, "", header.ErrMalformedInput},
		{"trailing token", "1.0 fred (c) x", nil, "", header.ErrMalformedInput},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseVia(c.in)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("header.ParseVia(%q) error = %v, want %v", c.in, err, c.wantErr)
			}
			if c.wantErr != nil {
				return
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("header.ParseVia(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.in, got, c.want, diff)
			}
			if got.String() != c.wantStr {
				t.Errorf("via.String() = %q, want %q", got.String(), c.wantStr)
			}
			if !got.IsValid() {
				t.Errorf("via.IsValid() = false, want true")
			}

			again, err := header.ParseVia(got.String())
			if err != nil {
				t.Fatalf("header.ParseVia(%q) error = %v, want nil", got.String(), err)
			}
			if !again.Equal(got) || again.Hash() != got.Hash() {
				t.Errorf("round trip of %q = %+v, want %+v", c.in, again, got)
			}
		})
	}
}

func TestTryParseViaList(t *testing.T) {
	t.Parallel()

	list, ok := header.TryParseViaList("1.0 fred, 1.1 p.example.net (Apache/1.1)")
	if !ok {
		t.Fatal("header.TryParseViaList() = false, want true")
	}
	if got, want := len(list), 2; got != want {
		t.Fatalf("len(list) = %d, want %d", got, want)
	}
	if got, want := list[1].Comment, "(Apache/1.1)"; got != want {
		t.Errorf("list[1].Comment = %q, want %q", got, want)
	}
}

func TestVia_Equal(t *testing.T) {
	t.Parallel()

	a, _ := header.TryParseVia("http/1.1 GW (Comment)")
	b, _ := header.NewVia("HTTP", "1.1", "gw", "(Comment)")
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Errorf("(%v).Equal(%v) = false, want true with equal hashes", a, b)
	}
	c, _ := header.NewVia("HTTP", "1.1", "gw", "(comment)")
	if a.Equal(c) {
		t.Errorf("(%v).Equal(%v) = true, want false", a, c)
	}

	if _, err := header.NewVia("", "1.1", "gw", "no parens"); !errors.Is(err, header.ErrInvalidArgument) {
		t.Errorf("header.NewVia() error = %v, want %v", err, header.ErrInvalidArgument)
	}
}
