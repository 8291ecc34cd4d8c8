package header_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/gohttp/header"
)

func TestParseTransferCoding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    *header.TransferCoding
		wantErr error
	}{
		{"empty", "", nil, header.ErrEmptyInput},
		{"separator", "/", nil, header.ErrMalformedInput},
		{"two codings", "gzip chunked", nil, header.ErrMalformedInput},
		{"list", "gzip, chunked", nil, header.ErrMalformedInput},
		{"dangling semicolon", "gzip;", nil, header.ErrMalformedInput},
		{"param without value", "gzip; a=", nil, header.ErrMalformedInput},
		{"unterminated quote", `gzip; a="1`, nil, header.ErrMalformedInput},
		{"simple", "chunked", &header.TransferCoding{Value: "chunked"}, nil},
		{"spaces", " \tgzip  ", &header.TransferCoding{Value: "gzip"}, nil},
		{
			"params",
			`x-custom; a=1 ;b="x y"`,
			&header.TransferCoding{
				Value: "x-custom",
				Params: header.Params{
					{Name: "a", Value: "1"},
					{Name: "b", Value: `"x y"`},
				},
			},
			nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseTransferCoding(c.in)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("header.ParseTransferCoding(%q) error = %v, want %v\ndiff (-got +want):\n%v", c.in, err, c.wantErr, diff)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("header.ParseTransferCoding(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.in, got, c.want, diff)
			}
		})
	}
}

func TestTransferCoding_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"chunked", "chunked"},
		{"gzip;a=1", "gzip; a=1"},
		{`x-custom ; a=1;b="x y"`, `x-custom; a=1; b="x y"`},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			tc, err := header.ParseTransferCoding(c.in)
			if err != nil {
				t.Fatalf("header.ParseTransferCoding(%q) error = %v, want nil", c.in, err)
			}
			if got := tc.String(); got != c.want {
				t.Errorf("tc.String() = %q, want %q", got, c.want)
			}

			again, err := header.ParseTransferCoding(tc.String())
			if err != nil {
				t.Fatalf("header.ParseTransferCoding(%q) error = %v, want nil", tc.String(), err)
			}
			if !again.Equal(tc) {
				t.Errorf("round trip of %q = %v, want %v", c.in, again, tc)
			}
			if again.Hash() != tc.Hash() {
				t.Errorf("round trip of %q: Hash() = %d, want %d", c.in, again.Hash(), tc.Hash())
			}
		})
	}
}

func TestTryParseTransferCodingList(t *testing.T) {
	t.Parallel()

	list, ok := header.TryParseTransferCodingList("gzip;level=9, , CHUNKED")
	if !ok {
		t.Fatal("header.TryParseTransferCodingList() = false, want true")
	}
	want := []*header.TransferCoding{
		{Value: "gzip", Params: header.Params{{Name: "level", Value: "9"}}},
		{Value: "CHUNKED"},
	}
	if diff := cmp.Diff(list, want); diff != "" {
		t.Errorf("header.TryParseTransferCodingList() = %v, want %v\ndiff (-got +want):\n%v", list, want, diff)
	}
	if list[0].IsChunked() || !list[1].IsChunked() {
		t.Errorf("IsChunked() = %v, %v, want false, true", list[0].IsChunked(), list[1].IsChunked())
	}
	if got, want := header.ListString(list), "gzip; level=9, CHUNKED"; got != want {
		t.Errorf("header.ListString(list) = %q, want %q", got, want)
	}

	for _, in := range []string{"", " , ", "gzip chunked", "gzip, /"} {
		if _, ok := header.TryParseTransferCodingList(in); ok {
			t.Errorf("header.TryParseTransferCodingList(%q) = true, want false", in)
		}
	}
}

func TestTransferCoding_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"same", "gzip", "gzip", true},
		{"value case", "Chunked", "chunked", true},
		{"param name case", "gzip; Level=1", "gzip; level=1", true},
		{"param value case", "gzip; a=X", "gzip; a=x", false},
		{"param order", "gzip; a=1; b=2", "gzip; b=2; a=1", false},
		{"missing param", "gzip; a=1", "gzip", false},
		{"other value", "gzip", "deflate", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			a, _ := header.TryParseTransferCoding(c.a)
			b, _ := header.TryParseTransferCoding(c.b)
			if got := a.Equal(b); got != c.want {
				t.Errorf("(%q).Equal(%q) = %v, want %v", c.a, c.b, got, c.want)
			}
			if got := a.Equal(*b); got != c.want {
				t.Errorf("(%q).Equal(value %q) = %v, want %v", c.a, c.b, got, c.want)
			}
			if c.want && a.Hash() != b.Hash() {
				t.Errorf("(%q).Hash() != (%q).Hash() for equal values", c.a, c.b)
			}
		})
	}

	var nilTC *header.TransferCoding
	if !nilTC.Equal((*header.TransferCoding)(nil)) {
		t.Error("nil.Equal(nil) = false, want true")
	}
	if nilTC.Equal(&header.TransferCoding{Value: "gzip"}) {
		t.Error("nil.Equal(non-nil) = true, want false")
	}
	if (&header.TransferCoding{Value: "gzip"}).Equal("gzip") {
		t.Error("tc.Equal(string) = true, want false")
	}
}

func TestTransferCoding_Clone(t *testing.T) {
	t.Parallel()

	orig, _ := header.TryParseTransferCoding("gzip; a=1")
	clone := orig.Clone()
	if !clone.Equal(orig) || clone.Hash() != orig.Hash() {
		t.Fatalf("orig.Clone() = %v, want %v", clone, orig)
	}

	clone.Params[0].Value = "2"
	clone.Params.Set("b", "3")
	if got, want := orig.String(), "gzip; a=1"; got != want {
		t.Errorf("orig.String() after clone mutation = %q, want %q", got, want)
	}
	if (*header.TransferCoding)(nil).Clone() != nil {
		t.Error("nil.Clone() != nil")
	}
}

func TestNewTransferCoding(t *testing.T) {
	t.Parallel()

	tc, err := header.NewTransferCoding("chunked")
	if err != nil {
		t.Fatalf("header.NewTransferCoding(\"chunked\") error = %v, want nil", err)
	}
	if !tc.IsValid() || !tc.IsChunked() {
		t.Errorf("header.NewTransferCoding(\"chunked\") = %v, want valid chunked coding", tc)
	}
	for _, in := range []string{"", "a b", "gzip;a=1"} {
		if _, err := header.NewTransferCoding(in); !errors.Is(err, header.ErrInvalidArgument) {
			t.Errorf("header.NewTransferCoding(%q) error = %v, want %v", in, err, header.ErrInvalidArgument)
		}
	}
}

func TestTryParseTransferCodingWithQualityList(t *testing.T) {
	t.Parallel()

	list, ok := header.TryParseTransferCodingWithQualityList("trailers, deflate;q=0.5, gzip; level=1; q=0")
	if !ok {
		t.Fatal("header.TryParseTransferCodingWithQualityList() = false, want true")
	}
	if got, want := len(list), 3; got != want {
		t.Fatalf("len(list) = %d, want %d", got, want)
	}
	if _, ok := list[0].Quality(); ok {
		t.Error("list[0].Quality() ok = true, want false")
	}
	if q, ok := list[1].Quality(); !ok || q != 0.5 {
		t.Errorf("list[1].Quality() = %v, %v, want 0.5, true", q, ok)
	}
	if q, ok := list[2].Quality(); !ok || q != 0 {
		t.Errorf("list[2].Quality() = %v, %v, want 0, true", q, ok)
	}
	for i, tc := range list {
		if !tc.IsValid() {
			t.Errorf("list[%d].IsValid() = false, want true", i)
		}
	}

	if err := list[0].SetQuality(-0.1); !errors.Is(err, header.ErrInvalidArgument) {
		t.Errorf("list[0].SetQuality(-0.1) error = %v, want %v", err, header.ErrInvalidArgument)
	}
	if err := list[0].SetQuality(0.25); err != nil {
		t.Errorf("list[0].SetQuality(0.25) error = %v, want nil", err)
	}
	if got, want := list[0].String(), "trailers; q=0.25"; got != want {
		t.Errorf("list[0].String() = %q, want %q", got, want)
	}

	clone := list[1].Clone()
	if !clone.Equal(list[1]) {
		t.Fatalf("list[1].Clone() = %v, want %v", clone, list[1])
	}
	if err := clone.SetQuality(1); err != nil {
		t.Fatalf("clone.SetQuality(1) error = %v, want nil", err)
	}
	if clone.Equal(list[1]) {
		t.Error("clone.Equal(list[1]) after clone mutation = true, want false")
	}
	if got, want := list[1].String(), "deflate; q=0.5"; got != want {
		t.Errorf("list[1].String() after clone mutation = %q, want %q", got, want)
	}

	if _, ok := header.TryParseTransferCodingWithQualityList(" , "); ok {
		t.Error("header.TryParseTransferCodingWithQualityList(\" , \") = true, want false")
	}
}
