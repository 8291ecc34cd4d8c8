package header_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/util"
)

func TestParseCacheControl(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    *header.CacheControl
		wantStr string
		wantErr error
	}{
		{"empty", "", nil, "", header.ErrEmptyInput},
		{
			"no-cache list and max-age",
			`no-cache="X-A,X-B", max-age=60`,
			&header.CacheControl{
				NoCache:        true,
				NoCacheHeaders: []string{"X-A", "X-B"},
				MaxAge:         util.Ptr(60 * time.Second),
			},
			`no-cache="X-A, X-B", max-age=60`,
			nil,
		},
		{
			"flags in canonical order",
			"public, max-age=3600, must-revalidate",
			&header.CacheControl{Public: true, MustRevalidate: true, MaxAge: util.Ptr(time.Hour)},
			"public, must-revalidate, max-age=3600",
			nil,
		},
		{
			"all flags",
			"proxy-revalidate, only-if-cached, no-transform, no-store",
			&header.CacheControl{NoStore: true, NoTransform: true, OnlyIfCached: true, ProxyRevalidate: true},
			"no-store, no-transform, only-if-cached, proxy-revalidate",
			nil,
		},
		{
			"max-stale without limit",
			"max-stale",
			&header.CacheControl{MaxStale: true},
			"max-stale",
			nil,
		},
		{
			"max-stale with limit",
			"max-stale=10",
			&header.CacheControl{MaxStale: true, MaxStaleLimit: util.Ptr(10 * time.Second)},
			"max-stale=10",
			nil,
		},
		{
			"shared max-age and min-fresh",
			"min-fresh=7,s-maxage=5",
			&header.CacheControl{SharedMaxAge: util.Ptr(5 * time.Second), MinFresh: util.Ptr(7 * time.Second)},
			"s-maxage=5, min-fresh=7",
			nil,
		},
		{
			"private and extensions",
			`private, community="UCI", foo=bar, baz`,
			&header.CacheControl{
				Private: true,
				Extensions: []header.NameValue{
					{Name: "community", Value: `"UCI"`},
					{Name: "foo", Value: "bar"},
					{Name: "baz"},
				},
			},
			`private, community="UCI", foo=bar, baz`,
			nil,
		},
		{
			"private list",
			`private="Set-Cookie"`,
			&header.CacheControl{Private: true, PrivateHeaders: []string{"Set-Cookie"}},
			`private="Set-Cookie"`,
			nil,
		},
		{
			"directive case",
			"NO-STORE",
			&header.CacheControl{NoStore: true},
			"no-store",
			nil,
		},
		{
			"extension name case kept",
			"Public, X-Ext=Val",
			&header.CacheControl{Public: true, Extensions: []header.NameValue{{Name: "X-Ext", Value: "Val"}}},
			"public, X-Ext=Val",
			nil,
		},
		{"max-age without value", "max-age", nil, "", header.ErrMalformedInput},
		{"max-age empty value", "max-age=", nil, "", header.ErrMalformedInput},
		{"max-age not a number", "max-age=abc", nil, "", header.ErrMalformedInput},
		{"no-cache token list", "no-cache=X-A", nil, "", header.ErrMalformedInput},
		{"semicolon", "public; max-age=1", nil, "", header.ErrMalformedInput},
		{"double comma", "public,,max-age=1", nil, "", header.ErrMalformedInput},
		{"leading comma", ", public", nil, "", header.ErrMalformedInput},
		{"trailing comma", "public,", nil, "", header.ErrMalformedInput},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ParseCacheControl(c.in)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("header.ParseCacheControl(%q) error = %v, want %v", c.in, err, c.wantErr)
			}
			if c.wantErr != nil {
				return
			}
			if !got.Equal(c.want) {
				t.Errorf("header.ParseCacheControl(%q) = %+v, want %+v", c.in, got, c.want)
			}
			if got := got.String(); got != c.wantStr {
				t.Errorf("cc.String() = %q, want %q", got, c.wantStr)
			}

			again, err := header.ParseCacheControl(c.wantStr)
			if err != nil {
				t.Fatalf("header.ParseCacheControl(%q) error = %v, want nil", c.wantStr, err)
			}
			if !again.Equal(got) || again.Hash() != got.Hash() {
				t.Errorf("round trip of %q = %+v, want %+v", c.wantStr, again, got)
			}
		})
	}
}

func TestCacheControl_Equal(t *testing.T) {
	t.Parallel()

	a, _ := header.TryParseCacheControl(`no-cache="x-a", max-age=60`)
	b := &header.CacheControl{NoCache: true, NoCacheHeaders: []string{"X-A"}, MaxAge: util.Ptr(time.Minute)}
	if !a.Equal(b) {
		t.Errorf("(%v).Equal(%v) = false, want true", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Errorf("(%v).Hash() != (%v).Hash()", a, b)
	}

	b.MaxAge = util.Ptr(time.Second)
	if a.Equal(b) {
		t.Errorf("(%v).Equal(%v) = true, want false", a, b)
	}
	if a.Equal(&header.CacheControl{}) {
		t.Errorf("(%v).Equal(zero) = true, want false", a)
	}
}

func TestCacheControl_Clone(t *testing.T) {
	t.Parallel()

	orig, _ := header.TryParseCacheControl(`no-cache="X-A", max-age=60, ext=1`)
	clone := orig.Clone()
	if diff := cmp.Diff(clone, orig); diff != "" {
		t.Fatalf("orig.Clone() = %+v, want %+v\ndiff (-got +want):\n%v", clone, orig, diff)
	}

	clone.NoCacheHeaders[0] = "X-B"
	*clone.MaxAge = time.Second
	clone.Extensions[0].Value = "2"
	if got, want := orig.String(), `no-cache="X-A", max-age=60, ext=1`; got != want {
		t.Errorf("orig.String() after clone mutation = %q, want %q", got, want)
	}
}
