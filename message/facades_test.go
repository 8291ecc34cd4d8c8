package message_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/util"
	"github.com/ghettovoice/gohttp/message"
)

func TestRequestHeaders_ConnectionClose(t *testing.T) {
	t.Parallel()

	h := message.NewRequestHeaders()
	if v, ok := h.ConnectionClose(); v || ok {
		t.Errorf("h.ConnectionClose() = %v, %v, want false, false", v, ok)
	}

	h.Add("Connection", "keep-alive")
	h.SetConnectionClose(true)
	if v, ok := h.ConnectionClose(); !v || !ok {
		t.Errorf("h.ConnectionClose() = %v, %v, want true, true", v, ok)
	}
	if got, want := h.Values("Connection"), []string{"keep-alive", "close"}; !cmp.Equal(got, want) {
		t.Errorf("h.Values(\"Connection\") = %q, want %q", got, want)
	}

	// the list is the source of truth
	h.Connection().Remove("close")
	if v, _ := h.ConnectionClose(); v {
		t.Error("h.ConnectionClose() after list removal = true, want false")
	}

	h.SetConnectionClose(true)
	h.SetConnectionClose(false)
	if got, want := h.Values("Connection"), []string{"keep-alive"}; !cmp.Equal(got, want) {
		t.Errorf("h.Values(\"Connection\") = %q, want %q", got, want)
	}
	if v, ok := h.ConnectionClose(); v || !ok {
		t.Errorf("h.ConnectionClose() = %v, %v, want false, true", v, ok)
	}

	h.Clear()
	if v, ok := h.ConnectionClose(); v || ok {
		t.Errorf("h.ConnectionClose() after clear = %v, %v, want false, false", v, ok)
	}

	raw := message.NewResponseHeaders()
	raw.TryAddWithoutValidation("Connection", "Close")
	if v, ok := raw.ConnectionClose(); !v || !ok {
		t.Errorf("raw.ConnectionClose() = %v, %v, want true, true", v, ok)
	}
}

func TestRequestHeaders_TransferEncodingChunked(t *testing.T) {
	t.Parallel()

	h := message.NewRequestHeaders()
	h.TryAddWithoutValidation("Transfer-Encoding", "gzip, CHUNKED")
	if v, ok := h.TransferEncodingChunked(); !v || !ok {
		t.Errorf("h.TransferEncodingChunked() = %v, %v, want true, true", v, ok)
	}

	h.SetTransferEncodingChunked(false)
	if got, want := h.Values("Transfer-Encoding"), []string{"gzip"}; !cmp.Equal(got, want) {
		t.Errorf("h.Values(\"Transfer-Encoding\") = %q, want %q", got, want)
	}
	h.SetTransferEncodingChunked(true)
	if got, want := h.Values("Transfer-Encoding"), []string{"gzip", "chunked"}; !cmp.Equal(got, want) {
		t.Errorf("h.Values(\"Transfer-Encoding\") = %q, want %q", got, want)
	}
}

func TestRequestHeaders_ExpectContinue(t *testing.T) {
	t.Parallel()

	h := message.NewRequestHeaders()
	h.SetExpectContinue(true)
	if got, want := h.String(), "Expect: 100-continue\r\n"; got != want {
		t.Errorf("h.String() = %q, want %q", got, want)
	}
	if v, ok := h.ExpectContinue(); !v || !ok {
		t.Errorf("h.ExpectContinue() = %v, %v, want true, true", v, ok)
	}

	h.SetExpectContinue(false)
	if h.Contains("Expect") {
		t.Error("h.Contains(\"Expect\") = true, want false")
	}

	h.Clear()
	if v, ok := h.ExpectContinue(); v || ok {
		t.Errorf("h.ExpectContinue() after clear = %v, %v, want false, false", v, ok)
	}
}

func TestRequestHeaders_Accessors(t *testing.T) {
	t.Parallel()

	h := message.NewRequestHeaders()
	if err := h.SetHost("example.com:8080"); err != nil {
		t.Fatalf("h.SetHost() error = %v, want nil", err)
	}
	if err := h.SetHost("a b"); !errors.Is(err, message.ErrInvalidArgument) {
		t.Errorf("h.SetHost(\"a b\") error = %v, want %v", err, message.ErrInvalidArgument)
	}
	if err := h.SetFrom("user@example.com"); err != nil {
		t.Fatalf("h.SetFrom() error = %v, want nil", err)
	}
	if err := h.SetMaxForwards(util.Ptr(10)); err != nil {
		t.Fatalf("h.SetMaxForwards() error = %v, want nil", err)
	}
	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h.SetIfModifiedSince(date)
	h.SetReferrer(&url.URL{Scheme: "https", Host: "example.com", Path: "/a"})
	h.SetAuthorization(util.Must2(header.NewAuthenticationValue("Bearer", "token")))
	h.Accept().Add(util.Must2(header.ParseMediaTypeWithQuality("application/json")))
	h.UserAgent().ParseAdd("gohttp/1.0")

	want := map[string][]string{
		"Host":              {"example.com:8080"},
		"From":              {"user@example.com"},
		"Max-Forwards":      {"10"},
		"If-Modified-Since": {"Tue, 02 Jan 2024 03:04:05 GMT"},
		"Referer":           {"https://example.com/a"},
		"Authorization":     {"Bearer token"},
		"Accept":            {"application/json"},
		"User-Agent":        {"gohttp/1.0"},
	}
	if diff := cmp.Diff(collect(&h.Headers), want); diff != "" {
		t.Errorf("h.All() = %v, want %v\ndiff (-got +want):\n%v", collect(&h.Headers), want, diff)
	}

	if host, ok := h.Host(); !ok || host != "example.com:8080" {
		t.Errorf("h.Host() = %q, %v, want \"example.com:8080\", true", host, ok)
	}
	if v, ok := h.MaxForwards(); !ok || v != 10 {
		t.Errorf("h.MaxForwards() = %v, %v, want 10, true", v, ok)
	}
	if v, ok := h.IfModifiedSince(); !ok || !v.Equal(date) {
		t.Errorf("h.IfModifiedSince() = %v, %v, want %v, true", v, ok, date)
	}

	h.SetIfModifiedSince(time.Time{})
	h.SetAuthorization(nil)
	h.SetMaxForwards(nil) //nolint:errcheck
	for _, name := range []string{"If-Modified-Since", "Authorization", "Max-Forwards"} {
		if h.Contains(name) {
			t.Errorf("h.Contains(%q) after reset = true, want false", name)
		}
	}
}

func TestRequestHeaders_AddHeaders(t *testing.T) {
	t.Parallel()

	defaults := message.NewRequestHeaders()
	defaults.Add("Accept", "application/json")
	defaults.Add("X-Api-Key", "secret")

	h := message.NewRequestHeaders()
	h.Add("Accept", "text/html")
	h.AddHeaders(defaults)

	want := map[string][]string{
		"Accept":    {"text/html", "application/json"},
		"X-Api-Key": {"secret"},
	}
	if diff := cmp.Diff(collect(&h.Headers), want); diff != "" {
		t.Errorf("h.All() = %v, want %v\ndiff (-got +want):\n%v", collect(&h.Headers), want, diff)
	}
	if got, want := h.Accept().Len(), 2; got != want {
		t.Errorf("h.Accept().Len() = %d, want %d", got, want)
	}
}

func TestResponseHeaders_Accessors(t *testing.T) {
	t.Parallel()

	h := message.NewResponseHeaders()
	h.TryAddWithoutValidation("ETag", `W/"v1"`)
	h.TryAddWithoutValidation("Retry-After", "120")
	h.TryAddWithoutValidation("Server", "nginx/1.25 (Ubuntu)")
	h.TryAddWithoutValidation("WWW-Authenticate", `Basic realm="x"`)
	h.TryAddWithoutValidation("Age", "abc")

	if etag, ok := h.ETag(); !ok || !etag.IsWeak || etag.Tag != `"v1"` {
		t.Errorf("h.ETag() = %v, %v, want W/\"v1\", true", etag, ok)
	}
	if ra, ok := h.RetryAfter(); !ok || ra.Delta == nil || *ra.Delta != 2*time.Minute {
		t.Errorf("h.RetryAfter() = %v, %v, want 120s, true", ra, ok)
	}
	if got, want := h.Server().Len(), 2; got != want {
		t.Errorf("h.Server().Len() = %d, want %d", got, want)
	}
	if got, want := h.WWWAuthenticate().Len(), 1; got != want {
		t.Errorf("h.WWWAuthenticate().Len() = %d, want %d", got, want)
	}
	if age, ok := h.Age(); ok || age != 0 {
		t.Errorf("h.Age() = %v, %v, want 0, false", age, ok)
	}

	h.Remove("Age")
	h.SetAge(util.Ptr(90*time.Second + 500*time.Millisecond))
	if got, want := h.Values("Age"), []string{"90"}; !cmp.Equal(got, want) {
		t.Errorf("h.Values(\"Age\") = %q, want %q", got, want)
	}
	if err := h.Add("Content-Length", "1"); !errors.Is(err, message.ErrHeaderKindMismatch) {
		t.Errorf("h.Add(\"Content-Length\") error = %v, want %v", err, message.ErrHeaderKindMismatch)
	}
}

func TestContentHeaders_Accessors(t *testing.T) {
	t.Parallel()

	h := message.NewContentHeaders()
	if err := h.SetContentLength(util.Ptr[int64](-1)); !errors.Is(err, message.ErrInvalidArgument) {
		t.Errorf("h.SetContentLength(-1) error = %v, want %v", err, message.ErrInvalidArgument)
	}
	h.SetContentLength(util.Ptr[int64](1234)) //nolint:errcheck
	h.SetContentType(util.Must2(header.ParseMediaType("text/plain; charset=utf-8")))
	h.SetContentRange(util.Must2(header.NewContentRange(0, 499, 1234)))
	h.SetContentMD5([]byte{1, 2, 3})
	h.ContentEncoding().Add("gzip")

	want := map[string][]string{
		"Content-Length":   {"1234"},
		"Content-Type":     {"text/plain; charset=utf-8"},
		"Content-Range":    {"bytes 0-499/1234"},
		"Content-MD5":      {"AQID"},
		"Content-Encoding": {"gzip"},
	}
	if diff := cmp.Diff(collect(&h.Headers), want); diff != "" {
		t.Errorf("h.All() = %v, want %v\ndiff (-got +want):\n%v", collect(&h.Headers), want, diff)
	}

	if mt, ok := h.ContentType(); !ok || mt.CharSet() != "utf-8" {
		t.Errorf("h.ContentType() = %v, %v, want text/plain; charset=utf-8", mt, ok)
	}
	if cr, ok := h.ContentRange(); !ok || cr.Length() != 1234 {
		t.Errorf("h.ContentRange() = %v, %v, want bytes 0-499/1234", cr, ok)
	}
	if err := h.Add("Accept", "text/html"); !errors.Is(err, message.ErrHeaderKindMismatch) {
		t.Errorf("h.Add(\"Accept\") error = %v, want %v", err, message.ErrHeaderKindMismatch)
	}
}
