package message_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gohttp/internal/util"
	"github.com/ghettovoice/gohttp/message"
)

func TestNewRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		method  message.Method
		uri     string
		wantErr error
	}{
		{"absolute", message.MethodGet, "http://example.com/a?b=c", nil},
		{"relative", message.MethodPost, "/api/items", nil},
		{"empty", message.MethodGet, "", nil},
		{"custom method", "PATCH", "https://example.com", nil},
		{"ftp", message.MethodGet, "ftp://example.com/file", message.ErrInvalidArgument},
		{"no host", message.MethodGet, "http:///path", message.ErrInvalidArgument},
		{"bad method", "GE T", "/", message.ErrInvalidArgument},
		{"empty method", "", "/", message.ErrInvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			req, err := message.NewRequest(c.method, c.uri)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("message.NewRequest(%q, %q) error = %v, want %v", c.method, c.uri, err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("message.NewRequest(%q, %q) error = %v, want nil", c.method, c.uri, err)
			}
			if req.Version != message.DefaultVersion {
				t.Errorf("req.Version = %q, want %q", req.Version, message.DefaultVersion)
			}
			if req.Headers == nil {
				t.Error("req.Headers = nil, want non-nil")
			}
		})
	}
}

func TestRequest_MarkSent(t *testing.T) {
	t.Parallel()

	req := util.Must2(message.NewRequest(message.MethodGet, "http://example.com"))
	if req.IsSent() {
		t.Fatal("req.IsSent() = true, want false")
	}
	if !req.MarkSent() {
		t.Fatal("req.MarkSent() = false, want true")
	}
	if req.MarkSent() {
		t.Error("second req.MarkSent() = true, want false")
	}
	if !req.IsSent() {
		t.Error("req.IsSent() = false, want true")
	}

	var nilReq *message.Request
	if nilReq.MarkSent() {
		t.Error("nil.MarkSent() = true, want false")
	}
}

func TestRequest_WriteTo(t *testing.T) {
	t.Parallel()

	req := util.Must2(message.NewRequest(message.MethodPost, "http://example.com/items"))
	req.Headers.SetHost("example.com") //nolint:errcheck
	req.Content = util.Must2(message.NewStringContent(`{"a":1}`, "application/json"))

	want := "POST http://example.com/items HTTP/1.1\r\n" +
		"Host: example.com\r\n" +
		"Content-Length: 7\r\n" +
		"Content-Type: application/json; charset=utf-8\r\n" +
		"\r\n" +
		`{"a":1}`

	var buf bytes.Buffer
	n, err := req.WriteTo(&buf)
	if err != nil {
		t.Fatalf("req.WriteTo() error = %v, want nil", err)
	}
	if got := buf.String(); got != want {
		t.Errorf("req.WriteTo() wrote %q, want %q", got, want)
	}
	if n != int64(len(want)) {
		t.Errorf("req.WriteTo() = %d, want %d", n, len(want))
	}

	if got, want := req.String(), "POST http://example.com/items HTTP/1.1"; got != want {
		t.Errorf("req.String() = %q, want %q", got, want)
	}
	if got, want := fmt.Sprintf("%q", req), `"POST http://example.com/items HTTP/1.1"`; got != want {
		t.Errorf("fmt.Sprintf(\"%%q\", req) = %s, want %s", got, want)
	}
}

func TestResponse(t *testing.T) {
	t.Parallel()

	if _, err := message.NewResponse(1000); !errors.Is(err, message.ErrInvalidArgument) {
		t.Errorf("message.NewResponse(1000) error = %v, want %v", err, message.ErrInvalidArgument)
	}

	res := util.Must2(message.NewResponse(404))
	if got, want := res.Reason(), "Not Found"; got != want {
		t.Errorf("res.Reason() = %q, want %q", got, want)
	}
	if got, want := res.String(), "HTTP/1.1 404 Not Found"; got != want {
		t.Errorf("res.String() = %q, want %q", got, want)
	}
	if res.IsSuccessStatusCode() {
		t.Error("res.IsSuccessStatusCode() = true, want false")
	}
	if err := res.EnsureSuccessStatusCode(); !errors.Is(err, message.ErrUnsuccessfulStatus) {
		t.Errorf("res.EnsureSuccessStatusCode() error = %v, want %v", err, message.ErrUnsuccessfulStatus)
	}

	res.StatusCode = 299
	res.ReasonPhrase = "Custom"
	if got, want := res.String(), "HTTP/1.1 299 Custom"; got != want {
		t.Errorf("res.String() = %q, want %q", got, want)
	}
	if err := res.EnsureSuccessStatusCode(); err != nil {
		t.Errorf("res.EnsureSuccessStatusCode() error = %v, want nil", err)
	}

	var buf bytes.Buffer
	res.Content = message.NewContent([]byte("ok"))
	res.WriteTo(&buf) //nolint:errcheck
	if got, want := buf.String(), "HTTP/1.1 299 Custom\r\nContent-Length: 2\r\n\r\nok"; got != want {
		t.Errorf("res.WriteTo() wrote %q, want %q", got, want)
	}
}

func TestContent(t *testing.T) {
	t.Parallel()

	data := []byte("hello")
	c := message.NewContent(data)
	data[0] = 'j'
	if got, want := c.String(), "hello"; got != want {
		t.Errorf("c.String() = %q, want %q", got, want)
	}
	if n, ok := c.Headers.ContentLength(); !ok || n != 5 {
		t.Errorf("c.Headers.ContentLength() = %d, %v, want 5, true", n, ok)
	}

	sc, err := message.NewStringContent("hi", "")
	if err != nil {
		t.Fatalf("message.NewStringContent() error = %v, want nil", err)
	}
	if got, want := sc.Headers.Values("Content-Type"), []string{"text/plain; charset=utf-8"}; !cmp.Equal(got, want) {
		t.Errorf("sc.Headers.Values(\"Content-Type\") = %q, want %q", got, want)
	}
	if _, err := message.NewStringContent("hi", "text"); err == nil {
		t.Error("message.NewStringContent(\"hi\", \"text\") error = nil, want error")
	}
}

func TestMethod(t *testing.T) {
	t.Parallel()

	cases := []struct {
		m     message.Method
		v     any
		equal bool
	}{
		{message.MethodGet, "get", true},
		{message.MethodGet, message.Method("Get"), true},
		{message.MethodGet, util.Ptr(message.MethodGet), true},
		{message.MethodGet, message.MethodPost, false},
		{message.MethodGet, 1, false},
	}
	for _, c := range cases {
		if got := c.m.Equal(c.v); got != c.equal {
			t.Errorf("%q.Equal(%v) = %v, want %v", c.m, c.v, got, c.equal)
		}
	}

	if got, want := message.Method("patch").ToUpper(), message.Method("PATCH"); got != want {
		t.Errorf("Method.ToUpper() = %q, want %q", got, want)
	}
}

func TestContent_LoadIntoBuffer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		data    string
		length  *int64
		max     int64
		wantErr error
	}{
		{"no limit", "hello world", nil, 0, nil},
		{"fits", "hello", nil, 5, nil},
		{"exceeds", "hello!", nil, 5, message.ErrContentTooLarge},
		{"declared length exceeds", "hi", util.Ptr[int64](100), 5, message.ErrContentTooLarge},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			cnt := message.NewStreamContent(io.NopCloser(strings.NewReader(c.data)))
			if c.length != nil {
				cnt.Headers.SetContentLength(c.length) //nolint:errcheck
			}
			if cnt.IsBuffered() {
				t.Fatal("cnt.IsBuffered() = true, want false")
			}

			err := cnt.LoadIntoBuffer(c.max)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Errorf("cnt.LoadIntoBuffer(%d) error = %v, want %v", c.max, err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cnt.LoadIntoBuffer(%d) error = %v, want nil", c.max, err)
			}
			if got := cnt.String(); got != c.data {
				t.Errorf("cnt.String() = %q, want %q", got, c.data)
			}
			if !cnt.IsBuffered() {
				t.Error("cnt.IsBuffered() = false, want true")
			}
		})
	}
}
