package message

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"sync/atomic"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/ioutil"
	"github.com/ghettovoice/gohttp/internal/util"
)

// DefaultVersion is the protocol version of new messages.
const DefaultVersion = "HTTP/1.1"

// Request represents an HTTP request message.
// A request can be sent only once.
type Request struct {
	Method  Method
	URI     *url.URL
	Version string
	Headers *RequestHeaders
	Content *Content

	sent atomic.Bool
}

// NewRequest creates a request with the given method and URI.
// The URI may be empty or relative, otherwise its scheme must be http or https.
func NewRequest(method Method, uri string) (*Request, error) {
	if !method.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid method %q", method))
	}

	var u *url.URL
	if uri != "" {
		var err error
		if u, err = url.Parse(uri); err != nil {
			return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
		}
		if err := CheckRequestURI(u); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}

	return &Request{
		Method:  method,
		URI:     u,
		Version: DefaultVersion,
		Headers: NewRequestHeaders(),
	}, nil
}

// CheckRequestURI validates that an absolute URI uses the http or https scheme.
func CheckRequestURI(u *url.URL) error {
	if u == nil || !u.IsAbs() {
		return nil
	}
	if !util.EqFold(u.Scheme, "http") && !util.EqFold(u.Scheme, "https") {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported URI scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("URI %q has no host", u))
	}
	return nil
}

// MarkSent flags the request as sent.
// It returns false if the request was already flagged.
func (req *Request) MarkSent() bool {
	return req != nil && req.sent.CompareAndSwap(false, true)
}

// IsSent reports whether the request was flagged as sent.
func (req *Request) IsSent() bool {
	return req != nil && req.sent.Load()
}

// WriteTo writes the request line, headers and content to w.
// The request URI is written in the absolute form.
func (req *Request) WriteTo(w io.Writer) (int64, error) {
	if req == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(req.String())
	cw.WriteString("\r\n")
	if req.Headers != nil {
		cw.Call(req.Headers.WriteTo)
	}
	if req.Content != nil && req.Content.Headers != nil {
		cw.Call(req.Content.Headers.WriteTo)
	}
	cw.WriteString("\r\n")
	if req.Content != nil {
		cw.Call(req.Content.WriteTo)
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns the request line.
func (req *Request) String() string {
	if req == nil {
		return "<nil>"
	}
	uri := "/"
	if req.URI != nil {
		uri = req.URI.String()
	}
	return string(req.Method) + " " + uri + " " + req.version()
}

func (req *Request) version() string {
	if req.Version == "" {
		return DefaultVersion
	}
	return req.Version
}

// Format implements [fmt.Formatter] for custom formatting.
func (req *Request) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			req.WriteTo(f) //nolint:errcheck
			return
		}
		fmt.Fprint(f, req.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(req.String()))
		return
	default:
		type hideMethods Request
		type Request hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Request)(req)) //nolint:govet
		return
	}
}

// LogValue implements [slog.LogValuer] for structured logging.
func (req *Request) LogValue() slog.Value {
	if req == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, 4)
	attrs = append(attrs, slog.String("method", string(req.Method)))
	if req.URI != nil {
		attrs = append(attrs, slog.String("uri", req.URI.Redacted()))
	}
	if req.Headers != nil {
		if host, ok := req.Headers.Host(); ok {
			attrs = append(attrs, slog.String("host", host))
		}
	}
	if req.Content != nil {
		attrs = append(attrs, slog.Any("content", req.Content))
	}
	return slog.GroupValue(attrs...)
}
