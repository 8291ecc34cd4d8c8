package message

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/ioutil"
)

// ErrUnsuccessfulStatus is returned by [Response.EnsureSuccessStatusCode].
const ErrUnsuccessfulStatus errorutil.Error = "response status code does not indicate success"

// Response represents an HTTP response message.
type Response struct {
	StatusCode int
	// ReasonPhrase overrides the standard reason phrase of the status code.
	ReasonPhrase string
	Version      string
	Headers      *ResponseHeaders
	Content      *Content
	// Request is the request this response answers, if any.
	Request *Request
}

// NewResponse creates a response with the given status code.
// The code must be a three digit number.
func NewResponse(code int) (*Response, error) {
	if code < 0 || code > 999 {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid status code %d", code))
	}
	return &Response{
		StatusCode: code,
		Version:    DefaultVersion,
		Headers:    NewResponseHeaders(),
		Content:    NewContent(nil),
	}, nil
}

// Reason returns the reason phrase of the response.
func (res *Response) Reason() string {
	if res == nil {
		return ""
	}
	if res.ReasonPhrase != "" {
		return res.ReasonPhrase
	}
	return http.StatusText(res.StatusCode)
}

// IsSuccessStatusCode reports whether the status code is in the 2xx range.
func (res *Response) IsSuccessStatusCode() bool {
	return res != nil && res.StatusCode >= 200 && res.StatusCode <= 299
}

// EnsureSuccessStatusCode returns an error wrapping [ErrUnsuccessfulStatus] if the status code is not 2xx.
func (res *Response) EnsureSuccessStatusCode() error {
	if res.IsSuccessStatusCode() {
		return nil
	}
	if res == nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrUnsuccessfulStatus, "no response"))
	}
	return errtrace.Wrap(errorutil.NewWrapperError(ErrUnsuccessfulStatus, "%d (%s)", res.StatusCode, res.Reason()))
}

// String returns the status line.
func (res *Response) String() string {
	if res == nil {
		return "<nil>"
	}
	version := res.Version
	if version == "" {
		version = DefaultVersion
	}
	return fmt.Sprintf("%s %03d %s", version, res.StatusCode, res.Reason())
}

// WriteTo writes the status line, headers and content to w.
func (res *Response) WriteTo(w io.Writer) (int64, error) {
	if res == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(res.String())
	cw.WriteString("\r\n")
	if res.Headers != nil {
		cw.Call(res.Headers.WriteTo)
	}
	if res.Content != nil && res.Content.Headers != nil {
		cw.Call(res.Content.Headers.WriteTo)
	}
	cw.WriteString("\r\n")
	if res.Content != nil {
		cw.Call(res.Content.WriteTo)
	}
	return errtrace.Wrap2(cw.Result())
}

// Format implements [fmt.Formatter] for custom formatting.
func (res *Response) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			res.WriteTo(f) //nolint:errcheck
			return
		}
		fmt.Fprint(f, res.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(res.String()))
		return
	default:
		type hideMethods Response
		type Response hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Response)(res))
		return
	}
}

// LogValue implements [slog.LogValuer] for structured logging.
func (res *Response) LogValue() slog.Value {
	if res == nil {
		return slog.Value{}
	}

	attrs := make([]slog.Attr, 0, 3)
	attrs = append(attrs, slog.Int("status", res.StatusCode), slog.String("reason", res.Reason()))
	if res.Content != nil {
		attrs = append(attrs, slog.Any("content", res.Content))
	}
	return slog.GroupValue(attrs...)
}
