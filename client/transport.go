package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"braces.dev/errtrace"
	"golang.org/x/net/http2"

	"github.com/ghettovoice/gohttp/dns"
	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/log"
	"github.com/ghettovoice/gohttp/internal/util"
	"github.com/ghettovoice/gohttp/message"
)

// Transport sends a single request and returns its response.
// The response content may be an unbuffered stream, the [Client] reads it.
//
//go:generate go tool mockgen -typed -destination clientmock/transport.go -package clientmock . Transport
type Transport interface {
	RoundTrip(ctx context.Context, req *message.Request) (*message.Response, error)
}

// TransportFunc is an adapter to use ordinary functions as [Transport].
type TransportFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

func (fn TransportFunc) RoundTrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	return errtrace.Wrap2(fn(ctx, req))
}

// HTTPTransportOptions are the options for a [HTTPTransport].
type HTTPTransportOptions struct {
	// Resolver resolves host names before dialing.
	// If nil, the [dns.DefaultResolver] is used.
	Resolver *dns.Resolver
	// DialTimeout limits a single connection attempt.
	// If zero, defaults to 30 seconds.
	DialTimeout time.Duration
	// TLSConfig is the TLS configuration for HTTPS connections.
	TLSConfig *tls.Config
	// DisableHTTP2 turns off HTTP/2 negotiation.
	DisableHTTP2 bool
	// Logger is the logger.
	// If nil, messages are not logged.
	Logger *slog.Logger
}

func (o *HTTPTransportOptions) resolver() *dns.Resolver {
	if o == nil || o.Resolver == nil {
		return dns.DefaultResolver()
	}
	return o.Resolver
}

func (o *HTTPTransportOptions) dialTimeout() time.Duration {
	if o == nil || o.DialTimeout <= 0 {
		return 30 * time.Second
	}
	return o.DialTimeout
}

func (o *HTTPTransportOptions) tlsConfig() *tls.Config {
	if o == nil || o.TLSConfig == nil {
		return nil
	}
	return o.TLSConfig.Clone()
}

func (o *HTTPTransportOptions) useHTTP2() bool { return o == nil || !o.DisableHTTP2 }

func (o *HTTPTransportOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Noop
	}
	return o.Logger
}

// HTTPTransport is a [Transport] built on [net/http].
type HTTPTransport struct {
	ht   *http.Transport
	res  *dns.Resolver
	dial net.Dialer
	log  *slog.Logger
}

// NewHTTPTransport creates a new [HTTPTransport].
// Options are optional, if nil, default values are used (see [HTTPTransportOptions]).
func NewHTTPTransport(opts *HTTPTransportOptions) (*HTTPTransport, error) {
	tp := &HTTPTransport{
		res:  opts.resolver(),
		dial: net.Dialer{Timeout: opts.dialTimeout(), KeepAlive: 30 * time.Second},
		log:  opts.log(),
	}
	tp.ht = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           tp.dialContext,
		TLSClientConfig:       opts.tlsConfig(),
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.useHTTP2() {
		if err := http2.ConfigureTransport(tp.ht); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}
	return tp, nil
}

var defTransport = sync.OnceValue(func() *HTTPTransport {
	return util.Must2(NewHTTPTransport(nil))
})

// DefaultTransport returns the shared [HTTPTransport] with default options.
func DefaultTransport() *HTTPTransport { return defTransport() }

// CloseIdleConnections closes idle keep-alive connections.
func (tp *HTTPTransport) CloseIdleConnections() { tp.ht.CloseIdleConnections() }

func (tp *HTTPTransport) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if ip := net.ParseIP(host); ip != nil {
		return errtrace.Wrap2(tp.dialAddr(ctx, network, addr))
	}

	ips, err := tp.res.LookupIP(ctx, "ip", host)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var errs []error
	for _, ip := range ips {
		conn, err := tp.dialAddr(ctx, network, net.JoinHostPort(ip.String(), port))
		if err == nil {
			return conn, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, errtrace.Wrap(&net.DNSError{Err: "no addresses", Name: host, IsNotFound: true})
	}
	return nil, errtrace.Wrap(errorutil.Join(errs...))
}

func (tp *HTTPTransport) dialAddr(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := tp.dial.DialContext(ctx, network, addr)
	if err != nil {
		tp.log.LogAttrs(ctx, slog.LevelDebug, "dial failed", slog.String("addr", addr), slog.Any("error", err))
		return nil, errtrace.Wrap(err)
	}
	tp.log.LogAttrs(ctx, slog.LevelDebug, "connection established", slog.Any("conn", conn))
	return conn, nil
}

// RoundTrip sends the request with [net/http] and returns the response with streamed content.
func (tp *HTTPTransport) RoundTrip(ctx context.Context, req *message.Request) (*message.Response, error) {
	hreq, err := toHTTPRequest(ctx, req)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	hres, err := tp.ht.RoundTrip(hreq)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return fromHTTPResponse(hres), nil
}

// skipReqHdrs are rendered by net/http from the request fields.
var skipReqHdrs = []string{"Host", "Content-Length", "Transfer-Encoding"}

func toHTTPRequest(ctx context.Context, req *message.Request) (*http.Request, error) {
	if req == nil || req.URI == nil || !req.URI.IsAbs() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("request URI must be absolute"))
	}

	hreq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URI.String(), nil)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if req.Headers != nil {
		copyHeaders(hreq.Header, &req.Headers.Headers)
		if host, ok := req.Headers.Host(); ok {
			hreq.Host = host
		}
		if v, _ := req.Headers.ConnectionClose(); v {
			hreq.Close = true
		}
		if v, _ := req.Headers.TransferEncodingChunked(); v {
			hreq.TransferEncoding = []string{"chunked"}
		}
	}

	if req.Content != nil {
		hreq.Body = toReadCloser(req.Content.Reader())
		hreq.ContentLength = -1
		if req.Content.Headers != nil {
			copyHeaders(hreq.Header, &req.Content.Headers.Headers)
			if n, ok := req.Content.Headers.ContentLength(); ok {
				hreq.ContentLength = n
			}
		}
		if req.Content.IsBuffered() {
			data := req.Content.Bytes()
			if hreq.ContentLength < 0 {
				hreq.ContentLength = int64(len(data))
			}
			hreq.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(data)), nil
			}
		}
		if hreq.ContentLength == 0 {
			hreq.Body.Close() //nolint:errcheck
			hreq.Body = http.NoBody
		}
	}
	return hreq, nil
}

func copyHeaders(dst http.Header, src *message.Headers) {
	for name := range src.All() {
		if slices.ContainsFunc(skipReqHdrs, func(s string) bool { return util.EqFold(s, name) }) {
			continue
		}
		if line, ok := src.Line(name); ok {
			dst[name] = append(dst[name], line)
		}
	}
}

// toReadCloser keeps the Close of a streamed content,
// so the transport releases it once the body is sent.
func toReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

func fromHTTPResponse(hres *http.Response) *message.Response {
	res := &message.Response{
		StatusCode: hres.StatusCode,
		Version:    hres.Proto,
		Headers:    message.NewResponseHeaders(),
		Content:    message.NewStreamContent(hres.Body),
	}
	if reason, ok := strings.CutPrefix(hres.Status, strconv.Itoa(hres.StatusCode)); ok {
		if reason = strings.TrimSpace(reason); reason != http.StatusText(hres.StatusCode) {
			res.ReasonPhrase = reason
		}
	}

	for _, name := range slices.Sorted(maps.Keys(hres.Header)) {
		vals := hres.Header[name]
		if message.KnownHeaderKind(name).Has(message.KindContent) {
			res.Content.Headers.TryAddWithoutValidation(name, vals...)
		} else {
			res.Headers.TryAddWithoutValidation(name, vals...)
		}
	}
	if len(hres.TransferEncoding) > 0 {
		res.Headers.TryAddWithoutValidation("Transfer-Encoding", hres.TransferEncoding...)
	}
	if hres.ContentLength >= 0 && !res.Content.Headers.Contains("Content-Length") {
		res.Content.Headers.SetContentLength(&hres.ContentLength) //nolint:errcheck
	}
	return res
}
