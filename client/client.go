// Package client implements a thin HTTP client on top of the message model.
//
// The [Client] resolves request URIs against a base address, merges default request headers,
// applies a timeout and buffers response content. The wire exchange is delegated to a [Transport],
// [HTTPTransport] is the default one.
package client

//go:generate go tool errtrace -w .

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"sync"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/log"
	"github.com/ghettovoice/gohttp/message"
)

const (
	ErrRequestAlreadySent errorutil.Error = "request was already sent"
	ErrNoRequestURI       errorutil.Error = "request URI must be absolute or the base address must be set"
	ErrNoResponse         errorutil.Error = "transport returned no response"
	ErrPendingCanceled    errorutil.Error = "pending requests canceled"

	ErrInvalidArgument  = errorutil.ErrInvalidArgument
	ErrInvalidOperation = errorutil.ErrInvalidOperation
	ErrContentTooLarge  = message.ErrContentTooLarge
)

const (
	// DefaultTimeout is the request timeout used when [Options.Timeout] is zero.
	DefaultTimeout = 100 * time.Second
	// DefaultMaxResponseContentBufferSize is the buffer limit used when
	// [Options.MaxResponseContentBufferSize] is not positive.
	DefaultMaxResponseContentBufferSize int64 = math.MaxInt32
)

// Options are the options for a [Client].
type Options struct {
	// BaseAddress is used to resolve relative request URIs.
	BaseAddress *url.URL
	// Timeout limits the whole exchange including the response content read.
	// If zero, the [DefaultTimeout] is used, negative value disables the timeout.
	Timeout time.Duration
	// MaxResponseContentBufferSize limits the buffered response content.
	// If not positive, the [DefaultMaxResponseContentBufferSize] is used.
	MaxResponseContentBufferSize int64
	// Transport sends requests.
	// If nil, a [HTTPTransport] with default options is used.
	Transport Transport
	// Logger is the logger.
	// If nil, messages are not logged.
	Logger *slog.Logger
}

func (o *Options) baseAddr() *url.URL {
	if o == nil {
		return nil
	}
	return o.BaseAddress
}

func (o *Options) timeout() time.Duration {
	if o == nil || o.Timeout == 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o *Options) maxBufSize() int64 {
	if o == nil || o.MaxResponseContentBufferSize <= 0 {
		return DefaultMaxResponseContentBufferSize
	}
	return o.MaxResponseContentBufferSize
}

func (o *Options) transport() Transport {
	if o == nil || o.Transport == nil {
		return DefaultTransport()
	}
	return o.Transport
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Noop
	}
	return o.Logger
}

// Client sends HTTP requests through a [Transport].
// It is safe for concurrent use, though [Client.DefaultRequestHeaders] must not be modified
// while requests are in flight.
type Client struct {
	baseAddr   *url.URL
	timeout    time.Duration
	maxBufSize int64
	tp         Transport
	log        *slog.Logger

	hdrsOnce sync.Once
	hdrs     *message.RequestHeaders

	mu         sync.Mutex
	pendingCtx context.Context //nolint:containedctx
	cancel     context.CancelCauseFunc
}

// New creates a new [Client].
// Options are optional, if nil, default values are used (see [Options]).
func New(opts *Options) *Client {
	c := &Client{
		baseAddr:   opts.baseAddr(),
		timeout:    opts.timeout(),
		maxBufSize: opts.maxBufSize(),
		tp:         opts.transport(),
		log:        opts.log(),
	}
	c.pendingCtx, c.cancel = context.WithCancelCause(context.Background())
	return c
}

// BaseAddress returns the base address used to resolve relative request URIs.
func (c *Client) BaseAddress() *url.URL { return c.baseAddr }

// Timeout returns the request timeout, non-positive means no timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// MaxResponseContentBufferSize returns the response content buffer limit.
func (c *Client) MaxResponseContentBufferSize() int64 { return c.maxBufSize }

// DefaultRequestHeaders returns the headers added to every sent request.
func (c *Client) DefaultRequestHeaders() *message.RequestHeaders {
	c.hdrsOnce.Do(func() { c.hdrs = message.NewRequestHeaders() })
	return c.hdrs
}

// CancelPendingRequests cancels all requests that are in flight.
// Requests sent afterwards are not affected.
func (c *Client) CancelPendingRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel(ErrPendingCanceled)
	c.pendingCtx, c.cancel = context.WithCancelCause(context.Background())
}

func (c *Client) pending() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingCtx
}

// Send sends the request and returns the response with buffered content.
//
// A request can be sent only once, the second attempt fails with [ErrRequestAlreadySent]
// wrapped with [ErrInvalidOperation].
// Relative or empty request URIs are resolved against the base address, [ErrNoRequestURI] is returned
// if it is not set. Default request headers are appended to the request headers.
// Response content larger than the buffer limit fails with [ErrContentTooLarge].
func (c *Client) Send(ctx context.Context, req *message.Request) (*message.Response, error) {
	if req == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid request"))
	}
	if !req.MarkSent() {
		return nil, errtrace.Wrap(errorutil.NewInvalidOperationError(ErrRequestAlreadySent))
	}

	if err := c.prepare(req); err != nil {
		return nil, errtrace.Wrap(err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := context.AfterFunc(c.pending(), func() { cancel(ErrPendingCanceled) })
	defer stop()

	op, err := newSendOp(ctx, req, c.log)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(op.run(ctx, c.tp, c.maxBufSize))
}

func (c *Client) prepare(req *message.Request) error {
	switch {
	case req.URI == nil || req.URI.String() == "":
		if c.baseAddr == nil {
			return errtrace.Wrap(ErrNoRequestURI)
		}
		req.URI = cloneURL(c.baseAddr)
	case !req.URI.IsAbs():
		if c.baseAddr == nil {
			return errtrace.Wrap(ErrNoRequestURI)
		}
		req.URI = c.baseAddr.ResolveReference(req.URI)
	}
	if err := message.CheckRequestURI(req.URI); err != nil {
		return errtrace.Wrap(err)
	}

	if req.Headers == nil {
		req.Headers = message.NewRequestHeaders()
	}
	req.Headers.AddHeaders(c.DefaultRequestHeaders())
	return nil
}

func cloneURL(u *url.URL) *url.URL {
	u2 := *u
	if u.User != nil {
		u2.User = new(url.Userinfo)
		*u2.User = *u.User
	}
	return &u2
}

func (c *Client) sendMethod(
	ctx context.Context,
	mtd message.Method,
	uri string,
	content *message.Content,
) (*message.Response, error) {
	req, err := message.NewRequest(mtd, uri)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	req.Content = content
	return errtrace.Wrap2(c.Send(ctx, req))
}

// Get sends a GET request to the uri.
func (c *Client) Get(ctx context.Context, uri string) (*message.Response, error) {
	return errtrace.Wrap2(c.sendMethod(ctx, message.MethodGet, uri, nil))
}

// Delete sends a DELETE request to the uri.
func (c *Client) Delete(ctx context.Context, uri string) (*message.Response, error) {
	return errtrace.Wrap2(c.sendMethod(ctx, message.MethodDelete, uri, nil))
}

// Post sends a POST request with the content to the uri.
func (c *Client) Post(ctx context.Context, uri string, content *message.Content) (*message.Response, error) {
	return errtrace.Wrap2(c.sendMethod(ctx, message.MethodPost, uri, content))
}

// Put sends a PUT request with the content to the uri.
func (c *Client) Put(ctx context.Context, uri string, content *message.Content) (*message.Response, error) {
	return errtrace.Wrap2(c.sendMethod(ctx, message.MethodPut, uri, content))
}

// GetBytes sends a GET request and returns the response content.
// Non-2xx responses fail with [message.ErrUnsuccessfulStatus].
func (c *Client) GetBytes(ctx context.Context, uri string) ([]byte, error) {
	res, err := c.Get(ctx, uri)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if err := res.EnsureSuccessStatusCode(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return res.Content.Bytes(), nil
}

// GetString sends a GET request and returns the response content as a string.
// Non-2xx responses fail with [message.ErrUnsuccessfulStatus].
func (c *Client) GetString(ctx context.Context, uri string) (string, error) {
	b, err := c.GetBytes(ctx, uri)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return string(b), nil
}
