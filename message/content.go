package message

import (
	"bytes"
	"io"
	"log/slog"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/util"
)

// ErrContentTooLarge is returned when the content exceeds the buffer limit.
const ErrContentTooLarge errorutil.Error = "content exceeds the buffer size limit"

// Content is a message body together with its content headers.
// The body is either an in-memory buffer or a stream that is read once.
type Content struct {
	Headers *ContentHeaders

	data   []byte
	stream io.ReadCloser
}

// NewContent creates a content holding a copy of data.
// The Content-Length header is set to the data length.
func NewContent(data []byte) *Content {
	c := &Content{
		Headers: NewContentHeaders(),
		data:    slices.Clone(data),
	}
	c.Headers.SetContentLength(util.Ptr(int64(len(c.data)))) //nolint:errcheck
	return c
}

// NewStringContent creates a content holding s with the given media type and the UTF-8 charset.
// Empty media type defaults to "text/plain".
func NewStringContent(s, mediaType string) (*Content, error) {
	if mediaType == "" {
		mediaType = "text/plain"
	}
	mt, err := header.NewMediaType(mediaType)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	mt.SetCharSet("utf-8")

	c := NewContent([]byte(s))
	c.Headers.SetContentType(mt)
	return c, nil
}

// NewStreamContent creates a content reading its data from r.
// The stream is consumed by [Content.LoadIntoBuffer] or [Content.WriteTo].
func NewStreamContent(r io.ReadCloser) *Content {
	return &Content{
		Headers: NewContentHeaders(),
		stream:  r,
	}
}

// IsBuffered reports whether the content data is held in memory.
func (c *Content) IsBuffered() bool { return c == nil || c.stream == nil }

// LoadIntoBuffer reads the whole stream into memory and closes it.
// It returns an error wrapping [ErrContentTooLarge] if the stream holds more than maxSize bytes,
// non-positive maxSize means no limit.
func (c *Content) LoadIntoBuffer(maxSize int64) error {
	if c.IsBuffered() {
		if maxSize > 0 && int64(len(c.data)) > maxSize {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrContentTooLarge, "%d > %d bytes", len(c.data), maxSize))
		}
		return nil
	}

	stream := c.stream
	c.stream = nil
	defer stream.Close()

	var (
		r   io.Reader = stream
		lim int64
	)
	if maxSize > 0 {
		if n, ok := c.Headers.ContentLength(); ok && n > maxSize {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrContentTooLarge, "%d > %d bytes", n, maxSize))
		}
		lim = maxSize + 1
		r = io.LimitReader(stream, lim)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if lim > 0 && int64(len(data)) == lim {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrContentTooLarge, "more than %d bytes", maxSize))
	}
	c.data = data
	return nil
}

// Close closes the underlying stream, if any.
func (c *Content) Close() error {
	if c.IsBuffered() {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return errtrace.Wrap(err)
}

// Bytes returns the buffered content data. The returned slice must not be modified.
func (c *Content) Bytes() []byte {
	if c == nil {
		return nil
	}
	return c.data
}

func (c *Content) String() string {
	if c == nil {
		return ""
	}
	return string(c.data)
}

// Len returns the buffered data length.
func (c *Content) Len() int {
	if c == nil {
		return 0
	}
	return len(c.data)
}

// Reader returns a reader over the content data.
// For an unbuffered content it is the stream itself.
func (c *Content) Reader() io.Reader {
	if !c.IsBuffered() {
		return c.stream
	}
	return bytes.NewReader(c.Bytes())
}

// WriteTo writes the content data to w.
func (c *Content) WriteTo(w io.Writer) (int64, error) {
	if !c.IsBuffered() {
		return errtrace.Wrap2(io.Copy(w, c.stream))
	}
	n, err := w.Write(c.Bytes())
	return int64(n), errtrace.Wrap(err)
}

// LogValue implements [slog.LogValuer] for structured logging.
func (c *Content) LogValue() slog.Value {
	if c == nil {
		return slog.Value{}
	}
	attrs := make([]slog.Attr, 0, 3)
	if c.IsBuffered() {
		attrs = append(attrs, slog.Int("length", len(c.data)))
	} else {
		attrs = append(attrs, slog.Bool("stream", true))
	}
	if c.Headers != nil {
		if mt, ok := c.Headers.ContentType(); ok {
			attrs = append(attrs, slog.String("type", mt.String()))
		}
	}
	return slog.GroupValue(attrs...)
}
