package message

import (
	"net/url"
	"slices"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/errorutil"
)

// ContentHeaders is a collection of content headers with typed accessors.
type ContentHeaders struct {
	Headers
}

// NewContentHeaders creates an empty content header collection.
func NewContentHeaders() *ContentHeaders {
	return &ContentHeaders{Headers: *NewHeaders(KindContent)}
}

func (h *ContentHeaders) Allow() *ValueCollection[string] {
	return values[string](&h.Headers, hdrAllow)
}

func (h *ContentHeaders) ContentDisposition() (*header.ContentDisposition, bool) {
	return GetValue[*header.ContentDisposition](&h.Headers, string(hdrContentDisposition))
}

// SetContentDisposition sets the Content-Disposition header, nil removes it.
func (h *ContentHeaders) SetContentDisposition(v *header.ContentDisposition) {
	h.setOrRemove(hdrContentDisposition, v, v == nil)
}

func (h *ContentHeaders) ContentEncoding() *ValueCollection[string] {
	return values[string](&h.Headers, hdrContentEncoding)
}

func (h *ContentHeaders) ContentLanguage() *ValueCollection[string] {
	return values[string](&h.Headers, hdrContentLanguage)
}

func (h *ContentHeaders) ContentLength() (int64, bool) {
	return GetValue[int64](&h.Headers, string(hdrContentLength))
}

// SetContentLength sets the Content-Length header, nil removes it.
func (h *ContentHeaders) SetContentLength(n *int64) error {
	if n == nil {
		h.Remove(string(hdrContentLength))
		return nil
	}
	if *n < 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("negative Content-Length %d", *n))
	}
	h.setValue(hdrContentLength, *n)
	return nil
}

func (h *ContentHeaders) ContentLocation() (*url.URL, bool) {
	return GetValue[*url.URL](&h.Headers, string(hdrContentLocation))
}

// SetContentLocation sets the Content-Location header, nil removes it.
func (h *ContentHeaders) SetContentLocation(u *url.URL) {
	h.setOrRemove(hdrContentLocation, u, u == nil)
}

func (h *ContentHeaders) ContentMD5() ([]byte, bool) {
	return GetValue[[]byte](&h.Headers, string(hdrContentMD5))
}

// SetContentMD5 sets the Content-MD5 header, an empty digest removes it.
func (h *ContentHeaders) SetContentMD5(sum []byte) {
	h.setOrRemove(hdrContentMD5, slices.Clone(sum), len(sum) == 0)
}

func (h *ContentHeaders) ContentRange() (*header.ContentRange, bool) {
	return GetValue[*header.ContentRange](&h.Headers, string(hdrContentRange))
}

// SetContentRange sets the Content-Range header, nil removes it.
func (h *ContentHeaders) SetContentRange(v *header.ContentRange) {
	h.setOrRemove(hdrContentRange, v, v == nil)
}

func (h *ContentHeaders) ContentType() (*header.MediaType, bool) {
	return GetValue[*header.MediaType](&h.Headers, string(hdrContentType))
}

// SetContentType sets the Content-Type header, nil removes it.
func (h *ContentHeaders) SetContentType(v *header.MediaType) {
	h.setOrRemove(hdrContentType, v, v == nil)
}

func (h *ContentHeaders) Expires() (time.Time, bool) {
	return GetValue[time.Time](&h.Headers, string(hdrExpires))
}

// SetExpires sets the Expires header, the zero time removes it.
func (h *ContentHeaders) SetExpires(t time.Time) {
	h.setOrRemove(hdrExpires, t.UTC(), t.IsZero())
}

func (h *ContentHeaders) LastModified() (time.Time, bool) {
	return GetValue[time.Time](&h.Headers, string(hdrLastModified))
}

// SetLastModified sets the Last-Modified header, the zero time removes it.
func (h *ContentHeaders) SetLastModified(t time.Time) {
	h.setOrRemove(hdrLastModified, t.UTC(), t.IsZero())
}
