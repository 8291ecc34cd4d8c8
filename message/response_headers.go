package message

import (
	"net/url"
	"time"

	"github.com/ghettovoice/gohttp/header"
)

// ResponseHeaders is a collection of response headers with typed accessors.
type ResponseHeaders struct {
	Headers
}

// NewResponseHeaders creates an empty response header collection.
func NewResponseHeaders() *ResponseHeaders {
	return &ResponseHeaders{Headers: *NewHeaders(KindResponse)}
}

func (h *ResponseHeaders) AcceptRanges() *ValueCollection[string] {
	return values[string](&h.Headers, hdrAcceptRanges)
}

func (h *ResponseHeaders) Age() (time.Duration, bool) {
	return GetValue[time.Duration](&h.Headers, string(hdrAge))
}

// SetAge sets the Age header, nil removes it.
func (h *ResponseHeaders) SetAge(d *time.Duration) {
	if d == nil || *d < 0 {
		h.Remove(string(hdrAge))
		return
	}
	h.setValue(hdrAge, d.Truncate(time.Second))
}

func (h *ResponseHeaders) CacheControl() (*header.CacheControl, bool) {
	return GetValue[*header.CacheControl](&h.Headers, string(hdrCacheControl))
}

// SetCacheControl sets the Cache-Control header, nil removes it.
func (h *ResponseHeaders) SetCacheControl(v *header.CacheControl) {
	h.setOrRemove(hdrCacheControl, v, v == nil)
}

func (h *ResponseHeaders) Connection() *ValueCollection[string] {
	return values[string](&h.Headers, hdrConnection)
}

// ConnectionClose reports whether the Connection header holds the "close" token.
// The second result is false if it was never set and the token is absent.
func (h *ResponseHeaders) ConnectionClose() (bool, bool) { return h.connectionClose() }

// SetConnectionClose adds or removes the "close" token of the Connection header.
func (h *ResponseHeaders) SetConnectionClose(v bool) { h.setConnectionClose(v) }

func (h *ResponseHeaders) Date() (time.Time, bool) {
	return GetValue[time.Time](&h.Headers, string(hdrDate))
}

// SetDate sets the Date header, the zero time removes it.
func (h *ResponseHeaders) SetDate(t time.Time) {
	h.setOrRemove(hdrDate, t.UTC(), t.IsZero())
}

func (h *ResponseHeaders) ETag() (*header.EntityTag, bool) {
	return GetValue[*header.EntityTag](&h.Headers, string(hdrETag))
}

// SetETag sets the ETag header, nil removes it.
func (h *ResponseHeaders) SetETag(v *header.EntityTag) {
	h.setOrRemove(hdrETag, v, v == nil)
}

func (h *ResponseHeaders) Location() (*url.URL, bool) {
	return GetValue[*url.URL](&h.Headers, string(hdrLocation))
}

// SetLocation sets the Location header, nil removes it.
func (h *ResponseHeaders) SetLocation(u *url.URL) {
	h.setOrRemove(hdrLocation, u, u == nil)
}

func (h *ResponseHeaders) Pragma() *ValueCollection[header.NameValue] {
	return values[header.NameValue](&h.Headers, hdrPragma)
}

func (h *ResponseHeaders) ProxyAuthenticate() *ValueCollection[*header.AuthenticationValue] {
	return values[*header.AuthenticationValue](&h.Headers, hdrProxyAuthenticate)
}

func (h *ResponseHeaders) RetryAfter() (*header.RetryCondition, bool) {
	return GetValue[*header.RetryCondition](&h.Headers, string(hdrRetryAfter))
}

// SetRetryAfter sets the Retry-After header, nil removes it.
func (h *ResponseHeaders) SetRetryAfter(v *header.RetryCondition) {
	h.setOrRemove(hdrRetryAfter, v, v == nil)
}

func (h *ResponseHeaders) Server() *ValueCollection[*header.ProductInfo] {
	return values[*header.ProductInfo](&h.Headers, hdrServer)
}

func (h *ResponseHeaders) Trailer() *ValueCollection[string] {
	return values[string](&h.Headers, hdrTrailer)
}

func (h *ResponseHeaders) TransferEncoding() *ValueCollection[*header.TransferCoding] {
	return values[*header.TransferCoding](&h.Headers, hdrTransferEncoding)
}

// TransferEncodingChunked reports whether the Transfer-Encoding header holds the "chunked" coding.
// The second result is false if it was never set and the coding is absent.
func (h *ResponseHeaders) TransferEncodingChunked() (bool, bool) { return h.transferEncodingChunked() }

// SetTransferEncodingChunked adds or removes the "chunked" coding of the Transfer-Encoding header.
func (h *ResponseHeaders) SetTransferEncodingChunked(v bool) { h.setTransferEncodingChunked(v) }

func (h *ResponseHeaders) Upgrade() *ValueCollection[*header.Product] {
	return values[*header.Product](&h.Headers, hdrUpgrade)
}

func (h *ResponseHeaders) Vary() *ValueCollection[string] {
	return values[string](&h.Headers, hdrVary)
}

func (h *ResponseHeaders) Via() *ValueCollection[*header.Via] {
	return values[*header.Via](&h.Headers, hdrVia)
}

func (h *ResponseHeaders) Warning() *ValueCollection[*header.Warning] {
	return values[*header.Warning](&h.Headers, hdrWarning)
}

func (h *ResponseHeaders) WWWAuthenticate() *ValueCollection[*header.AuthenticationValue] {
	return values[*header.AuthenticationValue](&h.Headers, hdrWWWAuthenticate)
}
