package message

import (
	"net/url"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/util"
)

// RequestHeaders is a collection of request headers with typed accessors.
type RequestHeaders struct {
	Headers

	expectContinue *bool
}

// NewRequestHeaders creates an empty request header collection.
func NewRequestHeaders() *RequestHeaders {
	return &RequestHeaders{Headers: *NewHeaders(KindRequest)}
}

// Clear removes all headers.
func (h *RequestHeaders) Clear() {
	h.expectContinue = nil
	h.Headers.Clear()
}

func (h *RequestHeaders) Accept() *ValueCollection[*header.MediaTypeWithQuality] {
	return values[*header.MediaTypeWithQuality](&h.Headers, hdrAccept)
}

func (h *RequestHeaders) AcceptCharset() *ValueCollection[*header.StringWithQuality] {
	return values[*header.StringWithQuality](&h.Headers, hdrAcceptCharset)
}

func (h *RequestHeaders) AcceptEncoding() *ValueCollection[*header.StringWithQuality] {
	return values[*header.StringWithQuality](&h.Headers, hdrAcceptEncoding)
}

func (h *RequestHeaders) AcceptLanguage() *ValueCollection[*header.StringWithQuality] {
	return values[*header.StringWithQuality](&h.Headers, hdrAcceptLanguage)
}

func (h *RequestHeaders) Authorization() (*header.AuthenticationValue, bool) {
	return GetValue[*header.AuthenticationValue](&h.Headers, string(hdrAuthorization))
}

// SetAuthorization sets the Authorization header, nil removes it.
func (h *RequestHeaders) SetAuthorization(v *header.AuthenticationValue) {
	h.setOrRemove(hdrAuthorization, v, v == nil)
}

func (h *RequestHeaders) CacheControl() (*header.CacheControl, bool) {
	return GetValue[*header.CacheControl](&h.Headers, string(hdrCacheControl))
}

// SetCacheControl sets the Cache-Control header, nil removes it.
func (h *RequestHeaders) SetCacheControl(v *header.CacheControl) {
	h.setOrRemove(hdrCacheControl, v, v == nil)
}

func (h *RequestHeaders) Connection() *ValueCollection[string] {
	return values[string](&h.Headers, hdrConnection)
}

// ConnectionClose reports whether the Connection header holds the "close" token.
// The second result is false if it was never set and the token is absent.
func (h *RequestHeaders) ConnectionClose() (bool, bool) { return h.connectionClose() }

// SetConnectionClose adds or removes the "close" token of the Connection header.
func (h *RequestHeaders) SetConnectionClose(v bool) { h.setConnectionClose(v) }

func (h *RequestHeaders) Date() (time.Time, bool) {
	return GetValue[time.Time](&h.Headers, string(hdrDate))
}

// SetDate sets the Date header, the zero time removes it.
func (h *RequestHeaders) SetDate(t time.Time) {
	h.setOrRemove(hdrDate, t.UTC(), t.IsZero())
}

func (h *RequestHeaders) Expect() *ValueCollection[*header.NameValueWithParameters] {
	return values[*header.NameValueWithParameters](&h.Headers, hdrExpect)
}

const expect100Continue = "100-continue"

func is100Continue(v *header.NameValueWithParameters) bool {
	return v != nil && util.EqFold(v.Name, expect100Continue)
}

// ExpectContinue reports whether the Expect header holds "100-continue".
// The second result is false if it was never set and the expectation is absent.
func (h *RequestHeaders) ExpectContinue() (bool, bool) {
	_, has := h.Expect().Find(is100Continue)
	return has, has || h.expectContinue != nil
}

// SetExpectContinue adds or removes the "100-continue" expectation.
func (h *RequestHeaders) SetExpectContinue(v bool) {
	exp := h.Expect()
	exp.RemoveFunc(is100Continue)
	if v {
		exp.Add(&header.NameValueWithParameters{Name: expect100Continue})
	}
	h.expectContinue = &v
}

func (h *RequestHeaders) From() (string, bool) {
	return GetValue[string](&h.Headers, string(hdrFrom))
}

// SetFrom sets the From header, an empty string removes it.
// The value must be a valid mailbox.
func (h *RequestHeaders) SetFrom(v string) error {
	if v == "" {
		h.Remove(string(hdrFrom))
		return nil
	}
	addr, ok := header.TryParseMailbox(v)
	if !ok {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid mailbox %q", v))
	}
	h.setValue(hdrFrom, addr)
	return nil
}

func (h *RequestHeaders) Host() (string, bool) {
	return GetValue[string](&h.Headers, string(hdrHost))
}

// SetHost sets the Host header, an empty string removes it.
func (h *RequestHeaders) SetHost(v string) error {
	if v == "" {
		h.Remove(string(hdrHost))
		return nil
	}
	host, ok := header.TryParseHost(v)
	if !ok {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid host %q", v))
	}
	h.setValue(hdrHost, host)
	return nil
}

func (h *RequestHeaders) IfMatch() *ValueCollection[*header.EntityTag] {
	return values[*header.EntityTag](&h.Headers, hdrIfMatch)
}

func (h *RequestHeaders) IfModifiedSince() (time.Time, bool) {
	return GetValue[time.Time](&h.Headers, string(hdrIfModifiedSince))
}

// SetIfModifiedSince sets the If-Modified-Since header, the zero time removes it.
func (h *RequestHeaders) SetIfModifiedSince(t time.Time) {
	h.setOrRemove(hdrIfModifiedSince, t.UTC(), t.IsZero())
}

func (h *RequestHeaders) IfNoneMatch() *ValueCollection[*header.EntityTag] {
	return values[*header.EntityTag](&h.Headers, hdrIfNoneMatch)
}

func (h *RequestHeaders) IfRange() (*header.RangeCondition, bool) {
	return GetValue[*header.RangeCondition](&h.Headers, string(hdrIfRange))
}

// SetIfRange sets the If-Range header, nil removes it.
func (h *RequestHeaders) SetIfRange(v *header.RangeCondition) {
	h.setOrRemove(hdrIfRange, v, v == nil)
}

func (h *RequestHeaders) IfUnmodifiedSince() (time.Time, bool) {
	return GetValue[time.Time](&h.Headers, string(hdrIfUnmodifiedSince))
}

// SetIfUnmodifiedSince sets the If-Unmodified-Since header, the zero time removes it.
func (h *RequestHeaders) SetIfUnmodifiedSince(t time.Time) {
	h.setOrRemove(hdrIfUnmodifiedSince, t.UTC(), t.IsZero())
}

func (h *RequestHeaders) MaxForwards() (int, bool) {
	return GetValue[int](&h.Headers, string(hdrMaxForwards))
}

// SetMaxForwards sets the Max-Forwards header, nil removes it.
func (h *RequestHeaders) SetMaxForwards(v *int) error {
	if v == nil {
		h.Remove(string(hdrMaxForwards))
		return nil
	}
	if *v < 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("negative Max-Forwards %d", *v))
	}
	h.setValue(hdrMaxForwards, *v)
	return nil
}

func (h *RequestHeaders) Pragma() *ValueCollection[header.NameValue] {
	return values[header.NameValue](&h.Headers, hdrPragma)
}

func (h *RequestHeaders) ProxyAuthorization() (*header.AuthenticationValue, bool) {
	return GetValue[*header.AuthenticationValue](&h.Headers, string(hdrProxyAuthorization))
}

// SetProxyAuthorization sets the Proxy-Authorization header, nil removes it.
func (h *RequestHeaders) SetProxyAuthorization(v *header.AuthenticationValue) {
	h.setOrRemove(hdrProxyAuthorization, v, v == nil)
}

func (h *RequestHeaders) Range() (*header.RangeValue, bool) {
	return GetValue[*header.RangeValue](&h.Headers, string(hdrRange))
}

// SetRange sets the Range header, nil removes it.
func (h *RequestHeaders) SetRange(v *header.RangeValue) {
	h.setOrRemove(hdrRange, v, v == nil)
}

func (h *RequestHeaders) Referrer() (*url.URL, bool) {
	return GetValue[*url.URL](&h.Headers, string(hdrReferer))
}

// SetReferrer sets the Referer header, nil removes it.
func (h *RequestHeaders) SetReferrer(u *url.URL) {
	h.setOrRemove(hdrReferer, u, u == nil)
}

func (h *RequestHeaders) TE() *ValueCollection[*header.TransferCodingWithQuality] {
	return values[*header.TransferCodingWithQuality](&h.Headers, hdrTE)
}

func (h *RequestHeaders) Trailer() *ValueCollection[string] {
	return values[string](&h.Headers, hdrTrailer)
}

func (h *RequestHeaders) TransferEncoding() *ValueCollection[*header.TransferCoding] {
	return values[*header.TransferCoding](&h.Headers, hdrTransferEncoding)
}

// TransferEncodingChunked reports whether the Transfer-Encoding header holds the "chunked" coding.
// The second result is false if it was never set and the coding is absent.
func (h *RequestHeaders) TransferEncodingChunked() (bool, bool) { return h.transferEncodingChunked() }

// SetTransferEncodingChunked adds or removes the "chunked" coding of the Transfer-Encoding header.
func (h *RequestHeaders) SetTransferEncodingChunked(v bool) { h.setTransferEncodingChunked(v) }

func (h *RequestHeaders) Upgrade() *ValueCollection[*header.Product] {
	return values[*header.Product](&h.Headers, hdrUpgrade)
}

func (h *RequestHeaders) UserAgent() *ValueCollection[*header.ProductInfo] {
	return values[*header.ProductInfo](&h.Headers, hdrUserAgent)
}

func (h *RequestHeaders) Via() *ValueCollection[*header.Via] {
	return values[*header.Via](&h.Headers, hdrVia)
}

func (h *RequestHeaders) Warning() *ValueCollection[*header.Warning] {
	return values[*header.Warning](&h.Headers, hdrWarning)
}

// AddHeaders copies all headers of other into h without validation.
// Headers already present in h are kept, other's values are appended.
func (h *RequestHeaders) AddHeaders(other *RequestHeaders) {
	if other == nil {
		return
	}
	for name, vals := range other.All() {
		h.TryAddWithoutValidation(name, vals...)
	}
}
