package message

import (
	"io"
	"iter"
	"slices"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/ioutil"
	"github.com/ghettovoice/gohttp/internal/util"
)

// bucket holds all values of one header.
// A header value lives either in parsed form or as a raw string, a bucket may hold both.
type bucket struct {
	name header.Name
	// parsed is a single typed value or a collection for multi-value headers.
	parsed any
	raw    []string
}

func (b *bucket) hasRaw() bool { return len(b.raw) > 0 }

// Headers is a collection of HTTP headers of a certain [Kind].
//
// Known headers added with [Headers.Add] are validated and stored in typed form.
// Unknown headers and values added with [Headers.TryAddWithoutValidation] are stored as raw strings
// and parsed on the first typed read.
//
// The zero value is not usable, use [NewHeaders].
type Headers struct {
	kind    Kind
	buckets map[header.Name]*bucket
	// order keeps the names in the order of their first addition.
	order []header.Name

	connClose, teChunked *bool
}

// NewHeaders creates an empty collection of the given kind.
func NewHeaders(kind Kind) *Headers {
	return &Headers{
		kind:    kind,
		buckets: make(map[header.Name]*bucket),
	}
}

// Kind returns the categories of headers the collection accepts.
func (h *Headers) Kind() Kind {
	if h == nil {
		return KindNone
	}
	return h.kind
}

// Len returns the number of headers holding at least one value.
func (h *Headers) Len() int {
	var n int
	for range h.All() {
		n++
	}
	return n
}

// checkName validates the header name against the collection kind.
// It returns the known header info or nil for unknown headers and for known headers
// of another non-content kind, which are treated as free-form headers.
func (h *Headers) checkName(name string) (header.Name, *headerInfo, error) {
	name = util.TrimSP(name)
	if name == "" || !httpguts.ValidHeaderFieldName(name) {
		return "", nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHeaderName, "%q", name))
	}

	cn := header.CanonicName(name)
	info, ok := knownHeaders[cn]
	if !ok {
		return cn, nil, nil
	}
	if !info.kind.Has(h.kind) {
		if h.kind != KindNone && (h.kind|info.kind).Has(KindContent) {
			return cn, nil, errtrace.Wrap(errorutil.NewWrapperError(ErrHeaderKindMismatch,
				"%s header is not allowed in %s headers", cn, h.kind))
		}
		return cn, nil, nil
	}
	return cn, info, nil
}

// Add adds values to the header.
//
// Values of known headers are parsed, the first invalid value stops the call with an error
// wrapping [ErrInvalidValue], values added before it remain in the collection.
// A single-value known header can be added only once, the next attempt fails with [ErrDuplicateHeader].
// Unknown headers are stored as raw strings.
func (h *Headers) Add(name string, values ...string) error {
	cn, info, err := h.checkName(name)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if info == nil {
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidValue, "%s: %q", cn, v))
			}
			h.addRaw(cn, v)
		}
		return nil
	}
	for _, v := range values {
		if err := h.addParsed(info, v); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// TryAddWithoutValidation adds values to the header as raw strings.
// It returns false if the name is invalid, any value contains forbidden characters
// or the header belongs to an incompatible kind.
func (h *Headers) TryAddWithoutValidation(name string, values ...string) bool {
	cn, _, err := h.checkName(name)
	if err != nil {
		return false
	}
	for _, v := range values {
		if !httpguts.ValidHeaderFieldValue(v) {
			return false
		}
	}
	for _, v := range values {
		h.addRaw(cn, v)
	}
	return true
}

func (h *Headers) bucket(name header.Name, create bool) *bucket {
	b, ok := h.buckets[name]
	if !ok && create {
		b = &bucket{name: name}
		h.buckets[name] = b
		h.order = append(h.order, name)
	}
	return b
}

func (h *Headers) addRaw(name header.Name, v string) {
	b := h.bucket(name, true)
	b.raw = append(b.raw, v)
}

func (h *Headers) addParsed(info *headerInfo, s string) error {
	v, ok := info.parse(s)
	if !ok {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidValue, "%s: %q", info.name, s))
	}

	if !info.many {
		if _, ok := h.buckets[info.name]; ok {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrDuplicateHeader, "%s", info.name))
		}
		h.bucket(info.name, true).parsed = v
		return nil
	}

	h.collection(h.bucket(info.name, true), info).appendParsed(v)
	return nil
}

func (h *Headers) collection(b *bucket, info *headerInfo) collection {
	if coll, ok := b.parsed.(collection); ok {
		return coll
	}
	coll := info.newColl(h, info)
	b.parsed = coll
	return coll
}

// setValue replaces the header with a typed single value.
func (h *Headers) setValue(name header.Name, v any) {
	b := h.bucket(name, true)
	b.parsed = v
	b.raw = nil
}

// setOrRemove replaces the header with a typed single value or removes it.
func (h *Headers) setOrRemove(name header.Name, v any, remove bool) {
	if remove {
		h.Remove(string(name))
		return
	}
	h.setValue(name, v)
}

// Contains reports whether the collection holds at least one value of the header.
func (h *Headers) Contains(name string) bool {
	vals, _ := h.TryGetValues(name)
	return len(vals) > 0
}

// Remove removes all values of the header and reports whether the header was present.
func (h *Headers) Remove(name string) bool {
	if h == nil {
		return false
	}
	cn, _, err := h.checkName(name)
	if err != nil {
		return false
	}
	if _, ok := h.buckets[cn]; !ok {
		return false
	}
	delete(h.buckets, cn)
	h.order = slices.DeleteFunc(h.order, func(n header.Name) bool { return n == cn })
	return true
}

// Clear removes all headers.
func (h *Headers) Clear() {
	if h == nil {
		return
	}
	h.connClose = nil
	h.teChunked = nil
	clear(h.buckets)
	h.order = nil
}

// Values returns the string values of the header: formatted typed values followed by raw strings.
// It returns nil if the header is absent or holds no values.
func (h *Headers) Values(name string) []string {
	vals, _ := h.TryGetValues(name)
	return vals
}

// TryGetValues returns the string values of the header.
// The boolean result is false if the header is absent or the name is not allowed in the collection.
func (h *Headers) TryGetValues(name string) ([]string, bool) {
	if h == nil {
		return nil, false
	}
	cn, _, err := h.checkName(name)
	if err != nil {
		return nil, false
	}
	b, ok := h.buckets[cn]
	if !ok {
		return nil, false
	}
	return h.values(b), true
}

// Line returns the values of the header joined into a single header line value.
func (h *Headers) Line(name string) (string, bool) {
	vals, ok := h.TryGetValues(name)
	if !ok || len(vals) == 0 {
		return "", false
	}
	return JoinValues(name, vals), true
}

// JoinValues joins values of the header into a single header line value.
// Product lists are joined with spaces, other headers with commas.
func JoinValues(name string, vals []string) string {
	return strings.Join(vals, separator(header.CanonicName(name)))
}

func separator(name header.Name) string {
	if info, ok := knownHeaders[name]; ok {
		return info.sep
	}
	return ", "
}

func (h *Headers) values(b *bucket) []string {
	var vals []string
	info := knownHeaders[b.name]
	switch {
	case info != nil && info.many:
		if coll, ok := b.parsed.(collection); ok {
			vals = coll.strings()
		}
	case b.parsed != nil && info != nil:
		if s := info.format(b.parsed); s != "" {
			vals = append(vals, s)
		}
	}
	if b.hasRaw() {
		vals = append(vals, b.raw...)
	}
	return vals
}

// All returns an iterator over header names and their string values in the order of addition.
// Headers without values are skipped.
func (h *Headers) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if h == nil {
			return
		}
		for _, name := range slices.Clone(h.order) {
			b, ok := h.buckets[name]
			if !ok {
				continue
			}
			vals := h.values(b)
			if len(vals) == 0 {
				continue
			}
			if !yield(string(name), vals) {
				return
			}
		}
	}
}

// WriteTo writes the headers in the wire form, one "Name: value" line per header.
func (h *Headers) WriteTo(w io.Writer) (int64, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for name, vals := range h.All() {
		cw.WriteString(name)
		cw.WriteString(": ")
		cw.WriteString(strings.Join(vals, separator(header.Name(name))))
		cw.WriteString("\r\n")
	}
	return errtrace.Wrap2(cw.Result())
}

func (h *Headers) String() string {
	if h == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	h.WriteTo(sb) //nolint:errcheck
	return sb.String()
}

// GetValue returns the typed value of a single-value known header.
//
// A raw value is parsed on the first call and cached, the remaining raw strings are dropped.
// If parsing fails the zero value is returned, unless T is string, in which case
// the first raw string is returned as is.
func GetValue[T any](h *Headers, name string) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	cn := header.CanonicName(name)
	b, ok := h.buckets[cn]
	if !ok {
		return zero, false
	}

	if b.hasRaw() {
		info, known := knownHeaders[cn]
		if !known || info.many {
			if s, ok := any(b.raw[0]).(T); ok {
				return s, true
			}
			return zero, false
		}

		v, ok := info.parse(b.raw[0])
		if !ok {
			if s, ok := any(b.raw[0]).(T); ok {
				return s, true
			}
			return zero, false
		}
		b.parsed = v
		b.raw = nil
	}

	v, ok := b.parsed.(T)
	return v, ok
}

// GetValues returns the typed collection of a multi-value known header,
// creating an empty one if the header is absent.
//
// Raw strings are parsed into the collection, the ones that fail to parse stay raw
// and are still reported by [Headers.Values].
func GetValues[T any](h *Headers, name string) (*ValueCollection[T], error) {
	if h == nil {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil headers"))
	}
	cn := header.CanonicName(name)
	info, ok := knownHeaders[cn]
	if !ok || !info.many {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownHeader, "%q is not a known multi-value header", name))
	}

	b := h.bucket(cn, true)
	coll, ok := h.collection(b, info).(*ValueCollection[T])
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("%s values are not of type %T", cn, *new(T)))
	}

	if b.hasRaw() {
		b.raw = slices.DeleteFunc(b.raw, func(s string) bool {
			v, ok := info.parse(s)
			if ok {
				coll.appendParsed(v)
			}
			return ok
		})
	}
	return coll, nil
}

// values returns the typed collection of a registered multi-value header.
func values[T any](h *Headers, name header.Name) *ValueCollection[T] {
	return util.Must2(GetValues[T](h, string(name)))
}

// connectionClose reports whether the Connection header holds the "close" token.
// The second result is false if the flag was never set and the token is absent.
func (h *Headers) connectionClose() (bool, bool) {
	has := values[string](h, hdrConnection).Contains("close")
	return has, has || h.connClose != nil
}

func (h *Headers) setConnectionClose(v bool) {
	conn := values[string](h, hdrConnection)
	conn.RemoveFunc(func(s string) bool { return util.EqFold(s, "close") })
	if v {
		conn.Add("close")
	}
	h.connClose = &v
}

// transferEncodingChunked reports whether the Transfer-Encoding header holds the "chunked" coding.
// The second result is false if the flag was never set and the coding is absent.
func (h *Headers) transferEncodingChunked() (bool, bool) {
	_, has := values[*header.TransferCoding](h, hdrTransferEncoding).Find((*header.TransferCoding).IsChunked)
	return has, has || h.teChunked != nil
}

func (h *Headers) setTransferEncodingChunked(v bool) {
	te := values[*header.TransferCoding](h, hdrTransferEncoding)
	te.RemoveFunc((*header.TransferCoding).IsChunked)
	if v {
		te.Add(&header.TransferCoding{Value: "chunked"})
	}
	h.teChunked = &v
}
