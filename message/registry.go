package message

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/header"
	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// Known header names.
const (
	hdrAccept             header.Name = "Accept"
	hdrAcceptCharset      header.Name = "Accept-Charset"
	hdrAcceptEncoding     header.Name = "Accept-Encoding"
	hdrAcceptLanguage     header.Name = "Accept-Language"
	hdrAcceptRanges       header.Name = "Accept-Ranges"
	hdrAge                header.Name = "Age"
	hdrAllow              header.Name = "Allow"
	hdrAuthorization      header.Name = "Authorization"
	hdrCacheControl       header.Name = "Cache-Control"
	hdrConnection         header.Name = "Connection"
	hdrContentDisposition header.Name = "Content-Disposition"
	hdrContentEncoding    header.Name = "Content-Encoding"
	hdrContentLanguage    header.Name = "Content-Language"
	hdrContentLength      header.Name = "Content-Length"
	hdrContentLocation    header.Name = "Content-Location"
	hdrContentMD5         header.Name = "Content-MD5"
	hdrContentRange       header.Name = "Content-Range"
	hdrContentType        header.Name = "Content-Type"
	hdrDate               header.Name = "Date"
	hdrETag               header.Name = "ETag"
	hdrExpect             header.Name = "Expect"
	hdrExpires            header.Name = "Expires"
	hdrFrom               header.Name = "From"
	hdrHost               header.Name = "Host"
	hdrIfMatch            header.Name = "If-Match"
	hdrIfModifiedSince    header.Name = "If-Modified-Since"
	hdrIfNoneMatch        header.Name = "If-None-Match"
	hdrIfRange            header.Name = "If-Range"
	hdrIfUnmodifiedSince  header.Name = "If-Unmodified-Since"
	hdrLastModified       header.Name = "Last-Modified"
	hdrLocation           header.Name = "Location"
	hdrMaxForwards        header.Name = "Max-Forwards"
	hdrPragma             header.Name = "Pragma"
	hdrProxyAuthenticate  header.Name = "Proxy-Authenticate"
	hdrProxyAuthorization header.Name = "Proxy-Authorization"
	hdrRange              header.Name = "Range"
	hdrReferer            header.Name = "Referer"
	hdrRetryAfter         header.Name = "Retry-After"
	hdrServer             header.Name = "Server"
	hdrTE                 header.Name = "TE"
	hdrTrailer            header.Name = "Trailer"
	hdrTransferEncoding   header.Name = "Transfer-Encoding"
	hdrUpgrade            header.Name = "Upgrade"
	hdrUserAgent          header.Name = "User-Agent"
	hdrVary               header.Name = "Vary"
	hdrVia                header.Name = "Via"
	hdrWarning            header.Name = "Warning"
	hdrWWWAuthenticate    header.Name = "WWW-Authenticate"
)

// headerInfo describes a known header.
type headerInfo struct {
	name header.Name
	kind Kind
	many bool
	// sep joins the values of the header on a single line.
	sep string
	// parse returns T for single-value headers and []T for multi-value headers.
	parse func(s string) (any, bool)
	// format renders a parsed single value, nil format falls back to formatValue.
	format func(v any) string
	// newColl creates an empty *ValueCollection[T] bound to the collection.
	newColl func(h *Headers, info *headerInfo) collection
}

// collection is implemented by [ValueCollection] and is used by [Headers] for multi-value buckets.
type collection interface {
	appendParsed(v any)
	strings() []string
	len() int
}

func single[T any](name header.Name, kind Kind, parse func(string) (T, bool), format func(T) string) *headerInfo {
	return &headerInfo{
		name: name,
		kind: kind,
		sep:  ", ",
		parse: func(s string) (any, bool) {
			v, ok := parse(s)
			if !ok {
				return nil, false
			}
			return v, true
		},
		format: func(v any) string {
			tv, ok := v.(T)
			if !ok {
				return ""
			}
			if format == nil {
				return formatValue(tv)
			}
			return format(tv)
		},
	}
}

func multi[T any](name header.Name, kind Kind, parse func(string) ([]T, bool)) *headerInfo {
	return &headerInfo{
		name: name,
		kind: kind,
		many: true,
		sep:  ", ",
		parse: func(s string) (any, bool) {
			vs, ok := parse(s)
			if !ok {
				return nil, false
			}
			return vs, true
		},
		newColl: func(h *Headers, info *headerInfo) collection {
			return &ValueCollection[T]{hdrs: h, info: info}
		},
	}
}

func withSep(info *headerInfo, sep string) *headerInfo {
	info.sep = sep
	return info
}

func trimmed[T any](parse func(string) (T, bool)) func(string) (T, bool) {
	return func(s string) (T, bool) { return parse(util.TrimSP(s)) }
}

var (
	parseDate    = grammar.ParseDate
	parseSeconds = trimmed(grammar.ParseSeconds)
	parseInt     = trimmed(grammar.ParseInt)
	parseInt64   = trimmed(grammar.ParseInt64)
	formatInt    = strconv.Itoa
	formatInt64  = func(v int64) string { return strconv.FormatInt(v, 10) }
	formatDate   = grammar.FormatDate
	formatURL    = func(u *url.URL) string { return u.String() }
)

// knownHeaders is built once at package init and never mutated.
var knownHeaders = func() map[header.Name]*headerInfo {
	const (
		req  = KindRequest
		res  = KindResponse
		cnt  = KindContent
		both = KindRequest | KindResponse
	)

	infos := []*headerInfo{
		multi(hdrAccept, req, header.TryParseMediaTypeWithQualityList),
		multi(hdrAcceptCharset, req, header.TryParseStringWithQualityList),
		multi(hdrAcceptEncoding, req, header.TryParseStringWithQualityList),
		multi(hdrAcceptLanguage, req, header.TryParseStringWithQualityList),
		multi(hdrAcceptRanges, res, header.TryParseTokenList),
		single(hdrAge, res, parseSeconds, grammar.FormatSeconds),
		multi(hdrAllow, cnt, header.TryParseTokenList),
		single(hdrAuthorization, req, header.TryParseAuthenticationValue, nil),
		single(hdrCacheControl, both, header.TryParseCacheControl, nil),
		multi(hdrConnection, both, header.TryParseTokenList),
		single(hdrContentDisposition, cnt, header.TryParseContentDisposition, nil),
		multi(hdrContentEncoding, cnt, header.TryParseTokenList),
		multi(hdrContentLanguage, cnt, header.TryParseTokenList),
		single(hdrContentLength, cnt, parseInt64, formatInt64),
		single(hdrContentLocation, cnt, header.TryParseURI, formatURL),
		single(hdrContentMD5, cnt, header.TryParseMD5, header.FormatMD5),
		single(hdrContentRange, cnt, header.TryParseContentRange, nil),
		single(hdrContentType, cnt, header.TryParseMediaType, nil),
		single(hdrDate, both, parseDate, formatDate),
		single(hdrETag, res, header.TryParseEntityTag, nil),
		multi(hdrExpect, req, header.TryParseNameValueWithParametersList),
		single(hdrExpires, cnt, parseDate, formatDate),
		single(hdrFrom, req, header.TryParseMailbox, util.TrimSP[string]),
		single(hdrHost, req, header.TryParseHost, util.TrimSP[string]),
		multi(hdrIfMatch, req, header.TryParseEntityTagList),
		single(hdrIfModifiedSince, req, parseDate, formatDate),
		multi(hdrIfNoneMatch, req, header.TryParseEntityTagList),
		single(hdrIfRange, req, header.TryParseRangeCondition, nil),
		single(hdrIfUnmodifiedSince, req, parseDate, formatDate),
		single(hdrLastModified, cnt, parseDate, formatDate),
		single(hdrLocation, res, header.TryParseURI, formatURL),
		single(hdrMaxForwards, req, parseInt, formatInt),
		multi(hdrPragma, both, header.TryParseNameValueList),
		multi(hdrProxyAuthenticate, res, header.TryParseAuthenticationValueList),
		single(hdrProxyAuthorization, req, header.TryParseAuthenticationValue, nil),
		single(hdrRange, req, header.TryParseRangeValue, nil),
		single(hdrReferer, req, header.TryParseURI, formatURL),
		single(hdrRetryAfter, res, header.TryParseRetryCondition, nil),
		withSep(multi(hdrServer, res, header.TryParseProductInfoList), " "),
		multi(hdrTE, req, header.TryParseTransferCodingWithQualityList),
		multi(hdrTrailer, both, header.TryParseTokenList),
		multi(hdrTransferEncoding, both, header.TryParseTransferCodingList),
		multi(hdrUpgrade, both, header.TryParseProductList),
		withSep(multi(hdrUserAgent, req, header.TryParseProductInfoList), " "),
		multi(hdrVary, res, header.TryParseTokenList),
		multi(hdrVia, both, header.TryParseViaList),
		multi(hdrWarning, both, header.TryParseWarningList),
		multi(hdrWWWAuthenticate, res, header.TryParseAuthenticationValueList),
	}

	m := make(map[header.Name]*headerInfo, len(infos))
	for _, info := range infos {
		if _, ok := m[info.name]; ok {
			panic(fmt.Sprintf("duplicate known header %q", info.name))
		}
		m[info.name] = info
	}
	return m
}()

func lookupHeader[T ~string](name T) (*headerInfo, bool) {
	info, ok := knownHeaders[header.CanonicName(name)]
	return info, ok
}

// IsKnownHeader reports whether name is one of the headers with a typed representation.
func IsKnownHeader(name string) bool {
	_, ok := lookupHeader(name)
	return ok
}

// KnownHeaderKind returns the categories of a known header or [KindNone] for unknown names.
func KnownHeaderKind(name string) Kind {
	if info, ok := lookupHeader(name); ok {
		return info.kind
	}
	return KindNone
}

// KnownHeaders returns the names of all known headers sorted by name.
func KnownHeaders() []header.Name {
	return slices.Sorted(maps.Keys(knownHeaders))
}

// ParseHeaderValue parses s with the parser registered for the known header name and
// returns the canonical form of each parsed value.
func ParseHeaderValue(name, s string) ([]string, error) {
	info, ok := lookupHeader(name)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownHeader, "%q", name))
	}
	v, ok := info.parse(s)
	if !ok {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidValue, "%s: %q", info.name, s))
	}
	if !info.many {
		return []string{info.format(v)}, nil
	}

	coll := info.newColl(nil, info)
	coll.appendParsed(v)
	return coll.strings(), nil
}

// formatValue renders a typed header value that has no dedicated formatter.
func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
