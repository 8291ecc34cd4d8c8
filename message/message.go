// Package message implements HTTP header collections and the request, response and content
// messages exchanged by the client.
//
// A header collection keeps every header either as raw strings or as typed values produced by
// the parsers of the [header] package. Known headers are parsed on demand: raw strings added
// with [Headers.TryAddWithoutValidation] are parsed on the first typed read and cached.
//
// Collections are owned by a single message and are not safe for concurrent use.
// Even reads may mutate the cached state.
package message

//go:generate go tool errtrace -w .

import (
	"strings"

	"github.com/ghettovoice/gohttp/internal/errorutil"
)

// Errors returned by header collections.
const (
	ErrInvalidHeaderName  errorutil.Error = "invalid header name"
	ErrInvalidValue       errorutil.Error = "invalid header value"
	ErrDuplicateHeader    errorutil.Error = "duplicate header"
	ErrHeaderKindMismatch errorutil.Error = "header kind mismatch"
	ErrUnknownHeader      errorutil.Error = "unknown header"
)

// ErrInvalidArgument is returned on nil, empty or out of range arguments.
const ErrInvalidArgument = errorutil.ErrInvalidArgument

// Kind is a set of header categories.
type Kind uint8

// KindNone is the kind of a collection that accepts any header.
const KindNone Kind = 0

const (
	KindRequest Kind = 1 << iota
	KindResponse
	KindContent
)

// Has reports whether k shares any category with other.
func (k Kind) Has(other Kind) bool { return k&other != 0 }

func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}

	var parts []string
	if k.Has(KindRequest) {
		parts = append(parts, "request")
	}
	if k.Has(KindResponse) {
		parts = append(parts, "response")
	}
	if k.Has(KindContent) {
		parts = append(parts, "content")
	}
	return strings.Join(parts, "|")
}

// ParseKind parses a kind name as rendered by [Kind.String].
func ParseKind(s string) (Kind, bool) {
	var k Kind
	for part := range strings.SplitSeq(strings.ToLower(strings.TrimSpace(s)), "|") {
		switch strings.TrimSpace(part) {
		case "none":
		case "request":
			k |= KindRequest
		case "response":
			k |= KindResponse
		case "content":
			k |= KindContent
		default:
			return KindNone, false
		}
	}
	return k, true
}
