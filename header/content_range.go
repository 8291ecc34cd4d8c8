package header

import (
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// DefaultRangeUnit is the range unit used when none is specified.
const DefaultRangeUnit = "bytes"

// ContentRange represents the Content-Range header value.
// At least one of the range and the complete length is present.
type ContentRange struct {
	Unit string

	from, to, length int64
	hasRange         bool
	hasLength        bool
}

// NewContentRange creates a content range with both the range and the complete length.
func NewContentRange(from, to, length int64) (*ContentRange, error) {
	if from < 0 || to < 0 || from > to || length < 0 || to > length {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(
			"invalid content range %d-%d/%d", from, to, length,
		))
	}
	return &ContentRange{Unit: DefaultRangeUnit, from: from, to: to, length: length, hasRange: true, hasLength: true}, nil
}

// NewContentRangeFromTo creates a content range with an unknown complete length.
func NewContentRangeFromTo(from, to int64) (*ContentRange, error) {
	if from < 0 || to < 0 || from > to {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid content range %d-%d", from, to))
	}
	return &ContentRange{Unit: DefaultRangeUnit, from: from, to: to, hasRange: true}, nil
}

// NewContentRangeLength creates an unsatisfied content range with only the complete length.
func NewContentRangeLength(length int64) (*ContentRange, error) {
	if length < 0 {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid content length %d", length))
	}
	return &ContentRange{Unit: DefaultRangeUnit, length: length, hasLength: true}, nil
}

// From returns the first byte position, valid only when [ContentRange.HasRange] is true.
func (r *ContentRange) From() int64 { return r.from }

// To returns the last byte position, valid only when [ContentRange.HasRange] is true.
func (r *ContentRange) To() int64 { return r.to }

// Length returns the complete length, valid only when [ContentRange.HasLength] is true.
func (r *ContentRange) Length() int64 { return r.length }

func (r *ContentRange) HasRange() bool { return r != nil && r.hasRange }

func (r *ContentRange) HasLength() bool { return r != nil && r.hasLength }

// ParseContentRange parses a Content-Range header value.
//
// Example usage:
//
//	cr, err := header.ParseContentRange("bytes 0-499/1234")
func ParseContentRange(s string) (*ContentRange, error) {
	r, ok := TryParseContentRange(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return r, nil
}

// TryParseContentRange is like [ParseContentRange] but reports failure with a boolean.
func TryParseContentRange(s string) (*ContentRange, bool) { return parseOne(s, parseContentRangeElem) }

func parseContentRangeElem(lex *grammar.Lexer, t grammar.Token) (*ContentRange, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	r := &ContentRange{Unit: lex.TokenText(t)}

	t = lex.Scan()
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	if !lex.IsStarStringValue(t) {
		// the lexer keeps "0-499" as a single token, "0 - 499" comes as three
		from, to, ok := strings.Cut(lex.TokenText(t), "-")
		if !ok {
			if t = lex.Scan(); !t.Is(grammar.KindSeparatorDash) {
				return nil, t, false
			}
			if t = lex.Scan(); !t.Is(grammar.KindToken) {
				return nil, t, false
			}
			to = lex.TokenText(t)
		}
		if r.from, ok = grammar.ParseInt64(from); !ok {
			return nil, t, false
		}
		if r.to, ok = grammar.ParseInt64(to); !ok {
			return nil, t, false
		}
		r.hasRange = true
	}

	if t = lex.Scan(); !t.Is(grammar.KindSeparatorSlash) {
		return nil, t, false
	}
	if t = lex.Scan(); !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	if !lex.IsStarStringValue(t) {
		var ok bool
		if r.length, ok = lex.TryGetInt64Value(t); !ok {
			return nil, t, false
		}
		r.hasLength = true
	}
	if !r.IsValid() {
		return nil, t, false
	}
	return r, lex.Scan(), true
}

func (r *ContentRange) String() string {
	if r == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(r.Unit)
	sb.WriteByte(' ')
	if r.hasRange {
		sb.WriteString(strconv.FormatInt(r.from, 10))
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatInt(r.to, 10))
	} else {
		sb.WriteByte('*')
	}
	sb.WriteByte('/')
	if r.hasLength {
		sb.WriteString(strconv.FormatInt(r.length, 10))
	} else {
		sb.WriteByte('*')
	}
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the content range.
func (r *ContentRange) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, r.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(r.String()))
	default:
		if r == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		fmt.Fprintf(f, "%+v", struct {
			Unit      string
			From      int64
			To        int64
			Length    int64
			HasRange  bool
			HasLength bool
		}{r.Unit, r.from, r.to, r.length, r.hasRange, r.hasLength})
	}
}

// Equal compares units case-insensitively and all positions exactly.
func (r *ContentRange) Equal(val any) bool {
	var other *ContentRange
	switch v := val.(type) {
	case ContentRange:
		other = &v
	case *ContentRange:
		other = v
	default:
		return false
	}
	if r == nil || other == nil {
		return r == other
	}
	return util.EqFold(r.Unit, other.Unit) &&
		r.hasRange == other.hasRange && r.hasLength == other.hasLength &&
		r.from == other.from && r.to == other.to && r.length == other.length
}

func (r *ContentRange) Hash() uint64 {
	if r == nil {
		return 0
	}
	h := util.HashFold(r.Unit)
	h = hashMix(h, uint64(r.from))
	h = hashMix(h, uint64(r.to))
	h = hashMix(h, uint64(r.length))
	return hashMix(h, util.HashBool(r.hasRange)^util.HashBool(r.hasLength)<<1)
}

// Clone returns a copy of the content range.
func (r *ContentRange) Clone() *ContentRange {
	if r == nil {
		return nil
	}
	r2 := *r
	return &r2
}

// IsValid checks the unit and the positions.
func (r *ContentRange) IsValid() bool {
	if r == nil || !grammar.IsToken(r.Unit) || !r.hasRange && !r.hasLength {
		return false
	}
	if r.hasRange && (r.from < 0 || r.from > r.to) {
		return false
	}
	if r.hasLength && (r.length < 0 || r.hasRange && r.to > r.length) {
		return false
	}
	return true
}

func (r *ContentRange) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ContentRange) UnmarshalText(data []byte) error {
	v, err := ParseContentRange(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*r = *v
	return nil
}
