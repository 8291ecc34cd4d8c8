package header

import (
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// RangeItem is a single byte range of the Range header.
// A nil From denotes a suffix range "-n", a nil To an open range "n-".
type RangeItem struct {
	From *int64
	To   *int64
}

func (ri RangeItem) String() string {
	var s string
	if ri.From != nil {
		s = strconv.FormatInt(*ri.From, 10)
	}
	s += "-"
	if ri.To != nil {
		s += strconv.FormatInt(*ri.To, 10)
	}
	return s
}

func (ri RangeItem) Equal(other RangeItem) bool {
	return equalInt64(ri.From, other.From) && equalInt64(ri.To, other.To)
}

func (ri RangeItem) IsValid() bool {
	switch {
	case ri.From == nil && ri.To == nil:
		return false
	case ri.From == nil:
		return *ri.To >= 0
	case ri.To == nil:
		return *ri.From >= 0
	default:
		return *ri.From >= 0 && *ri.From <= *ri.To
	}
}

func (ri RangeItem) clone() RangeItem {
	var ri2 RangeItem
	if ri.From != nil {
		ri2.From = util.Ptr(*ri.From)
	}
	if ri.To != nil {
		ri2.To = util.Ptr(*ri.To)
	}
	return ri2
}

func equalInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// RangeValue represents the Range header value.
type RangeValue struct {
	Unit   string
	Ranges []RangeItem
}

// NewRangeValue creates a "bytes" range with a single item. Either bound may be nil.
func NewRangeValue(from, to *int64) (*RangeValue, error) {
	r := &RangeValue{Unit: DefaultRangeUnit, Ranges: []RangeItem{{From: from, To: to}}}
	if !r.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid range %q", r.String()))
	}
	return r, nil
}

// ParseRangeValue parses a Range header value.
//
// Example usage:
//
//	r, err := header.ParseRangeValue("bytes=0-499, -500")
func ParseRangeValue(s string) (*RangeValue, error) {
	r, ok := TryParseRangeValue(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return r, nil
}

// TryParseRangeValue is like [ParseRangeValue] but reports failure with a boolean.
func TryParseRangeValue(s string) (*RangeValue, bool) { return parseOne(s, parseRangeValueElem) }

func parseRangeValueElem(lex *grammar.Lexer, t grammar.Token) (*RangeValue, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	r := &RangeValue{Unit: lex.TokenText(t)}
	if t = lex.Scan(); !t.Is(grammar.KindSeparatorEqual) {
		return nil, t, false
	}
	t = lex.Scan()
	for {
		switch t.Kind() {
		case grammar.KindSeparatorComma:
			t = lex.Scan()
			continue
		case grammar.KindEnd:
			return r, t, len(r.Ranges) > 0
		}

		var (
			ri RangeItem
			ok bool
		)
		if ri, t, ok = parseRangeItem(lex, t); !ok || !ri.IsValid() {
			return nil, t, false
		}
		r.Ranges = append(r.Ranges, ri)
		if !t.Is(grammar.KindSeparatorComma) && !t.Is(grammar.KindEnd) {
			return nil, t, false
		}
	}
}

func parseRangeItem(lex *grammar.Lexer, t grammar.Token) (RangeItem, grammar.Token, bool) {
	var ri RangeItem
	if t.Is(grammar.KindSeparatorDash) {
		if t = lex.Scan(); !t.Is(grammar.KindToken) {
			return ri, t, false
		}
		to, ok := lex.TryGetInt64Value(t)
		if !ok {
			return ri, t, false
		}
		ri.To = &to
		return ri, lex.Scan(), true
	}
	if !t.Is(grammar.KindToken) {
		return ri, t, false
	}

	from, to, ok := strings.Cut(lex.TokenText(t), "-")
	if !ok {
		if t = lex.Scan(); !t.Is(grammar.KindSeparatorDash) {
			return ri, t, false
		}
		if t = lex.Scan(); t.Is(grammar.KindToken) {
			to = lex.TokenText(t)
			t = lex.Scan()
		}
	} else {
		t = lex.Scan()
	}

	n, ok := grammar.ParseInt64(from)
	if !ok {
		return ri, t, false
	}
	ri.From = &n
	if to != "" {
		m, ok := grammar.ParseInt64(to)
		if !ok {
			return ri, t, false
		}
		ri.To = &m
	}
	return ri, t, true
}

func (r *RangeValue) String() string {
	if r == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	sb.WriteString(r.Unit)
	sb.WriteByte('=')
	writeList(sb, r.Ranges, ", ")
	return sb.String()
}

// Equal compares units case-insensitively and ranges as an ordered list.
func (r *RangeValue) Equal(val any) bool {
	var other *RangeValue
	switch v := val.(type) {
	case RangeValue:
		other = &v
	case *RangeValue:
		other = v
	default:
		return false
	}
	if r == nil || other == nil {
		return r == other
	}
	return util.EqFold(r.Unit, other.Unit) && slices.EqualFunc(r.Ranges, other.Ranges, RangeItem.Equal)
}

func (r *RangeValue) Hash() uint64 {
	if r == nil {
		return 0
	}
	h := util.HashFold(r.Unit)
	for _, ri := range r.Ranges {
		h = hashMix(h, util.HashString(ri.String()))
	}
	return h
}

// Clone returns a deep copy of the range.
func (r *RangeValue) Clone() *RangeValue {
	if r == nil {
		return nil
	}
	r2 := &RangeValue{Unit: r.Unit}
	if r.Ranges != nil {
		r2.Ranges = make([]RangeItem, len(r.Ranges))
		for i, ri := range r.Ranges {
			r2.Ranges[i] = ri.clone()
		}
	}
	return r2
}

func (r *RangeValue) IsValid() bool {
	if r == nil || !grammar.IsToken(r.Unit) || len(r.Ranges) == 0 {
		return false
	}
	return !slices.ContainsFunc(r.Ranges, func(ri RangeItem) bool { return !ri.IsValid() })
}

func (r *RangeValue) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RangeValue) UnmarshalText(data []byte) error {
	v, err := ParseRangeValue(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*r = *v
	return nil
}
