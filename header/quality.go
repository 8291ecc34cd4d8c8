package header

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// StringWithQuality is a token with an optional "q" weight,
// as used in Accept-Charset, Accept-Encoding and Accept-Language headers.
type StringWithQuality struct {
	Value string
	// Quality is nil when the weight is absent.
	Quality *float64
}

// NewStringWithQuality creates a weighted token. A nil q omits the weight.
func NewStringWithQuality(v string, q *float64) (*StringWithQuality, error) {
	sq := &StringWithQuality{Value: v, Quality: q}
	if !sq.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid weighted value %q", sq.String()))
	}
	return sq, nil
}

// ParseStringWithQuality parses a single "token[;q=value]" element.
func ParseStringWithQuality(s string) (*StringWithQuality, error) {
	v, ok := parseOne(s, parseStringWithQualityElem)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return v, nil
}

// TryParseStringWithQualityList parses a comma separated list of weighted tokens.
func TryParseStringWithQualityList(s string) ([]*StringWithQuality, bool) {
	return parseList(s, 1, parseStringWithQualityElem)
}

func parseStringWithQualityElem(
	lex *grammar.Lexer,
	t grammar.Token,
) (*StringWithQuality, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	sq := &StringWithQuality{Value: lex.TokenText(t)}
	if t = lex.Scan(); !t.Is(grammar.KindSeparatorSemicolon) {
		return sq, t, true
	}
	if t = lex.Scan(); !t.Is(grammar.KindToken) || !util.EqFold(lex.TokenText(t), "q") {
		return nil, t, false
	}
	if t = lex.Scan(); !t.Is(grammar.KindSeparatorEqual) {
		return nil, t, false
	}
	if t = lex.Scan(); !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	q, ok := lex.TryGetQualityValue(t)
	if !ok || q > 1 {
		return nil, t, false
	}
	sq.Quality = &q
	return sq, lex.Scan(), true
}

func (sq *StringWithQuality) String() string {
	if sq == nil {
		return ""
	}
	if sq.Quality == nil {
		return sq.Value
	}
	return sq.Value + "; q=" + grammar.FormatQuality(*sq.Quality)
}

// Equal compares values case-insensitively and weights exactly.
func (sq *StringWithQuality) Equal(val any) bool {
	var other *StringWithQuality
	switch v := val.(type) {
	case StringWithQuality:
		other = &v
	case *StringWithQuality:
		other = v
	default:
		return false
	}
	if sq == nil || other == nil {
		return sq == other
	}
	if !util.EqFold(sq.Value, other.Value) {
		return false
	}
	if sq.Quality == nil || other.Quality == nil {
		return sq.Quality == other.Quality
	}
	return *sq.Quality == *other.Quality
}

func (sq *StringWithQuality) Hash() uint64 {
	if sq == nil {
		return 0
	}
	h := util.HashFold(sq.Value)
	if sq.Quality != nil {
		h ^= util.HashString(grammar.FormatQuality(*sq.Quality))
	}
	return h
}

// Clone returns a deep copy of the weighted token.
func (sq *StringWithQuality) Clone() *StringWithQuality {
	if sq == nil {
		return nil
	}
	sq2 := &StringWithQuality{Value: sq.Value}
	if sq.Quality != nil {
		sq2.Quality = util.Ptr(*sq.Quality)
	}
	return sq2
}

func (sq *StringWithQuality) IsValid() bool {
	if sq == nil || !grammar.IsToken(sq.Value) {
		return false
	}
	return sq.Quality == nil || *sq.Quality >= 0 && *sq.Quality <= 1
}

func (sq *StringWithQuality) MarshalText() ([]byte, error) { return []byte(sq.String()), nil }

func (sq *StringWithQuality) UnmarshalText(data []byte) error {
	v, err := ParseStringWithQuality(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*sq = *v
	return nil
}
