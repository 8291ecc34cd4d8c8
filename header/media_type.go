package header

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// MediaType represents a media type value as used in the Content-Type header.
type MediaType struct {
	// Type is the "type/subtype" pair.
	Type   string
	Params Params
}

// NewMediaType creates a media type without parameters.
// The mt argument must be a "type/subtype" pair.
func NewMediaType(mt string) (*MediaType, error) {
	lex := grammar.NewLexer(mt)
	typ, t, ok := scanMediaType(lex, lex.Scan())
	if !ok || !t.Is(grammar.KindEnd) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid media type %q", mt))
	}
	return &MediaType{Type: typ}, nil
}

// ParseMediaType parses a media type with optional parameters.
//
// Example usage:
//
//	mt, err := header.ParseMediaType("text/html; charset=utf-8")
func ParseMediaType(s string) (*MediaType, error) {
	mt, ok := TryParseMediaType(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return mt, nil
}

// TryParseMediaType is like [ParseMediaType] but reports failure with a boolean.
func TryParseMediaType(s string) (*MediaType, bool) { return parseOne(s, parseMediaTypeElem) }

func parseMediaTypeElem(lex *grammar.Lexer, t grammar.Token) (*MediaType, grammar.Token, bool) {
	typ, t, ok := scanMediaType(lex, t)
	if !ok {
		return nil, t, false
	}
	params, t, ok := parseOptParams(lex, t)
	if !ok {
		return nil, t, false
	}
	return &MediaType{Type: typ, Params: params}, t, true
}

func scanMediaType(lex *grammar.Lexer, t grammar.Token) (string, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return "", t, false
	}
	if sep := lex.Scan(); !sep.Is(grammar.KindSeparatorSlash) {
		return "", sep, false
	}
	sub := lex.Scan()
	if !sub.Is(grammar.KindToken) {
		return "", sub, false
	}
	return lex.TokenText(t) + "/" + lex.TokenText(sub), lex.Scan(), true
}

// CharSet returns the unquoted value of the "charset" parameter.
func (mt *MediaType) CharSet() string {
	if mt == nil {
		return ""
	}
	v, _ := mt.Params.Get("charset")
	return grammar.Unquote(v)
}

// SetCharSet sets the "charset" parameter, an empty cs removes it.
func (mt *MediaType) SetCharSet(cs string) {
	if cs == "" {
		mt.Params.Del("charset")
		return
	}
	mt.Params.Set("charset", cs)
}

func (mt *MediaType) String() string {
	if mt == nil {
		return ""
	}
	return mt.Type + mt.Params.String()
}

// Format implements fmt.Formatter for custom formatting of the media type.
func (mt *MediaType) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, mt.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(mt.String()))
	default:
		if mt == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods MediaType
		type MediaType hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), MediaType(*mt))
	}
}

// Equal compares the media type case-insensitively and parameters as an ordered list.
func (mt *MediaType) Equal(val any) bool {
	var other *MediaType
	switch v := val.(type) {
	case MediaType:
		other = &v
	case *MediaType:
		other = v
	default:
		return false
	}
	if mt == nil || other == nil {
		return mt == other
	}
	return util.EqFold(mt.Type, other.Type) && mt.Params.Equal(other.Params)
}

func (mt *MediaType) Hash() uint64 {
	if mt == nil {
		return 0
	}
	return util.HashFold(mt.Type) ^ mt.Params.Hash()
}

// Clone returns a deep copy of the media type.
func (mt *MediaType) Clone() *MediaType {
	if mt == nil {
		return nil
	}
	return &MediaType{Type: mt.Type, Params: mt.Params.Clone()}
}

func (mt *MediaType) IsValid() bool {
	if mt == nil {
		return false
	}
	v, err := NewMediaType(mt.Type)
	return err == nil && v != nil && mt.Params.IsValid()
}

func (mt *MediaType) MarshalText() ([]byte, error) { return []byte(mt.String()), nil }

func (mt *MediaType) UnmarshalText(data []byte) error {
	v, err := ParseMediaType(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*mt = *v
	return nil
}

// MediaTypeWithQuality is a media range with an optional "q" weight, as used in the Accept header.
type MediaTypeWithQuality struct {
	MediaType
}

// ParseMediaTypeWithQuality parses a single media range.
func ParseMediaTypeWithQuality(s string) (*MediaTypeWithQuality, error) {
	v, ok := parseOne(s, parseMediaTypeWithQualityElem)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return v, nil
}

// TryParseMediaTypeWithQualityList parses a comma separated list of media ranges.
func TryParseMediaTypeWithQualityList(s string) ([]*MediaTypeWithQuality, bool) {
	return parseList(s, 1, parseMediaTypeWithQualityElem)
}

func parseMediaTypeWithQualityElem(
	lex *grammar.Lexer,
	t grammar.Token,
) (*MediaTypeWithQuality, grammar.Token, bool) {
	mt, t, ok := parseMediaTypeElem(lex, t)
	if !ok {
		return nil, t, false
	}
	return &MediaTypeWithQuality{MediaType: *mt}, t, true
}

// Quality returns the "q" parameter value.
func (mt *MediaTypeWithQuality) Quality() (float64, bool) { return mt.Params.quality() }

// SetQuality sets the "q" parameter, the value must be in the range [0, 1].
func (mt *MediaTypeWithQuality) SetQuality(q float64) error {
	return errtrace.Wrap(mt.Params.setQuality(q))
}

// Equal compares the media ranges including their parameters.
func (mt *MediaTypeWithQuality) Equal(val any) bool {
	switch v := val.(type) {
	case MediaTypeWithQuality:
		return mt != nil && mt.MediaType.Equal(&v.MediaType)
	case *MediaTypeWithQuality:
		if mt == nil || v == nil {
			return mt == v
		}
		return mt.MediaType.Equal(&v.MediaType)
	default:
		return false
	}
}

// Clone returns a deep copy of the media range.
func (mt *MediaTypeWithQuality) Clone() *MediaTypeWithQuality {
	if mt == nil {
		return nil
	}
	return &MediaTypeWithQuality{MediaType: *mt.MediaType.Clone()}
}

func (mt *MediaTypeWithQuality) IsValid() bool {
	if mt == nil || !mt.MediaType.IsValid() {
		return false
	}
	return mt.Params.validQuality()
}

func (p Params) quality() (float64, bool) {
	v, ok := p.Get("q")
	if !ok {
		return 0, false
	}
	return grammar.ParseQuality(v)
}

func (p *Params) setQuality(q float64) error {
	if q < 0 || q > 1 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("quality %v out of range [0, 1]", q))
	}
	p.Set("q", grammar.FormatQuality(q))
	return nil
}

func (p Params) validQuality() bool {
	if !p.Has("q") {
		return true
	}
	q, ok := p.quality()
	return ok && q >= 0 && q <= 1
}
