package header

import (
	"fmt"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// NameValue is a "name[=value]" pair.
// It represents parameters of media types, dispositions and transfer codings,
// cache-control extensions and Pragma directives.
// Value holds the wire form, a token or a quoted-string with its quotes, or is empty when absent.
type NameValue struct {
	Name  string
	Value string
}

// NewNameValue creates a validated NameValue.
func NewNameValue(name, value string) (NameValue, error) {
	nv := NameValue{Name: name, Value: value}
	if !nv.IsValid() {
		return NameValue{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid name/value pair %q=%q", name, value))
	}
	return nv, nil
}

// ParseNameValue parses a single "name[=value]" pair.
func ParseNameValue(s string) (NameValue, error) {
	nv, ok := TryParseNameValue(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return NameValue{}, errtrace.Wrap(err)
	}
	return nv, nil
}

// TryParseNameValue is like [ParseNameValue] but reports failure with a boolean.
func TryParseNameValue(s string) (NameValue, bool) { return parseOne(s, parseNameValueElem) }

// TryParseNameValueList parses a comma separated list of pairs, as in the Pragma header.
func TryParseNameValueList(s string) ([]NameValue, bool) { return parseList(s, 1, parseNameValueElem) }

func parseNameValueElem(lex *grammar.Lexer, t grammar.Token) (NameValue, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return NameValue{}, t, false
	}
	nv := NameValue{Name: lex.TokenText(t)}
	t = lex.Scan()
	if t.Is(grammar.KindSeparatorEqual) {
		t = lex.Scan()
		if !t.Is(grammar.KindToken) && !t.Is(grammar.KindQuotedString) {
			return NameValue{}, t, false
		}
		nv.Value = lex.TokenText(t)
		t = lex.Scan()
	}
	return nv, t, true
}

func (nv NameValue) String() string {
	if nv.Value == "" {
		return nv.Name
	}
	return nv.Name + "=" + nv.Value
}

// Format implements fmt.Formatter for custom formatting of the pair.
func (nv NameValue) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, nv.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(nv.String()))
	default:
		type hideMethods NameValue
		type NameValue hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), NameValue(nv))
	}
}

// Equal compares names case-insensitively and values exactly.
func (nv NameValue) Equal(val any) bool {
	var other NameValue
	switch v := val.(type) {
	case NameValue:
		other = v
	case *NameValue:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(nv.Name, other.Name) && nv.Value == other.Value
}

func (nv NameValue) Hash() uint64 {
	return util.HashFold(nv.Name) ^ util.HashString(nv.Value)
}

func (nv NameValue) IsValid() bool {
	return grammar.IsToken(nv.Name) &&
		(nv.Value == "" || grammar.IsToken(nv.Value) || grammar.IsQuoted(nv.Value))
}

func (nv NameValue) MarshalText() ([]byte, error) { return []byte(nv.String()), nil }

func (nv *NameValue) UnmarshalText(data []byte) error {
	v, err := ParseNameValue(string(data))
	if err != nil {
		*nv = NameValue{}
		return errtrace.Wrap(err)
	}
	*nv = v
	return nil
}

// Params is an ordered list of parameters.
// The order is preserved on rendering and is significant for equality.
type Params []NameValue

// Get returns the value of the first parameter with the given name, compared case-insensitively.
func (p Params) Get(name string) (string, bool) {
	if i := p.index(name); i >= 0 {
		return p[i].Value, true
	}
	return "", false
}

// Has checks whether a parameter with the given name is present.
func (p Params) Has(name string) bool { return p.index(name) >= 0 }

func (p Params) index(name string) int {
	return slices.IndexFunc(p, func(nv NameValue) bool { return util.EqFold(nv.Name, name) })
}

// Set updates the first parameter with the given name in place or appends a new one.
func (p *Params) Set(name, value string) *Params {
	if i := p.index(name); i >= 0 {
		(*p)[i].Value = value
		return p
	}
	*p = append(*p, NameValue{Name: name, Value: value})
	return p
}

// Del removes all parameters with the given name.
func (p *Params) Del(name string) *Params {
	*p = slices.DeleteFunc(*p, func(nv NameValue) bool { return util.EqFold(nv.Name, name) })
	if len(*p) == 0 {
		*p = nil
	}
	return p
}

// Clone returns a deep copy of the list.
func (p Params) Clone() Params {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p)
}

// Equal compares two lists element by element. A nil list equals an empty one.
func (p Params) Equal(other Params) bool {
	return slices.EqualFunc(p, other, func(a, b NameValue) bool { return a.Equal(b) })
}

func (p Params) Hash() uint64 {
	var h uint64
	for _, nv := range p {
		h = hashMix(h, nv.Hash())
	}
	return h
}

func (p Params) IsValid() bool {
	return !slices.ContainsFunc(p, func(nv NameValue) bool { return !nv.IsValid() })
}

// String renders parameters as "; name=value" sequence.
func (p Params) String() string {
	if len(p) == 0 {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	p.writeTo(sb)
	return sb.String()
}

func (p Params) writeTo(sb interface{ WriteString(string) (int, error) }) {
	for _, nv := range p {
		sb.WriteString("; ")
		sb.WriteString(nv.String())
	}
}

// parseParams parses parameters following a ";" separator.
// It returns the first token that is not a ";".
func parseParams(lex *grammar.Lexer) (Params, grammar.Token, bool) {
	var params Params
	for {
		nv, t, ok := parseNameValueElem(lex, lex.Scan())
		if !ok {
			return nil, t, false
		}
		params = append(params, nv)
		if !t.Is(grammar.KindSeparatorSemicolon) {
			return params, t, true
		}
	}
}

// parseOptParams parses parameters when t is a ";" separator.
func parseOptParams(lex *grammar.Lexer, t grammar.Token) (Params, grammar.Token, bool) {
	if !t.Is(grammar.KindSeparatorSemicolon) {
		return nil, t, true
	}
	return parseParams(lex)
}
