package header

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/grammar"
)

// NameValueWithParameters is a "name[=value]" pair followed by parameters, as used in the Expect header.
type NameValueWithParameters struct {
	Name   string
	Value  string
	Params Params
}

// ParseNameValueWithParameters parses a single pair with optional parameters.
func ParseNameValueWithParameters(s string) (*NameValueWithParameters, error) {
	v, ok := parseOne(s, parseNameValueWithParametersElem)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return v, nil
}

// TryParseNameValueWithParametersList parses a comma separated list of pairs with parameters.
func TryParseNameValueWithParametersList(s string) ([]*NameValueWithParameters, bool) {
	return parseList(s, 1, parseNameValueWithParametersElem)
}

func parseNameValueWithParametersElem(
	lex *grammar.Lexer,
	t grammar.Token,
) (*NameValueWithParameters, grammar.Token, bool) {
	nv, t, ok := parseNameValueElem(lex, t)
	if !ok {
		return nil, t, false
	}
	v := &NameValueWithParameters{Name: nv.Name, Value: nv.Value}
	if v.Params, t, ok = parseOptParams(lex, t); !ok {
		return nil, t, false
	}
	return v, t, true
}

func (v *NameValueWithParameters) String() string {
	if v == nil {
		return ""
	}
	return v.nameValue().String() + v.Params.String()
}

func (v *NameValueWithParameters) Equal(val any) bool {
	var other *NameValueWithParameters
	switch o := val.(type) {
	case NameValueWithParameters:
		other = &o
	case *NameValueWithParameters:
		other = o
	default:
		return false
	}
	if v == nil || other == nil {
		return v == other
	}
	return v.nameValue().Equal(other.nameValue()) && v.Params.Equal(other.Params)
}

func (v *NameValueWithParameters) Hash() uint64 {
	if v == nil {
		return 0
	}
	return hashMix(v.nameValue().Hash(), v.Params.Hash())
}

func (v *NameValueWithParameters) Clone() *NameValueWithParameters {
	if v == nil {
		return nil
	}
	return &NameValueWithParameters{Name: v.Name, Value: v.Value, Params: v.Params.Clone()}
}

func (v *NameValueWithParameters) IsValid() bool {
	return v != nil && v.nameValue().IsValid() && v.Params.IsValid()
}

func (v *NameValueWithParameters) nameValue() NameValue { return NameValue{Name: v.Name, Value: v.Value} }

func (v *NameValueWithParameters) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *NameValueWithParameters) UnmarshalText(data []byte) error {
	v2, err := ParseNameValueWithParameters(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*v = *v2
	return nil
}
