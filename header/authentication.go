package header

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// AuthenticationValue represents credentials or a challenge of
// Authorization, Proxy-Authorization, WWW-Authenticate and Proxy-Authenticate headers.
type AuthenticationValue struct {
	Scheme string
	// Parameter is the raw remainder after the scheme, a token68 or an auth-param list.
	Parameter string
}

// NewAuthenticationValue creates a value with the given scheme and an optional parameter.
func NewAuthenticationValue(scheme, param string) (*AuthenticationValue, error) {
	if !grammar.IsToken(scheme) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid auth scheme %q", scheme))
	}
	return &AuthenticationValue{Scheme: scheme, Parameter: param}, nil
}

// ParseAuthenticationValue parses a "scheme [parameter]" value.
//
// Example usage:
//
//	auth, err := header.ParseAuthenticationValue("Basic QWxhZGRpbjpvcGVuIHNlc2FtZQ==")
func ParseAuthenticationValue(s string) (*AuthenticationValue, error) {
	a, ok := TryParseAuthenticationValue(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return a, nil
}

// TryParseAuthenticationValue is like [ParseAuthenticationValue] but reports failure with a boolean.
// The parameter is not tokenized, commas inside it belong to the same value.
func TryParseAuthenticationValue(s string) (*AuthenticationValue, bool) {
	lex := grammar.NewLexer(s)
	t := lex.Scan()
	if !t.Is(grammar.KindToken) {
		return nil, false
	}
	a := &AuthenticationValue{Scheme: lex.TokenText(t)}
	rest, ok := lex.Remaining(t.End())
	if !ok {
		return nil, false
	}
	a.Parameter = util.TrimSP(rest)
	if a.Parameter != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false
	}
	return a, true
}

// TryParseAuthenticationValueList parses a single challenge into a one element list.
// Challenges are not split on commas since auth-params use them as well.
func TryParseAuthenticationValueList(s string) ([]*AuthenticationValue, bool) {
	a, ok := TryParseAuthenticationValue(s)
	if !ok {
		return nil, false
	}
	return []*AuthenticationValue{a}, true
}

func (a *AuthenticationValue) String() string {
	if a == nil {
		return ""
	}
	if a.Parameter == "" {
		return a.Scheme
	}
	return a.Scheme + " " + a.Parameter
}

// Equal compares schemes case-insensitively and parameters exactly.
func (a *AuthenticationValue) Equal(val any) bool {
	var other *AuthenticationValue
	switch v := val.(type) {
	case AuthenticationValue:
		other = &v
	case *AuthenticationValue:
		other = v
	default:
		return false
	}
	if a == nil || other == nil {
		return a == other
	}
	return util.EqFold(a.Scheme, other.Scheme) && a.Parameter == other.Parameter
}

func (a *AuthenticationValue) Hash() uint64 {
	if a == nil {
		return 0
	}
	return util.HashFold(a.Scheme) ^ util.HashString(a.Parameter)
}

func (a *AuthenticationValue) Clone() *AuthenticationValue {
	if a == nil {
		return nil
	}
	a2 := *a
	return &a2
}

func (a *AuthenticationValue) IsValid() bool { return a != nil && grammar.IsToken(a.Scheme) }

func (a *AuthenticationValue) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AuthenticationValue) UnmarshalText(data []byte) error {
	v, err := ParseAuthenticationValue(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*a = *v
	return nil
}
