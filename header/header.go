package header

//go:generate go tool errtrace -w .

import (
	"net/textproto"
	"strings"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// Grammar errors returned by ParseX functions.
const (
	ErrEmptyInput     = grammar.ErrEmptyInput
	ErrMalformedInput = grammar.ErrMalformedInput
)

// ErrInvalidArgument is returned by constructors and setters on out of range arguments.
const ErrInvalidArgument = errorutil.ErrInvalidArgument

// Value is implemented by every typed header value of this package.
type Value interface {
	// String returns the canonical wire form of the value.
	String() string
	// Equal reports whether the value is structurally equal to val.
	Equal(val any) bool
	// Hash returns a hash consistent with Equal.
	Hash() uint64
	// IsValid reports whether the value can be rendered into a grammar-conformant form.
	IsValid() bool
}

// Name represents an HTTP header name.
type Name string

// ToCanonic converts the Name to its canonical form.
func (n Name) ToCanonic() Name { return CanonicName(n) }

// IsValid checks whether the Name is syntactically valid.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	case string:
		other = Name(v)
	default:
		return false
	}
	return util.EqFold(n, other)
}

var hdrNames = map[string]Name{
	"Content-Md5":      "Content-MD5",
	"Etag":             "ETag",
	"Te":               "TE",
	"Www-Authenticate": "WWW-Authenticate",
}

// CanonicName converts name to the canonical form.
// The canonicalization converts the first letter and any letter following a hyphen to upper case;
// the rest are converted to lowercase. For example, the canonical name for "accept-encoding" is "Accept-Encoding".
// A few names have a conventional spelling that differs from this rule, such as "ETag" and "WWW-Authenticate".
func CanonicName[T ~string](name T) Name {
	s := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(string(name)))
	if n, ok := hdrNames[s]; ok {
		return n
	}
	return Name(s)
}

// elementParser parses one element of a header value starting with the already scanned token t.
// It returns the token following the element.
type elementParser[T any] func(lex *grammar.Lexer, t grammar.Token) (T, grammar.Token, bool)

func parseOne[T any](s string, parse elementParser[T]) (T, bool) {
	var zero T
	lex := grammar.NewLexer(s)
	v, t, ok := parse(lex, lex.Scan())
	if !ok || !t.Is(grammar.KindEnd) {
		return zero, false
	}
	return v, true
}

// parseList parses a comma separated list of elements.
// Empty elements are skipped, the list must hold at least minCount elements.
func parseList[T any](s string, minCount int, parse elementParser[T]) ([]T, bool) {
	lex := grammar.NewLexer(s)
	var (
		list []T
		v    T
		ok   bool
	)
	t := lex.Scan()
	for {
		switch t.Kind() {
		case grammar.KindSeparatorComma:
			t = lex.Scan()
			continue
		case grammar.KindEnd:
			if len(list) < minCount {
				return nil, false
			}
			return list, true
		}

		v, t, ok = parse(lex, t)
		if !ok {
			return nil, false
		}
		list = append(list, v)

		switch t.Kind() {
		case grammar.KindSeparatorComma, grammar.KindEnd:
		default:
			return nil, false
		}
	}
}

func writeList[T interface{ String() string }](sb *strings.Builder, list []T, sep string) {
	for i, v := range list {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(v.String())
	}
}

// ListString joins the string forms of the list elements with ", ".
func ListString[T interface{ String() string }](list []T) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeList(sb, list, ", ")
	return sb.String()
}

func hashMix(h, v uint64) uint64 { return h*31 + v }
