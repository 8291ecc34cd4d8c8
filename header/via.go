package header

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// Via represents a single intermediary entry of the Via header.
type Via struct {
	// ProtocolName is optional, "HTTP" is assumed when empty.
	ProtocolName    string
	ProtocolVersion string
	// ReceivedBy is the host with an optional port or a pseudonym.
	ReceivedBy string
	// Comment is the optional comment including the parentheses.
	Comment string
}

// NewVia creates a Via entry. Name and comment are optional.
func NewVia(name, version, receivedBy, comment string) (*Via, error) {
	v := &Via{ProtocolName: name, ProtocolVersion: version, ReceivedBy: receivedBy, Comment: comment}
	if !v.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid via %q", v.String()))
	}
	return v, nil
}

// ParseVia parses a single Via entry.
//
// Example usage:
//
//	via, err := header.ParseVia("HTTP/1.1 proxy.example.com:8080 (Apache/2.4)")
func ParseVia(s string) (*Via, error) {
	v, ok := TryParseVia(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return v, nil
}

// TryParseVia is like [ParseVia] but reports failure with a boolean.
func TryParseVia(s string) (*Via, bool) { return parseOne(s, parseViaElem) }

// TryParseViaList parses a comma separated list of Via entries.
func TryParseViaList(s string) ([]*Via, bool) { return parseList(s, 1, parseViaElem) }

func parseViaElem(lex *grammar.Lexer, t grammar.Token) (*Via, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	v := new(Via)
	first := t
	if t = lex.Scan(); t.Is(grammar.KindSeparatorSlash) {
		if t = lex.Scan(); !t.Is(grammar.KindToken) {
			return nil, t, false
		}
		v.ProtocolName = lex.TokenText(first)
		v.ProtocolVersion = lex.TokenText(t)
		t = lex.Scan()
	} else {
		v.ProtocolVersion = lex.TokenText(first)
	}

	var ok bool
	if v.ReceivedBy, ok = scanHostPort(lex, t); !ok {
		return nil, t, false
	}

	if t = lex.Scan(); t.Is(grammar.KindOpenParens) {
		if v.Comment, ok = lex.ScanComment(t); !ok {
			return nil, t, false
		}
		t = lex.Scan()
	}
	return v, t, true
}

// scanHostPort reads the token t optionally followed by ":port" with no spaces in between.
func scanHostPort(lex *grammar.Lexer, t grammar.Token) (string, bool) {
	if !t.Is(grammar.KindToken) {
		return "", false
	}
	if lex.PeekChar() != ':' {
		return lex.TokenText(t), true
	}
	lex.EatChar()
	port := lex.Scan()
	if !port.Is(grammar.KindToken) || port.Start() != t.End()+1 {
		return "", false
	}
	return lex.SpanText(t, port), true
}

func (v *Via) String() string {
	if v == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	if v.ProtocolName != "" {
		sb.WriteString(v.ProtocolName)
		sb.WriteByte('/')
	}
	sb.WriteString(v.ProtocolVersion)
	sb.WriteByte(' ')
	sb.WriteString(v.ReceivedBy)
	if v.Comment != "" {
		sb.WriteByte(' ')
		sb.WriteString(v.Comment)
	}
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the Via entry.
func (v *Via) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, v.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(v.String()))
	default:
		if v == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods Via
		type Via hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Via(*v))
	}
}

// Equal compares protocol and received-by case-insensitively, comments exactly.
func (v *Via) Equal(val any) bool {
	var other *Via
	switch o := val.(type) {
	case Via:
		other = &o
	case *Via:
		other = o
	default:
		return false
	}
	if v == nil || other == nil {
		return v == other
	}
	return util.EqFold(v.ProtocolName, other.ProtocolName) &&
		util.EqFold(v.ProtocolVersion, other.ProtocolVersion) &&
		util.EqFold(v.ReceivedBy, other.ReceivedBy) &&
		v.Comment == other.Comment
}

func (v *Via) Hash() uint64 {
	if v == nil {
		return 0
	}
	h := util.HashFold(v.ProtocolName)
	h = hashMix(h, util.HashFold(v.ProtocolVersion))
	h = hashMix(h, util.HashFold(v.ReceivedBy))
	return hashMix(h, util.HashString(v.Comment))
}

// Clone returns a copy of the Via entry.
func (v *Via) Clone() *Via {
	if v == nil {
		return nil
	}
	v2 := *v
	return &v2
}

func (v *Via) IsValid() bool {
	if v == nil || !grammar.IsToken(v.ProtocolVersion) {
		return false
	}
	if v.ProtocolName != "" && !grammar.IsToken(v.ProtocolName) {
		return false
	}
	if v.Comment != "" && !grammar.IsComment(v.Comment) {
		return false
	}
	lex := grammar.NewLexer(v.ReceivedBy)
	_, ok := scanHostPort(lex, lex.Scan())
	return ok && lex.Scan().Is(grammar.KindEnd)
}

func (v *Via) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Via) UnmarshalText(data []byte) error {
	v2, err := ParseVia(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*v = *v2
	return nil
}
