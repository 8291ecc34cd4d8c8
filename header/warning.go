package header

import (
	"fmt"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// Warning represents a single entry of the Warning header.
type Warning struct {
	// Code is the three digit warn-code.
	Code int
	// Agent is the host with an optional port or a pseudonym.
	Agent string
	// Text is the quoted warn-text including the quotes.
	Text string
	// Date is the optional warn-date, zero when absent.
	Date time.Time
}

// NewWarning creates a Warning entry. The date is optional.
func NewWarning(code int, agent, text string, date time.Time) (*Warning, error) {
	w := &Warning{Code: code, Agent: agent, Text: text, Date: date}
	if !w.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid warning %q", w.String()))
	}
	return w, nil
}

// ParseWarning parses a single Warning entry.
//
// Example usage:
//
//	w, err := header.ParseWarning(`110 proxy.example.com:8080 "Response is stale"`)
func ParseWarning(s string) (*Warning, error) {
	w, ok := TryParseWarning(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return w, nil
}

// TryParseWarning is like [ParseWarning] but reports failure with a boolean.
func TryParseWarning(s string) (*Warning, bool) { return parseOne(s, parseWarningElem) }

// TryParseWarningList parses a comma separated list of Warning entries.
func TryParseWarningList(s string) ([]*Warning, bool) { return parseList(s, 1, parseWarningElem) }

func parseWarningElem(lex *grammar.Lexer, t grammar.Token) (*Warning, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	code, ok := lex.TryGetNumericValue(t)
	if !ok || code > 999 {
		return nil, t, false
	}
	w := &Warning{Code: code}

	t = lex.Scan()
	if w.Agent, ok = scanHostPort(lex, t); !ok {
		return nil, t, false
	}

	if t = lex.Scan(); !t.Is(grammar.KindQuotedString) {
		return nil, t, false
	}
	w.Text = lex.TokenText(t)

	if t = lex.Scan(); t.Is(grammar.KindQuotedString) {
		if w.Date, ok = lex.TryGetDateValue(t); !ok {
			return nil, t, false
		}
		t = lex.Scan()
	}
	return w, t, true
}

func (w *Warning) String() string {
	if w == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	fmt.Fprintf(sb, "%03d %s %s", w.Code, w.Agent, w.Text)
	if !w.Date.IsZero() {
		sb.WriteString(` "`)
		sb.WriteString(grammar.FormatDate(w.Date))
		sb.WriteByte('"')
	}
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the Warning entry.
func (w *Warning) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, w.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(w.String()))
	default:
		if w == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods Warning
		type Warning hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Warning(*w))
	}
}

// Equal compares agents case-insensitively, texts exactly and dates as instants.
func (w *Warning) Equal(val any) bool {
	var other *Warning
	switch v := val.(type) {
	case Warning:
		other = &v
	case *Warning:
		other = v
	default:
		return false
	}
	if w == nil || other == nil {
		return w == other
	}
	return w.Code == other.Code &&
		util.EqFold(w.Agent, other.Agent) &&
		w.Text == other.Text &&
		w.Date.Equal(other.Date)
}

func (w *Warning) Hash() uint64 {
	if w == nil {
		return 0
	}
	h := hashMix(uint64(w.Code), util.HashFold(w.Agent))
	h = hashMix(h, util.HashString(w.Text))
	if !w.Date.IsZero() {
		h = hashMix(h, uint64(w.Date.Unix()))
	}
	return h
}

// Clone returns a copy of the Warning entry.
func (w *Warning) Clone() *Warning {
	if w == nil {
		return nil
	}
	w2 := *w
	return &w2
}

func (w *Warning) IsValid() bool {
	if w == nil || w.Code < 0 || w.Code > 999 || !grammar.IsQuoted(w.Text) {
		return false
	}
	lex := grammar.NewLexer(w.Agent)
	_, ok := scanHostPort(lex, lex.Scan())
	return ok && lex.Scan().Is(grammar.KindEnd)
}

func (w *Warning) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Warning) UnmarshalText(data []byte) error {
	v, err := ParseWarning(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*w = *v
	return nil
}
