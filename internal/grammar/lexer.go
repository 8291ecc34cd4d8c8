package grammar

// Kind is the kind of a lexical token.
type Kind uint8

const (
	KindError Kind = iota
	KindEnd
	KindToken
	KindQuotedString
	KindSeparatorEqual
	KindSeparatorSemicolon
	KindSeparatorSlash
	KindSeparatorDash
	KindSeparatorComma
	KindOpenParens
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "Error"
	case KindEnd:
		return "End"
	case KindToken:
		return "Token"
	case KindQuotedString:
		return "QuotedString"
	case KindSeparatorEqual:
		return "SeparatorEqual"
	case KindSeparatorSemicolon:
		return "SeparatorSemicolon"
	case KindSeparatorSlash:
		return "SeparatorSlash"
	case KindSeparatorDash:
		return "SeparatorDash"
	case KindSeparatorComma:
		return "SeparatorComma"
	case KindOpenParens:
		return "OpenParens"
	default:
		return "Unknown"
	}
}

// Token is a lexical token of a header value.
// Start and end are byte offsets into the input the token was scanned from.
type Token struct {
	kind       Kind
	start, end int
}

func (t Token) Kind() Kind { return t.kind }

func (t Token) Start() int { return t.start }

func (t Token) End() int { return t.end }

func (t Token) Len() int { return t.end - t.start }

// Is reports whether the token is of kind k.
func (t Token) Is(k Kind) bool { return t.kind == k }

func (t Token) String() string { return t.kind.String() }

// Lexer splits a header value into tokens.
// The cursor only moves forward; a caller that peeked a byte
// with [Lexer.PeekChar] may consume it with [Lexer.EatChar].
type Lexer struct {
	s   string
	pos int
}

// NewLexer returns a lexer positioned at the beginning of s.
func NewLexer(s string) *Lexer { return &Lexer{s: s} }

// Pos returns the current cursor position.
func (l *Lexer) Pos() int { return l.pos }

// Scan returns the next token.
// Spaces and tabs between tokens are skipped, trailing ones produce [KindEnd].
// A quoted string that is not terminated, or that contains a control or
// non-ASCII byte, produces [KindError].
func (l *Lexer) Scan() Token {
	for l.pos < len(l.s) && (l.s[l.pos] == ' ' || l.s[l.pos] == '\t') {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(l.s) {
		return Token{KindEnd, start, start}
	}

	c := l.s[l.pos]
	l.pos++
	switch c {
	case '=':
		return Token{KindSeparatorEqual, start, l.pos}
	case ';':
		return Token{KindSeparatorSemicolon, start, l.pos}
	case '/':
		return Token{KindSeparatorSlash, start, l.pos}
	case '-':
		return Token{KindSeparatorDash, start, l.pos}
	case ',':
		return Token{KindSeparatorComma, start, l.pos}
	case '(':
		return Token{KindOpenParens, start, l.pos}
	case '"':
		for l.pos < len(l.s) {
			switch c = l.s[l.pos]; {
			case c == '"':
				l.pos++
				return Token{KindQuotedString, start, l.pos}
			case c == '\\' && l.pos+1 < len(l.s) && isQDText(l.s[l.pos+1]):
				l.pos += 2
			case isQDText(c):
				l.pos++
			default:
				return Token{KindError, start, l.pos}
			}
		}
		return Token{KindError, start, l.pos}
	default:
		if !IsTokenChar(c) {
			return Token{KindError, start, l.pos}
		}
		for l.pos < len(l.s) && IsTokenChar(l.s[l.pos]) {
			l.pos++
		}
		return Token{KindToken, start, l.pos}
	}
}

// PeekChar returns the byte under the cursor without consuming it, or -1 at the end of input.
func (l *Lexer) PeekChar() int {
	if l.pos < len(l.s) {
		return int(l.s[l.pos])
	}
	return -1
}

// EatChar consumes one byte.
func (l *Lexer) EatChar() {
	if l.pos < len(l.s) {
		l.pos++
	}
}

// TokenText returns the input slice spanned by t.
func (l *Lexer) TokenText(t Token) string { return l.s[t.start:t.end] }

// SpanText returns the input slice from the start of first to the end of last.
func (l *Lexer) SpanText(first, last Token) string { return l.s[first.start:last.end] }

// QuotedText returns the content of a quoted string token without the quotes.
func (l *Lexer) QuotedText(t Token) string {
	if t.kind != KindQuotedString {
		return l.TokenText(t)
	}
	return l.s[t.start+1 : t.end-1]
}

// Remaining returns the unscanned input starting at pos.
func (l *Lexer) Remaining(pos int) (string, bool) {
	if pos > len(l.s) {
		return "", false
	}
	return l.s[pos:], true
}

// IsStarStringValue reports whether t is the single character "*".
func (l *Lexer) IsStarStringValue(t Token) bool {
	return t.Len() == 1 && l.s[t.start] == '*'
}

// ScanCommentOptional scans an optional trailing comment.
//
// When the next token opens a comment, the comment text including the parentheses
// is returned with ok=true, or ok=false when the comment is not terminated.
// Without a comment ok reports whether the input is exhausted.
func (l *Lexer) ScanCommentOptional() (comment string, ok bool) {
	t := l.Scan()
	if t.kind != KindOpenParens {
		return "", t.kind == KindEnd
	}
	return l.ScanComment(t)
}

// ScanComment scans the rest of a comment opened by the [KindOpenParens] token t.
func (l *Lexer) ScanComment(t Token) (comment string, ok bool) {
	if t.kind != KindOpenParens {
		return "", false
	}
	n, ok := scanComment(l.s, t.start)
	if !ok {
		l.pos = len(l.s)
		return "", false
	}
	l.pos = n
	return l.s[t.start:n], true
}

// scanComment scans a comment starting at the "(" at s[i] and
// returns the offset just past the matching ")".
func scanComment(s string, i int) (int, bool) {
	depth := 0
	for ; i < len(s); i++ {
		switch c := s[i]; {
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		case c == '\\' && i+1 < len(s):
			i++
		case c < 0x20 && c != '\t' || c > 0x7e:
			return i, false
		}
	}
	return i, false
}
