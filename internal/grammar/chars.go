package grammar

import "strings"

// tokenChars marks any US-ASCII CHAR except CTLs and separators (RFC 7230 tchar).
var tokenChars = [128]bool{
	'!': true, '#': true, '$': true, '%': true, '&': true, '\'': true, '*': true,
	'+': true, '-': true, '.': true, '^': true, '_': true, '`': true, '|': true, '~': true,
}

func init() {
	for c := '0'; c <= '9'; c++ {
		tokenChars[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		tokenChars[c] = true
		tokenChars[c-'a'+'A'] = true
	}
}

// IsTokenChar reports whether c may appear in a token.
func IsTokenChar(c byte) bool { return c < 0x80 && tokenChars[c] }

// IsToken reports whether s is a non-empty token.
func IsToken[T ~string](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsTokenChar(s[i]) {
			return false
		}
	}
	return true
}

func isQDText(c byte) bool { return c == '\t' || c >= 0x20 && c <= 0x7e }

// IsQuoted reports whether s is a complete quoted-string including the surrounding quotes.
func IsQuoted[T ~string](s T) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
			if i == len(s)-1 {
				return false
			}
		case c == '"':
			return false
		case !isQDText(c):
			return false
		}
	}
	return true
}

// IsComment reports whether s is a parenthesized comment.
func IsComment[T ~string](s T) bool {
	if len(s) < 2 || s[0] != '(' {
		return false
	}
	n, ok := scanComment(string(s), 0)
	return ok && n == len(s)
}

// Quote wraps s into double quotes, escaping quotes and backslashes.
func Quote(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return `"` + s + `"`
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// Unquote strips the surrounding quotes and resolves quoted-pairs.
// Strings that are not quoted are returned as is.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
