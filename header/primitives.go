package header

import (
	"encoding/base64"
	"net/mail"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// TryParseTokenList parses a comma separated list of tokens,
// as in Allow, Connection, Content-Encoding and Vary headers.
func TryParseTokenList(s string) ([]string, bool) { return parseList(s, 1, parseTokenElem) }

func parseTokenElem(lex *grammar.Lexer, t grammar.Token) (string, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return "", t, false
	}
	return lex.TokenText(t), lex.Scan(), true
}

// TryParseHost parses a Host header value "host[:port]".
func TryParseHost(s string) (string, bool) {
	s = util.TrimSP(s)
	if s == "" || !httpguts.ValidHostHeader(s) || strings.ContainsAny(s, " \t/?#@") {
		return "", false
	}
	return s, true
}

// TryParseURI parses an absolute or relative URI reference,
// as in Location, Content-Location and Referer headers.
func TryParseURI(s string) (*url.URL, bool) {
	s = util.TrimSP(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}
	return u, true
}

// TryParseMailbox parses a From header value. The address is returned as is.
func TryParseMailbox(s string) (string, bool) {
	s = util.TrimSP(s)
	if _, err := mail.ParseAddress(s); err != nil {
		return "", false
	}
	return s, true
}

// TryParseMD5 decodes a base64 Content-MD5 digest.
func TryParseMD5(s string) ([]byte, bool) {
	b, err := base64.StdEncoding.DecodeString(util.TrimSP(s))
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

// FormatMD5 encodes a digest as in the Content-MD5 header.
func FormatMD5(b []byte) string { return base64.StdEncoding.EncodeToString(b) }
