package header

import (
	"encoding/base64"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

func lookupCharset(name string) (encoding.Encoding, bool) {
	enc, err := ianaindex.MIME.Encoding(name)
	if err != nil || enc == nil {
		return nil, false
	}
	return enc, true
}

func decodeCharset(name string, b []byte) (string, bool) {
	enc, ok := lookupCharset(name)
	if !ok {
		return "", false
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// encodeMIMEWord renders v as a parameter value.
// Non-ASCII values become a quoted RFC 2047 encoded-word in UTF-8,
// values that are not tokens are quoted.
func encodeMIMEWord(v string) string {
	switch {
	case !util.IsASCII(v):
		return `"=?utf-8?B?` + base64.StdEncoding.EncodeToString([]byte(v)) + `?="`
	case grammar.IsToken(v):
		return v
	default:
		return grammar.Quote(v)
	}
}

// decodeMIMEWord reverses encodeMIMEWord.
// Values that are not encoded-words are returned unquoted.
func decodeMIMEWord(v string) string {
	if s, ok := decodeEncodedWord(v); ok {
		return s
	}
	return grammar.Unquote(v)
}

func decodeEncodedWord(v string) (string, bool) {
	if !grammar.IsQuoted(v) {
		return "", false
	}
	parts := strings.Split(v, "?")
	if len(parts) != 5 || parts[0] != `"=` || parts[4] != `="` || !util.EqFold(parts[2], "b") {
		return "", false
	}
	b, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return "", false
	}
	return decodeCharset(parts[1], b)
}

// encodeExtValue renders v as an RFC 5987 ext-value in UTF-8 without a language tag.
func encodeExtValue(v string) string { return "utf-8''" + grammar.Escape(v, nil) }

// decodeExtValue parses an RFC 5987 ext-value "charset'[language]'value-chars".
// The language tag is ignored. A quoted value is treated as an RFC 2047 encoded-word.
func decodeExtValue(v string) (string, bool) {
	if grammar.IsQuoted(v) {
		return decodeEncodedWord(v)
	}
	parts := strings.Split(v, "'")
	if len(parts) != 3 || parts[0] == "" {
		return "", false
	}
	return decodeCharset(parts[0], []byte(grammar.Unescape(parts[2])))
}
