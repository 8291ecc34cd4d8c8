package header

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// EntityTag represents an entity tag as used in ETag, If-Match and If-None-Match headers.
type EntityTag struct {
	// Tag is the opaque quoted-string including the quotes, or "*".
	Tag    string
	IsWeak bool
}

// NewEntityTag creates an entity tag. The tag must be a quoted-string.
func NewEntityTag(tag string, weak bool) (*EntityTag, error) {
	if !grammar.IsQuoted(tag) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("entity tag %q is not a quoted-string", tag))
	}
	return &EntityTag{Tag: tag, IsWeak: weak}, nil
}

// AnyEntityTag returns the "*" entity tag that matches any entity.
func AnyEntityTag() *EntityTag { return &EntityTag{Tag: "*"} }

// IsAny reports whether the tag is "*".
func (e *EntityTag) IsAny() bool { return e != nil && e.Tag == "*" && !e.IsWeak }

// ParseEntityTag parses a strong or weak entity tag.
// The "*" form is accepted only in lists, see [TryParseEntityTagList].
//
// Example usage:
//
//	etag, err := header.ParseEntityTag(`W/"xyzzy"`)
func ParseEntityTag(s string) (*EntityTag, error) {
	e, ok := TryParseEntityTag(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return e, nil
}

// TryParseEntityTag is like [ParseEntityTag] but reports failure with a boolean.
func TryParseEntityTag(s string) (*EntityTag, bool) { return parseOne(s, parseEntityTagElem) }

// TryParseEntityTagList parses a comma separated list of entity tags
// where "*" is also allowed, as in If-Match and If-None-Match headers.
func TryParseEntityTagList(s string) ([]*EntityTag, bool) {
	return parseList(s, 1, func(lex *grammar.Lexer, t grammar.Token) (*EntityTag, grammar.Token, bool) {
		if t.Is(grammar.KindToken) && lex.IsStarStringValue(t) {
			return AnyEntityTag(), lex.Scan(), true
		}
		return parseEntityTagElem(lex, t)
	})
}

func parseEntityTagElem(lex *grammar.Lexer, t grammar.Token) (*EntityTag, grammar.Token, bool) {
	var weak bool
	if t.Is(grammar.KindToken) {
		if lex.TokenText(t) != "W" || lex.PeekChar() != '/' {
			return nil, t, false
		}
		lex.EatChar()
		weak = true
		t = lex.Scan()
	}
	if !t.Is(grammar.KindQuotedString) {
		return nil, t, false
	}
	return &EntityTag{Tag: lex.TokenText(t), IsWeak: weak}, lex.Scan(), true
}

func (e *EntityTag) String() string {
	if e == nil {
		return ""
	}
	if e.IsWeak {
		return "W/" + e.Tag
	}
	return e.Tag
}

// Format implements fmt.Formatter for custom formatting of the entity tag.
func (e *EntityTag) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, e.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(e.String()))
	default:
		if e == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods EntityTag
		type EntityTag hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), EntityTag(*e))
	}
}

// Equal compares tags exactly, including the weakness flag.
// This is the strong comparison function of RFC 7232 extended with the flag,
// so that Equal stays consistent with Hash.
func (e *EntityTag) Equal(val any) bool {
	var other *EntityTag
	switch v := val.(type) {
	case EntityTag:
		other = &v
	case *EntityTag:
		other = v
	default:
		return false
	}
	if e == nil || other == nil {
		return e == other
	}
	return e.Tag == other.Tag && e.IsWeak == other.IsWeak
}

// WeakEqual reports whether both tags have the same opaque value regardless of weakness.
func (e *EntityTag) WeakEqual(other *EntityTag) bool {
	return e != nil && other != nil && e.Tag == other.Tag
}

func (e *EntityTag) Hash() uint64 {
	if e == nil {
		return 0
	}
	return util.HashString(e.Tag) ^ util.HashBool(e.IsWeak)
}

// Clone returns a copy of the entity tag.
func (e *EntityTag) Clone() *EntityTag {
	if e == nil {
		return nil
	}
	e2 := *e
	return &e2
}

func (e *EntityTag) IsValid() bool {
	if e == nil {
		return false
	}
	return e.IsAny() || grammar.IsQuoted(e.Tag)
}

func (e *EntityTag) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EntityTag) UnmarshalText(data []byte) error {
	if string(data) == "*" {
		*e = *AnyEntityTag()
		return nil
	}
	v, err := ParseEntityTag(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*e = *v
	return nil
}
