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

const (
	dispParamName     = "name"
	dispParamFileName = "filename"
	dispParamFileStar = "filename*"
	dispParamCreated  = "creation-date"
	dispParamModified = "modification-date"
	dispParamRead     = "read-date"
	dispParamSize     = "size"
)

// ContentDisposition represents the Content-Disposition header value.
// Named accessors read and write the parameter list, there is no separate state.
type ContentDisposition struct {
	// Type is the disposition type, such as "attachment" or "inline".
	Type   string
	Params Params
}

// NewContentDisposition creates a disposition of the given type without parameters.
func NewContentDisposition(typ string) (*ContentDisposition, error) {
	if !grammar.IsToken(typ) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid disposition type %q", typ))
	}
	return &ContentDisposition{Type: typ}, nil
}

// ParseContentDisposition parses a Content-Disposition header value.
//
// Example usage:
//
//	cd, err := header.ParseContentDisposition(`attachment; filename="report.pdf"`)
func ParseContentDisposition(s string) (*ContentDisposition, error) {
	cd, ok := TryParseContentDisposition(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cd, nil
}

// TryParseContentDisposition is like [ParseContentDisposition] but reports failure with a boolean.
func TryParseContentDisposition(s string) (*ContentDisposition, bool) {
	return parseOne(s, parseContentDispositionElem)
}

func parseContentDispositionElem(
	lex *grammar.Lexer,
	t grammar.Token,
) (*ContentDisposition, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	cd := &ContentDisposition{Type: lex.TokenText(t)}
	var ok bool
	if cd.Params, t, ok = parseOptParams(lex, lex.Scan()); !ok {
		return nil, t, false
	}
	return cd, t, true
}

// Name returns the unquoted "name" parameter.
func (cd *ContentDisposition) Name() string { return cd.getString(dispParamName) }

// SetName sets the "name" parameter, an empty value removes it.
func (cd *ContentDisposition) SetName(v string) { cd.setString(dispParamName, v) }

// FileName returns the decoded "filename" parameter.
func (cd *ContentDisposition) FileName() string { return cd.getString(dispParamFileName) }

// SetFileName sets the "filename" parameter, an empty value removes it.
// Non-ASCII names are encoded as an RFC 2047 encoded-word.
func (cd *ContentDisposition) SetFileName(v string) { cd.setString(dispParamFileName, v) }

// FileNameStar returns the decoded "filename*" parameter.
// It returns false when the parameter is absent or malformed.
func (cd *ContentDisposition) FileNameStar() (string, bool) {
	v, ok := cd.Params.Get(dispParamFileStar)
	if !ok {
		return "", false
	}
	return decodeExtValue(v)
}

// SetFileNameStar sets the "filename*" parameter encoded per RFC 5987, an empty value removes it.
func (cd *ContentDisposition) SetFileNameStar(v string) {
	if v == "" {
		cd.Params.Del(dispParamFileStar)
		return
	}
	cd.Params.Set(dispParamFileStar, encodeExtValue(v))
}

func (cd *ContentDisposition) CreationDate() (time.Time, bool) { return cd.getDate(dispParamCreated) }

// SetCreationDate sets the "creation-date" parameter, a zero time removes it.
func (cd *ContentDisposition) SetCreationDate(t time.Time) { cd.setDate(dispParamCreated, t) }

func (cd *ContentDisposition) ModificationDate() (time.Time, bool) {
	return cd.getDate(dispParamModified)
}

// SetModificationDate sets the "modification-date" parameter, a zero time removes it.
func (cd *ContentDisposition) SetModificationDate(t time.Time) { cd.setDate(dispParamModified, t) }

func (cd *ContentDisposition) ReadDate() (time.Time, bool) { return cd.getDate(dispParamRead) }

// SetReadDate sets the "read-date" parameter, a zero time removes it.
func (cd *ContentDisposition) SetReadDate(t time.Time) { cd.setDate(dispParamRead, t) }

// Size returns the "size" parameter.
func (cd *ContentDisposition) Size() (int64, bool) {
	v, ok := cd.Params.Get(dispParamSize)
	if !ok {
		return 0, false
	}
	return grammar.ParseInt64(v)
}

// SetSize sets the "size" parameter, negative sizes are rejected.
func (cd *ContentDisposition) SetSize(n int64) error {
	if n < 0 {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("negative size %d", n))
	}
	cd.Params.Set(dispParamSize, strconv.FormatInt(n, 10))
	return nil
}

// DelSize removes the "size" parameter.
func (cd *ContentDisposition) DelSize() { cd.Params.Del(dispParamSize) }

func (cd *ContentDisposition) getString(name string) string {
	v, ok := cd.Params.Get(name)
	if !ok {
		return ""
	}
	return decodeMIMEWord(v)
}

func (cd *ContentDisposition) setString(name, v string) {
	if v == "" {
		cd.Params.Del(name)
		return
	}
	cd.Params.Set(name, encodeMIMEWord(v))
}

func (cd *ContentDisposition) getDate(name string) (time.Time, bool) {
	v, ok := cd.Params.Get(name)
	if !ok {
		return time.Time{}, false
	}
	return grammar.ParseDate(grammar.Unquote(v))
}

func (cd *ContentDisposition) setDate(name string, t time.Time) {
	if t.IsZero() {
		cd.Params.Del(name)
		return
	}
	cd.Params.Set(name, `"`+grammar.FormatDate(t)+`"`)
}

func (cd *ContentDisposition) String() string {
	if cd == nil {
		return ""
	}
	return cd.Type + cd.Params.String()
}

// Format implements fmt.Formatter for custom formatting of the disposition.
func (cd *ContentDisposition) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, cd.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(cd.String()))
	default:
		if cd == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods ContentDisposition
		type ContentDisposition hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ContentDisposition(*cd))
	}
}

// Equal compares disposition types case-insensitively and parameters as an ordered list.
func (cd *ContentDisposition) Equal(val any) bool {
	var other *ContentDisposition
	switch v := val.(type) {
	case ContentDisposition:
		other = &v
	case *ContentDisposition:
		other = v
	default:
		return false
	}
	if cd == nil || other == nil {
		return cd == other
	}
	return util.EqFold(cd.Type, other.Type) && cd.Params.Equal(other.Params)
}

func (cd *ContentDisposition) Hash() uint64 {
	if cd == nil {
		return 0
	}
	return util.HashFold(cd.Type) ^ cd.Params.Hash()
}

// Clone returns a deep copy of the disposition.
func (cd *ContentDisposition) Clone() *ContentDisposition {
	if cd == nil {
		return nil
	}
	return &ContentDisposition{Type: cd.Type, Params: cd.Params.Clone()}
}

func (cd *ContentDisposition) IsValid() bool {
	return cd != nil && grammar.IsToken(cd.Type) && cd.Params.IsValid()
}

func (cd *ContentDisposition) MarshalText() ([]byte, error) { return []byte(cd.String()), nil }

func (cd *ContentDisposition) UnmarshalText(data []byte) error {
	v, err := ParseContentDisposition(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*cd = *v
	return nil
}
