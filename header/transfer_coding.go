package header

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// TransferCoding represents a transfer coding as used in the Transfer-Encoding header.
type TransferCoding struct {
	Value  string
	Params Params
}

// NewTransferCoding creates a transfer coding without parameters.
func NewTransferCoding(v string) (*TransferCoding, error) {
	if !grammar.IsToken(v) {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid transfer coding %q", v))
	}
	return &TransferCoding{Value: v}, nil
}

// ParseTransferCoding parses a single transfer coding with optional parameters.
func ParseTransferCoding(s string) (*TransferCoding, error) {
	tc, ok := TryParseTransferCoding(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return tc, nil
}

// TryParseTransferCoding is like [ParseTransferCoding] but reports failure with a boolean.
func TryParseTransferCoding(s string) (*TransferCoding, bool) {
	return parseOne(s, parseTransferCodingElem)
}

// TryParseTransferCodingList parses a comma separated list of transfer codings.
func TryParseTransferCodingList(s string) ([]*TransferCoding, bool) {
	return parseList(s, 1, parseTransferCodingElem)
}

func parseTransferCodingElem(lex *grammar.Lexer, t grammar.Token) (*TransferCoding, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	tc := &TransferCoding{Value: lex.TokenText(t)}
	var ok bool
	if tc.Params, t, ok = parseOptParams(lex, lex.Scan()); !ok {
		return nil, t, false
	}
	return tc, t, true
}

// IsChunked reports whether the coding is "chunked".
func (tc *TransferCoding) IsChunked() bool { return tc != nil && util.EqFold(tc.Value, "chunked") }

func (tc *TransferCoding) String() string {
	if tc == nil {
		return ""
	}
	return tc.Value + tc.Params.String()
}

// Format implements fmt.Formatter for custom formatting of the transfer coding.
func (tc *TransferCoding) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, tc.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(tc.String()))
	default:
		if tc == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods TransferCoding
		type TransferCoding hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), TransferCoding(*tc))
	}
}

// Equal compares coding names case-insensitively and parameters as an ordered list.
func (tc *TransferCoding) Equal(val any) bool {
	var other *TransferCoding
	switch v := val.(type) {
	case TransferCoding:
		other = &v
	case *TransferCoding:
		other = v
	default:
		return false
	}
	if tc == nil || other == nil {
		return tc == other
	}
	return util.EqFold(tc.Value, other.Value) && tc.Params.Equal(other.Params)
}

func (tc *TransferCoding) Hash() uint64 {
	if tc == nil {
		return 0
	}
	return util.HashFold(tc.Value) ^ tc.Params.Hash()
}

// Clone returns a deep copy of the transfer coding.
func (tc *TransferCoding) Clone() *TransferCoding {
	if tc == nil {
		return nil
	}
	return &TransferCoding{Value: tc.Value, Params: tc.Params.Clone()}
}

func (tc *TransferCoding) IsValid() bool {
	return tc != nil && grammar.IsToken(tc.Value) && tc.Params.IsValid()
}

func (tc *TransferCoding) MarshalText() ([]byte, error) { return []byte(tc.String()), nil }

func (tc *TransferCoding) UnmarshalText(data []byte) error {
	v, err := ParseTransferCoding(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*tc = *v
	return nil
}

// TransferCodingWithQuality is a transfer coding with an optional "q" weight, as used in the TE header.
type TransferCodingWithQuality struct {
	TransferCoding
}

// TryParseTransferCodingWithQualityList parses a comma separated list of weighted transfer codings.
func TryParseTransferCodingWithQualityList(s string) ([]*TransferCodingWithQuality, bool) {
	return parseList(s, 1, func(
		lex *grammar.Lexer,
		t grammar.Token,
	) (*TransferCodingWithQuality, grammar.Token, bool) {
		tc, t, ok := parseTransferCodingElem(lex, t)
		if !ok {
			return nil, t, false
		}
		return &TransferCodingWithQuality{TransferCoding: *tc}, t, true
	})
}

// Quality returns the "q" parameter value.
func (tc *TransferCodingWithQuality) Quality() (float64, bool) { return tc.Params.quality() }

// SetQuality sets the "q" parameter, the value must be in the range [0, 1].
func (tc *TransferCodingWithQuality) SetQuality(q float64) error {
	return errtrace.Wrap(tc.Params.setQuality(q))
}

func (tc *TransferCodingWithQuality) Equal(val any) bool {
	switch v := val.(type) {
	case TransferCodingWithQuality:
		return tc != nil && tc.TransferCoding.Equal(&v.TransferCoding)
	case *TransferCodingWithQuality:
		if tc == nil || v == nil {
			return tc == v
		}
		return tc.TransferCoding.Equal(&v.TransferCoding)
	default:
		return false
	}
}

// Clone returns a deep copy of the weighted transfer coding.
func (tc *TransferCodingWithQuality) Clone() *TransferCodingWithQuality {
	if tc == nil {
		return nil
	}
	return &TransferCodingWithQuality{TransferCoding: *tc.TransferCoding.Clone()}
}

func (tc *TransferCodingWithQuality) IsValid() bool {
	return tc != nil && tc.TransferCoding.IsValid() && tc.Params.validQuality()
}
