// Package grammar implements the lexical layer of HTTP header values:
// a single-pass tokenizer and the character classes, quoting helpers
// and primitive value parsers built on top of it.
package grammar

//go:generate go tool errtrace -w .

import (
	"github.com/ghettovoice/gohttp/internal/errorutil"
)

// Error is a grammar error.
// It is recognized by [errorutil.IsGrammarErr].
type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

// NewMalformedInputError returns an error wrapping [ErrMalformedInput].
// See [errorutil.NewWrapperError] for the supported arguments.
func NewMalformedInputError(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// CheckInput returns [ErrEmptyInput] for an empty s and
// an error wrapping [ErrMalformedInput] with the quoted input when ok is false.
func CheckInput(s string, ok bool) error {
	if s == "" {
		return ErrEmptyInput //errtrace:skip
	}
	if !ok {
		return NewMalformedInputError("%q", s) //errtrace:skip
	}
	return nil
}
