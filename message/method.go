package message

import (
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// Method represents an HTTP request method.
type Method string

// Request method constants.
const (
	MethodDelete  Method = "DELETE"
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodTrace   Method = "TRACE"
)

// ToUpper returns the method in upper case.
func (m Method) ToUpper() Method { return util.UCase(m) }

// IsValid reports whether the method is a syntactically valid token.
func (m Method) IsValid() bool { return grammar.IsToken(m) }

// Equal compares methods case-insensitively.
func (m Method) Equal(val any) bool {
	var other Method
	switch v := val.(type) {
	case Method:
		other = v
	case *Method:
		if v == nil {
			return false
		}
		other = *v
	case string:
		other = Method(v)
	default:
		return false
	}
	return util.EqFold(m, other)
}
