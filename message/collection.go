package message

import (
	"iter"
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/util"
)

// ValueCollection is an ordered list of typed values of a multi-value header.
// It is bound to the [Headers] it was obtained from, parsing adds go through that collection.
type ValueCollection[T any] struct {
	hdrs *Headers
	info *headerInfo
	list []T
}

// Len returns the number of values.
func (c *ValueCollection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.list)
}

func (c *ValueCollection[T]) len() int { return c.Len() }

// Add appends values.
func (c *ValueCollection[T]) Add(vals ...T) {
	c.list = append(c.list, vals...)
}

// Clear removes all values.
func (c *ValueCollection[T]) Clear() {
	if c == nil {
		return
	}
	c.list = nil
}

// Contains reports whether the collection holds a value equal to v.
func (c *ValueCollection[T]) Contains(v T) bool {
	_, ok := c.Find(func(e T) bool { return equalValue(e, v) })
	return ok
}

// Find returns the first value matching fn.
func (c *ValueCollection[T]) Find(fn func(T) bool) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	if i := slices.IndexFunc(c.list, fn); i >= 0 {
		return c.list[i], true
	}
	return zero, false
}

// Remove removes the first value equal to v and reports whether it was found.
func (c *ValueCollection[T]) Remove(v T) bool {
	if c == nil {
		return false
	}
	i := slices.IndexFunc(c.list, func(e T) bool { return equalValue(e, v) })
	if i < 0 {
		return false
	}
	c.list = slices.Delete(c.list, i, i+1)
	return true
}

// RemoveFunc removes all values matching fn and reports whether any was removed.
func (c *ValueCollection[T]) RemoveFunc(fn func(T) bool) bool {
	if c == nil {
		return false
	}
	n := len(c.list)
	c.list = slices.DeleteFunc(c.list, fn)
	return len(c.list) != n
}

// All returns an iterator over the values.
func (c *ValueCollection[T]) All() iter.Seq[T] {
	if c == nil {
		return func(func(T) bool) {}
	}
	return slices.Values(c.list)
}

// Values returns a copy of the values.
func (c *ValueCollection[T]) Values() []T {
	if c == nil {
		return nil
	}
	return slices.Clone(c.list)
}

// ParseAdd parses s and adds the values to the owning headers.
// It fails with an error wrapping [ErrInvalidValue] if s cannot be parsed.
func (c *ValueCollection[T]) ParseAdd(s string) error {
	if c == nil || c.hdrs == nil {
		return errtrace.Wrap(ErrInvalidArgument)
	}
	return errtrace.Wrap(c.hdrs.addParsed(c.info, s))
}

// TryParseAdd is like [ValueCollection.ParseAdd] but reports failure with a boolean.
func (c *ValueCollection[T]) TryParseAdd(s string) bool {
	return c.ParseAdd(s) == nil
}

func (c *ValueCollection[T]) appendParsed(v any) {
	if vs, ok := v.([]T); ok {
		c.list = append(c.list, vs...)
	}
}

func (c *ValueCollection[T]) strings() []string {
	if c.Len() == 0 {
		return nil
	}
	ss := make([]string, 0, len(c.list))
	for _, v := range c.list {
		ss = append(ss, formatValue(v))
	}
	return ss
}

// String returns the values joined in the wire form of the header.
func (c *ValueCollection[T]) String() string {
	if c == nil {
		return ""
	}
	sep := ", "
	if c.info != nil {
		sep = c.info.sep
	}
	return strings.Join(c.strings(), sep)
}

func equalValue[T any](a, b T) bool {
	switch v := any(a).(type) {
	case interface{ Equal(val any) bool }:
		return v.Equal(b)
	case string:
		s, ok := any(b).(string)
		return ok && util.EqFold(v, s)
	default:
		return any(a) == any(b)
	}
}
