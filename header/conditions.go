package header

import (
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// RangeCondition is the If-Range header value, either an entity tag or a date.
type RangeCondition struct {
	EntityTag *EntityTag
	Date      time.Time
}

// ParseRangeCondition parses an entity tag or an HTTP date.
//
// Example usage:
//
//	rc, err := header.ParseRangeCondition(`"xyzzy"`)
func ParseRangeCondition(s string) (*RangeCondition, error) {
	rc, ok := TryParseRangeCondition(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return rc, nil
}

// TryParseRangeCondition is like [ParseRangeCondition] but reports failure with a boolean.
func TryParseRangeCondition(s string) (*RangeCondition, bool) {
	if etag, ok := TryParseEntityTag(s); ok {
		return &RangeCondition{EntityTag: etag}, true
	}
	// dates carry commas, so they are parsed as a whole
	if d, ok := grammar.ParseDate(s); ok {
		return &RangeCondition{Date: d}, true
	}
	return nil, false
}

func (rc *RangeCondition) String() string {
	switch {
	case rc == nil:
		return ""
	case rc.EntityTag != nil:
		return rc.EntityTag.String()
	default:
		return grammar.FormatDate(rc.Date)
	}
}

func (rc *RangeCondition) Equal(val any) bool {
	var other *RangeCondition
	switch v := val.(type) {
	case RangeCondition:
		other = &v
	case *RangeCondition:
		other = v
	default:
		return false
	}
	if rc == nil || other == nil {
		return rc == other
	}
	if rc.EntityTag != nil || other.EntityTag != nil {
		return rc.EntityTag.Equal(other.EntityTag)
	}
	return rc.Date.Equal(other.Date)
}

func (rc *RangeCondition) Hash() uint64 {
	if rc == nil {
		return 0
	}
	if rc.EntityTag != nil {
		return rc.EntityTag.Hash()
	}
	return uint64(rc.Date.Unix())
}

func (rc *RangeCondition) Clone() *RangeCondition {
	if rc == nil {
		return nil
	}
	return &RangeCondition{EntityTag: rc.EntityTag.Clone(), Date: rc.Date}
}

func (rc *RangeCondition) IsValid() bool {
	if rc == nil {
		return false
	}
	if rc.EntityTag != nil {
		return rc.Date.IsZero() && !rc.EntityTag.IsAny() && rc.EntityTag.IsValid()
	}
	return !rc.Date.IsZero()
}

// RetryCondition is the Retry-After header value, either delta-seconds or a date.
type RetryCondition struct {
	// Delta is nil when the condition is a date.
	Delta *time.Duration
	Date  time.Time
}

// ParseRetryCondition parses delta-seconds or an HTTP date.
func ParseRetryCondition(s string) (*RetryCondition, error) {
	rc, ok := TryParseRetryCondition(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return rc, nil
}

// TryParseRetryCondition is like [ParseRetryCondition] but reports failure with a boolean.
func TryParseRetryCondition(s string) (*RetryCondition, bool) {
	if d, ok := grammar.ParseSeconds(util.TrimSP(s)); ok {
		return &RetryCondition{Delta: &d}, true
	}
	if d, ok := grammar.ParseDate(s); ok {
		return &RetryCondition{Date: d}, true
	}
	return nil, false
}

func (rc *RetryCondition) String() string {
	switch {
	case rc == nil:
		return ""
	case rc.Delta != nil:
		return grammar.FormatSeconds(*rc.Delta)
	default:
		return grammar.FormatDate(rc.Date)
	}
}

func (rc *RetryCondition) Equal(val any) bool {
	var other *RetryCondition
	switch v := val.(type) {
	case RetryCondition:
		other = &v
	case *RetryCondition:
		other = v
	default:
		return false
	}
	if rc == nil || other == nil {
		return rc == other
	}
	if rc.Delta != nil || other.Delta != nil {
		return equalDuration(rc.Delta, other.Delta)
	}
	return rc.Date.Equal(other.Date)
}

func (rc *RetryCondition) Hash() uint64 {
	if rc == nil {
		return 0
	}
	if rc.Delta != nil {
		return hashMix(1, uint64(*rc.Delta))
	}
	return uint64(rc.Date.Unix())
}

func (rc *RetryCondition) Clone() *RetryCondition {
	if rc == nil {
		return nil
	}
	return &RetryCondition{Delta: cloneDuration(rc.Delta), Date: rc.Date}
}

func (rc *RetryCondition) IsValid() bool {
	if rc == nil {
		return false
	}
	if rc.Delta != nil {
		return *rc.Delta >= 0 && rc.Date.IsZero()
	}
	return !rc.Date.IsZero()
}
