package grammar

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeFormat is the preferred HTTP date format (RFC 1123 in GMT).
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = [...]string{
	TimeFormat,
	"Mon, 2 Jan 2006 15:04:05 GMT",
	"Monday, 02-Jan-06 15:04:05 GMT", // RFC 850
	"Mon Jan _2 15:04:05 2006",       // ANSI C asctime()
	"Mon Jan 2 15:04:05 2006",
	"2 Jan 06 15:4:5",
	"Mon, 2 Jan 2006 15:4:5 -07:00",
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseInt parses an unsigned decimal that fits into int32.
// Signs and whitespace are not allowed.
func ParseInt(s string) (int, bool) {
	if !isDigits(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// ParseInt64 parses an unsigned decimal that fits into int64.
func ParseInt64(s string) (int64, bool) {
	if !isDigits(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseSeconds parses delta-seconds into a duration.
func ParseSeconds(s string) (time.Duration, bool) {
	v, ok := ParseInt(s)
	if !ok {
		return 0, false
	}
	return time.Duration(v) * time.Second, true
}

// FormatSeconds formats d as whole delta-seconds.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}

// ParseQuality parses a decimal number without a sign, as used by the "q" parameter.
func ParseQuality(s string) (float64, bool) {
	if s == "" || s[0] == '.' && len(s) == 1 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatQuality formats q in the shortest decimal form.
func FormatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// ParseDate parses an HTTP date in any of the legacy formats.
// The result is always in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate formats t in the preferred HTTP date format.
func FormatDate(t time.Time) string { return t.UTC().Format(TimeFormat) }

// TryGetNumericValue parses the token text as an int.
func (l *Lexer) TryGetNumericValue(t Token) (int, bool) { return ParseInt(l.TokenText(t)) }

// TryGetInt64Value parses the token text as an int64.
func (l *Lexer) TryGetInt64Value(t Token) (int64, bool) { return ParseInt64(l.TokenText(t)) }

// TryGetTimeSpanValue parses the token text as delta-seconds.
func (l *Lexer) TryGetTimeSpanValue(t Token) (time.Duration, bool) {
	return ParseSeconds(l.TokenText(t))
}

// TryGetQualityValue parses the token text as a quality value.
func (l *Lexer) TryGetQualityValue(t Token) (float64, bool) { return ParseQuality(l.TokenText(t)) }

// TryGetDateValue parses a bare or quoted token as a date.
func (l *Lexer) TryGetDateValue(t Token) (time.Time, bool) { return ParseDate(l.QuotedText(t)) }
