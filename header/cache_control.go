package header

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// CacheControl represents the Cache-Control header value.
// Optional delta-seconds directives are nil when absent.
type CacheControl struct {
	NoCache         bool
	NoCacheHeaders  []string
	NoStore         bool
	MaxAge          *time.Duration
	SharedMaxAge    *time.Duration
	MaxStale        bool
	MaxStaleLimit   *time.Duration
	MinFresh        *time.Duration
	NoTransform     bool
	OnlyIfCached    bool
	Public          bool
	Private         bool
	PrivateHeaders  []string
	MustRevalidate  bool
	ProxyRevalidate bool
	// Extensions holds unrecognized directives in the order of appearance.
	Extensions []NameValue
}

// ParseCacheControl parses a Cache-Control header value.
//
// Example usage:
//
//	cc, err := header.ParseCacheControl(`no-cache="X-A,X-B", max-age=60`)
func ParseCacheControl(s string) (*CacheControl, error) {
	cc, ok := TryParseCacheControl(s)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return cc, nil
}

// TryParseCacheControl is like [ParseCacheControl] but reports failure with a boolean.
func TryParseCacheControl(s string) (*CacheControl, bool) { return parseOne(s, parseCacheControlElem) }

func parseCacheControlElem(lex *grammar.Lexer, t grammar.Token) (*CacheControl, grammar.Token, bool) {
	cc := new(CacheControl)
	for {
		if !t.Is(grammar.KindToken) {
			return nil, t, false
		}

		var ok bool
		switch name := util.LCase(lex.TokenText(t)); name {
		case "no-store":
			cc.NoStore, t = true, lex.Scan()
		case "no-transform":
			cc.NoTransform, t = true, lex.Scan()
		case "only-if-cached":
			cc.OnlyIfCached, t = true, lex.Scan()
		case "public":
			cc.Public, t = true, lex.Scan()
		case "must-revalidate":
			cc.MustRevalidate, t = true, lex.Scan()
		case "proxy-revalidate":
			cc.ProxyRevalidate, t = true, lex.Scan()
		case "max-stale":
			cc.MaxStale = true
			if t = lex.Scan(); t.Is(grammar.KindSeparatorEqual) {
				if cc.MaxStaleLimit, t, ok = scanSeconds(lex); !ok {
					return nil, t, false
				}
			}
		case "max-age", "s-maxage", "min-fresh":
			if t = lex.Scan(); !t.Is(grammar.KindSeparatorEqual) {
				return nil, t, false
			}
			var d *time.Duration
			if d, t, ok = scanSeconds(lex); !ok {
				return nil, t, false
			}
			switch len(name) {
			case 7:
				cc.MaxAge = d
			case 8:
				cc.SharedMaxAge = d
			default:
				cc.MinFresh = d
			}
		case "private", "no-cache":
			var hdrs []string
			if t = lex.Scan(); t.Is(grammar.KindSeparatorEqual) {
				if t = lex.Scan(); !t.Is(grammar.KindQuotedString) {
					return nil, t, false
				}
				hdrs = splitFieldNames(lex.QuotedText(t))
				t = lex.Scan()
			}
			if len(name) == 7 {
				cc.Private, cc.PrivateHeaders = true, append(cc.PrivateHeaders, hdrs...)
			} else {
				cc.NoCache, cc.NoCacheHeaders = true, append(cc.NoCacheHeaders, hdrs...)
			}
		default:
			var ext NameValue
			if ext, t, ok = parseNameValueElem(lex, t); !ok {
				return nil, t, false
			}
			cc.Extensions = append(cc.Extensions, ext)
		}

		if !t.Is(grammar.KindSeparatorComma) {
			return cc, t, true
		}
		t = lex.Scan()
	}
}

func scanSeconds(lex *grammar.Lexer) (*time.Duration, grammar.Token, bool) {
	t := lex.Scan()
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	d, ok := lex.TryGetTimeSpanValue(t)
	if !ok {
		return nil, t, false
	}
	return &d, lex.Scan(), true
}

func splitFieldNames(s string) []string {
	var names []string
	for n := range strings.SplitSeq(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func (cc *CacheControl) String() string {
	if cc == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	appendDirective := func(ok bool, s string) {
		if !ok {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s)
	}
	appendSeconds := func(name string, d *time.Duration) {
		if d != nil {
			appendDirective(true, name+"="+grammar.FormatSeconds(*d))
		}
	}
	appendList := func(ok bool, name string, hdrs []string) {
		if !ok {
			return
		}
		if len(hdrs) == 0 {
			appendDirective(true, name)
			return
		}
		appendDirective(true, name+`="`+strings.Join(hdrs, ", ")+`"`)
	}

	appendDirective(cc.NoStore, "no-store")
	appendDirective(cc.NoTransform, "no-transform")
	appendDirective(cc.OnlyIfCached, "only-if-cached")
	appendDirective(cc.Public, "public")
	appendDirective(cc.MustRevalidate, "must-revalidate")
	appendDirective(cc.ProxyRevalidate, "proxy-revalidate")
	appendList(cc.NoCache, "no-cache", cc.NoCacheHeaders)
	appendSeconds("max-age", cc.MaxAge)
	appendSeconds("s-maxage", cc.SharedMaxAge)
	if cc.MaxStale {
		if cc.MaxStaleLimit != nil {
			appendSeconds("max-stale", cc.MaxStaleLimit)
		} else {
			appendDirective(true, "max-stale")
		}
	}
	appendSeconds("min-fresh", cc.MinFresh)
	appendList(cc.Private, "private", cc.PrivateHeaders)
	if len(cc.Extensions) > 0 {
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		writeList(sb, cc.Extensions, ", ")
	}
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the cache control.
func (cc *CacheControl) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, cc.String())
	case 'q':
		fmt.Fprint(f, strconv.Quote(cc.String()))
	default:
		if cc == nil {
			fmt.Fprint(f, "<nil>")
			return
		}
		type hideMethods CacheControl
		type CacheControl hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), CacheControl(*cc))
	}
}

// Equal compares all directives.
// Header name lists are compared case-insensitively, extensions as an ordered list.
func (cc *CacheControl) Equal(val any) bool {
	var other *CacheControl
	switch v := val.(type) {
	case CacheControl:
		other = &v
	case *CacheControl:
		other = v
	default:
		return false
	}
	if cc == nil || other == nil {
		return cc == other
	}
	return cc.NoCache == other.NoCache &&
		cc.NoStore == other.NoStore &&
		cc.MaxStale == other.MaxStale &&
		cc.NoTransform == other.NoTransform &&
		cc.OnlyIfCached == other.OnlyIfCached &&
		cc.Public == other.Public &&
		cc.Private == other.Private &&
		cc.MustRevalidate == other.MustRevalidate &&
		cc.ProxyRevalidate == other.ProxyRevalidate &&
		equalDuration(cc.MaxAge, other.MaxAge) &&
		equalDuration(cc.SharedMaxAge, other.SharedMaxAge) &&
		equalDuration(cc.MaxStaleLimit, other.MaxStaleLimit) &&
		equalDuration(cc.MinFresh, other.MinFresh) &&
		slices.EqualFunc(cc.NoCacheHeaders, other.NoCacheHeaders, util.EqFold[string, string]) &&
		slices.EqualFunc(cc.PrivateHeaders, other.PrivateHeaders, util.EqFold[string, string]) &&
		Params(cc.Extensions).Equal(other.Extensions)
}

func equalDuration(a, b *time.Duration) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (cc *CacheControl) Hash() uint64 {
	if cc == nil {
		return 0
	}
	var flags uint64
	for i, f := range [...]bool{
		cc.NoCache, cc.NoStore, cc.MaxStale, cc.NoTransform, cc.OnlyIfCached,
		cc.Public, cc.Private, cc.MustRevalidate, cc.ProxyRevalidate,
	} {
		if f {
			flags |= 1 << i
		}
	}
	h := flags
	for _, d := range [...]*time.Duration{cc.MaxAge, cc.SharedMaxAge, cc.MaxStaleLimit, cc.MinFresh} {
		if d != nil {
			h = hashMix(h, uint64(*d))
		} else {
			h = hashMix(h, 0)
		}
	}
	for _, n := range cc.NoCacheHeaders {
		h = hashMix(h, util.HashFold(n))
	}
	for _, n := range cc.PrivateHeaders {
		h = hashMix(h, util.HashFold(n))
	}
	return hashMix(h, Params(cc.Extensions).Hash())
}

// Clone returns a deep copy of the cache control.
func (cc *CacheControl) Clone() *CacheControl {
	if cc == nil {
		return nil
	}
	cc2 := *cc
	cc2.MaxAge = cloneDuration(cc.MaxAge)
	cc2.SharedMaxAge = cloneDuration(cc.SharedMaxAge)
	cc2.MaxStaleLimit = cloneDuration(cc.MaxStaleLimit)
	cc2.MinFresh = cloneDuration(cc.MinFresh)
	cc2.NoCacheHeaders = slices.Clone(cc.NoCacheHeaders)
	cc2.PrivateHeaders = slices.Clone(cc.PrivateHeaders)
	cc2.Extensions = slices.Clone(cc.Extensions)
	return &cc2
}

func cloneDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	return util.Ptr(*d)
}

// IsValid checks that durations are not negative and names are tokens.
func (cc *CacheControl) IsValid() bool {
	if cc == nil {
		return false
	}
	for _, d := range [...]*time.Duration{cc.MaxAge, cc.SharedMaxAge, cc.MaxStaleLimit, cc.MinFresh} {
		if d != nil && *d < 0 {
			return false
		}
	}
	for _, n := range slices.Concat(cc.NoCacheHeaders, cc.PrivateHeaders) {
		if !grammar.IsToken(n) {
			return false
		}
	}
	return Params(cc.Extensions).IsValid()
}

func (cc *CacheControl) MarshalText() ([]byte, error) { return []byte(cc.String()), nil }

func (cc *CacheControl) UnmarshalText(data []byte) error {
	v, err := ParseCacheControl(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*cc = *v
	return nil
}
