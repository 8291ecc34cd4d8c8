package header

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/internal/grammar"
	"github.com/ghettovoice/gohttp/internal/util"
)

// Product is a "name[/version]" product token as used in Upgrade, User-Agent and Server headers.
type Product struct {
	Name    string
	Version string
}

// NewProduct creates a product token. The version is optional.
func NewProduct(name, version string) (*Product, error) {
	p := &Product{Name: name, Version: version}
	if !p.IsValid() {
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("invalid product %q", p.String()))
	}
	return p, nil
}

// ParseProduct parses a single product token.
func ParseProduct(s string) (*Product, error) {
	p, ok := parseOne(s, parseProductElem)
	if err := grammar.CheckInput(s, ok); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return p, nil
}

// TryParseProductList parses a comma separated list of products, as in the Upgrade header.
func TryParseProductList(s string) ([]*Product, bool) { return parseList(s, 1, parseProductElem) }

func parseProductElem(lex *grammar.Lexer, t grammar.Token) (*Product, grammar.Token, bool) {
	if !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	p := &Product{Name: lex.TokenText(t)}
	if t = lex.Scan(); !t.Is(grammar.KindSeparatorSlash) {
		return p, t, true
	}
	if t = lex.Scan(); !t.Is(grammar.KindToken) {
		return nil, t, false
	}
	p.Version = lex.TokenText(t)
	return p, lex.Scan(), true
}

func (p *Product) String() string {
	if p == nil {
		return ""
	}
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "/" + p.Version
}

// Equal compares names and versions case-insensitively.
func (p *Product) Equal(val any) bool {
	var other *Product
	switch v := val.(type) {
	case Product:
		other = &v
	case *Product:
		other = v
	default:
		return false
	}
	if p == nil || other == nil {
		return p == other
	}
	return util.EqFold(p.Name, other.Name) && util.EqFold(p.Version, other.Version)
}

func (p *Product) Hash() uint64 {
	if p == nil {
		return 0
	}
	return hashMix(util.HashFold(p.Name), util.HashFold(p.Version))
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	p2 := *p
	return &p2
}

func (p *Product) IsValid() bool {
	return p != nil && grammar.IsToken(p.Name) && (p.Version == "" || grammar.IsToken(p.Version))
}

func (p *Product) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Product) UnmarshalText(data []byte) error {
	v, err := ParseProduct(string(data))
	if err != nil {
		return errtrace.Wrap(err)
	}
	*p = *v
	return nil
}

// ProductInfo is either a product or a comment, one element of User-Agent and Server headers.
type ProductInfo struct {
	Product *Product
	// Comment includes the parentheses.
	Comment string
}

// TryParseProductInfoList parses a whitespace separated sequence of products and comments.
//
// Example usage:
//
//	list, ok := header.TryParseProductInfoList("Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101")
func TryParseProductInfoList(s string) ([]*ProductInfo, bool) {
	lex := grammar.NewLexer(s)
	var list []*ProductInfo
	t := lex.Scan()
	for {
		switch t.Kind() {
		case grammar.KindEnd:
			return list, len(list) > 0
		case grammar.KindOpenParens:
			c, ok := lex.ScanComment(t)
			if !ok {
				return nil, false
			}
			list = append(list, &ProductInfo{Comment: c})
			t = lex.Scan()
		case grammar.KindToken:
			var (
				p  *Product
				ok bool
			)
			if p, t, ok = parseProductElem(lex, t); !ok {
				return nil, false
			}
			list = append(list, &ProductInfo{Product: p})
		default:
			return nil, false
		}
	}
}

// ProductInfoListString joins the list elements with spaces.
func ProductInfoListString(list []*ProductInfo) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeList(sb, list, " ")
	return sb.String()
}

func (pi *ProductInfo) String() string {
	if pi == nil {
		return ""
	}
	if pi.Product != nil {
		return pi.Product.String()
	}
	return pi.Comment
}

func (pi *ProductInfo) Equal(val any) bool {
	var other *ProductInfo
	switch v := val.(type) {
	case ProductInfo:
		other = &v
	case *ProductInfo:
		other = v
	default:
		return false
	}
	if pi == nil || other == nil {
		return pi == other
	}
	if pi.Product != nil || other.Product != nil {
		return pi.Product.Equal(other.Product)
	}
	return pi.Comment == other.Comment
}

func (pi *ProductInfo) Hash() uint64 {
	if pi == nil {
		return 0
	}
	if pi.Product != nil {
		return pi.Product.Hash()
	}
	return util.HashString(pi.Comment)
}

func (pi *ProductInfo) Clone() *ProductInfo {
	if pi == nil {
		return nil
	}
	return &ProductInfo{Product: pi.Product.Clone(), Comment: pi.Comment}
}

func (pi *ProductInfo) IsValid() bool {
	if pi == nil {
		return false
	}
	if pi.Product != nil {
		return pi.Comment == "" && pi.Product.IsValid()
	}
	return grammar.IsComment(pi.Comment)
}
