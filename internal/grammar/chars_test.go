package grammar_test

import (
	"testing"

	"github.com/ghettovoice/gohttp/internal/grammar"
)

func TestIsToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"gzip", true},
		{"x-custom_1.0~", true},
		{"a b", false},
		{"a/b", false},
		{"\"a\"", false},
		{"é", false},
	}
	for _, c := range cases {
		if got := grammar.IsToken(c.in); got != c.want {
			t.Errorf("grammar.IsToken(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsQuoted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{`""`, true},
		{`"abc"`, true},
		{`"a\"b"`, true},
		{`"a"b"`, false},
		{`"abc`, false},
		{`abc`, false},
		{`"\"`, false},
	}
	for _, c := range cases {
		if got := grammar.IsQuoted(c.in); got != c.want {
			t.Errorf("grammar.IsQuoted(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestQuoteUnquote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw, quoted string
	}{
		{"", `""`},
		{"abc def", `"abc def"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\b`, `"a\\b"`},
	}
	for _, c := range cases {
		if got := grammar.Quote(c.raw); got != c.quoted {
			t.Errorf("grammar.Quote(%q) = %q, want %q", c.raw, got, c.quoted)
		}
		if got := grammar.Unquote(c.quoted); got != c.raw {
			t.Errorf("grammar.Unquote(%q) = %q, want %q", c.quoted, got, c.raw)
		}
	}
	if got := grammar.Unquote("token"); got != "token" {
		t.Errorf("grammar.Unquote(\"token\") = %q, want \"token\"", got)
	}
}

func TestEscape(t *testing.T) {
	t.Parallel()

	if got, want := grammar.Escape("€ rates.txt", nil), "%E2%82%AC%20rates.txt"; got != want {
		t.Errorf("grammar.Escape(\"€ rates.txt\", nil) = %q, want %q", got, want)
	}
	if got, want := grammar.Unescape("%E2%82%AC%20rates.txt"), "€ rates.txt"; got != want {
		t.Errorf("grammar.Unescape(...) = %q, want %q", got, want)
	}
	if got, want := grammar.Unescape("100%"), "100%"; got != want {
		t.Errorf("grammar.Unescape(\"100%%\") = %q, want %q", got, want)
	}
}

func TestCheckInput(t *testing.T) {
	t.Parallel()

	if err := grammar.CheckInput("", false); err != grammar.ErrEmptyInput { //nolint:errorlint
		t.Errorf("grammar.CheckInput(\"\", false) = %v, want %v", err, grammar.ErrEmptyInput)
	}
	if err := grammar.CheckInput("x", true); err != nil {
		t.Errorf("grammar.CheckInput(\"x\", true) = %v, want nil", err)
	}
}
