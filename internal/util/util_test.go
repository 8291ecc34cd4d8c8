package util_test

import (
	"testing"

	"github.com/ghettovoice/gohttp/internal/util"
)

func TestHashFold(t *testing.T) {
	t.Parallel()

	if util.HashFold("Content-Type") != util.HashFold("content-type") {
		t.Error("util.HashFold(\"Content-Type\") != util.HashFold(\"content-type\")")
	}
	if util.HashString("abc") == util.HashString("ABC") {
		t.Error("util.HashString(\"abc\") == util.HashString(\"ABC\")")
	}
}

func TestIsASCII(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"report.pdf", true},
		{"résumé.pdf", false},
	}
	for _, c := range cases {
		if got := util.IsASCII(c.in); got != c.want {
			t.Errorf("util.IsASCII(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
