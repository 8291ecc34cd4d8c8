package ioutil_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gohttp/internal/ioutil"
)

type errorWriter struct {
	failAfter int
	written   int
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	if ew.written >= ew.failAfter {
		return 0, errtrace.Wrap(errors.New("write failed"))
	}
	n = len(p)
	if ew.written+n > ew.failAfter {
		n = ew.failAfter - ew.written
	}
	ew.written += n
	if n < len(p) {
		return n, errtrace.Wrap(errors.New("write failed"))
	}
	return n, nil
}

func TestCountingWriter_Chaining(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.NewCountingWriter(buf)

	cw.Fprint("Host", ": ")
	cw.WriteString("example.com")
	cw.Write([]byte("\r\n")) //nolint:errcheck

	num, err := cw.Result()
	if err != nil {
		t.Fatalf("cw.Result() error = %v, want nil", err)
	}
	if num != 19 {
		t.Errorf("cw.Result() num = %d, want 19", num)
	}
	if got := buf.String(); got != "Host: example.com\r\n" {
		t.Errorf("buf.String() = %q, want %q", got, "Host: example.com\r\n")
	}
}

func TestCountingWriter_Call(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	cw := ioutil.GetCountingWriter(buf)
	defer ioutil.FreeCountingWriter(cw)

	render := func(s string) func(io.Writer) (int64, error) {
		return func(w io.Writer) (int64, error) {
			n, err := fmt.Fprint(w, s)
			return int64(n), errtrace.Wrap(err)
		}
	}

	cw.Call(render("a")).Call(render("b"))
	num, err := cw.Result()
	if err != nil {
		t.Fatalf("cw.Result() error = %v, want nil", err)
	}
	if num != 2 {
		t.Errorf("cw.Result() num = %d, want 2", num)
	}
	if got := buf.String(); got != "ab" {
		t.Errorf("buf.String() = %q, want \"ab\"", got)
	}
}

func TestCountingWriter_ErrorStopsWrites(t *testing.T) {
	t.Parallel()

	cw := ioutil.NewCountingWriter(&errorWriter{failAfter: 5})

	if _, err := cw.WriteString("hello"); err != nil {
		t.Fatalf("cw.WriteString(\"hello\") error = %v, want nil", err)
	}
	if _, err := cw.WriteString(" world"); err == nil {
		t.Fatal("cw.WriteString(\" world\") error = nil, want error")
	}
	n, err := cw.Fprint("again")
	if err == nil {
		t.Fatal("cw.Fprint(\"again\") error = nil, want cached error")
	}
	if n != 0 {
		t.Errorf("cw.Fprint(\"again\") n = %d, want 0", n)
	}
	if got := cw.Count(); got != 5 {
		t.Errorf("cw.Count() = %d, want 5", got)
	}
}
