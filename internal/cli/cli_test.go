package cli_test

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdns "github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/gohttp/client"
	"github.com/ghettovoice/gohttp/internal/cli"
	"github.com/ghettovoice/gohttp/message"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd(&out, &errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

const block = "GET / HTTP/1.1\r\n" +
	"host: example.com\r\n" +
	"Accept: text/html;q=0.8,\r\n" +
	"  application/json\r\n" +
	"User-Agent: curl/8.0 (linux)\r\n" +
	"Content-Length: abc\r\n" +
	"X-Trace: 1\r\n" +
	"broken line\r\n" +
	"\r\n"

func TestParse_Text(t *testing.T) {
	t.Parallel()

	out, errOut, err := run(t, block, "parse")
	require.NoError(t, err)

	assert.Equal(t, "GET / HTTP/1.1\n"+
		"Host: example.com\n"+
		"Accept: text/html;q=0.8, application/json\n"+
		"User-Agent: curl/8.0 (linux)\n"+
		"Content-Length: abc\n"+
		"X-Trace: 1\n", out)
	assert.Contains(t, errOut, `line 8: "broken line": missing colon`)
}

func TestParse_Strict(t *testing.T) {
	t.Parallel()

	out, errOut, err := run(t, block, "parse", "--strict", "--kind", "request|content")
	require.ErrorIs(t, err, cli.ErrInvalidHeaders)

	assert.Contains(t, out, "Accept: text/html; q=0.8, application/json\n")
	assert.NotContains(t, out, "Content-Length")
	assert.Contains(t, errOut, "line 6")
	assert.Contains(t, errOut, message.ErrInvalidValue.Error())
}

func TestParse_KindMismatch(t *testing.T) {
	t.Parallel()

	_, errOut, err := run(t, "Content-Type: text/plain\n", "parse", "--strict", "--kind", "response")
	require.ErrorIs(t, err, cli.ErrInvalidHeaders)
	assert.Contains(t, errOut, message.ErrHeaderKindMismatch.Error())
}

func TestParse_Structured(t *testing.T) {
	t.Parallel()

	in := "Accept: text/plain, text/html\nETag: \"v1\"\nnope\n"

	out, _, err := run(t, in, "parse", "--output", "json")
	require.NoError(t, err)

	var rep cli.HeadersReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []cli.HeaderField{
		{Name: "Accept", Values: []string{"text/plain, text/html"}},
		{Name: "ETag", Values: []string{`"v1"`}},
	}, rep.Headers)
	require.Len(t, rep.Invalid, 1)
	assert.Equal(t, 3, rep.Invalid[0].Line)

	out, _, err = run(t, in, "parse", "--strict", "--output", "yaml")
	require.ErrorIs(t, err, cli.ErrInvalidHeaders)

	rep = cli.HeadersReport{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []cli.HeaderField{
		{Name: "Accept", Values: []string{"text/plain", "text/html"}},
		{Name: "ETag", Values: []string{`"v1"`}},
	}, rep.Headers)
}

func TestParse_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "headers.txt")
	require.NoError(t, os.WriteFile(path, []byte("Server: nginx/1.25 (Ubuntu)\n"), 0o600))

	out, _, err := run(t, "", "parse", "--strict", path)
	require.NoError(t, err)
	assert.Equal(t, "Server: nginx/1.25 (Ubuntu)\n", out)
}

func TestParse_BadFlags(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "", "parse", "--kind", "bogus")
	require.ErrorIs(t, err, message.ErrInvalidArgument)

	_, _, err = run(t, "", "parse", "--output", "xml")
	require.ErrorIs(t, err, message.ErrInvalidArgument)
}

func TestValue(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "", "value", "accept", "text/html;q=0.8 ,application/json")
	require.NoError(t, err)
	assert.Equal(t, "text/html; q=0.8\napplication/json\n", out)

	out, _, err = run(t, "", "value", "Content-Range", "bytes 0-499/1234")
	require.NoError(t, err)
	assert.Equal(t, "bytes 0-499/1234\n", out)

	_, _, err = run(t, "", "value", "Content-Range", "bytes 5-1/10")
	require.ErrorIs(t, err, message.ErrInvalidValue)

	_, _, err = run(t, "", "value", "X-Custom", "v")
	require.ErrorIs(t, err, message.ErrUnknownHeader)
}

func TestKnown(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "", "known")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(message.KnownHeaders()))
	assert.Regexp(t, `^Accept\s+request$`, lines[0])
}

func TestGet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Api-Key", r.Header.Get("X-Api-Key"))
		w.Header().Set("X-Accept", r.Header.Get("Accept"))
		w.Header().Set("X-Path", r.URL.Path)
		w.Write([]byte(`{"ok":true}`)) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "httphdr.yaml")
	cfg := "base_address: " + srv.URL + "/api/\n" +
		"timeout: 5s\n" +
		"headers:\n" +
		"  Accept: [application/json]\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, _, err := run(t, "", "--config", cfgPath, "get", "items", "-H", "X-Api-Key: secret", "--body")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "HTTP/1.1 200 OK\n"), "unexpected status line in %q", out)
	assert.Contains(t, out, "X-Api-Key: secret\n")
	assert.Contains(t, out, "X-Accept: application/json\n")
	assert.Contains(t, out, "X-Path: /api/items\n")
	assert.Contains(t, out, "Content-Type: application/json\n")
	assert.True(t, strings.HasSuffix(out, "\n{\"ok\":true}"), "unexpected body in %q", out)
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "", "get", "/relative")
	require.ErrorIs(t, err, client.ErrNoRequestURI)

	_, _, err = run(t, "", "get", "http://example.com", "-H", "no-colon")
	require.ErrorIs(t, err, message.ErrInvalidArgument)

	_, _, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "get", "http://example.com")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func startNameServer(t *testing.T, zone map[string][]string) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &mdns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: mdns.HandlerFunc(func(w mdns.ResponseWriter, req *mdns.Msg) {
			res := new(mdns.Msg)
			res.SetReply(req)
			q := req.Question[0]
			rrs, ok := zone[q.Name]
			if !ok {
				res.Rcode = mdns.RcodeNameError
			}
			for _, s := range rrs {
				rr, err := mdns.NewRR(s)
				if err != nil {
					panic(err)
				}
				if rr.Header().Rrtype == q.Qtype {
					res.Answer = append(res.Answer, rr)
				}
			}
			w.WriteMsg(res) //nolint:errcheck
		}),
	}
	go srv.ActivateAndServe() //nolint:errcheck
	<-started
	t.Cleanup(func() { srv.Shutdown() }) //nolint:errcheck

	return pc.LocalAddr().String()
}

func TestLookup(t *testing.T) {
	t.Parallel()

	ns := startNameServer(t, map[string][]string{
		"svc.gohttp.test.": {
			"svc.gohttp.test. 300 IN A 192.0.2.7",
			"svc.gohttp.test. 300 IN HTTPS 1 . alpn=h2 port=8443 ipv4hint=192.0.2.8",
		},
		"plain.gohttp.test.": {
			"plain.gohttp.test. 300 IN A 192.0.2.9",
		},
	})

	out, _, err := run(t, "", "lookup", "--nameserver", ns, "-n", "ip4", "svc.gohttp.test")
	require.NoError(t, err)
	assert.Equal(t, "address 192.0.2.7\nhttps 1 . alpn=h2 port=8443 hints=192.0.2.8\n", out)

	out, _, err = run(t, "", "lookup", "--nameserver", ns, "-n", "ip4", "-o", "json", "plain.gohttp.test")
	require.NoError(t, err)

	var rep cli.LookupReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, cli.LookupReport{Host: "plain.gohttp.test", Addresses: []string{"192.0.2.9"}}, rep)

	_, _, err = run(t, "", "lookup", "--nameserver", ns, "-n", "ip4", "missing.gohttp.test")
	var dnsErr *net.DNSError
	require.ErrorAs(t, err, &dnsErr)
	assert.True(t, dnsErr.IsNotFound)

	_, _, err = run(t, "", "lookup", "-n", "ipx", "svc.gohttp.test")
	require.ErrorIs(t, err, message.ErrInvalidArgument)
}
