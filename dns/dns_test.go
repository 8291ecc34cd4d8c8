package dns_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	mdns "github.com/miekg/dns"
	"go.uber.org/goleak"

	"github.com/ghettovoice/gohttp/dns"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var zone = map[uint16][]string{
	mdns.TypeHTTPS: {
		"gohttp.test. 300 IN HTTPS 2 alt.gohttp.test. alpn=h3 port=8443",
		"gohttp.test. 300 IN HTTPS 1 . alpn=h2,http/1.1 ipv4hint=192.0.2.1",
	},
	mdns.TypeA: {
		"gohttp.test. 300 IN A 192.0.2.10",
	},
}

func startServer(t *testing.T) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.ListenPacket() error = %v, want nil", err)
	}

	started := make(chan struct{})
	srv := &mdns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: mdns.HandlerFunc(func(w mdns.ResponseWriter, req *mdns.Msg) {
			res := new(mdns.Msg)
			res.SetReply(req)
			q := req.Question[0]
			switch {
			case q.Name != "gohttp.test.":
				res.Rcode = mdns.RcodeNameError
			default:
				for _, s := range zone[q.Qtype] {
					rr, err := mdns.NewRR(s)
					if err != nil {
						panic(err)
					}
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

func TestResolver_LookupHTTPS(t *testing.T) {
	t.Parallel()

	r := dns.NewResolver(startServer(t), nil)
	recs, err := r.LookupHTTPS(context.Background(), "gohttp.test")
	if err != nil {
		t.Fatalf("r.LookupHTTPS() error = %v, want nil", err)
	}

	want := []*dns.HTTPSRecord{
		{Priority: 1, Target: ".", ALPN: []string{"h2", "http/1.1"}, IPHints: []net.IP{net.ParseIP("192.0.2.1").To4()}},
		{Priority: 2, Target: "alt.gohttp.test.", ALPN: []string{"h3"}, Port: 8443},
	}
	if diff := cmp.Diff(recs, want, cmp.Comparer(func(a, b net.IP) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("r.LookupHTTPS() = %v, want %v\ndiff (-got +want):\n%v", recs, want, diff)
	}
	if !recs[0].SupportsHTTP2() {
		t.Error("recs[0].SupportsHTTP2() = false, want true")
	}
	if recs[1].SupportsHTTP2() || recs[1].IsAlias() {
		t.Error("recs[1] is h2 or alias, want neither")
	}
}

func TestResolver_LookupHTTPS_NotFound(t *testing.T) {
	t.Parallel()

	r := dns.NewResolver(startServer(t), nil)
	_, err := r.LookupHTTPS(context.Background(), "unknown.test")
	var dnsErr *net.DNSError
	if !errors.As(err, &dnsErr) || !dnsErr.IsNotFound {
		t.Errorf("r.LookupHTTPS(\"unknown.test\") error = %v, want not found DNS error", err)
	}
}

func TestResolver_LookupIP(t *testing.T) {
	t.Parallel()

	r := dns.NewResolver(startServer(t), nil)
	ips, err := r.LookupIP(context.Background(), "ip4", "gohttp.test.")
	if err != nil {
		t.Fatalf("r.LookupIP() error = %v, want nil", err)
	}
	if want := net.ParseIP("192.0.2.10").To4(); len(ips) != 1 || !ips[0].Equal(want) {
		t.Errorf("r.LookupIP() = %v, want [%v]", ips, want)
	}
}
