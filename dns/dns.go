// Package dns provides the host resolver used by the HTTP transport.
package dns

//go:generate go tool errtrace -w .

import (
	"cmp"
	"context"
	"log/slog"
	"net"
	"slices"
	"time"

	"braces.dev/errtrace"
	"github.com/miekg/dns"

	"github.com/ghettovoice/gohttp/internal/log"
)

// Resolver wraps net.Resolver with HTTPS service record lookups.
type Resolver struct {
	net.Resolver

	// NameServer specifies the DNS server address (e.g., "8.8.8.8:53").
	// If empty, the system's default resolver configuration is used.
	NameServer string
	// Timeout specifies the timeout for DNS queries.
	// If zero, defaults to 5 seconds.
	Timeout time.Duration
	// Logger is used to log lookups.
	// If nil, lookups are not logged.
	Logger *slog.Logger
}

// NewResolver creates a resolver that sends all queries, including address lookups,
// to the given name server. Empty nameServer keeps the system configuration.
func NewResolver(nameServer string, logger *slog.Logger) *Resolver {
	r := &Resolver{NameServer: nameServer, Logger: logger}
	if nameServer != "" {
		r.PreferGo = true
		r.Dial = func(ctx context.Context, network, _ string) (net.Conn, error) {
			addr, err := r.nameserver()
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			var d net.Dialer
			return errtrace.Wrap2(d.DialContext(ctx, network, addr))
		}
	}
	return r
}

func (r *Resolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	ips, err := r.Resolver.LookupIP(ctx, network, host)
	if err != nil {
		r.log().LogAttrs(ctx, slog.LevelDebug, "address lookup failed",
			slog.String("host", host),
			slog.Any("error", err),
		)
		return nil, errtrace.Wrap(err)
	}
	for i, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			ips[i] = ip4
		}
	}
	r.log().LogAttrs(ctx, slog.LevelDebug, "address lookup done",
		slog.String("host", host),
		slog.Any("ips", ips),
	)
	return ips, nil
}

// HTTPSRecord represents an HTTPS service binding record as defined in RFC 9460.
type HTTPSRecord struct {
	// Priority is zero for alias records, otherwise lower values are preferred.
	Priority uint16
	// Target is the target name, "." means the owner name.
	Target string
	// ALPN lists the supported application protocols, e.g. "h2", "h3".
	ALPN []string
	// Port is the alternative port, zero if absent.
	Port uint16
	// IPHints lists the IPv4 and IPv6 address hints.
	IPHints []net.IP
}

// IsAlias reports whether the record is in the alias mode.
func (rec *HTTPSRecord) IsAlias() bool { return rec != nil && rec.Priority == 0 }

// SupportsHTTP2 reports whether the record advertises the "h2" protocol.
func (rec *HTTPSRecord) SupportsHTTP2() bool {
	return rec != nil && slices.Contains(rec.ALPN, "h2")
}

// LookupHTTPS queries HTTPS records for the given host.
// Returns records sorted by Priority (ascending), alias records first.
func (r *Resolver) LookupHTTPS(ctx context.Context, host string) ([]*HTTPSRecord, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeHTTPS)
	m.RecursionDesired = true

	nameserver, err := r.nameserver()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	client := &dns.Client{Timeout: r.timeout()}
	resp, rtt, err := client.ExchangeContext(ctx, m, nameserver)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, errtrace.Wrap(&net.DNSError{
			Err:        dns.RcodeToString[resp.Rcode],
			Name:       host,
			Server:     nameserver,
			IsNotFound: resp.Rcode == dns.RcodeNameError,
		})
	}

	recs := make([]*HTTPSRecord, 0, len(resp.Answer))
	for _, ans := range resp.Answer {
		rr, ok := ans.(*dns.HTTPS)
		if !ok {
			continue
		}
		rec := &HTTPSRecord{
			Priority: rr.Priority,
			Target:   rr.Target,
		}
		for _, kv := range rr.Value {
			switch kv := kv.(type) {
			case *dns.SVCBAlpn:
				rec.ALPN = append(rec.ALPN, kv.Alpn...)
			case *dns.SVCBPort:
				rec.Port = kv.Port
			case *dns.SVCBIPv4Hint:
				rec.IPHints = append(rec.IPHints, kv.Hint...)
			case *dns.SVCBIPv6Hint:
				rec.IPHints = append(rec.IPHints, kv.Hint...)
			}
		}
		recs = append(recs, rec)
	}

	slices.SortStableFunc(recs, func(a, b *HTTPSRecord) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	r.log().LogAttrs(ctx, slog.LevelDebug, "HTTPS lookup done",
		slog.String("host", host),
		slog.String("nameserver", nameserver),
		slog.Int("records", len(recs)),
		slog.Duration("rtt", rtt),
	)
	return recs, nil
}

func (r *Resolver) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Noop
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return 5 * time.Second
}

func (r *Resolver) nameserver() (string, error) {
	if r.NameServer != "" {
		if _, _, err := net.SplitHostPort(r.NameServer); err != nil {
			return net.JoinHostPort(r.NameServer, "53"), nil //nolint:nilerr
		}
		return r.NameServer, nil
	}

	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if len(conf.Servers) == 0 {
		return "", errtrace.Wrap(&net.DNSError{
			Err:  "no DNS servers configured",
			Name: "resolv.conf",
		})
	}

	return net.JoinHostPort(conf.Servers[0], conf.Port), nil
}

var defResolver = &Resolver{}

func DefaultResolver() *Resolver { return defResolver }

func LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	return errtrace.Wrap2(defResolver.LookupIP(ctx, "ip", host))
}

func LookupHTTPS(ctx context.Context, host string) ([]*HTTPSRecord, error) {
	return errtrace.Wrap2(defResolver.LookupHTTPS(ctx, host))
}
