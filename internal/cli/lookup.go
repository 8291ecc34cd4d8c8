package cli

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/gohttp/dns"
	"github.com/ghettovoice/gohttp/internal/errorutil"
)

// ServiceBinding is an HTTPS record in the lookup output.
type ServiceBinding struct {
	Priority uint16   `json:"priority" yaml:"priority"`
	Target   string   `json:"target" yaml:"target"`
	ALPN     []string `json:"alpn,omitempty" yaml:"alpn,omitempty"`
	Port     uint16   `json:"port,omitempty" yaml:"port,omitempty"`
	IPHints  []string `json:"ip_hints,omitempty" yaml:"ip_hints,omitempty"`
}

// LookupReport is the structured output of the lookup command.
type LookupReport struct {
	Host      string           `json:"host" yaml:"host"`
	Addresses []string         `json:"addresses" yaml:"addresses"`
	Services  []ServiceBinding `json:"services,omitempty" yaml:"services,omitempty"`
}

type lookupFlags struct {
	nameServer string
	network    string
	output     string
}

func newLookupCmd(root *rootFlags) *cobra.Command {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "lookup HOST",
		Short: "Resolve the addresses and HTTPS service bindings of a host",
		Long: `Lookup resolves HOST the same way the get command dials it and queries its
HTTPS records. Missing HTTPS records are not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(flags.output)
			if err != nil {
				return errtrace.Wrap(err)
			}
			switch flags.network {
			case "ip", "ip4", "ip6":
			default:
				return errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported network %q", flags.network))
			}
			cfg, err := LoadConfig(root.config)
			if err != nil {
				return errtrace.Wrap(err)
			}
			nameServer := cfg.NameServer
			if flags.nameServer != "" {
				nameServer = flags.nameServer
			}

			res := dns.NewResolver(nameServer, root.logger())
			host := args[0]
			ips, err := res.LookupIP(cmd.Context(), flags.network, host)
			if err != nil {
				return errtrace.Wrap(err)
			}
			rep := &LookupReport{Host: host}
			for _, ip := range ips {
				rep.Addresses = append(rep.Addresses, ip.String())
			}

			recs, err := res.LookupHTTPS(cmd.Context(), host)
			if err != nil {
				var dnsErr *net.DNSError
				if !errors.As(err, &dnsErr) || !dnsErr.IsNotFound {
					return errtrace.Wrap(err)
				}
			}
			for _, rec := range recs {
				sb := ServiceBinding{
					Priority: rec.Priority,
					Target:   rec.Target,
					ALPN:     rec.ALPN,
					Port:     rec.Port,
				}
				for _, ip := range rec.IPHints {
					sb.IPHints = append(sb.IPHints, ip.String())
				}
				rep.Services = append(rep.Services, sb)
			}
			return errtrace.Wrap(writeLookup(cmd.OutOrStdout(), rep, format, root.noColor))
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.nameServer, "nameserver", "", "DNS server address, the system resolver by default")
	f.StringVarP(&flags.network, "network", "n", "ip", "Address family: ip, ip4 or ip6")
	f.StringVarP(&flags.output, "output", "o", string(FormatText), "Output format: text, json or yaml")
	return cmd
}

func writeLookup(out io.Writer, r *LookupReport, format Format, noColor bool) error {
	if format != FormatText {
		return errtrace.Wrap(encode(out, r, format))
	}

	p := newPalette(out, noColor)
	for _, addr := range r.Addresses {
		if _, err := fmt.Fprintf(out, "%s %s\n", p.name.Sprint("address"), addr); err != nil {
			return errtrace.Wrap(err)
		}
	}
	for _, sb := range r.Services {
		parts := []string{strconv.Itoa(int(sb.Priority)), sb.Target}
		if len(sb.ALPN) > 0 {
			parts = append(parts, "alpn="+strings.Join(sb.ALPN, ","))
		}
		if sb.Port != 0 {
			parts = append(parts, "port="+strconv.Itoa(int(sb.Port)))
		}
		if len(sb.IPHints) > 0 {
			parts = append(parts, "hints="+strings.Join(sb.IPHints, ","))
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", p.name.Sprint("https"), strings.Join(parts, " ")); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
