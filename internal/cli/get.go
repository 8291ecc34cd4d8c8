package cli

import (
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/gohttp/client"
	"github.com/ghettovoice/gohttp/dns"
	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/message"
)

type getFlags struct {
	headers    []string
	timeout    time.Duration
	nameServer string
	output     string
	body       bool
}

func newGetCmd(root *rootFlags) *cobra.Command {
	var flags getFlags

	cmd := &cobra.Command{
		Use:   "get URL",
		Short: "Send a GET request and print the response headers",
		Long: `Get sends a GET request to URL and prints the status line and the response
headers. Relative URLs are resolved against the base address from the config
file, configured headers are sent with every request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(flags.output)
			if err != nil {
				return errtrace.Wrap(err)
			}
			cfg, err := LoadConfig(root.config)
			if err != nil {
				return errtrace.Wrap(err)
			}
			c, err := newClient(cfg, &flags, root)
			if err != nil {
				return errtrace.Wrap(err)
			}

			req, err := message.NewRequest(message.MethodGet, args[0])
			if err != nil {
				return errtrace.Wrap(err)
			}
			for _, hdr := range flags.headers {
				name, value, ok := strings.Cut(hdr, ":")
				if !ok {
					return errtrace.Wrap(errorutil.NewInvalidArgumentError("header %q must be NAME:VALUE", hdr))
				}
				if err := req.Headers.Add(name, strings.TrimSpace(value)); err != nil {
					return errtrace.Wrap(err)
				}
			}

			res, err := c.Send(cmd.Context(), req)
			if err != nil {
				return errtrace.Wrap(err)
			}

			rep := &HeadersReport{Status: res.String()}
			rep.addAll(&res.Headers.Headers)
			if res.Content != nil && res.Content.Headers != nil {
				rep.addAll(&res.Content.Headers.Headers)
			}
			if err := writeReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), rep, format, root.noColor); err != nil {
				return errtrace.Wrap(err)
			}
			if flags.body && format == FormatText {
				if _, err := cmd.OutOrStdout().Write(append([]byte("\n"), res.Content.Bytes()...)); err != nil {
					return errtrace.Wrap(err)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&flags.headers, "header", "H", nil, "Request header NAME:VALUE (can be used multiple times)")
	f.DurationVarP(&flags.timeout, "timeout", "t", 0, "Request timeout (default from config or 100s)")
	f.StringVar(&flags.nameServer, "nameserver", "", "DNS server used to resolve hosts")
	f.StringVarP(&flags.output, "output", "o", string(FormatText), "Output format: text, json or yaml")
	f.BoolVarP(&flags.body, "body", "b", false, "Print the response body after the headers")
	return cmd
}

func newClient(cfg *Config, flags *getFlags, root *rootFlags) (*client.Client, error) {
	base, err := cfg.baseAddress()
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	logger := root.logger()
	nameServer := cfg.NameServer
	if flags.nameServer != "" {
		nameServer = flags.nameServer
	}
	tp, err := client.NewHTTPTransport(&client.HTTPTransportOptions{
		Resolver: dns.NewResolver(nameServer, logger),
		Logger:   logger,
	})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	timeout := cfg.Timeout
	if flags.timeout != 0 {
		timeout = flags.timeout
	}
	c := client.New(&client.Options{
		BaseAddress:                  base,
		Timeout:                      timeout,
		MaxResponseContentBufferSize: cfg.MaxContentSize,
		Transport:                    tp,
		Logger:                       logger,
	})
	if err := cfg.applyHeaders(c.DefaultRequestHeaders()); err != nil {
		return nil, errtrace.Wrap(err)
	}
	return c, nil
}
