package cli

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/gohttp/message"
)

func newValueCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "value HEADER VALUE",
		Short: "Parse a single header value with the typed parser of the header",
		Long: `Value parses VALUE with the parser registered for HEADER and prints the
canonical form, one element per line for list headers.`,
		Example: `  httphdr value Accept 'text/html;q=0.8, application/json'
  httphdr value Content-Range 'bytes 0-499/1234'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := message.ParseHeaderValue(args[0], args[1])
			if err != nil {
				return errtrace.Wrap(err)
			}
			p := newPalette(cmd.OutOrStdout(), root.noColor)
			for _, v := range vals {
				if _, err := p.value.Fprintln(cmd.OutOrStdout(), v); err != nil {
					return errtrace.Wrap(err)
				}
			}
			return nil
		},
	}
}

func newKnownCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "known",
		Short: "List the known headers and their kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPalette(cmd.OutOrStdout(), root.noColor)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range message.KnownHeaders() {
				kind := message.KnownHeaderKind(string(name))
				if _, err := fmt.Fprintf(tw, "%s\t%s\n", p.name.Sprint(name), kind); err != nil {
					return errtrace.Wrap(err)
				}
			}
			return errtrace.Wrap(tw.Flush())
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
