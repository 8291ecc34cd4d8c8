// Package cli implements the httphdr command line tool.
package cli

//go:generate go tool errtrace -w .

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ghettovoice/gohttp/internal/log"
)

var version = "0.1.0"

type rootFlags struct {
	noColor bool
	verbose bool
	devLog  bool
	config  string
}

func (f *rootFlags) logger() *slog.Logger {
	switch {
	case f.devLog:
		return log.Dev
	case f.verbose:
		return log.Def
	default:
		return log.New(slog.LevelWarn, false)
	}
}

// NewRootCmd creates the httphdr command tree writing to out and errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:     "httphdr",
		Short:   "Parse, validate and fetch HTTP headers",
		Version: version,
		Long: `httphdr parses HTTP header blocks and single header values with the typed
grammar of the known headers, prints them in canonical form and fetches
response headers of a URL.`,
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug messages to stderr")
	pf.BoolVar(&flags.devLog, "dev-log", false, "Use the developer log format")
	pf.StringVarP(&flags.config, "config", "c", "", "YAML config file")

	cmd.AddCommand(
		newParseCmd(&flags),
		newValueCmd(&flags),
		newGetCmd(&flags),
		newKnownCmd(&flags),
		newLookupCmd(&flags),
	)
	return cmd
}
