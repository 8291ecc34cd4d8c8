package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"

	"github.com/ghettovoice/gohttp/internal/errorutil"
	"github.com/ghettovoice/gohttp/message"
)

const ErrInvalidHeaders errorutil.Error = "invalid headers"

const kindAny = "any"

func parseKindFlag(s string) (message.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(s), kindAny) {
		return message.KindRequest | message.KindResponse | message.KindContent, nil
	}
	k, ok := message.ParseKind(s)
	if !ok || k == message.KindNone {
		return message.KindNone, errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported header kind %q", s))
	}
	return k, nil
}

type parseFlags struct {
	kind   string
	strict bool
	output string
}

func newParseCmd(root *rootFlags) *cobra.Command {
	var flags parseFlags

	cmd := &cobra.Command{
		Use:   "parse [FILE]",
		Short: "Parse a header block and print it in canonical form",
		Long: `Parse reads "Name: value" lines from FILE or stdin. A leading request or
status line is kept, continuation lines starting with whitespace are folded
into the previous value. Known headers are validated with their typed parsers
in strict mode, otherwise they are stored as is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(flags.kind)
			if err != nil {
				return errtrace.Wrap(err)
			}
			format, err := parseFormat(flags.output)
			if err != nil {
				return errtrace.Wrap(err)
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errtrace.Wrap(err)
				}
				defer f.Close()
				in = f
			}

			rep, err := parseBlock(in, kind, flags.strict)
			if err != nil {
				return errtrace.Wrap(err)
			}
			if err := writeReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), rep, format, root.noColor); err != nil {
				return errtrace.Wrap(err)
			}
			if flags.strict && len(rep.Invalid) > 0 {
				return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidHeaders, "%d rejected", len(rep.Invalid)))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.kind, "kind", "k", kindAny, "Header kind: request, response, content, combined with '|', or any")
	f.BoolVarP(&flags.strict, "strict", "s", false, "Validate known header values and fail on invalid entries")
	f.StringVarP(&flags.output, "output", "o", string(FormatText), "Output format: text, json or yaml")
	return cmd
}

type headerLine struct {
	num         int
	text        string
	name, value string
}

// parseBlock reads a header block and adds its fields to a collection of the given kind.
func parseBlock(r io.Reader, kind message.Kind, strict bool) (*HeadersReport, error) {
	rep := new(HeadersReport)
	lines, err := scanLines(r, rep)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	h := message.NewHeaders(kind)
	for _, ln := range lines {
		if strict {
			if err := h.Add(ln.name, ln.value); err != nil {
				rep.Invalid = append(rep.Invalid, InvalidEntry{Line: ln.num, Text: ln.text, Error: err.Error()})
			}
			continue
		}
		if !h.TryAddWithoutValidation(ln.name, ln.value) {
			rep.Invalid = append(rep.Invalid, InvalidEntry{Line: ln.num, Text: ln.text, Error: "rejected"})
		}
	}
	rep.addAll(h)
	return rep, nil
}

func scanLines(r io.Reader, rep *HeadersReport) ([]headerLine, error) {
	var (
		lines []headerLine
		num   int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		num++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		if text[0] == ' ' || text[0] == '\t' {
			if len(lines) == 0 {
				rep.Invalid = append(rep.Invalid, InvalidEntry{Line: num, Text: text, Error: "continuation without header"})
				continue
			}
			last := &lines[len(lines)-1]
			last.value += " " + strings.TrimSpace(text)
			last.text += "\n" + text
			continue
		}

		if len(lines) == 0 && rep.Status == "" && isStartLine(text) {
			rep.Status = text
			continue
		}
		name, value, ok := strings.Cut(text, ":")
		if !ok {
			rep.Invalid = append(rep.Invalid, InvalidEntry{Line: num, Text: text, Error: "missing colon"})
			continue
		}
		lines = append(lines, headerLine{
			num:   num,
			text:  text,
			name:  name,
			value: strings.TrimSpace(value),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("read headers: %w", err))
	}
	return lines, nil
}

func isStartLine(s string) bool {
	if strings.HasPrefix(s, "HTTP/") {
		return true
	}
	parts := strings.Fields(s)
	return len(parts) == 3 && strings.HasPrefix(parts[2], "HTTP/")
}
