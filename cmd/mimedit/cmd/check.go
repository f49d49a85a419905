package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/cidref"
)

// ErrCheckFailed is returned by check when it finds problems.
var ErrCheckFailed = errors.New("check failed")

// ErrRoundTrip is returned by roundtrip when the output differs from the
// input.
var ErrRoundTrip = errors.New("round trip changed the message")

func (a *app) resolveCmd() *cobra.Command {
	var dataURI bool

	cmd := &cobra.Command{
		Use:   "resolve <file> <content-id>",
		Short: "Print the content of the part with a Content-ID",
		Long: `Print the decoded content of the part declaring <content-id>, which may be
given bare, in angle brackets, or as a cid: URI. With --data-uri the content is
printed as a data: URI instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			if dataURI {
				uri, err := d.DataURI(args[1])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), uri)
				return err
			}

			content, mt, err := d.Resolve(args[1])
			if err != nil {
				return err
			}

			a.logger.Debug("resolved content ID", "cid", args[1], "type", mt, "bytes", len(content))
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}

	cmd.Flags().BoolVar(&dataURI, "data-uri", false, "print a data: URI")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Check a message for broken structure and dangling cid: references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			out := cmd.OutOrStdout()
			problems := 0

			if err := d.Check(); err != nil {
				problems++
				_, _ = fmt.Fprintln(out, err)
			}

			dangling, err := cidref.Dangling(d)
			if err != nil {
				return err
			}
			for _, ref := range dangling {
				problems++
				path, _ := d.Path(ref.Leaf)
				_, _ = fmt.Fprintf(out, "part %s: <%s %s=%q> names no part\n", path, ref.Tag, ref.Attr, ref.URI)
			}

			if problems > 0 {
				return fmt.Errorf("%w: %d problem(s)", ErrCheckFailed, problems)
			}

			_, err = fmt.Fprintln(out, "ok")
			return err
		},
	}
}

func (a *app) roundtripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <file>",
		Short: "Shows the diff of a single message round-trip",
		Long: `Parse the message and write it back out without changes. Prints "identical"
when the output matches the input byte for byte and a patch otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orig, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			d, err := message.Parse(bytes.NewReader(orig), a.cfg.Options()...)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			rt, err := d.Bytes()
			if err != nil {
				return err
			}

			return printDiff(cmd.OutOrStdout(), string(orig), string(rt))
		},
	}
}

func printDiff(w io.Writer, orig, rt string) error {
	if orig == rt {
		_, err := fmt.Fprintln(w, "identical")
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(orig, rt, false)
	patches := dmp.PatchMake(orig, diffs)
	if _, err := io.WriteString(w, dmp.PatchToText(patches)); err != nil {
		return err
	}

	return ErrRoundTrip
}
