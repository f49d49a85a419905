package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/message"
	"github.com/zostay/mimedit/message/view"
)

func (a *app) treeCmd() *cobra.Command {
	var hideInline bool

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Show the parts of a message as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			v := view.New(d)
			v.SetHideInline(hideInline)
			return printTree(cmd.OutOrStdout(), d, v)
		},
	}

	cmd.Flags().BoolVar(&hideInline, "hide-inline", false, "leave out parts displayed inline")
	return cmd
}

func printTree(w io.Writer, d *message.Document, v *view.View) error {
	for _, e := range v.Entries() {
		n := d.Node(e.ID)

		path, err := d.Path(e.ID)
		if err != nil {
			return err
		}
		if path == "" {
			path = "."
		}

		var details []string
		if n.IsLeaf() {
			if cte := n.TransferEncoding(); cte != "" {
				details = append(details, cte)
			}
			if disp := n.Disposition(); disp != "" {
				details = append(details, disp)
			}
			if cid := n.ContentID(); cid != "" {
				details = append(details, "<"+cid+">")
			}
			details = append(details, fmt.Sprintf("%d bytes", n.Size()))
		}

		line := fmt.Sprintf("%s%-6s %s", strings.Repeat("  ", e.Depth), path, n.DisplayName())
		if len(details) > 0 {
			line += " (" + strings.Join(details, ", ") + ")"
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) headersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers <file> <part>",
		Short: "Print the header block of a part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			id, err := node(d, args[1])
			if err != nil {
				return err
			}

			_, err = d.Node(id).Header().WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func (a *app) catCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "cat <file> <part>",
		Short: "Print the decoded content of a part",
		Long: `Print the content of a leaf with its transfer encoding removed. Text is
converted to UTF-8 unless --raw is given, in which case the bytes are printed
in the part's own charset.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			id, err := node(d, args[1])
			if err != nil {
				return err
			}

			if raw {
				_, err = d.ExportContent(id, cmd.OutOrStdout())
				return err
			}

			text, err := d.Text(id)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the content in its own charset")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file> <part> <dest>",
		Short: "Write the decoded content of a part to a file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			id, err := node(d, args[1])
			if err != nil {
				return err
			}

			out, err := os.Create(args[2])
			if err != nil {
				return err
			}

			n, err := d.ExportContent(id, out)
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			a.logger.Info("exported part", "part", args[1], "path", args[2], "bytes", n)
			return nil
		},
	}
}
