package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/message"
)

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file> <part> <content-type>",
		Short: "Add an empty part",
		Long: `Add an empty part with the given Content-Type. When <part> is a multipart
container the new part becomes its last child; otherwise it becomes the last
sibling of <part>. Adding next to a single-part message first wraps it in a
multipart/mixed container.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(d *message.Document) error {
				target, err := node(d, args[1])
				if err != nil {
					return err
				}

				id, err := d.Insert(target, args[2])
				if err != nil {
					return err
				}

				a.logAdded(d, id)
				return nil
			})
		},
	}

	a.addOutputFlags(cmd)
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "import <file> <part> <src>",
		Short: "Attach a file as a new part",
		Long: `Attach the content of <src> as a new attachment part, placed the way add
places parts. The Content-Type is guessed from the file name unless --type
is given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(d *message.Document) error {
				target, err := node(d, args[1])
				if err != nil {
					return err
				}

				if mixed, ok := d.FindMixedAncestor(target); ok && d.Node(target).IsLeaf() {
					target = mixed
				}

				src, err := os.Open(args[2])
				if err != nil {
					return err
				}
				defer func() { _ = src.Close() }()

				id, err := d.ImportFile(target, filepath.Base(args[2]), contentType, src)
				if err != nil {
					return err
				}

				a.logAdded(d, id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&contentType, "type", "t", "", "Content-Type of the new part")
	a.addOutputFlags(cmd)
	return cmd
}

func (a *app) logAdded(d *message.Document, id message.NodeID) {
	path, _ := d.Path(id)
	a.logger.Info("added part", "part", path, "type", d.Node(id).MediaType())
}

func (a *app) setContentCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "set-content <file> <part> <src>",
		Short: "Replace the content of a part",
		Long: `Replace the content of a leaf with the content of <src>, or standard input
when <src> is "-". Text is read as UTF-8 and converted to the part's charset
unless --raw is given, in which case it must already be in that charset. The
content is stored with the part's transfer encoding.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(d *message.Document) error {
				id, err := node(d, args[1])
				if err != nil {
					return err
				}

				src, err := openInput(cmd, args[2])
				if err != nil {
					return err
				}
				defer func() { _ = src.Close() }()

				if raw {
					return d.ImportContent(id, src)
				}
				return d.ReplaceContentFrom(id, src)
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "the content is already in the part's charset")
	a.addOutputFlags(cmd)
	return cmd
}

func (a *app) editHeaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit-header <file> <part> <header-file>",
		Short: "Replace the header block of a part",
		Long: `Replace the header block of a part with the one in <header-file>, or
standard input when it is "-". A leaf must stay a leaf and a multipart part must
keep its boundary. When the Content-Transfer-Encoding changes, the content is
re-encoded.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(d *message.Document) error {
				id, err := node(d, args[1])
				if err != nil {
					return err
				}

				src, err := openInput(cmd, args[2])
				if err != nil {
					return err
				}
				defer func() { _ = src.Close() }()

				raw, err := io.ReadAll(src)
				if err != nil {
					return err
				}

				_, err = d.EditHeader(id, raw)
				return err
			})
		},
	}

	a.addOutputFlags(cmd)
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <file> <part>",
		Short: "Remove a part and everything in it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(d *message.Document) error {
				id, err := node(d, args[1])
				if err != nil {
					return err
				}
				return d.Remove(id)
			})
		},
	}

	a.addOutputFlags(cmd)
	return cmd
}
