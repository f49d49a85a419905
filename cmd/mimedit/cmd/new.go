package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/message"
)

func (a *app) newCmd() *cobra.Command {
	var (
		email   bool
		from    string
		to      string
		subject string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new message",
		Long: `Create a new message: a single empty text/plain part, or with --email a
multipart/mixed message with From, To, Subject, and Date headers around one
empty text/plain part.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.inPlace {
				return errors.New("--in-place needs an input file; use --output")
			}

			var d *message.Document
			if email {
				var err error
				d, err = message.NewEmail(from, to, subject, time.Now(), a.cfg.Options()...)
				if err != nil {
					return err
				}
			} else {
				d = message.New(a.cfg.Options()...)
			}
			defer func() { _ = d.Close() }()

			return a.save(cmd, d, "")
		},
	}

	cmd.Flags().BoolVar(&email, "email", false, "lay the message out as an email")
	cmd.Flags().StringVar(&from, "from", "", "From address for --email")
	cmd.Flags().StringVar(&to, "to", "", "To address for --email")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject for --email")
	cmd.MarkFlagsRequiredTogether("email", "from", "to")
	a.addOutputFlags(cmd)

	return cmd
}
