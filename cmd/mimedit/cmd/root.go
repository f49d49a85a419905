// Package cmd implements the mimedit command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/internal/config"
	"github.com/zostay/mimedit/message"
)

// app holds what every command shares: flags, configuration, and the logger.
type app struct {
	configPath string
	output     string
	inPlace    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the mimedit command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mimedit",
		Short: "Inspect and edit MIME messages part by part",
		Long: `mimedit loads a MIME message, shows its parts as a tree, and edits
headers and content one part at a time. Parts are named by part paths: "" is
the whole message, "1" its first part, "2.1" the first part of the second.

Edits are written to the file named by --output, back to the input file with
--in-place, or to standard output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file (default $"+config.EnvFile+")")

	rootCmd.AddCommand(
		a.treeCmd(),
		a.headersCmd(),
		a.catCmd(),
		a.exportCmd(),
		a.addCmd(),
		a.importCmd(),
		a.setContentCmd(),
		a.editHeaderCmd(),
		a.rmCmd(),
		a.resolveCmd(),
		a.checkCmd(),
		a.roundtripCmd(),
		a.newCmd(),
	)

	return rootCmd
}

// Execute runs the mimedit command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration and installs the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = newLogger(stderr, cfg.Logging)
	message.LogWarning = func(format string, v ...any) {
		a.logger.Warn(fmt.Sprintf(format, v...))
	}

	return nil
}

// newLogger builds a slog logger writing text or JSON at the configured
// level.
func newLogger(w io.Writer, lc config.LoggingConfig) *slog.Logger {
	var logLevel slog.Level

	switch lc.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// addOutputFlags adds the flags of commands that change the message.
func (a *app) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.output, "output", "o", "", "write the edited message to this file")
	cmd.Flags().BoolVar(&a.inPlace, "in-place", false, "write the edited message back to the input file")
	cmd.MarkFlagsMutuallyExclusive("output", "in-place")
}
