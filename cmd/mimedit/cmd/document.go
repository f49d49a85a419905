package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zostay/mimedit/message"
)

// load parses the message in the named file.
func (a *app) load(path string) (*message.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	d, err := message.Parse(f, a.cfg.Options()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.logger.Debug("loaded message", "path", path, "nodes", d.Len())
	return d, nil
}

// node resolves a part path argument.
func node(d *message.Document, path string) (message.NodeID, error) {
	id, err := d.Lookup(path)
	if err != nil {
		return 0, fmt.Errorf("part %q: %w", path, err)
	}
	return id, nil
}

// edit loads the message in src, applies fn, and saves the result.
func (a *app) edit(cmd *cobra.Command, src string, fn func(d *message.Document) error) error {
	d, err := a.load(src)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	if err := fn(d); err != nil {
		return err
	}

	return a.save(cmd, d, src)
}

// save writes d to --output, back to src with --in-place, or else to
// standard output.
func (a *app) save(cmd *cobra.Command, d *message.Document, src string) error {
	dest := a.output
	if a.inPlace {
		dest = src
	}

	if dest == "" || dest == "-" {
		_, err := d.WriteTo(cmd.OutOrStdout())
		return err
	}

	if err := writeFile(dest, d); err != nil {
		return err
	}

	a.logger.Info("saved message", "path", dest)
	return nil
}

// writeFile writes d to a temporary file next to path and renames it over
// path, so a failed write leaves any existing file alone.
func writeFile(path string, d *message.Document) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if fi, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmp.Name(), fi.Mode().Perm())
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	return os.Rename(tmp.Name(), path)
}

// openInput opens a source file argument, where "-" is standard input.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}
