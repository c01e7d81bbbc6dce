package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/config"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing configuration file"`
	Output string `short:"o" help:"Directory to write hmmpress.yaml into instead of --config"`
	Sample bool   `help:"Create the content directory with a welcome post"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		if err := os.MkdirAll(i.Output, 0o755); err != nil {
			return ferrors.FileSystemError("failed to create output directory").
				WithCause(err).
				WithContext("path", i.Output).
				Build()
		}
		path = filepath.Join(i.Output, config.DefaultPath)
	}

	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	slog.Info("Configuration written", logfields.Path(path))

	if !i.Sample {
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	// A relative content root is taken relative to the new config file.
	dir := cfg.Content.Root
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(path), dir)
	}
	return writeWelcomePost(dir, cfg.Content.Extension, time.Now())
}

const welcomePost = `#[title:Welcome to hmmpress|timestamp:%d]
This post was created by hmmpress init. Edit or delete it.

#[header:Writing posts]
Every %s file under this directory becomes a page. Blank lines separate paragraphs.
`

// writeWelcomePost creates dir and a first post in it. An existing post is kept.
func writeWelcomePost(dir, ext string, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferrors.FileSystemError("failed to create content directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}

	path := filepath.Join(dir, "welcome"+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		slog.Info("Welcome post already exists", logfields.File(path))
		return nil
	}
	if err != nil {
		return ferrors.FileSystemError("failed to create welcome post").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	_, werr := fmt.Fprintf(f, welcomePost, now.UnixMilli(), ext)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return ferrors.FileSystemError("failed to write welcome post").
			WithCause(werr).
			WithContext("path", path).
			Build()
	}
	slog.Info("Welcome post written", logfields.File(path))
	return nil
}
