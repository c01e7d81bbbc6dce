package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/hmmpress/internal/daemon"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr    string `help:"Listen address; overrides server.addr"`
	Root    string `help:"Content directory; overrides content.root" type:"path"`
	NoWatch bool   `name:"no-watch" help:"Disable filesystem change watching"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Root != "" {
		cfg.Content.Root = s.Root
	}
	if s.NoWatch {
		cfg.Watch.Enabled = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			slog.Warn("Failed to close daemon", logfields.Error(err))
		}
	}()

	if err := d.Run(ctx); err != nil {
		return err
	}
	slog.Info("Daemon stopped")
	return nil
}
