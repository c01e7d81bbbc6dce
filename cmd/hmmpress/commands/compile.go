package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/daemon"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
)

// CompileCmd implements the 'compile' command.
type CompileCmd struct {
	Root   string `help:"Content directory; overrides content.root" type:"path"`
	Strict bool   `help:"Exit non-zero when any document fails to compile"`
}

func (c *CompileCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if c.Root != "" {
		cfg.Content.Root = c.Root
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	batch := d.Compile(ctx)
	printBatch(os.Stdout, batch)
	return batchError(batch, c.Strict)
}

func printBatch(w io.Writer, b *build.Batch) {
	_, _ = fmt.Fprintf(w, "Compiled %d document(s), %d failed, %d pruned in %s\n",
		len(b.Succeeded()), len(b.Failed()), len(b.Pruned), b.Duration.Round(time.Millisecond))
	for _, res := range b.Failed() {
		_, _ = fmt.Fprintf(w, "  %s: %v\n", res.FileID, res.Err)
	}
}

// batchError turns a batch into the command's result. Per-file failures only
// fail the command in strict mode.
func batchError(b *build.Batch, strict bool) error {
	if b.Err != nil {
		return b.Err
	}
	failed := b.Failed()
	if strict && len(failed) > 0 {
		return ferrors.ParseError("some documents failed to compile").
			WithContext("failed", len(failed)).
			WithContext("run_id", b.RunID).
			WithCause(failed[0].Err).
			Build()
	}
	return nil
}
