package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/hmmpress/cmd/hmmpress/commands"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("hmmpress"),
		kong.Description("Compile .hmm documents and serve them as a reverse-chronological site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
