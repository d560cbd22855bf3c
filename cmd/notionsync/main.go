package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/notionsync/cmd/notionsync/commands"
)

var version = "dev" // overridden at build time via -ldflags

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("notionsync"),
		kong.Description("Sync a Notion database into a Jekyll site's page set"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&commands.Global{}))
}
