package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Debug    bool             `help:"Enable debug logging"`
	Serve    ServeCmd         `cmd:"" help:"Run the table HTTP API"`
	Botsvc   BotsvcCmd        `cmd:"" help:"Run the bot decision service"`
	Play     PlayCmd          `cmd:"" help:"Play a table interactively in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only hands and report the results"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdemtable"),
		kong.Description("Multi-seat Texas Hold'em table engine with heuristic bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
