package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Run      RunCmd           `cmd:"" help:"Run a single game"`
	Simulate SimulateCmd      `cmd:"" help:"Run a batch of games with offline bots"`
	Problems ProblemsCmd      `cmd:"" help:"Inspect a problem pool file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("arena"),
		kong.Description("Social-deduction game engine for software teams with hidden saboteurs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
