package main

import (
	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config  string `short:"c" default:"fivedraw.hcl" help:"Path to HCL configuration file"`
	EnvFile string `name:"env-file" default:".env" help:"Dotenv file applied over the configuration"`
	NoColor bool   `name:"no-color" help:"Disable colour output"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play against the computer in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve a table to WebSocket clients"`
	Simulate SimulateCmd      `cmd:"" help:"Play computer policies against each other"`
	History  HistoryCmd       `cmd:"" help:"Print rounds from a hand history file"`
	Settings ConfigCmd        `cmd:"" name:"config" help:"Manage the configuration file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("fivedraw"),
		kong.Description("Five card draw against the computer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
