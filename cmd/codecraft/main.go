package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/GriffinCanCode/CodeCraft/backend/internal/cli"
)

func main() {
	_ = godotenv.Load()

	command := new(cli.Command)
	ctx := kong.Parse(
		command,
		kong.Name("codecraft"),
		kong.Description("CodeCraft workspace tools"),
		kong.UsageOnError(),
	)
	app, err := command.App()
	ctx.FatalIfErrorf(err)
	defer app.Logger.Sync()

	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}
