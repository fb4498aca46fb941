package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/backpackerjohn/braindump/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "braindump",
		Usage:   "AI-powered thought capture and organization CLI",
		Version: Version,
		Commands: []*cli.Command{
			// Capture & organize
			commands.NewCaptureCommand(),
			commands.NewOrganizeCommand(),
			commands.NewConnectionsCommand(),

			// Browsing & lifecycle
			commands.NewThoughtCommand(),
			commands.NewClusterCommand(),

			// Servers
			commands.NewServeCommand(),
			commands.NewMcpCommand(),

			// Meta
			commands.NewSetupCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
