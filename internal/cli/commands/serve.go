package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/backpackerjohn/braindump/api"
	"github.com/backpackerjohn/braindump/api/handlers"
)

// NewServeCommand starts the HTTP API server.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: func(c *cli.Context) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			port := rt.cfg.Server.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}

			h := handlers.New(rt.org, rt.capture, rt.store, rt.log)
			router := api.NewRouter(h)

			addr := fmt.Sprintf("%s:%d", rt.cfg.Server.Host, port)
			fmt.Printf("🚀 API server listening on %s\n", addr)
			return router.Run(addr)
		},
	}
}
