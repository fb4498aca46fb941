package commands

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/backpackerjohn/braindump/internal/mcp"
)

func NewMcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "MCP (Model Context Protocol) server management",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start MCP server (stdio)",
				Action: func(c *cli.Context) error {
					rt, err := newRuntime()
					if err != nil {
						return err
					}
					deps := mcp.Deps{
						Organizer: rt.org,
						Store:     rt.store,
						UserID:    rt.userID,
					}
					// AI-backed tools report a setup hint instead of
					// panicking on a missing key.
					if rt.aiOK {
						deps.Capture = rt.capture
					}
					return mcp.ServeStdio(deps)
				},
			},
			{
				Name:  "config",
				Usage: "Print MCP config example for clients",
				Action: func(c *cli.Context) error {
					printMCPConfig()
					return nil
				},
			},
		},
	}
}

func printMCPConfig() {
	cfg := map[string]interface{}{
		"mcpServers": map[string]interface{}{
			"braindump": map[string]interface{}{
				"command": "braindump",
				"args":    []string{"mcp", "serve"},
			},
		},
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Println(string(b))
}
