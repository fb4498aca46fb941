package commands

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// NewConnectionsCommand creates the connections command: surface surprising
// relationships between active, incomplete thoughts.
func NewConnectionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "connections",
		Usage: "Discover surprising connections between your thoughts",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if err := rt.requireAI(); err != nil {
				return err
			}

			fmt.Println("🔍 Looking for connections...")
			report, err := rt.org.FindConnections(c.Context, rt.userID)
			if err != nil {
				return err
			}

			if report.Message != "" {
				fmt.Println(report.Message)
			}
			for i, conn := range report.Connections {
				fmt.Printf("\n%d. %s ↔ %s\n", i+1,
					truncateString(conn.Thought1.Title, 40),
					truncateString(conn.Thought2.Title, 40))
				if len(conn.Thought1.Categories) > 0 || len(conn.Thought2.Categories) > 0 {
					fmt.Printf("   %s | %s\n",
						strings.Join(conn.Thought1.Categories, ", "),
						strings.Join(conn.Thought2.Categories, ", "))
				}
				fmt.Printf("   💡 %s\n", conn.Reason)
			}
			return nil
		},
	}
}
