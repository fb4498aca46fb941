package commands

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// NewCaptureCommand creates the capture command: raw text in, categorized
// thoughts out.
func NewCaptureCommand() *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Aliases:   []string{"add"},
		Usage:     "Capture raw text as categorized thoughts",
		ArgsUsage: "[text]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				fmt.Println("❌ Text is required")
				fmt.Println("💡 Use 'braindump capture \"everything on my mind right now\"'")
				return nil
			}
			content := strings.Join(c.Args().Slice(), " ")

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if err := rt.requireAI(); err != nil {
				return err
			}

			thoughts, err := rt.capture.Process(c.Context, rt.userID, content)
			if err != nil {
				return err
			}

			fmt.Printf("🧠 Captured %d thought%s\n", len(thoughts), plural(len(thoughts)))
			for _, t := range thoughts {
				names := make([]string, 0, len(t.Categories))
				for _, cat := range t.Categories {
					names = append(names, cat.Name)
				}
				fmt.Printf("  • %s  [%s]\n", truncateString(t.Title, 60), strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
