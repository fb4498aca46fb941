package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/backpackerjohn/braindump/internal/models"
)

// NewThoughtCommand creates the thought command with all subcommands.
func NewThoughtCommand() *cli.Command {
	return &cli.Command{
		Name:    "thought",
		Aliases: []string{"thoughts"},
		Usage:   "List and manage captured thoughts",
		Subcommands: []*cli.Command{
			thoughtListCmd(),
			thoughtDoneCmd(),
			thoughtUndoneCmd(),
			thoughtArchiveCmd(),
			thoughtRestoreCmd(),
			thoughtTagCmd(),
			thoughtUntagCmd(),
			thoughtSuggestCmd(),
		},
		Action: func(c *cli.Context) error {
			return listThoughts(models.ThoughtStatusActive)
		},
	}
}

func thoughtListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List thoughts",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "archived",
				Aliases: []string{"a"},
				Usage:   "Show archived thoughts instead of active ones",
			},
		},
		Action: func(c *cli.Context) error {
			status := models.ThoughtStatusActive
			if c.Bool("archived") {
				status = models.ThoughtStatusArchived
			}
			return listThoughts(status)
		},
	}
}

func thoughtDoneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a thought as completed",
		ArgsUsage: "[thought-id]",
		Action: func(c *cli.Context) error {
			return setCompleted(c, true)
		},
	}
}

func thoughtUndoneCmd() *cli.Command {
	return &cli.Command{
		Name:      "undone",
		Usage:     "Mark a thought as not completed",
		ArgsUsage: "[thought-id]",
		Action: func(c *cli.Context) error {
			return setCompleted(c, false)
		},
	}
}

func thoughtArchiveCmd() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Archive a thought",
		ArgsUsage: "[thought-id]",
		Action: func(c *cli.Context) error {
			return setStatus(c, models.ThoughtStatusArchived, "🗄️  Thought archived")
		},
	}
}

func thoughtRestoreCmd() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore an archived thought",
		ArgsUsage: "[thought-id]",
		Action: func(c *cli.Context) error {
			return setStatus(c, models.ThoughtStatusActive, "♻️  Thought restored")
		},
	}
}

func thoughtTagCmd() *cli.Command {
	return &cli.Command{
		Name:      "tag",
		Usage:     "Add a category to a thought",
		ArgsUsage: "[thought-id] [category-name]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("thought ID and category name are required")
			}
			id, rt, err := thoughtArg(c)
			if err != nil {
				return err
			}

			category, err := rt.capture.AddCategory(rt.userID, id, strings.Join(c.Args().Slice()[1:], " "))
			if err != nil {
				return err
			}

			fmt.Printf("🏷️  Thought %s tagged with %s\n", shortID(id), category.Name)
			return nil
		},
	}
}

func thoughtUntagCmd() *cli.Command {
	return &cli.Command{
		Name:      "untag",
		Usage:     "Remove a category from a thought",
		ArgsUsage: "[thought-id] [category-name]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("thought ID and category name are required")
			}
			id, rt, err := thoughtArg(c)
			if err != nil {
				return err
			}

			name := strings.Join(c.Args().Slice()[1:], " ")
			category, err := rt.store.FindCategoryByName(rt.userID, name)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("category '%s' not found", name)
			}

			if err := rt.capture.RemoveCategory(rt.userID, id, category.ID); err != nil {
				return err
			}

			fmt.Printf("✂️  Removed %s from thought %s\n", category.Name, shortID(id))
			return nil
		},
	}
}

func thoughtSuggestCmd() *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest categories for a thought",
		ArgsUsage: "[thought-id]",
		Action: func(c *cli.Context) error {
			id, rt, err := thoughtArg(c)
			if err != nil {
				return err
			}
			if err := rt.requireAI(); err != nil {
				return err
			}

			suggestions, err := rt.capture.SuggestCategories(c.Context, rt.userID, id)
			if err != nil {
				return err
			}

			if len(suggestions) == 0 {
				fmt.Println("💭 No new category suggestions for this thought")
				return nil
			}
			fmt.Println("💡 Suggested categories:")
			for _, name := range suggestions {
				fmt.Printf("  • %s\n", name)
			}
			fmt.Println("🏷️  Apply one with 'braindump thought tag <id> <name>'")
			return nil
		},
	}
}

func listThoughts(status models.ThoughtStatus) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	thoughts, err := rt.store.ListThoughts(rt.userID, status)
	if err != nil {
		return err
	}

	if len(thoughts) == 0 {
		fmt.Printf("🧠 No %s thoughts found.\n", status)
		if status == models.ThoughtStatusActive {
			fmt.Println("💡 Capture some with 'braindump capture <text>'")
		}
		return nil
	}

	fmt.Println(renderThoughtList(thoughts, status))
	return nil
}

func setCompleted(c *cli.Context, completed bool) error {
	id, rt, err := thoughtArg(c)
	if err != nil {
		return err
	}
	if err := rt.store.SetThoughtCompleted(rt.userID, id, completed); err != nil {
		return err
	}
	if completed {
		fmt.Printf("✅ Thought %s marked as completed\n", shortID(id))
	} else {
		fmt.Printf("🔄 Thought %s marked as not completed\n", shortID(id))
	}
	return nil
}

func setStatus(c *cli.Context, status models.ThoughtStatus, okMsg string) error {
	id, rt, err := thoughtArg(c)
	if err != nil {
		return err
	}
	if err := rt.store.UpdateThoughtStatus(rt.userID, id, status); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", okMsg, shortID(id))
	return nil
}

// thoughtArg resolves the first positional argument to a thought id,
// accepting an id prefix of at least 4 characters.
func thoughtArg(c *cli.Context) (uuid.UUID, *runtime, error) {
	if c.NArg() == 0 {
		return uuid.Nil, nil, fmt.Errorf("thought ID is required")
	}
	rt, err := newRuntime()
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, err := resolveThoughtID(rt, c.Args().First())
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, rt, nil
}

func resolveThoughtID(rt *runtime, prefix string) (uuid.UUID, error) {
	if id, err := uuid.Parse(prefix); err == nil {
		return id, nil
	}
	for _, status := range []models.ThoughtStatus{models.ThoughtStatusActive, models.ThoughtStatusArchived} {
		thoughts, err := rt.store.ListThoughts(rt.userID, status)
		if err != nil {
			return uuid.Nil, err
		}
		for _, t := range thoughts {
			if len(prefix) >= 4 && strings.HasPrefix(t.ID.String(), prefix) {
				return t.ID, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("thought with ID '%s' not found", prefix)
}
