package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/backpackerjohn/braindump/internal/models"
	"github.com/backpackerjohn/braindump/internal/organizer"
)

// NewOrganizeCommand creates the organize command: run the batch clustering
// pipeline over unclustered thoughts.
func NewOrganizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "organize",
		Usage: "Group unclustered thoughts into thematic clusters",
		Action: func(c *cli.Context) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			if err := rt.requireAI(); err != nil {
				return err
			}

			fmt.Println("🧠 Analyzing your thoughts...")
			report, err := rt.org.GenerateClusters(c.Context, rt.userID)
			if err != nil {
				return err
			}

			fmt.Println(report.Message)
			if len(report.Created) > 0 {
				fmt.Printf("📦 New clusters: %d, linked thoughts: %d\n", len(report.Created), report.LinkedThoughts)
			}
			return nil
		},
	}
}

// NewClusterCommand creates the cluster command with all subcommands.
func NewClusterCommand() *cli.Command {
	return &cli.Command{
		Name:    "cluster",
		Aliases: []string{"clusters"},
		Usage:   "Manage thought clusters",
		Subcommands: []*cli.Command{
			clusterListCmd(),
			clusterShowCmd(),
			clusterCreateCmd(),
			clusterRenameCmd(),
			clusterExtendCmd(),
			clusterArchiveCmd(),
			clusterDeleteCmd(),
			clusterAddCmd(),
			clusterRemoveCmd(),
		},
		Action: func(c *cli.Context) error {
			return listClusters()
		},
	}
}

func clusterListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List clusters with completion progress",
		Action: func(c *cli.Context) error {
			return listClusters()
		},
	}
}

func clusterShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a cluster and its member thoughts",
		ArgsUsage: "[cluster-id]",
		Action: func(c *cli.Context) error {
			id, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}

			cluster, err := rt.store.GetCluster(id)
			if err != nil {
				return err
			}
			members, err := rt.store.ClusterMembers(id)
			if err != nil {
				return err
			}

			fmt.Println(renderClusterLine(*cluster, organizer.ClusterCompletion(members)))
			for _, t := range members {
				mark := "○"
				if t.IsCompleted {
					mark = "✓"
				}
				fmt.Printf("  %s %s %s\n", mark, t.ID.String()[:8], truncateString(t.Title, 70))
			}
			return nil
		},
	}
}

func clusterCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Aliases:   []string{"new"},
		Usage:     "Create a manual cluster",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("cluster name is required")
			}
			rt, err := newRuntime()
			if err != nil {
				return err
			}

			cluster, err := rt.org.CreateManualCluster(rt.userID, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return err
			}

			fmt.Printf("📦 Cluster created: %s (%s)\n", cluster.Name, shortID(cluster.ID))
			return nil
		},
	}
}

func clusterRenameCmd() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a cluster",
		ArgsUsage: "[cluster-id] [new-name]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("cluster ID and new name are required")
			}
			id, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}

			cluster, err := rt.org.RenameCluster(rt.userID, id, strings.Join(c.Args().Slice()[1:], " "))
			if err != nil {
				return err
			}

			fmt.Printf("✏️  Cluster renamed to: %s\n", cluster.Name)
			return nil
		},
	}
}

func clusterExtendCmd() *cli.Command {
	return &cli.Command{
		Name:      "extend",
		Usage:     "Find and link unclustered thoughts matching the cluster's theme",
		ArgsUsage: "[cluster-id]",
		Action: func(c *cli.Context) error {
			id, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}
			if err := rt.requireAI(); err != nil {
				return err
			}

			report, err := rt.org.ExtendCluster(c.Context, rt.userID, id)
			if err != nil {
				return err
			}

			fmt.Println(report.Message)
			return nil
		},
	}
}

func clusterArchiveCmd() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Archive every thought in a cluster",
		ArgsUsage: "[cluster-id]",
		Action: func(c *cli.Context) error {
			id, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}

			archived, err := rt.org.ArchiveCluster(rt.userID, id)
			if err != nil {
				return err
			}

			fmt.Printf("🗄️  Archived %d thought%s\n", archived, plural(archived))
			return nil
		},
	}
}

func clusterDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a cluster, keeping its thoughts",
		ArgsUsage: "[cluster-id]",
		Action: func(c *cli.Context) error {
			id, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}

			if err := rt.org.DeleteCluster(rt.userID, id); err != nil {
				return err
			}

			fmt.Printf("🗑️  Cluster %s deleted (thoughts kept)\n", shortID(id))
			return nil
		},
	}
}

func clusterAddCmd() *cli.Command {
	return &cli.Command{
		Name:      "add-thought",
		Usage:     "Link a thought to a cluster",
		ArgsUsage: "[cluster-id] [thought-id]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("cluster ID and thought ID are required")
			}
			clusterID, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}
			thoughtID, err := resolveThoughtID(rt, c.Args().Get(1))
			if err != nil {
				return err
			}

			if err := rt.org.AddThoughtToCluster(rt.userID, thoughtID, clusterID); err != nil {
				return err
			}

			fmt.Printf("🔗 Thought %s added to cluster\n", shortID(thoughtID))
			return nil
		},
	}
}

func clusterRemoveCmd() *cli.Command {
	return &cli.Command{
		Name:      "remove-thought",
		Usage:     "Unlink a thought from a cluster",
		ArgsUsage: "[cluster-id] [thought-id]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("cluster ID and thought ID are required")
			}
			clusterID, rt, err := clusterArg(c, 0)
			if err != nil {
				return err
			}
			thoughtID, err := resolveThoughtID(rt, c.Args().Get(1))
			if err != nil {
				return err
			}

			if err := rt.org.RemoveThoughtFromCluster(rt.userID, thoughtID, clusterID); err != nil {
				return err
			}

			fmt.Printf("✂️  Thought %s removed from cluster\n", shortID(thoughtID))
			return nil
		},
	}
}

func listClusters() error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	clusters, err := rt.store.ListClusters(rt.userID)
	if err != nil {
		return err
	}

	if len(clusters) == 0 {
		fmt.Println("📦 No clusters yet.")
		fmt.Println("💡 Run 'braindump organize' once you have enough thoughts")
		return nil
	}

	for _, cluster := range clusters {
		members := make([]models.Thought, 0, len(cluster.Thoughts))
		for _, t := range cluster.Thoughts {
			members = append(members, *t)
		}
		fmt.Println(renderClusterLine(cluster, organizer.ClusterCompletion(members)))
	}
	return nil
}

// clusterArg resolves the positional argument at pos to a cluster id,
// accepting an id prefix of at least 4 characters.
func clusterArg(c *cli.Context, pos int) (uuid.UUID, *runtime, error) {
	if c.NArg() <= pos {
		return uuid.Nil, nil, fmt.Errorf("cluster ID is required")
	}
	rt, err := newRuntime()
	if err != nil {
		return uuid.Nil, nil, err
	}

	raw := c.Args().Get(pos)
	if id, err := uuid.Parse(raw); err == nil {
		return id, rt, nil
	}

	clusters, err := rt.store.ListClusters(rt.userID)
	if err != nil {
		return uuid.Nil, nil, err
	}
	for _, cluster := range clusters {
		if len(raw) >= 4 && strings.HasPrefix(cluster.ID.String(), raw) {
			return cluster.ID, rt, nil
		}
	}
	return uuid.Nil, nil, fmt.Errorf("cluster with ID '%s' not found", raw)
}
