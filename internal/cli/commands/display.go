package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backpackerjohn/braindump/internal/models"
	"github.com/backpackerjohn/braindump/internal/organizer"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

func renderThoughtList(thoughts []models.Thought, status models.ThoughtStatus) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("🧠 %s thoughts (%d)", status, len(thoughts))))
	b.WriteString("\n")

	for _, t := range thoughts {
		mark := "○"
		if t.IsCompleted {
			mark = doneStyle.Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", mark, dimStyle.Render(t.ID.String()[:8]), truncateString(t.Title, 70)))
		if len(t.Categories) > 0 {
			names := make([]string, 0, len(t.Categories))
			for _, cat := range t.Categories {
				names = append(names, cat.Name)
			}
			b.WriteString("    " + categoryStyle.Render(strings.Join(names, ", ")) + "\n")
		}
	}
	return b.String()
}

func renderClusterLine(cluster models.Cluster, completion organizer.Completion) string {
	origin := "auto"
	if cluster.IsManual {
		origin = "manual"
	}
	progress := fmt.Sprintf("%d/%d", completion.Completed, completion.Total)
	if completion.IsFullyCompleted {
		progress = doneStyle.Render(progress + " ✓")
	}
	return fmt.Sprintf("%s %s %s %s",
		dimStyle.Render(cluster.ID.String()[:8]),
		headerStyle.Render(cluster.Name),
		dimStyle.Render("("+origin+")"),
		progress)
}
