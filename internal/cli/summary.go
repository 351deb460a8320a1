package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"inspectme/internal/inspection"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// summary renders rooms with their element counts and the written files.
func summary(rec *inspection.Record, rows inspection.Export, files []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d rooms, %d elements", len(rows.RoomRows), len(rows.DescriptionRows))))
	b.WriteString("\n")
	for i, room := range rec.Rooms {
		floor := rows.RoomRows[i].Building
		if floor == "" {
			floor = "-"
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			labelStyle.Render(room.Name),
			mutedStyle.Render("("+floor+")"),
			fmt.Sprintf("%d elements", len(room.Elements)))
	}
	for _, f := range files {
		fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render("wrote"), f)
	}
	return b.String()
}
