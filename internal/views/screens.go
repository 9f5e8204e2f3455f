package views

import (
	"fmt"
	"strings"

	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/stats"
)

type AuthPanelData struct {
	Mode   string
	Fields []string
	Error  string
}

func RenderAuthPanel(data AuthPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", strings.ToUpper(data.Mode))
	for _, field := range data.Fields {
		b.WriteString(field)
		b.WriteString("\n")
	}
	if data.Error != "" {
		fmt.Fprintf(&b, "\n! %s", data.Error)
	}
	return b.String()
}

type TaskListData struct {
	Tasks  []model.Task
	Cursor int
}

func RenderTaskList(data TaskListData) string {
	if len(data.Tasks) == 0 {
		return "No tasks yet. Press 'a' to add one."
	}
	var b strings.Builder
	for i, t := range data.Tasks {
		marker := "  "
		if i == data.Cursor {
			marker = "> "
		}
		check := "[ ]"
		line := fmt.Sprintf("%s %s  %s %s-%s  (%s)", check, t.Title, t.Date, t.StartTime, t.EndTime, t.Priority)
		if t.Completed {
			check = "[x]"
			line = doneStyle.Render(fmt.Sprintf("%s %s  %s", check, t.Title, t.Date))
		}
		b.WriteString(marker + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderStatsPanel(s stats.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "All tasks:   %d total, %d done, %d pending\n", s.Total, s.Completed, s.Pending)
	fmt.Fprintf(&b, "Today:       %d total, %d done, %d pending\n", s.Today.Total, s.Today.Completed, s.Today.Pending)
	fmt.Fprintf(&b, "By priority: %d high / %d medium / %d low", s.ByPriority.High, s.ByPriority.Medium, s.ByPriority.Low)
	return b.String()
}

type BadgeGalleryData struct {
	Badges []model.Badge
}

func RenderBadgeGallery(data BadgeGalleryData) string {
	if len(data.Badges) == 0 {
		return "No badges earned yet."
	}
	var b strings.Builder
	for _, badge := range data.Badges {
		fmt.Fprintf(&b, "%s %s · %s (%s)\n",
			badge.Icon, badge.Title, badge.Description, badge.EarnedAt.Format(model.DateLayout))
	}
	return strings.TrimRight(b.String(), "\n")
}

type HelpPanelData struct {
	CurrentScreen string
	Markdown      string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("Help · %s\n%s", data.CurrentScreen, RenderMarkdown(data.Markdown))
}
