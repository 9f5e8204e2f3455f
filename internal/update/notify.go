package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkalyta/taskquest/internal/scheduler"
)

// Notification is the user-visible reminder payload. Tag dedupes delivery
// per (task, reminder kind).
type Notification struct {
	Title string
	Body  string
	Icon  string
	Tag   string
}

// NotificationFor renders a reminder into its alert payload.
func NotificationFor(r scheduler.Reminder) Notification {
	body := ""
	switch r.Kind {
	case scheduler.KindOneHour:
		body = fmt.Sprintf("%q starts in 1 hour", r.TaskTitle)
	case scheduler.KindFiveMinute:
		body = fmt.Sprintf("%q starts in 5 minutes", r.TaskTitle)
	default:
		body = fmt.Sprintf("%q starts now", r.TaskTitle)
	}
	return Notification{
		Title: "TaskQuest reminder",
		Body:  body,
		Icon:  "⏰",
		Tag:   r.Tag(),
	}
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
