package update

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pkalyta/taskquest/internal/commands"
	"github.com/pkalyta/taskquest/internal/core"
	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/scheduler"
	"github.com/pkalyta/taskquest/internal/views"
)

type ReminderDueMsg struct {
	Reminder scheduler.Reminder
}

func waitForReminder(ch <-chan scheduler.Reminder) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Reminder: r}
	}
}

func (m Model) Init() tea.Cmd {
	if m.reminders == nil {
		return nil
	}
	return waitForReminder(m.reminders.C())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReminderDueMsg:
		m.handleReminder(msg.Reminder)
		return m, waitForReminder(m.reminders.C())

	case tea.FocusMsg:
		// Timers do not survive suspension; rebuild them from the ledger.
		m.core.RescheduleAllReminders()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleReminder(r scheduler.Reminder) {
	n := NotificationFor(r)
	m.status = StatusBar{Text: n.Body}
	if m.desktop && m.core.Settings().Notifications {
		if err := m.notifier.Send(n); err != nil {
			m.status = StatusBar{Text: "notification delivery failed: " + err.Error(), IsError: true}
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.paletteOpen {
		return m.handlePaletteKey(msg)
	}
	if m.formVisible {
		return m.handleFormKey(msg)
	}
	if m.screen == ScreenAuth {
		return m.handleAuthKey(msg)
	}

	switch msg.String() {
	case m.keys.Quit, "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case m.keys.Tasks:
		m.screen = ScreenTasks
	case m.keys.Stats:
		m.screen = ScreenStats
	case m.keys.Badges:
		m.screen = ScreenBadges
	case m.keys.Help:
		m.helpVisible = !m.helpVisible
	case m.keys.Palette:
		m.paletteOpen = true
		m.palette.SetValue("")
		m.palette.Focus()
	case m.keys.Add:
		if m.screen == ScreenTasks {
			m.formVisible = true
			m.editing = ""
			m.form.reset()
		}
	case "e":
		if m.screen == ScreenTasks {
			if tasks := m.visibleTasks(); m.cursor < len(tasks) {
				m.formVisible = true
				m.editing = tasks[m.cursor].ID
				m.form.reset()
				m.form.fill(tasks[m.cursor])
			}
		}
	case m.keys.Filter:
		if m.screen == ScreenTasks {
			m.filter = m.filter.next()
			m.cursor = 0
			m.status = StatusBar{Text: "Filter: " + string(m.filter)}
		}
	case "n":
		enabled := !m.core.Settings().Notifications
		m.core.SetNotifications(m.ctx, enabled)
		if enabled {
			m.status = StatusBar{Text: "Notifications on"}
		} else {
			m.status = StatusBar{Text: "Notifications off"}
		}
	case "t":
		theme := "dark"
		if m.core.Settings().Theme == "dark" {
			theme = "light"
		}
		m.core.SetTheme(m.ctx, theme)
		m.status = StatusBar{Text: "Theme: " + theme}
	case "j", "down":
		if n := len(m.visibleTasks()); n > 0 && m.cursor < n-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "c", "enter":
		if m.screen == ScreenTasks {
			m.completeAtCursor()
		}
	case "d":
		if m.screen == ScreenTasks {
			m.deleteAtCursor()
		}
	}
	return m, nil
}

func (m *Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return *m, tea.Quit
	case "ctrl+r":
		if m.authMode == AuthModeLogin {
			m.authMode = AuthModeRegister
		} else {
			m.authMode = AuthModeLogin
		}
		m.auth = newAuthForm(m.authMode)
		return *m, nil
	case "tab", "shift+tab":
		m.cycleAuthFocus(msg.String() == "tab")
		return *m, nil
	case "enter":
		m.submitAuth()
		return *m, nil
	}
	var cmd tea.Cmd
	m.auth.inputs[m.auth.focus], cmd = m.auth.inputs[m.auth.focus].Update(msg)
	return *m, cmd
}

func (m *Model) cycleAuthFocus(forward bool) {
	m.auth.inputs[m.auth.focus].Blur()
	n := len(m.auth.inputs)
	if forward {
		m.auth.focus = (m.auth.focus + 1) % n
	} else {
		m.auth.focus = (m.auth.focus + n - 1) % n
	}
	m.auth.inputs[m.auth.focus].Focus()
}

func (m *Model) submitAuth() {
	username := strings.TrimSpace(m.auth.inputs[0].Value())
	password := m.auth.inputs[1].Value()

	var err error
	if m.authMode == AuthModeRegister {
		display := strings.TrimSpace(m.auth.inputs[2].Value())
		_, err = m.core.Register(m.ctx, username, password, display)
	} else {
		_, err = m.core.Login(m.ctx, username, password)
	}
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.screen = ScreenTasks
	m.cursor = 0
	m.status = StatusBar{Text: "Welcome back!"}
	m.core.RescheduleAllReminders()
	m.drainEvents()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.formVisible = false
		m.editing = ""
		return *m, nil
	case "tab", "shift+tab":
		m.cycleFormFocus(msg.String() == "tab")
		return *m, nil
	case "enter":
		if m.form.focus < taskFieldCount-1 {
			m.cycleFormFocus(true)
			return *m, nil
		}
		m.submitForm()
		return *m, nil
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return *m, cmd
}

func (m *Model) cycleFormFocus(forward bool) {
	m.form.inputs[m.form.focus].Blur()
	if forward {
		m.form.focus = (m.form.focus + 1) % taskFieldCount
	} else {
		m.form.focus = (m.form.focus + taskFieldCount - 1) % taskFieldCount
	}
	m.form.inputs[m.form.focus].Focus()
}

func (m *Model) submitForm() {
	input, err := m.form.values().Validate()
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	if m.editing != "" {
		patch := core.TaskPatch{
			Title:     &input.Title,
			Priority:  &input.Priority,
			Date:      &input.Date,
			StartTime: &input.StartTime,
			EndTime:   &input.EndTime,
		}
		task, ok := m.core.UpdateTask(m.ctx, m.editing, patch)
		if !ok {
			m.status = StatusBar{Text: "task no longer exists", IsError: true}
			m.formVisible = false
			m.editing = ""
			return
		}
		m.formVisible = false
		m.editing = ""
		m.status = StatusBar{Text: fmt.Sprintf("Updated %q", task.Title)}
		m.drainEvents()
		return
	}
	task, err := m.core.AddTask(m.ctx, input)
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.formVisible = false
	m.status = StatusBar{Text: fmt.Sprintf("Added %q", task.Title)}
	m.drainEvents()
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.paletteOpen = false
		return *m, nil
	case "enter":
		m.paletteOpen = false
		m.executePalette(m.palette.Value())
		return *m, nil
	}
	var cmd tea.Cmd
	m.palette, cmd = m.palette.Update(msg)
	return *m, cmd
}

func (m *Model) executePalette(input string) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.status = StatusBar{Text: res.Message}
	m.drainEvents()
}

func (m *Model) paletteHandlers() commands.Handlers {
	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			today := time.Now().Format(model.DateLayout)
			task, err := m.core.AddTask(m.ctx, core.TaskInput{
				Title:     args.Title,
				Priority:  model.PriorityMedium,
				Date:      today,
				StartTime: "09:00",
				EndTime:   "17:00",
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("Added %q for today", task.Title)}, nil
		},
		Done: func(args commands.DoneArgs) (commands.Result, error) {
			task, ok := m.resolveTask(args.Target)
			if !ok {
				return commands.Result{}, fmt.Errorf("no task matches %q", args.Target)
			}
			if _, ok := m.core.CompleteTask(m.ctx, task.ID); !ok {
				return commands.Result{}, fmt.Errorf("task %s vanished", task.ID)
			}
			return commands.Result{Message: fmt.Sprintf("Completed %q", task.Title)}, nil
		},
		Delete: func(args commands.DeleteArgs) (commands.Result, error) {
			task, ok := m.resolveTask(args.Target)
			if !ok {
				return commands.Result{}, fmt.Errorf("no task matches %q", args.Target)
			}
			if !m.core.DeleteTask(m.ctx, task.ID) {
				return commands.Result{}, fmt.Errorf("task %s vanished", task.ID)
			}
			return commands.Result{Message: fmt.Sprintf("Deleted %q", task.Title)}, nil
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			switch args.Subject {
			case "tasks":
				m.screen = ScreenTasks
			case "stats":
				m.screen = ScreenStats
			case "badges":
				m.screen = ScreenBadges
			}
			return commands.Result{Message: "Showing " + args.Subject}, nil
		},
		Login: func(args commands.LoginArgs) (commands.Result, error) {
			user, err := m.core.Login(m.ctx, args.Username, args.Password)
			if err != nil {
				return commands.Result{}, err
			}
			m.screen = ScreenTasks
			m.core.RescheduleAllReminders()
			return commands.Result{Message: "Logged in as " + user.DisplayName}, nil
		},
		Register: func(args commands.RegisterArgs) (commands.Result, error) {
			user, err := m.core.Register(m.ctx, args.Username, args.Password, args.DisplayName)
			if err != nil {
				return commands.Result{}, err
			}
			m.screen = ScreenTasks
			return commands.Result{Message: "Welcome, " + user.DisplayName}, nil
		},
		Logout: func() (commands.Result, error) {
			m.core.Logout(m.ctx)
			m.screen = ScreenAuth
			m.authMode = AuthModeLogin
			m.auth = newAuthForm(m.authMode)
			return commands.Result{Message: "Logged out"}, nil
		},
	}
}

// visibleTasks applies the active filter to the session's task list. Cursor
// positions and palette list indices refer to this slice.
func (m Model) visibleTasks() []model.Task {
	tasks := m.core.ListTasks()
	if m.filter == FilterAll {
		return tasks
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed == (m.filter == FilterCompleted) {
			out = append(out, t)
		}
	}
	return out
}

// resolveTask accepts either a 1-based list position or an id prefix.
func (m *Model) resolveTask(target string) (model.Task, bool) {
	tasks := m.visibleTasks()
	if n, err := strconv.Atoi(target); err == nil {
		if n >= 1 && n <= len(tasks) {
			return tasks[n-1], true
		}
		return model.Task{}, false
	}
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, target) {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m *Model) completeAtCursor() {
	tasks := m.visibleTasks()
	if m.cursor >= len(tasks) {
		return
	}
	task := tasks[m.cursor]
	if _, ok := m.core.CompleteTask(m.ctx, task.ID); ok {
		m.status = StatusBar{Text: fmt.Sprintf("Completed %q", task.Title)}
		m.drainEvents()
	}
}

func (m *Model) deleteAtCursor() {
	tasks := m.visibleTasks()
	if m.cursor >= len(tasks) {
		return
	}
	task := tasks[m.cursor]
	if m.core.DeleteTask(m.ctx, task.ID) {
		if m.cursor > 0 {
			m.cursor--
		}
		m.status = StatusBar{Text: fmt.Sprintf("Deleted %q", task.Title)}
	}
}

func (m *Model) drainEvents() {
	if m.sink == nil {
		return
	}
	if lines := m.sink.Drain(); len(lines) > 0 {
		m.notification = strings.Join(lines, "  •  ")
	}
}

const helpMarkdown = "# Keys\n\n" +
	"- `1`/`2`/`3` switch between tasks, stats and badges\n" +
	"- `a` add a task, `e` edit, `c` complete, `d` delete, `j`/`k` move, `f` cycle filter\n" +
	"- `/` command palette: `add`, `done`, `delete`, `show`, `login`, `register`, `logout`\n" +
	"- `n` toggle notifications, `t` toggle theme\n" +
	"- `?` toggle this help, `q` quit\n"

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	header := "TaskQuest"
	if user, ok := m.core.CurrentUser(); ok {
		header = fmt.Sprintf("TaskQuest · %s", user.DisplayName)
	}

	left := m.leftPane()
	if m.helpVisible {
		left = views.RenderHelpPanel(views.HelpPanelData{
			CurrentScreen: string(m.screen),
			Markdown:      helpMarkdown,
		})
	}

	footer := "1 tasks · 2 stats · 3 badges · a add · f filter · / palette · ? help · q quit"
	if m.screen == ScreenAuth {
		footer = "enter submit · tab next field · ctrl+r switch login/register · ctrl+c quit"
	}
	if m.paletteOpen {
		footer = "> " + m.palette.View()
	}

	return views.RenderApp(views.AppData{
		Header:       header,
		LeftPane:     left,
		RightPane:    views.RenderStatsPanel(m.core.Stats()),
		StatusLine:   m.status.Text,
		StatusIsErr:  m.status.IsError,
		Footer:       footer,
		Notification: m.notification,
	})
}

func (m Model) leftPane() string {
	switch m.screen {
	case ScreenAuth:
		fields := make([]string, len(m.auth.inputs))
		for i, in := range m.auth.inputs {
			fields[i] = in.View()
		}
		errText := ""
		if m.status.IsError {
			errText = m.status.Text
		}
		return views.RenderAuthPanel(views.AuthPanelData{
			Mode:   string(m.authMode),
			Fields: fields,
			Error:  errText,
		})
	case ScreenStats:
		return views.RenderStatsPanel(m.core.Stats())
	case ScreenBadges:
		return views.RenderBadgeGallery(views.BadgeGalleryData{Badges: m.core.ListBadges()})
	default:
		if m.formVisible {
			title := "New task"
			if m.editing != "" {
				title = "Edit task"
			}
			fields := make([]string, taskFieldCount)
			for i, in := range m.form.inputs {
				fields[i] = in.View()
			}
			return title + "\n\n" + strings.Join(fields, "\n") + "\n\nenter on last field saves · esc cancels"
		}
		list := views.RenderTaskList(views.TaskListData{
			Tasks:  m.visibleTasks(),
			Cursor: m.cursor,
		})
		if m.filter != FilterAll {
			list = "Filter: " + string(m.filter) + "\n\n" + list
		}
		return list
	}
}
