package update

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/pkalyta/taskquest/internal/core"
	"github.com/pkalyta/taskquest/internal/model"
	"github.com/pkalyta/taskquest/internal/scheduler"
)

type Screen string

const (
	ScreenAuth   Screen = "Auth"
	ScreenTasks  Screen = "Tasks"
	ScreenStats  Screen = "Stats"
	ScreenBadges Screen = "Badges"
)

// Filter narrows the visible task list; it is presentation state only and
// never persisted.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

func (f Filter) next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

type AuthMode string

const (
	AuthModeLogin    AuthMode = "login"
	AuthModeRegister AuthMode = "register"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks   string
	Stats   string
	Badges  string
	Add     string
	Filter  string
	Palette string
	Help    string
	Quit    string
}

// EventSink collects the core's discrete events fired synchronously during an
// operation so the update loop can surface them afterwards.
type EventSink struct {
	lines []string
}

func (s *EventSink) Events() core.Events {
	return core.Events{
		TaskCompleted: func(t model.Task) {
			s.lines = append(s.lines, "Completed: "+t.Title)
		},
		BadgeEarned: func(b model.Badge) {
			s.lines = append(s.lines, "Badge earned! "+b.Icon+" "+b.Title)
		},
		DailyGoalAchieved: func(day string) {
			s.lines = append(s.lines, "Daily goal achieved for "+day+" 🎉")
		},
	}
}

func (s *EventSink) Drain() []string {
	out := s.lines
	s.lines = nil
	return out
}

type authForm struct {
	inputs []textinput.Model
	focus  int
}

type taskForm struct {
	inputs []textinput.Model
	focus  int
}

const (
	taskFieldTitle = iota
	taskFieldDate
	taskFieldStart
	taskFieldEnd
	taskFieldPriority
	taskFieldCount
)

type Model struct {
	core         *core.Engine
	reminders    *scheduler.Engine
	sink         *EventSink
	ctx          context.Context
	screen       Screen
	authMode     AuthMode
	auth         authForm
	form         taskForm
	formVisible  bool
	editing      string
	filter       Filter
	cursor       int
	palette      textinput.Model
	paletteOpen  bool
	helpVisible  bool
	status       StatusBar
	notification string
	notifier     DesktopNotifier
	desktop      bool
	keys         GlobalKeyMap
	quitting     bool
}

func NewModel(engine *core.Engine, reminders *scheduler.Engine, sink *EventSink, notifier DesktopNotifier, desktop bool) Model {
	if notifier == nil {
		notifier = NoopDesktopNotifier{}
	}
	m := Model{
		core:      engine,
		reminders: reminders,
		sink:      sink,
		ctx:       context.Background(),
		screen:    ScreenAuth,
		authMode:  AuthModeLogin,
		filter:    FilterAll,
		notifier:  notifier,
		desktop:   desktop,
		keys: GlobalKeyMap{
			Tasks:   "1",
			Stats:   "2",
			Badges:  "3",
			Add:     "a",
			Filter:  "f",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
	}
	m.auth = newAuthForm(m.authMode)
	m.form = newTaskForm()
	m.palette = textinput.New()
	m.palette.Placeholder = "add Buy milk | done <id> | show stats"
	m.palette.CharLimit = 120

	if _, ok := engine.CurrentUser(); ok {
		m.screen = ScreenTasks
	}
	return m
}

func newAuthForm(mode AuthMode) authForm {
	labels := []string{"username", "password"}
	if mode == AuthModeRegister {
		labels = append(labels, "display name")
	}
	form := authForm{inputs: make([]textinput.Model, len(labels))}
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 64
		if label == "password" {
			in.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			in.Focus()
		}
		form.inputs[i] = in
	}
	return form
}

func newTaskForm() taskForm {
	placeholders := []string{"title", "date (YYYY-MM-DD)", "start (HH:MM)", "end (HH:MM)", "priority (high/medium/low)"}
	form := taskForm{inputs: make([]textinput.Model, taskFieldCount)}
	for i, placeholder := range placeholders {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 120
		if i == taskFieldTitle {
			in.Focus()
		}
		form.inputs[i] = in
	}
	return form
}

func (f *taskForm) reset() {
	*f = newTaskForm()
}

func (f *taskForm) fill(t model.Task) {
	f.inputs[taskFieldTitle].SetValue(t.Title)
	f.inputs[taskFieldDate].SetValue(t.Date)
	f.inputs[taskFieldStart].SetValue(t.StartTime)
	f.inputs[taskFieldEnd].SetValue(t.EndTime)
	f.inputs[taskFieldPriority].SetValue(string(t.Priority))
}

func (f taskForm) values() TaskForm {
	return TaskForm{
		Title:     strings.TrimSpace(f.inputs[taskFieldTitle].Value()),
		Date:      strings.TrimSpace(f.inputs[taskFieldDate].Value()),
		StartTime: strings.TrimSpace(f.inputs[taskFieldStart].Value()),
		EndTime:   strings.TrimSpace(f.inputs[taskFieldEnd].Value()),
		Priority:  strings.TrimSpace(f.inputs[taskFieldPriority].Value()),
	}
}
