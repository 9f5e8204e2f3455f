package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pkalyta/taskquest/internal/config"
	"github.com/pkalyta/taskquest/internal/core"
	"github.com/pkalyta/taskquest/internal/logger"
	"github.com/pkalyta/taskquest/internal/scheduler"
	"github.com/pkalyta/taskquest/internal/storage"
	"github.com/pkalyta/taskquest/internal/update"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskquest: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.LogLevel)

	var store storage.Store
	if cfg.MemoryStore {
		store = storage.NewMemoryStore(log)
	} else {
		sqlite, err := storage.OpenSQLite(cfg.DBPath, log)
		if err != nil {
			log.Fatal("open database", "path", cfg.DBPath, "error", err)
		}
		defer sqlite.Close()
		store = sqlite
	}

	reminders := scheduler.NewEngine(cfg.SchedulerBuffer)
	reminders.Start()
	defer reminders.Stop()

	sink := &update.EventSink{}
	engine := core.New(store, reminders, log, sink.Events())
	if err := engine.Init(context.Background()); err != nil {
		log.Fatal("load document", "error", err)
	}
	engine.RescheduleAllReminders()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}

	program := tea.NewProgram(
		update.NewModel(engine, reminders, sink, notifier, cfg.DesktopNotifications),
		tea.WithReportFocus(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskquest failed: %v\n", err)
		os.Exit(1)
	}
}
