package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkalyta/taskquest/internal/logger"
	"github.com/pkalyta/taskquest/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "taskquest.db"), logger.Discard())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadBeforeFirstSaveReturnsEmptyDocument(t *testing.T) {
	store := openTestStore(t)

	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Users) != 0 || len(doc.Tasks) != 0 || len(doc.Badges) != 0 {
		t.Fatalf("expected empty document, got %+v", doc)
	}
	if doc.CurrentUser != "" {
		t.Fatalf("expected no session, got %q", doc.CurrentUser)
	}
	if doc.Settings != model.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", doc.Settings)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	doc := model.EmptyDocument()
	doc.Users["ada"] = model.User{Username: "ada", DisplayName: "Ada", PasswordHash: "h", CreatedAt: now}
	doc.CurrentUser = "ada"
	doc.Tasks = append(doc.Tasks, model.Task{
		ID: "t1", Owner: "ada", Title: "Ship it", Priority: model.PriorityHigh,
		Date: "2026-08-25", StartTime: "09:00", EndTime: "10:00", CreatedAt: now,
	})
	doc.Badges = append(doc.Badges, model.Badge{
		Kind: model.BadgeFirstTask, Owner: "ada", Title: "First Task", EarnedAt: now,
	})

	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentUser != "ada" {
		t.Fatalf("current user = %q", got.CurrentUser)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].ID != "t1" || got.Tasks[0].Title != "Ship it" {
		t.Fatalf("unexpected tasks: %+v", got.Tasks)
	}
	if len(got.Badges) != 1 || got.Badges[0].Kind != model.BadgeFirstTask {
		t.Fatalf("unexpected badges: %+v", got.Badges)
	}
	if !got.Users["ada"].CreatedAt.Equal(now) {
		t.Fatalf("user created_at did not round-trip: %v", got.Users["ada"].CreatedAt)
	}
}

func TestSaveReplacesPreviousDocument(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := model.EmptyDocument()
	doc.CurrentUser = "ada"
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("first save: %v", err)
	}
	doc.CurrentUser = ""
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CurrentUser != "" {
		t.Fatalf("expected cleared session, got %q", got.CurrentUser)
	}
}

func TestLoadRecoversFromCorruptPayload(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := model.EmptyDocument()
	doc.CurrentUser = "ada"
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.db.Exec(
		`UPDATE document SET payload = ? WHERE slot = ?`, []byte("{broken"), documentSlot); err != nil {
		t.Fatalf("corrupt payload: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load after corruption: %v", err)
	}
	if got.CurrentUser != "" || len(got.Users) != 0 {
		t.Fatalf("expected canonical empty document, got %+v", got)
	}
}

func TestMemoryStoreRecoversFromCorruptPayload(t *testing.T) {
	store := NewMemoryStore(logger.Discard())
	ctx := context.Background()

	doc := model.EmptyDocument()
	doc.CurrentUser = "ada"
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Corrupt()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load after corruption: %v", err)
	}
	if got.CurrentUser != "" {
		t.Fatalf("expected empty document, got %+v", got)
	}
}
