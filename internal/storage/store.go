package storage

import (
	"context"

	"github.com/pkalyta/taskquest/internal/model"
)

// Store persists the whole application document in a single slot. The
// document is the unit of atomicity: Save replaces the previous payload
// entirely. Load never fails on a malformed payload; corruption is logged
// and the canonical empty document is returned instead (accepted data loss).
// Save errors are a signal for the caller to decide on, not a panic path:
// the orchestrator keeps its in-memory state and retries on the next write.
type Store interface {
	Load(ctx context.Context) (model.Document, error)
	Save(ctx context.Context, doc model.Document) error
}
