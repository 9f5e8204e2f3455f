package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pkalyta/taskquest/internal/logger"
	"github.com/pkalyta/taskquest/internal/model"
)

var ErrSaveRejected = errors.New("storage: save rejected")

// MemoryStore keeps the serialized document in process memory. It is used
// for ephemeral runs and in tests; it round-trips through JSON so it has the
// same serialization behavior as the durable store.
type MemoryStore struct {
	log      *logger.Logger
	payload  []byte
	FailSave bool
}

func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

func (s *MemoryStore) Load(_ context.Context) (model.Document, error) {
	if len(s.payload) == 0 {
		return model.EmptyDocument(), nil
	}
	var doc model.Document
	if err := json.Unmarshal(s.payload, &doc); err != nil {
		s.log.Warn("document payload is corrupt, reinitializing", "error", err)
		return model.EmptyDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

func (s *MemoryStore) Save(_ context.Context, doc model.Document) error {
	if s.FailSave {
		return ErrSaveRejected
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.payload = payload
	return nil
}

// Corrupt overwrites the stored payload with garbage, for recovery tests.
func (s *MemoryStore) Corrupt() {
	s.payload = []byte("{not json")
}
