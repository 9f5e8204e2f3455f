package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pkalyta/taskquest/internal/logger"
	"github.com/pkalyta/taskquest/internal/model"
)

const documentSlot = "primary"

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteStore keeps the serialized document in a single row of a single
// table. The row upsert is one statement, so every save is atomic.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

func NewSQLiteStore(db *sql.DB, log *logger.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if log == nil {
		return nil, errors.New("storage: nil logger")
	}
	if err := MigrateUp(db); err != nil {
		return nil, fmt.Errorf("migrate document schema: %w", err)
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (model.Document, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM document WHERE slot = ?`, documentSlot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EmptyDocument(), nil
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("load document: %w", err)
	}

	var doc model.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		// Self-healing: a corrupt payload is dropped, not surfaced.
		s.log.Warn("document payload is corrupt, reinitializing", "error", err)
		return model.EmptyDocument(), nil
	}
	doc.Normalize()
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc model.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO document (slot, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		documentSlot, payload, time.Now().UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
