// Package sqlunit implements the transactional unit of work over a
// SQLite database. Registered records and relationships are buffered in
// memory; CommitWork resolves identifiers and relationship fields,
// inserts everything inside one transaction, and publishes the assigned
// identifiers back onto the Record objects only after the transaction
// commits.
package sqlunit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/seedkit/internal/factory"
	"git.home.luguber.info/inful/seedkit/internal/schema"
)

// Store is a factory.UnitOfWork backed by SQLite.
// Use ":memory:" for an in-memory database, or a file path for
// persistent storage.
type Store struct {
	db *sql.DB
	mu sync.Mutex

	pendingNew  []*factory.Record
	pendingRels []pendingRel
}

type pendingRel struct {
	child  *factory.Record
	rel    schema.RelationKey
	parent *factory.Record
}

// Open opens the database and initializes the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		fields TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
	`
	_, err := s.db.Exec(schemaSQL)
	return err
}

// RegisterNew schedules a record for insertion at the next CommitWork.
func (s *Store) RegisterNew(rec *factory.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingNew = append(s.pendingNew, rec)
	return nil
}

// RegisterRelationship schedules the child's relation field to be
// resolved to the parent's identifier at commit time. The parent may be
// registered for insertion after this call; resolution happens once all
// identifiers are known.
func (s *Store) RegisterRelationship(child *factory.Record, rel schema.RelationKey, parent *factory.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingRels = append(s.pendingRels, pendingRel{child: child, rel: rel, parent: parent})
	return nil
}

// CommitWork inserts everything registered since the last commit inside
// one transaction. On success assigned identifiers and resolved
// relationship fields are published onto the Record objects. On failure
// the transaction is rolled back and no record is mutated. Buffers are
// drained either way; a retry goes through registration again.
func (s *Store) CommitWork(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pendingNew := s.pendingNew
	pendingRels := s.pendingRels
	s.pendingNew = nil
	s.pendingRels = nil

	if len(pendingNew) == 0 && len(pendingRels) == 0 {
		return nil
	}

	// Phase 1: stage identifiers for every new record. Nothing is
	// published to the records until the transaction commits.
	assigned := make(map[*factory.Record]string, len(pendingNew))
	for _, rec := range pendingNew {
		if id, ok := rec.ID().Get(); ok {
			assigned[rec] = id
			continue
		}
		assigned[rec] = uuid.NewString()
	}

	// Phase 2: resolve relationship fields against staged identifiers.
	resolved := make(map[*factory.Record]map[schema.FieldKey]string)
	for _, pr := range pendingRels {
		parentID, ok := assigned[pr.parent]
		if !ok {
			parentID, ok = pr.parent.ID().Get()
		}
		if !ok {
			return fmt.Errorf("relationship %s: parent %s record has no identifier and is not part of this commit", pr.rel, pr.parent.Kind())
		}
		if resolved[pr.child] == nil {
			resolved[pr.child] = make(map[schema.FieldKey]string)
		}
		resolved[pr.child][pr.rel.Field()] = parentID
	}

	// Phase 3: insert rows in registration order.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	now := time.Now().Unix()
	for _, rec := range pendingNew {
		fields := make(map[string]any, len(rec.Fields()))
		for k, v := range rec.Fields() {
			fields[string(k)] = v
		}
		for k, v := range resolved[rec] {
			fields[string(k)] = v
		}
		payload, err := json.Marshal(fields)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal fields for %s: %w", rec.Kind(), err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO records (id, kind, fields, created_at) VALUES (?, ?, ?, ?)",
			assigned[rec], rec.Kind().String(), string(payload), now,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s record: %w", rec.Kind(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	// Publish only after a durable commit.
	for _, rec := range pendingNew {
		if rec.ID().IsNone() {
			rec.AssignID(assigned[rec])
		}
	}
	for child, fields := range resolved {
		for k, v := range fields {
			child.SetField(k, v)
		}
	}
	return nil
}

// Count returns the number of records of the given kind, or of all
// kinds when kind is empty.
func (s *Store) Count(ctx context.Context, kind schema.EntityKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		n   int
		err error
	)
	if kind == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE kind = ?", kind.String()).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// FieldsOf loads the stored field values of a record by identifier.
func (s *Store) FieldsOf(ctx context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT fields FROM records WHERE id = ?", id).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", id, err)
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields of %s: %w", id, err)
	}
	return fields, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
