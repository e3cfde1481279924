// Package sqlitestore implements the asynchronous indexed Persistence
// Adapter (spec §6.4b): one table per collection behind a single
// database/sql handle (modernc.org/sqlite, pure-Go, already in the
// teacher's go.mod for its own session storage — agent/session/sqlite.go).
// Writes are queued and applied off the caller's goroutine so a dispatcher
// hot path never blocks on disk I/O; reads are synchronous SQL queries.
// The open-or-migrate lifecycle runs CREATE TABLE IF NOT EXISTS plus a
// schema_meta version row, mirroring IndexedDB's open-or-upgrade contract
// from spec §6.4 without a real upgrade path (schemaVersion has never
// changed, so there is nothing yet to migrate between).
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dohr-michael/ozzie-core/internal/core"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
)

const schemaVersion = 1

// writeOp is one queued mutation, applied by Run in FIFO order.
type writeOp struct {
	exec func(*sql.DB) error
}

// Store is the SQLite-backed indexed persistence adapter.
type Store struct {
	db      *sql.DB
	writeCh chan writeOp
}

// Open opens (or creates) a SQLite database at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlitestore: %w", err)
	}
	s := &Store{db: db, writeCh: make(chan writeOp, 1024)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_meta (version INTEGER NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS actions (id TEXT PRIMARY KEY, data TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS agents (id TEXT PRIMARY KEY, data TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS queues (id TEXT PRIMARY KEY, data TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY, queue TEXT NOT NULL, status TEXT NOT NULL, data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_queue ON tasks(queue)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
		`CREATE TABLE IF NOT EXISTS undo_entries (id TEXT PRIMARY KEY, task_id TEXT NOT NULL, data TEXT NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_undo_task_id ON undo_entries(task_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate sqlitestore: %w", err)
		}
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM schema_meta`).Scan(&count); err != nil {
		return fmt.Errorf("migrate sqlitestore: read schema_meta: %w", err)
	}
	if count == 0 {
		if _, err := s.db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("migrate sqlitestore: seed schema_meta: %w", err)
		}
	}
	return nil
}

// enqueue submits a write for asynchronous application, dropping it with a
// logged warning if the queue is saturated rather than blocking the caller.
func (s *Store) enqueue(exec func(*sql.DB) error) {
	select {
	case s.writeCh <- writeOp{exec: exec}:
	default:
		corelog.For("sqlitestore").Warn("write queue full — dropping mutation")
	}
}

// Run drains the async write queue until ctx is cancelled, then closes the
// database handle after any in-flight writes finish.
func (s *Store) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.drain()
			s.db.Close()
			return
		case op := <-s.writeCh:
			s.apply(op)
		}
	}
}

// Sync blocks until every write enqueued before the call has been applied.
// Used by tests and by callers that need a barrier without tearing down Run.
func (s *Store) Sync() {
	done := make(chan struct{})
	s.enqueue(func(*sql.DB) error {
		close(done)
		return nil
	})
	<-done
}

func (s *Store) drain() {
	for {
		select {
		case op := <-s.writeCh:
			s.apply(op)
		default:
			return
		}
	}
}

func (s *Store) apply(op writeOp) {
	if err := op.exec(s.db); err != nil {
		corelog.For("sqlitestore").Error("async write failed", "error", err)
	}
}

func notFound(op string, err error) error {
	return core.New(op, core.KindNotFound, err)
}
