package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/agentgraph/agentgraph/graph"
	_ "modernc.org/sqlite"
)

// SQLiteCheckpointStore is a SQLite-backed CheckpointStore, descended from
// the teacher's SQLiteStore but holding a single checkpoints table keyed by
// run id instead of the teacher's five-table schema - there is no step
// history, no v2 checkpoint/frontier surface, and no events outbox to
// persist once the concurrent scheduler they supported is gone.
//
// Good for development and single-process deployments that want the
// checkpoint to survive a process restart without standing up a database
// server.
type SQLiteCheckpointStore[S graph.State] struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// NewSQLiteCheckpointStore opens (and migrates) a SQLite database at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteCheckpointStore[S graph.State](path string) (*SQLiteCheckpointStore[S], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}

	ctx := context.Background()
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: set pragma %q: %w", p, err)
		}
	}

	s := &SQLiteCheckpointStore[S]{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteCheckpointStore[S]) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS checkpoints (
			run_id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: create checkpoints table: %w", err)
	}
	return nil
}

// SaveCheckpoint implements CheckpointStore.
func (s *SQLiteCheckpointStore[S]) SaveCheckpoint(ctx context.Context, runID string, cp graph.Checkpoint[S]) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("store: marshal checkpoint: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	const stmt = `
		INSERT INTO checkpoints (run_id, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(run_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, stmt, runID, string(data)); err != nil {
		return fmt.Errorf("store: save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint implements CheckpointStore.
func (s *SQLiteCheckpointStore[S]) LoadCheckpoint(ctx context.Context, runID string) (graph.Checkpoint[S], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	row := s.db.QueryRowContext(ctx, `SELECT data FROM checkpoints WHERE run_id = ?`, runID)
	if err := row.Scan(&data); err != nil {
		var zero graph.Checkpoint[S]
		if err == sql.ErrNoRows {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("store: load checkpoint: %w", err)
	}

	var cp graph.Checkpoint[S]
	if err := json.Unmarshal([]byte(data), &cp); err != nil {
		return cp, fmt.Errorf("store: unmarshal checkpoint: %w", err)
	}
	return cp, nil
}

// DeleteCheckpoint implements CheckpointStore.
func (s *SQLiteCheckpointStore[S]) DeleteCheckpoint(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("store: delete checkpoint: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteCheckpointStore[S]) Close() error {
	return s.db.Close()
}
