package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/agentgraph/agentgraph/graph"
	_ "github.com/go-sql-driver/mysql"
)

// MySQLCheckpointStore is a MySQL/MariaDB-backed CheckpointStore, for
// deployments where several host processes share one checkpoint table -
// the same production motivation as the teacher's MySQLStore, narrowed to
// the single checkpoints table this engine needs.
type MySQLCheckpointStore[S graph.State] struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewMySQLCheckpointStore opens a connection pool against dsn and ensures
// the checkpoints table exists.
//
// dsn follows the go-sql-driver/mysql format, e.g.
// "user:password@tcp(localhost:3306)/dbname?parseTime=true".
func NewMySQLCheckpointStore[S graph.State](dsn string) (*MySQLCheckpointStore[S], error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping mysql: %w", err)
	}

	s := &MySQLCheckpointStore[S]{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLCheckpointStore[S]) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS checkpoints (
			run_id VARCHAR(255) NOT NULL PRIMARY KEY,
			data JSON NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: create checkpoints table: %w", err)
	}
	return nil
}

// SaveCheckpoint implements CheckpointStore.
func (s *MySQLCheckpointStore[S]) SaveCheckpoint(ctx context.Context, runID string, cp graph.Checkpoint[S]) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("store: marshal checkpoint: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	const stmt = `
		INSERT INTO checkpoints (run_id, data)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data)
	`
	if _, err := s.db.ExecContext(ctx, stmt, runID, string(data)); err != nil {
		return fmt.Errorf("store: save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint implements CheckpointStore.
func (s *MySQLCheckpointStore[S]) LoadCheckpoint(ctx context.Context, runID string) (graph.Checkpoint[S], error) {
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
func (s *MySQLCheckpointStore[S]) DeleteCheckpoint(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("store: delete checkpoint: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *MySQLCheckpointStore[S]) Close() error {
	return s.db.Close()
}
