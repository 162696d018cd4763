package store_test

import (
	"path/filepath"
	"testing"

	"github.com/agentgraph/agentgraph/store"
)

func newTestSQLiteStore(t *testing.T) *store.SQLiteCheckpointStore[fixtureState] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkpoints.db")
	s, err := store.NewSQLiteCheckpointStore[fixtureState](path)
	if err != nil {
		t.Fatalf("NewSQLiteCheckpointStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteCheckpointStore(t *testing.T) {
	exerciseCheckpointStore(t, newTestSQLiteStore(t))
}

func TestSQLiteCheckpointStorePersistsAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoints.db")

	s1, err := store.NewSQLiteCheckpointStore[fixtureState](path)
	if err != nil {
		t.Fatalf("NewSQLiteCheckpointStore: %v", err)
	}
	if err := s1.SaveCheckpoint(testCtx(), "run-1", sampleCheckpoint()); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := store.NewSQLiteCheckpointStore[fixtureState](path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteCheckpointStore: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadCheckpoint(testCtx(), "run-1")
	if err != nil {
		t.Fatalf("LoadCheckpoint after reopen: %v", err)
	}
	if got.State.Value != 42 {
		t.Fatalf("checkpoint did not survive reconnect: got %+v", got)
	}
}
