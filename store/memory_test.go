package store_test

import (
	"context"
	"testing"

	"github.com/agentgraph/agentgraph/store"
)

func TestMemoryCheckpointStore(t *testing.T) {
	s := store.NewMemoryCheckpointStore[fixtureState]()
	exerciseCheckpointStore(t, s)
}

func TestMemoryCheckpointStoreLen(t *testing.T) {
	s := store.NewMemoryCheckpointStore[fixtureState]()
	ctx := context.Background()

	if got := s.Len(); got != 0 {
		t.Fatalf("Len on empty store = %d, want 0", got)
	}

	if err := s.SaveCheckpoint(ctx, "run-a", sampleCheckpoint()); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	if err := s.SaveCheckpoint(ctx, "run-b", sampleCheckpoint()); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	if got := s.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}

	if err := s.DeleteCheckpoint(ctx, "run-a"); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len after delete = %d, want 1", got)
	}
}
