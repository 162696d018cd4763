package store

import (
	"context"
	"sync"

	"github.com/agentgraph/agentgraph/graph"
)

// MemoryCheckpointStore is an in-memory CheckpointStore, the default for
// tests and single-process hosts that don't need the checkpoint to survive
// a restart.
//
// It is the direct descendant of the teacher's MemStore, trimmed down to
// the one thing this engine's cooperative, single-checkpoint-per-run model
// actually needs: a map from run id to its most recent checkpoint.
type MemoryCheckpointStore[S graph.State] struct {
	mu          sync.RWMutex
	checkpoints map[string]graph.Checkpoint[S]
}

// NewMemoryCheckpointStore returns an empty store.
func NewMemoryCheckpointStore[S graph.State]() *MemoryCheckpointStore[S] {
	return &MemoryCheckpointStore[S]{
		checkpoints: make(map[string]graph.Checkpoint[S]),
	}
}

// SaveCheckpoint implements CheckpointStore.
func (m *MemoryCheckpointStore[S]) SaveCheckpoint(_ context.Context, runID string, cp graph.Checkpoint[S]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[runID] = cp
	return nil
}

// LoadCheckpoint implements CheckpointStore.
func (m *MemoryCheckpointStore[S]) LoadCheckpoint(_ context.Context, runID string) (graph.Checkpoint[S], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, ok := m.checkpoints[runID]
	if !ok {
		var zero graph.Checkpoint[S]
		return zero, ErrNotFound
	}
	return cp, nil
}

// DeleteCheckpoint implements CheckpointStore.
func (m *MemoryCheckpointStore[S]) DeleteCheckpoint(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checkpoints, runID)
	return nil
}

// Len reports how many runs currently have a stored checkpoint. Mostly
// useful in tests asserting that Delete actually removed an entry.
func (m *MemoryCheckpointStore[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.checkpoints)
}
