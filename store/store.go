// Package store persists graph.Checkpoint values so a host can resume an
// interrupted run after a process restart, not just within the same
// CompiledGraph.Resume call.
//
// This is a deliberately small surface compared to the teacher's Store[S]:
// there is no concurrent frontier here, so there is nothing for a
// transactional outbox or an idempotency-key table to protect. One run has
// at most one live checkpoint at a time, keyed by run id.
package store

import (
	"context"
	"errors"

	"github.com/agentgraph/agentgraph/graph"
)

// ErrNotFound is returned by LoadCheckpoint when no checkpoint is stored
// under the given run id.
var ErrNotFound = errors.New("store: checkpoint not found")

// CheckpointStore persists graph.Checkpoint[S] values keyed by run id.
//
// Implementations must be safe for concurrent use: a host may save a
// checkpoint for one run while loading another.
type CheckpointStore[S graph.State] interface {
	// SaveCheckpoint stores cp under runID, replacing any checkpoint
	// already stored for that run.
	SaveCheckpoint(ctx context.Context, runID string, cp graph.Checkpoint[S]) error

	// LoadCheckpoint retrieves the checkpoint stored under runID. It
	// returns ErrNotFound if none exists.
	LoadCheckpoint(ctx context.Context, runID string) (graph.Checkpoint[S], error)

	// DeleteCheckpoint removes the checkpoint stored under runID, if any.
	// Deleting a run with no stored checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, runID string) error
}
