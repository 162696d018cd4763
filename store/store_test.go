package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agentgraph/agentgraph/graph"
	"github.com/agentgraph/agentgraph/store"
)

// fixtureState is the minimal graph.State used across store tests.
type fixtureState struct {
	Value    int    `json:"value"`
	Hint     string `json:"hint"`
	Complete bool   `json:"complete"`
}

func (f fixtureState) NextHint() (string, bool) {
	if f.Hint == "" {
		return "", false
	}
	return f.Hint, true
}

func (f fixtureState) IsComplete() bool { return f.Complete }

func testCtx() context.Context { return context.Background() }

func sampleCheckpoint() graph.Checkpoint[fixtureState] {
	return graph.Checkpoint[fixtureState]{
		State:      fixtureState{Value: 42, Hint: "resume_node"},
		NextNode:   "resume_node",
		Iterations: 3,
		PendingInterrupts: []graph.Interrupt{
			{ID: "int-1", Reason: "needs approval", Payload: map[string]any{"amount": 100.0}},
		},
		ResumeValues: map[string]any{},
	}
}

// exerciseCheckpointStore runs the same round-trip contract against any
// CheckpointStore implementation.
func exerciseCheckpointStore(t *testing.T, s store.CheckpointStore[fixtureState]) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.LoadCheckpoint(ctx, "missing-run"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LoadCheckpoint on empty store: got err %v, want ErrNotFound", err)
	}

	cp := sampleCheckpoint()
	if err := s.SaveCheckpoint(ctx, "run-1", cp); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	got, err := s.LoadCheckpoint(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got.State.Value != 42 || got.NextNode != "resume_node" || got.Iterations != 3 {
		t.Fatalf("LoadCheckpoint mismatch: got %+v", got)
	}
	if len(got.PendingInterrupts) != 1 || got.PendingInterrupts[0].ID != "int-1" {
		t.Fatalf("PendingInterrupts mismatch: got %+v", got.PendingInterrupts)
	}

	updated := cp
	updated.State.Value = 99
	updated.Iterations = 4
	if err := s.SaveCheckpoint(ctx, "run-1", updated); err != nil {
		t.Fatalf("SaveCheckpoint (overwrite): %v", err)
	}
	got, err = s.LoadCheckpoint(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadCheckpoint after overwrite: %v", err)
	}
	if got.State.Value != 99 || got.Iterations != 4 {
		t.Fatalf("overwrite did not take effect: got %+v", got)
	}

	if err := s.DeleteCheckpoint(ctx, "run-1"); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}
	if _, err := s.LoadCheckpoint(ctx, "run-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("LoadCheckpoint after delete: got err %v, want ErrNotFound", err)
	}

	if err := s.DeleteCheckpoint(ctx, "never-existed"); err != nil {
		t.Fatalf("DeleteCheckpoint on missing run should not error, got %v", err)
	}
}
