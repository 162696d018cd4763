package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentgraph/agentgraph/graph/emit"
)

// CompiledGraph is an immutable, executable graph produced by
// Builder.Compile. It is safe for concurrent use across goroutines and
// across runs: all per-run state (the current node, iteration count,
// accumulated metrics) lives on the stack of the Invoke/Stream call, not on
// the CompiledGraph itself.
type CompiledGraph[S State] struct {
	nodes    map[string]NodeSpec[S]
	edges    map[string]edge[S]
	branches map[string]branchSpec[S]
	config   *engineConfig
}

// Nodes returns the name of every registered node.
func (g *CompiledGraph[S]) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	return names
}

// HasNode reports whether name was registered with the builder.
func (g *CompiledGraph[S]) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Invoke runs the graph to completion and returns the final state. If
// execution pauses on an interrupt, Invoke returns a KindUnexpectedInterrupt
// error rather than the checkpoint - callers that expect interrupts must use
// InvokeResumable instead.
func (g *CompiledGraph[S]) Invoke(ctx context.Context, initial S) (S, error) {
	return g.InvokeWithConfig(ctx, initial, NewExecutionConfig[S]())
}

// InvokeWithConfig is Invoke with an explicit ExecutionConfig (masking,
// overrides, iteration cap, metrics).
func (g *CompiledGraph[S]) InvokeWithConfig(ctx context.Context, initial S, cfg ExecutionConfig[S]) (S, error) {
	result, _, err := g.invokeWithMetrics(ctx, initial, cfg)
	if err != nil {
		var zero S
		return zero, err
	}
	if !result.Complete {
		var zero S
		return zero, newGraphError(KindUnexpectedInterrupt, result.Checkpoint.NextNode, "execution paused on an interrupt; use InvokeResumable", nil)
	}
	return result.State, nil
}

// InvokeWithMetrics runs the graph to completion and also returns the
// RunMetrics collected for the run (nil if cfg.CollectMetrics is false).
func (g *CompiledGraph[S]) InvokeWithMetrics(ctx context.Context, initial S, cfg ExecutionConfig[S]) (ExecutionResult[S], *RunMetrics, error) {
	return g.invokeWithMetrics(ctx, initial, cfg)
}

func (g *CompiledGraph[S]) invokeWithMetrics(ctx context.Context, initial S, cfg ExecutionConfig[S]) (ExecutionResult[S], *RunMetrics, error) {
	runID := newRunID()
	result, metrics, err := g.runWithCheckpoint(ctx, runID, cfg, initial, START, 0, nil)
	if err != nil {
		return ExecutionResult[S]{}, metrics, err
	}
	return result, metrics, nil
}

// Stream runs the graph to completion, invoking callback with the name of
// each executed node and the state produced, after every node body
// completes (masked skips do not trigger the callback).
func (g *CompiledGraph[S]) Stream(ctx context.Context, initial S, cfg ExecutionConfig[S], callback func(node string, state S)) (S, error) {
	result, _, err := g.runLoop(ctx, newRunID(), cfg, initial, START, 0, nil, nil, callback)
	if err != nil {
		var zero S
		return zero, err
	}
	if !result.Complete {
		var zero S
		return zero, newGraphError(KindUnexpectedInterrupt, result.Checkpoint.NextNode, "execution paused on an interrupt; use InvokeResumable", nil)
	}
	return result.State, nil
}

// InvokeResumable runs the graph until normal completion, a fatal error, or
// the first unresolved interrupt, whichever comes first.
func (g *CompiledGraph[S]) InvokeResumable(ctx context.Context, initial S, cfg ExecutionConfig[S]) (ExecutionResult[S], error) {
	result, _, err := g.runWithCheckpoint(ctx, newRunID(), cfg, initial, START, 0, nil)
	return result, err
}

// Resume re-enters the state machine at checkpoint.NextNode, first merging
// command's value into checkpoint.ResumeValues keyed by command's interrupt
// id (or the checkpoint's first pending interrupt, if command doesn't name
// one). It re-executes the interrupted node rather than skipping past it:
// the node body is responsible for noticing the resume value and producing
// a result instead of interrupting again.
func (g *CompiledGraph[S]) Resume(ctx context.Context, checkpoint Checkpoint[S], cfg ExecutionConfig[S], command ResumeCommand) (ExecutionResult[S], error) {
	resumeValues := make(map[string]any, len(checkpoint.ResumeValues)+1)
	for k, v := range checkpoint.ResumeValues {
		resumeValues[k] = v
	}

	interruptID := command.InterruptID
	if interruptID == "" && len(checkpoint.PendingInterrupts) > 0 {
		interruptID = checkpoint.PendingInterrupts[0].ID
	}
	if interruptID != "" {
		resumeValues[interruptID] = command.Value
	}

	result, _, err := g.runWithCheckpoint(ctx, newRunID(), cfg, checkpoint.State, checkpoint.NextNode, checkpoint.Iterations, resumeValues)
	return result, err
}

// runWithCheckpoint drives the step loop without a streaming callback,
// optionally collecting metrics per cfg.CollectMetrics.
func (g *CompiledGraph[S]) runWithCheckpoint(ctx context.Context, runID string, cfg ExecutionConfig[S], initial S, startNode string, startIterations int, resumeValues map[string]any) (ExecutionResult[S], *RunMetrics, error) {
	var builder *runMetricsBuilder
	if cfg.CollectMetrics {
		builder = newRunMetricsBuilder(runID, cfg.ConfigID)
	}
	return g.runLoop(ctx, runID, cfg, initial, startNode, startIterations, resumeValues, builder, nil)
}

// runLoop is the single step-loop implementation shared by every public
// entry point. It re-implements the original executor's run_with_checkpoint:
// resumeValues is non-nil only when resuming (or streaming/invoking with a
// pre-seeded map), builder is non-nil only when metrics collection is on,
// and callback is non-nil only for Stream.
func (g *CompiledGraph[S]) runLoop(
	ctx context.Context,
	runID string,
	cfg ExecutionConfig[S],
	initial S,
	startNode string,
	startIterations int,
	resumeValues map[string]any,
	builder *runMetricsBuilder,
	callback func(node string, state S),
) (ExecutionResult[S], *RunMetrics, error) {
	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = g.config.maxIterations
	}
	if resumeValues == nil {
		resumeValues = make(map[string]any)
	}

	state := initial
	var currentNode string
	if startNode == START {
		next, err := g.getNextNode(ctx, START, state)
		if err != nil {
			return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
		}
		currentNode = next
	} else {
		currentNode = startNode
	}
	iterations := startIterations

	for currentNode != END {
		if iterations >= maxIterations {
			err := newGraphError(KindMaxIterationsExceeded, currentNode, "run exceeded its iteration budget", nil)
			return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
		}
		iterations++

		if cfg.IsMasked(currentNode) {
			if builder != nil {
				builder.skipNode(currentNode)
			}
			g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "node_skipped"})
			next, err := g.getNextNode(ctx, currentNode, state)
			if err != nil {
				return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
			}
			currentNode = next
			continue
		}

		if override, ok := cfg.NodeOverrides[currentNode]; ok {
			newState, skip, err := g.applyOverride(ctx, cfg, override, state)
			if err != nil {
				return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
			}
			if skip {
				if builder != nil {
					builder.skipNode(currentNode)
				}
			} else {
				state = newState
				if callback != nil {
					callback(currentNode, state)
				}
			}
			next, err := g.getNextNode(ctx, currentNode, state)
			if err != nil {
				return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
			}
			currentNode = next
			continue
		}

		node, ok := g.nodes[currentNode]
		if !ok {
			err := newGraphError(KindNodeNotFound, currentNode, "node is referenced by an edge but was never registered", nil)
			return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
		}

		if builder != nil {
			builder.startNode(currentNode)
		}
		if g.config.prometheus != nil {
			g.config.prometheus.SetNodeInFlight(true)
		}
		nodeCtx, sink := withTokenSink(ctx)
		start := time.Now()
		g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "node_start"})
		newState, runErr := node.Node.Run(nodeCtx, state)
		latencyMS := time.Since(start).Milliseconds()
		if g.config.prometheus != nil {
			g.config.prometheus.SetNodeInFlight(false)
			g.config.prometheus.RecordStepLatency(currentNode, float64(latencyMS))
		}

		if runErr != nil {
			if interrupted, ok := asInterrupted(runErr); ok {
				hasResume := false
				for _, in := range interrupted.Interrupts {
					if _, ok := resumeValues[in.ID]; ok {
						hasResume = true
						break
					}
				}
				if hasResume {
					g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "interrupt_resumed"})
					if builder != nil {
						builder.endNode(sink.total())
					}
				} else {
					g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "interrupt"})
					if g.config.prometheus != nil {
						g.config.prometheus.IncrementInterrupts()
					}
					for i := range interrupted.Interrupts {
						interrupted.Interrupts[i].Node = currentNode
					}
					checkpoint := Checkpoint[S]{
						State:             state,
						NextNode:          currentNode,
						PendingInterrupts: interrupted.Interrupts,
						Iterations:        iterations,
						ResumeValues:      resumeValues,
					}
					return ExecutionResult[S]{
						Complete:   false,
						Checkpoint: checkpoint,
						Interrupts: interrupted.Interrupts,
					}, g.finishMetrics(builder, false), nil
				}
			} else {
				g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "error", Meta: map[string]interface{}{"error": runErr.Error()}})
				if g.config.prometheus != nil {
					g.config.prometheus.IncrementErrors(currentNode)
				}
				if builder != nil {
					builder.error(currentNode, runErr.Error())
				}
				wrapped := newGraphError(KindExecutionError, currentNode, runErr.Error(), runErr)
				return ExecutionResult[S]{}, g.finishMetrics(builder, false), wrapped
			}
		} else {
			state = newState
			if builder != nil {
				builder.endNode(sink.total())
			}
			if g.config.costTracker != nil {
				if model, in, out := sink.modelUsage(); model != "" {
					g.config.costTracker.RecordUsage(runID, model, in, out)
				}
			}
			g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "node_end", Meta: map[string]interface{}{"tokens": sink.total()}})
			if callback != nil {
				callback(currentNode, state)
			}
			if state.IsComplete() {
				return ExecutionResult[S]{Complete: true, State: state}, g.finishMetrics(builder, true), nil
			}
		}

		next, err := g.getNextNode(ctx, currentNode, state)
		if err != nil {
			return ExecutionResult[S]{}, g.finishMetrics(builder, false), err
		}
		g.config.emitter.Emit(emit.Event{RunID: runID, Step: iterations, NodeID: currentNode, Msg: "routing_decision", Meta: map[string]interface{}{"next": next}})
		currentNode = next
	}

	return ExecutionResult[S]{Complete: true, State: state}, g.finishMetrics(builder, true), nil
}

func (g *CompiledGraph[S]) finishMetrics(builder *runMetricsBuilder, success bool) *RunMetrics {
	if builder == nil {
		return nil
	}
	return builder.build(success)
}

// applyOverride executes a node override in place of the node's normal Run
// method. The bool return is true when the override is equivalent to a
// mask (no new state produced, no callback/metrics end-of-node recording).
func (g *CompiledGraph[S]) applyOverride(ctx context.Context, cfg ExecutionConfig[S], override Override[S], state S) (S, bool, error) {
	switch override.Kind {
	case OverrideSkip:
		return state, true, nil
	case OverrideMockOutput:
		return override.MockOutput, false, nil
	case OverrideMockFn:
		mock, ok := cfg.MockFns[override.MockFnName]
		if !ok {
			var zero S
			return zero, false, newGraphError(KindOther, override.MockFnName, "mock function not registered in ExecutionConfig.MockFns", nil)
		}
		newState, err := mock.Run(ctx, state)
		if err != nil {
			var zero S
			return zero, false, newGraphError(KindExecutionError, override.MockFnName, err.Error(), err)
		}
		return newState, false, nil
	default:
		return state, true, nil
	}
}

// getNextNode resolves the node to execute after current, given state.
// State's explicit hint takes priority over the edge table; IsComplete
// short-circuits straight to END even before the hint is consulted, since a
// node declaring itself complete should never be routed past.
func (g *CompiledGraph[S]) getNextNode(ctx context.Context, current string, state S) (string, error) {
	if state.IsComplete() {
		return END, nil
	}
	if hint, ok := state.NextHint(); ok && hint != "" {
		return hint, nil
	}

	e, ok := g.edges[current]
	if !ok {
		return END, nil
	}

	switch e.kind {
	case edgeDirect:
		return e.to, nil
	case edgeConditional:
		branch, ok := g.branches[e.branch]
		if !ok {
			return "", newGraphError(KindBranchError, current, "branch not found: "+e.branch, nil)
		}
		key, err := branch.fn(ctx, state)
		if err != nil {
			return "", newGraphError(KindBranchError, current, err.Error(), err)
		}
		return branch.resolve(key)
	default:
		return END, nil
	}
}

func newRunID() string {
	return uuid.NewString()
}
