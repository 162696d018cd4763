package graph

import (
	"context"
	"sync"
)

// runContextKey is the context key the executor stashes a *tokenSink under
// for the duration of a single node's Run call.
type runContextKey struct{}

// tokenSink accumulates token counts reported by ReportTokens during one
// node invocation. The executor creates one per node call, reads it after
// Run returns, and discards it - nodes that never call ReportTokens cost
// nothing beyond the context value lookup. A node that wants its usage
// priced also reports which model it called, via ReportModelUsage.
type tokenSink struct {
	mu           sync.Mutex
	tokens       int
	model        string
	inputTokens  int
	outputTokens int
}

func (s *tokenSink) add(n int) {
	s.mu.Lock()
	s.tokens += n
	s.mu.Unlock()
}

func (s *tokenSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *tokenSink) recordModel(model string, inputTokens, outputTokens int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
	s.inputTokens += inputTokens
	s.outputTokens += outputTokens
	s.tokens += inputTokens + outputTokens
}

// modelUsage returns the model name last reported via ReportModelUsage and
// the input/output token counts summed over all such calls, or "" if the
// node never called it.
func (s *tokenSink) modelUsage() (model string, inputTokens, outputTokens int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, s.inputTokens, s.outputTokens
}

func withTokenSink(ctx context.Context) (context.Context, *tokenSink) {
	sink := &tokenSink{}
	return context.WithValue(ctx, runContextKey{}, sink), sink
}

// ReportTokens records n tokens as consumed by the node currently executing
// in ctx. Call it from inside a Node's Run method after a model call
// returns usage information. It is a no-op if ctx wasn't derived from a
// node invocation context (for example, in a test calling a node function
// directly with context.Background()).
//
// This is the side channel that resolves the token-accounting open
// question: Node.Run keeps its simple (S, error) signature, and nodes that
// want their token usage reflected in RunMetrics opt in by calling
// ReportTokens. CostTracker needs a model name, so it is fed only by
// ReportModelUsage.
func ReportTokens(ctx context.Context, n int) {
	if sink, ok := ctx.Value(runContextKey{}).(*tokenSink); ok {
		sink.add(n)
	}
}

// ReportModelUsage records both the token count (for RunMetrics, same as
// ReportTokens) and which model consumed them, split into prompt/completion
// tokens so a *CostTracker wired via WithCostTracker can price the call
// against defaultModelPricing. Call it once per model call from inside a
// Node's Run method instead of ReportTokens when cost accounting matters;
// calling both double-counts the run's token total.
func ReportModelUsage(ctx context.Context, model string, inputTokens, outputTokens int) {
	if sink, ok := ctx.Value(runContextKey{}).(*tokenSink); ok {
		sink.recordModel(model, inputTokens, outputTokens)
	}
}
