package graph

import (
	"context"
	"fmt"
)

// BranchFunc inspects state and returns a routing key. When the branch was
// registered without a path map, the key returned IS the destination node
// name. When a path map is present, the key is looked up in it instead,
// letting a branch function return domain vocabulary ("approved",
// "needs_review") that maps onto node names defined elsewhere.
type BranchFunc[S State] func(ctx context.Context, state S) (string, error)

// BranchFuncSync adapts an infallible, context-free routing function to
// BranchFunc. It mirrors add_conditional_edges_sync from the Rust original:
// a convenience for the common case where routing can't itself fail.
func BranchFuncSync[S State](fn func(state S) string) BranchFunc[S] {
	return func(_ context.Context, state S) (string, error) {
		return fn(state), nil
	}
}

// branchSpec is the compiled form of a conditional edge: the function that
// produces a routing key, plus the optional map from key to destination
// node name.
type branchSpec[S State] struct {
	name    string
	fn      BranchFunc[S]
	pathMap map[string]string
}

// resolve turns a raw routing key into a destination node name. With no
// path map configured, the key is returned unchanged. With a path map, an
// unknown key is a BranchError - the function is free to return any key it
// likes, but every key it can return must have been mapped up front.
func (b branchSpec[S]) resolve(key string) (string, error) {
	if b.pathMap == nil {
		return key, nil
	}
	dest, ok := b.pathMap[key]
	if !ok {
		return "", newGraphError(KindBranchError, b.name, fmt.Sprintf("unknown branch result: %q", key), nil)
	}
	return dest, nil
}

// destinations returns every node name this branch can route to, used by
// Compile to validate that all targets exist. Branches without a path map
// can route to arbitrary strings at runtime, so validation is necessarily
// best-effort and only checks the declared destinations.
func (b branchSpec[S]) destinations() []string {
	if b.pathMap == nil {
		return nil
	}
	dests := make([]string, 0, len(b.pathMap))
	for _, d := range b.pathMap {
		dests = append(dests, d)
	}
	return dests
}
