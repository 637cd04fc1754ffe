// Package workflow implements the per-letter agent chain as a state graph:
// a dispatcher entry node selects the agent matching the letter's persisted
// status, enrichment agents (classify, prioritize) fill in drafted fields,
// the router advances the approval state machine, and the notifier delivers
// any message the router queued. Every node reads and writes the letter
// through the store; the state bag only carries the letter id, the dispatch
// decision, and the notification request.
package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// State bag keys shared between nodes.
const (
	KeyLetterID      = "letter_id"
	KeyNext          = "next"
	KeyNotify        = "notification_needed"
	KeyNotifyTarget  = "notification_target"
	KeyNotifyMessage = "notification_message"
)

// Dispatch decisions produced by the dispatcher node.
const (
	NextClassify   = "classify"
	NextPrioritize = "prioritize"
	NextRoute      = "route"
	NextEnd        = "end"
)

// Execute runs the agent chain for a single letter. The graph
// (dispatch → classify | prioritize → route → notify) is rebuilt per
// invocation; graph state is immutable and nothing is shared across letters.
func Execute(ctx context.Context, rt *Runtime, letterID uuid.UUID) error {
	graph, err := buildGraph(rt)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyLetterID, letterID)

	if _, err := graph.Execute(ctx, initialState); err != nil {
		return fmt.Errorf("execute graph: %w", err)
	}

	return nil
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("letterflow-route")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("dispatch", DispatchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("classify", ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("prioritize", PrioritizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("route", RouteNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("notify", NotifyNode(rt)); err != nil {
		return nil, err
	}

	// dispatch → classify | prioritize | route (by persisted status);
	// missing records skip straight to the exit node.
	if err := graph.AddEdge("dispatch", "classify", nextIs(NextClassify)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("dispatch", "prioritize", nextIs(NextPrioritize)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("dispatch", "route", nextIs(NextRoute)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("dispatch", "notify", nextIs(NextEnd)); err != nil {
		return nil, err
	}

	// classify terminates the cycle; the drafted record waits for clerk
	// review, so notify runs as a no-op exit.
	if err := graph.AddEdge("classify", "notify", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("prioritize", "route", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("route", "notify", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("dispatch"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("notify"); err != nil {
		return nil, err
	}

	return graph, nil
}

func nextIs(target string) func(s state.State) bool {
	return func(s state.State) bool {
		val, ok := s.Get(KeyNext)
		if !ok {
			return false
		}

		next, ok := val.(string)
		return ok && next == target
	}
}

func extractLetterID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyLetterID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s in state", ErrInvalidState, KeyLetterID)
	}

	letterID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s is not uuid.UUID", ErrInvalidState, KeyLetterID)
	}

	return letterID, nil
}
