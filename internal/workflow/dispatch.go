package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/campusworks/letterflow/internal/letters"
)

// DispatchNode returns the graph entry node. It reads the letter's persisted
// status and records which agent runs next; a record that disappeared between
// the eligibility query and now ends the cycle without error.
func DispatchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		letterID, err := extractLetterID(s)
		if err != nil {
			return s, fmt.Errorf("dispatch: %w", err)
		}

		letter, err := rt.Letters.Find(ctx, letterID)
		if err != nil {
			if errors.Is(err, letters.ErrNotFound) {
				rt.Logger.WarnContext(ctx, "letter vanished before dispatch", "letter_id", letterID)
				return s.Set(KeyNext, NextEnd), nil
			}
			return s, fmt.Errorf("dispatch: %w", err)
		}

		next := NextRoute
		switch letter.Status {
		case letters.StatusMLOCR:
			next = NextClassify
		case letters.StatusSubmitted:
			next = NextPrioritize
		}

		rt.Logger.InfoContext(ctx, "dispatching letter",
			"letter_id", letterID,
			"status", letter.Status,
			"next", next,
		)

		return s.Set(KeyNext, next), nil
	})
}
