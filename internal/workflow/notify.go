package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/campusworks/letterflow/internal/letters"
)

// NotifyNode returns the graph exit node. When the router queued a
// notification it re-reads the letter (the router just mutated it) and
// delivers the message; delivery failures are logged and swallowed so the
// completed transition is never rolled back or retried for a mail problem.
func NotifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if !notificationQueued(s) {
			return s, nil
		}

		letterID, err := extractLetterID(s)
		if err != nil {
			return s, fmt.Errorf("notify: %w", err)
		}

		letter, err := rt.Letters.Find(ctx, letterID)
		if err != nil {
			if errors.Is(err, letters.ErrNotFound) {
				rt.Logger.WarnContext(ctx, "letter vanished before notification", "letter_id", letterID)
				return s, nil
			}
			return s, fmt.Errorf("notify: %w", err)
		}

		target := rt.Mail.AdminAddress()
		if val, ok := s.Get(KeyNotifyTarget); ok {
			if addr, ok := val.(string); ok && addr != "" {
				target = addr
			}
		}

		if val, ok := s.Get(KeyNotifyMessage); ok {
			if msg, ok := val.(string); ok {
				rt.Logger.InfoContext(ctx, "delivering notification",
					"letter_id", letterID,
					"target", target,
					"message", msg,
				)
			}
		}

		if err := rt.Mail.Send(ctx, target, letter); err != nil {
			rt.Logger.WarnContext(ctx, "notification delivery failed",
				"letter_id", letterID,
				"target", target,
				"error", err,
			)
		}

		return s, nil
	})
}

func notificationQueued(s state.State) bool {
	val, ok := s.Get(KeyNotify)
	if !ok {
		return false
	}

	queued, ok := val.(bool)
	return ok && queued
}
