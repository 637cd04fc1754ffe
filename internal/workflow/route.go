package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/campusworks/letterflow/internal/letters"
)

// rejectionKeyword triggers rejection when it appears anywhere in the
// current stage's remarks, case-insensitively. Substring semantics are
// deliberate and must not be hardened: "do not reject" also rejects.
const rejectionKeyword = "reject"

// RouteNode returns the state machine core. It inspects the letter's
// persisted status at invocation time, applies exactly one transition, and
// queues a notification in the state bag when the transition calls for one.
//
//	Prioritized          → Pending at Dean, fresh deadline, notify next stage
//	ActionTaken+reject   → Rejected, back to Clerk, notify submitter's clerk
//	ActionTaken+forward  → Pending at successor, fresh deadline, silent
//	ActionTaken+final    → Approved, deadline cleared, notify
//	ActionTaken+bad stage → ERROR, silent
//	Pending (elapsed)    → Overdue, notify current stage
//
// Any other status is left untouched; terminal statuses stay terminal.
func RouteNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		letterID, err := extractLetterID(s)
		if err != nil {
			return s, fmt.Errorf("route: %w", err)
		}

		letter, err := rt.Letters.Find(ctx, letterID)
		if err != nil {
			if errors.Is(err, letters.ErrNotFound) {
				rt.Logger.WarnContext(ctx, "letter vanished before routing", "letter_id", letterID)
				return s, nil
			}
			return s, fmt.Errorf("route: %w", err)
		}

		rt.Logger.InfoContext(ctx, "routing letter",
			"letter_id", letterID,
			"status", letter.Status,
			"stage", letter.Stage,
		)

		switch letter.Status {
		case letters.StatusPrioritized:
			return rt.routePrioritized(ctx, s, letter)
		case letters.StatusActionTaken:
			return rt.routeActionTaken(ctx, s, letter)
		case letters.StatusPending:
			return rt.routeOverdue(ctx, s, letter)
		}

		// Externally-owned or terminal status: nothing to transition.
		return s, nil
	})
}

// routePrioritized places a freshly prioritized letter in front of the first
// approver and starts the approval clock.
func (rt *Runtime) routePrioritized(ctx context.Context, s state.State, letter *letters.Letter) (state.State, error) {
	stage := letters.EntryStage()
	status := letters.StatusPending
	deadline := rt.now().Add(rt.ApprovalWindow)
	remarks := fmt.Sprintf("Pending approval at %s", stage)

	err := rt.Letters.Update(ctx, letter.ID, letters.Update{
		Stage:            &stage,
		Status:           &status,
		Remarks:          &remarks,
		ApprovalDeadline: &deadline,
	})
	if err != nil {
		return s, fmt.Errorf("route: %w: %w", ErrStoreUpdate, err)
	}

	return queueNotification(s,
		rt.Mail.StageAddress(stage),
		fmt.Sprintf("New Task: Letter %s requires your approval.", letter.ID),
	), nil
}

// routeActionTaken resolves an approver's decision: rejection sends the
// letter back to the clerk, otherwise it forwards along the pipeline chosen
// fresh from the letter's classification, approving at the final stage.
func (rt *Runtime) routeActionTaken(ctx context.Context, s state.State, letter *letters.Letter) (state.State, error) {
	if letter.Classification == "" {
		return s, setError(ctx, rt, letter.ID, "Classification missing; cannot derive approval pipeline.")
	}

	if rejected(letter) {
		return rt.reject(ctx, s, letter)
	}

	next, ok, err := letters.NextStage(letter.Classification, letter.Stage)
	if err != nil {
		remark := fmt.Sprintf("Invalid stage %q for this letter type.", letter.Stage)
		return s, setError(ctx, rt, letter.ID, remark)
	}

	if ok {
		return rt.forward(ctx, s, letter, next)
	}

	return rt.approve(ctx, s, letter)
}

func (rt *Runtime) reject(ctx context.Context, s state.State, letter *letters.Letter) (state.State, error) {
	stage := letters.StageClerk
	status := letters.StatusRejected
	remarks := fmt.Sprintf("Rejected by %s", letter.Stage)

	err := rt.Letters.Update(ctx, letter.ID, letters.Update{
		Stage:         &stage,
		Status:        &status,
		Remarks:       &remarks,
		ClearDeadline: true,
	})
	if err != nil {
		return s, fmt.Errorf("route: %w: %w", ErrStoreUpdate, err)
	}

	return queueNotification(s,
		rt.Mail.ClerkAddress(letter.Dept),
		fmt.Sprintf("Update: Letter %s was rejected by %s.", letter.ID, letter.Stage),
	), nil
}

func (rt *Runtime) forward(ctx context.Context, s state.State, letter *letters.Letter, next letters.Stage) (state.State, error) {
	status := letters.StatusPending
	deadline := rt.now().Add(rt.ApprovalWindow)
	remarks := fmt.Sprintf("Forwarded. Pending at %s", next)

	err := rt.Letters.Update(ctx, letter.ID, letters.Update{
		Stage:            &next,
		Status:           &status,
		Remarks:          &remarks,
		ApprovalDeadline: &deadline,
	})
	if err != nil {
		return s, fmt.Errorf("route: %w: %w", ErrStoreUpdate, err)
	}

	// Silent forward: the next approver discovers the task in the
	// dashboard; only assignments entering the pipeline notify.
	return s, nil
}

func (rt *Runtime) approve(ctx context.Context, s state.State, letter *letters.Letter) (state.State, error) {
	status := letters.StatusApproved
	remarks := "Final approval reached."

	err := rt.Letters.Update(ctx, letter.ID, letters.Update{
		Status:        &status,
		Remarks:       &remarks,
		ClearDeadline: true,
	})
	if err != nil {
		return s, fmt.Errorf("route: %w: %w", ErrStoreUpdate, err)
	}

	return queueNotification(s,
		rt.Mail.AdminAddress(),
		fmt.Sprintf("Success: Letter %s is fully approved.", letter.ID),
	), nil
}

// routeOverdue marks a deadline breach. Selection happens upstream: the
// eligibility query only yields Pending letters whose deadline has elapsed.
func (rt *Runtime) routeOverdue(ctx context.Context, s state.State, letter *letters.Letter) (state.State, error) {
	status := letters.StatusOverdue
	remarks := fmt.Sprintf("Deadline breached at %s!", letter.Stage)

	err := rt.Letters.Update(ctx, letter.ID, letters.Update{
		Status:        &status,
		Remarks:       &remarks,
		ClearDeadline: true,
	})
	if err != nil {
		return s, fmt.Errorf("route: %w: %w", ErrStoreUpdate, err)
	}

	return queueNotification(s,
		rt.Mail.StageAddress(letter.Stage),
		fmt.Sprintf("URGENT: Letter %s at %s is overdue!", letter.ID, letter.Stage),
	), nil
}

func rejected(letter *letters.Letter) bool {
	remarks := letter.StageRemarks(letter.Stage)
	return strings.Contains(strings.ToLower(remarks), rejectionKeyword)
}

func queueNotification(s state.State, target, message string) state.State {
	s = s.Set(KeyNotify, true)
	s = s.Set(KeyNotifyTarget, target)
	return s.Set(KeyNotifyMessage, message)
}
