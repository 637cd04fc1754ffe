package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/campusworks/letterflow/internal/classifier"
	"github.com/campusworks/letterflow/internal/letters"
)

// noTextSentinel replaces empty extraction output so the classifier and the
// subject heuristic always receive non-empty input.
const noTextSentinel = "No text extracted."

const draftRemark = "Auto-drafted by classification model. Needs Clerk review."

// ClassifyNode returns the agent that drafts a freshly scanned letter:
// extract text, predict the classification, derive subject and amount, and
// persist the draft as ML_DRAFTED for clerk review. Prediction failures and
// a missing model park the record in ERROR rather than escaping to the loop.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		letterID, err := extractLetterID(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		letter, err := rt.Letters.Find(ctx, letterID)
		if err != nil {
			if errors.Is(err, letters.ErrNotFound) {
				rt.Logger.WarnContext(ctx, "letter vanished before classification", "letter_id", letterID)
				return s, nil
			}
			return s, fmt.Errorf("classify: %w", err)
		}

		text := rt.Extraction.Extract(ctx, letter.FilePath)
		if text == "" {
			text = noTextSentinel
		}

		if rt.Classifier == nil {
			return s, setError(ctx, rt, letterID, "Classification failed. Model not loaded.")
		}

		predicted, err := rt.Classifier.Predict(text)
		if err != nil {
			return s, setError(ctx, rt, letterID, fmt.Sprintf("Classification failed: %v.", err))
		}

		classification := letters.Classification(predicted)
		subject := classifier.ExtractSubject(text)

		var amount int64
		if classification == letters.ClassificationPayment {
			amount = classifier.ExtractAmount(text)
		}

		status := letters.StatusMLDrafted
		remarks := draftRemark

		err = rt.Letters.Update(ctx, letterID, letters.Update{
			Subject:        &subject,
			Classification: &classification,
			Amount:         &amount,
			Status:         &status,
			Remarks:        &remarks,
		})
		if err != nil {
			return s, fmt.Errorf("classify: %w: %w", ErrStoreUpdate, err)
		}

		rt.Logger.InfoContext(ctx, "letter drafted",
			"letter_id", letterID,
			"classification", classification,
			"subject", subject,
			"amount", amount,
		)

		return s, nil
	})
}

// setError parks a letter in the terminal ERROR status with an explanatory
// remark. The eligibility query never re-selects ERROR records, so the
// letter stays inert until a human resets it.
func setError(ctx context.Context, rt *Runtime, letterID uuid.UUID, remark string) error {
	status := letters.StatusError

	if err := rt.Letters.Update(ctx, letterID, letters.Update{
		Status:  &status,
		Remarks: &remark,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUpdate, err)
	}

	rt.Logger.ErrorContext(ctx, "letter parked in error state",
		"letter_id", letterID,
		"remarks", remark,
	)

	return nil
}
