package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/campusworks/letterflow/internal/letters"
)

const (
	baseScore = 40
	maxScore  = 100

	// paymentAmountBonus applies to Payment letters above the large-amount
	// threshold; urgentSubjectBonus applies when the drafted subject itself
	// mentions urgency.
	paymentAmountBonus   = 25
	largeAmountThreshold = 50000
	urgentSubjectBonus   = 15
)

// priorityKeywords maps content keywords to additive score bonuses. Matches
// are case-insensitive substrings and not mutually exclusive.
var priorityKeywords = map[string]int{
	"medical":       30,
	"emergency":     30,
	"urgent":        20,
	"immediate":     20,
	"scholarship":   15,
	"financial aid": 15,
	"deadline":      10,
}

// PrioritizeNode returns the agent that scores a submitted letter's urgency
// from its extracted text and drafted metadata, derives a processing-time
// estimate, and persists both with status Prioritized.
func PrioritizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		letterID, err := extractLetterID(s)
		if err != nil {
			return s, fmt.Errorf("prioritize: %w", err)
		}

		letter, err := rt.Letters.Find(ctx, letterID)
		if err != nil {
			if errors.Is(err, letters.ErrNotFound) {
				rt.Logger.WarnContext(ctx, "letter vanished before prioritization", "letter_id", letterID)
				return s, nil
			}
			return s, fmt.Errorf("prioritize: %w", err)
		}

		text := rt.Extraction.Extract(ctx, letter.FilePath)

		score := Score(text, letter)
		estimate := Estimate(score)
		status := letters.StatusPrioritized

		err = rt.Letters.Update(ctx, letterID, letters.Update{
			PriorityScore: &score,
			EstimatedTime: &estimate,
			Status:        &status,
		})
		if err != nil {
			return s, fmt.Errorf("prioritize: %w: %w", ErrStoreUpdate, err)
		}

		rt.Logger.InfoContext(ctx, "letter prioritized",
			"letter_id", letterID,
			"priority_score", score,
			"estimated_time", estimate,
		)

		return s, nil
	})
}

// Score computes the priority of a letter from its extracted text and
// drafted metadata. Scoring is deterministic and order-independent: every
// matching keyword contributes its bonus, large Payment amounts and an
// urgent subject add fixed bonuses, and the total clamps to [0, 100].
func Score(text string, letter *letters.Letter) int {
	lowered := strings.ToLower(text)

	score := baseScore
	for keyword, points := range priorityKeywords {
		if strings.Contains(lowered, keyword) {
			score += points
		}
	}

	if letter.Classification == letters.ClassificationPayment && letter.Amount > largeAmountThreshold {
		score += paymentAmountBonus
	}
	if strings.Contains(strings.ToLower(letter.Subject), "urgent") {
		score += urgentSubjectBonus
	}

	return min(score, maxScore)
}

// Estimate maps a priority score to a human-readable processing estimate.
// Lower scores get longer estimates.
func Estimate(score int) string {
	days := ((maxScore - score) / 15) + 2
	return fmt.Sprintf("%d days", days)
}
