package workflow_test

import (
	"testing"

	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/internal/workflow"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		letter letters.Letter
		want   int
	}{
		{
			name: "base score with no signals",
			text: "requesting a certificate copy",
			want: 40,
		},
		{
			name: "urgent and deadline stack",
			text: "this is urgent, the deadline is tomorrow",
			want: 70,
		},
		{
			name: "keywords match case-insensitively",
			text: "MEDICAL Emergency admission",
			want: 100,
		},
		{
			name: "each keyword counts once",
			text: "urgent urgent urgent",
			want: 60,
		},
		{
			name: "large payment amount adds bonus",
			text: "invoice attached",
			letter: letters.Letter{
				Classification: letters.ClassificationPayment,
				Amount:         60000,
			},
			want: 65,
		},
		{
			name: "amount at threshold earns nothing",
			text: "invoice attached",
			letter: letters.Letter{
				Classification: letters.ClassificationPayment,
				Amount:         50000,
			},
			want: 40,
		},
		{
			name: "large amount ignored for permission",
			text: "venue booking",
			letter: letters.Letter{
				Classification: letters.ClassificationPermission,
				Amount:         60000,
			},
			want: 40,
		},
		{
			name: "urgent subject adds bonus",
			text: "please see attached",
			letter: letters.Letter{
				Subject: "Urgent Hostel Repair",
			},
			want: 55,
		},
		{
			name: "score clamps at 100",
			text: "medical emergency, urgent and immediate, scholarship deadline",
			letter: letters.Letter{
				Classification: letters.ClassificationPayment,
				Amount:         100000,
				Subject:        "Urgent Medical Reimbursement",
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.Score(tt.text, &tt.letter); got != tt.want {
				t.Errorf("Score(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "2 days"},
		{70, "4 days"},
		{55, "5 days"},
		{40, "6 days"},
		{0, "8 days"},
	}

	for _, tt := range tests {
		if got := workflow.Estimate(tt.score); got != tt.want {
			t.Errorf("Estimate(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
