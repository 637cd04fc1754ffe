package workflow_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/internal/workflow"
)

func TestRouteTransitions(t *testing.T) {
	elapsed := testNow.Add(-time.Hour)
	pending := testNow.Add(24 * time.Hour)

	tests := []struct {
		name         string
		letter       letters.Letter
		wantStatus   letters.Status
		wantStage    letters.Stage
		wantRemarks  string
		wantDeadline bool
		wantSentTo   string
	}{
		{
			name: "prioritized enters pipeline at dean",
			letter: letters.Letter{
				Status:         letters.StatusPrioritized,
				Classification: letters.ClassificationPermission,
			},
			wantStatus:   letters.StatusPending,
			wantStage:    letters.StageDean,
			wantRemarks:  "Pending approval at Dean",
			wantDeadline: true,
			wantSentTo:   "dean@example.edu",
		},
		{
			name: "rejection returns to clerk",
			letter: letters.Letter{
				Status:           letters.StatusActionTaken,
				Stage:            letters.StageDean,
				Classification:   letters.ClassificationPayment,
				Dept:             "Physics",
				DeanRemarks:      "I REJECT this request",
				ApprovalDeadline: &pending,
			},
			wantStatus:  letters.StatusRejected,
			wantStage:   letters.StageClerk,
			wantRemarks: "Rejected by Dean",
			wantSentTo:  "clerk@physics.com",
		},
		{
			name: "rejection keyword matches as substring",
			letter: letters.Letter{
				Status:           letters.StatusActionTaken,
				Stage:            letters.StageRegistrar,
				Classification:   letters.ClassificationPermission,
				Dept:             "Chemistry",
				RegistrarRemarks: "do not reject lightly, but I must",
			},
			wantStatus:  letters.StatusRejected,
			wantStage:   letters.StageClerk,
			wantRemarks: "Rejected by Registrar",
			wantSentTo:  "clerk@chemistry.com",
		},
		{
			name: "only current stage remarks decide rejection",
			letter: letters.Letter{
				Status:           letters.StatusActionTaken,
				Stage:            letters.StageRegistrar,
				Classification:   letters.ClassificationPermission,
				DeanRemarks:      "reject",
				RegistrarRemarks: "looks fine, forwarding",
			},
			wantStatus:   letters.StatusPending,
			wantStage:    letters.StageVC,
			wantRemarks:  "Forwarded. Pending at VC",
			wantDeadline: true,
		},
		{
			name: "forward is silent",
			letter: letters.Letter{
				Status:         letters.StatusActionTaken,
				Stage:          letters.StageDean,
				Classification: letters.ClassificationPayment,
				DeanRemarks:    "verified, please proceed",
			},
			wantStatus:   letters.StatusPending,
			wantStage:    letters.StageRegistrar,
			wantRemarks:  "Forwarded. Pending at Registrar",
			wantDeadline: true,
		},
		{
			name: "permission pipeline ends at vc",
			letter: letters.Letter{
				Status:         letters.StatusActionTaken,
				Stage:          letters.StageVC,
				Classification: letters.ClassificationPermission,
				VCRemarks:      "sanctioned",
			},
			wantStatus:  letters.StatusApproved,
			wantStage:   letters.StageVC,
			wantRemarks: "Final approval reached.",
			wantSentTo:  "admin@example.edu",
		},
		{
			name: "payment pipeline routes vc to accounts",
			letter: letters.Letter{
				Status:         letters.StatusActionTaken,
				Stage:          letters.StageVC,
				Classification: letters.ClassificationPayment,
				VCRemarks:      "sanctioned",
			},
			wantStatus:   letters.StatusPending,
			wantStage:    letters.StageAccounts,
			wantRemarks:  "Forwarded. Pending at Accounts",
			wantDeadline: true,
		},
		{
			name: "stage outside pipeline parks in error",
			letter: letters.Letter{
				Status:         letters.StatusActionTaken,
				Stage:          letters.StageClerk,
				Classification: letters.ClassificationPayment,
			},
			wantStatus:  letters.StatusError,
			wantStage:   letters.StageClerk,
			wantRemarks: `Invalid stage "Clerk" for this letter type.`,
		},
		{
			name: "accounts stage invalid for permission",
			letter: letters.Letter{
				Status:         letters.StatusActionTaken,
				Stage:          letters.StageAccounts,
				Classification: letters.ClassificationPermission,
			},
			wantStatus:  letters.StatusError,
			wantStage:   letters.StageAccounts,
			wantRemarks: `Invalid stage "Accounts" for this letter type.`,
		},
		{
			name: "missing classification parks in error",
			letter: letters.Letter{
				Status: letters.StatusActionTaken,
				Stage:  letters.StageDean,
			},
			wantStatus:  letters.StatusError,
			wantStage:   letters.StageDean,
			wantRemarks: "Classification missing; cannot derive approval pipeline.",
		},
		{
			name: "elapsed pending goes overdue",
			letter: letters.Letter{
				Status:           letters.StatusPending,
				Stage:            letters.StageRegistrar,
				Classification:   letters.ClassificationPayment,
				ApprovalDeadline: &elapsed,
			},
			wantStatus:  letters.StatusOverdue,
			wantStage:   letters.StageRegistrar,
			wantRemarks: "Deadline breached at Registrar!",
			wantSentTo:  "registrar@example.edu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			letter := tt.letter
			letter.ID = uuid.New()

			store := newFakeStore(&letter)
			mailer := &fakeMailer{}
			rt := testRuntime(store, mailer, nil)

			if err := workflow.Execute(context.Background(), rt, letter.ID); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			got := store.records[letter.ID]
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", got.Stage, tt.wantStage)
			}
			if got.Remarks != tt.wantRemarks {
				t.Errorf("Remarks = %q, want %q", got.Remarks, tt.wantRemarks)
			}

			if tt.wantDeadline {
				want := testNow.Add(testWindow)
				if got.ApprovalDeadline == nil || !got.ApprovalDeadline.Equal(want) {
					t.Errorf("ApprovalDeadline = %v, want %v", got.ApprovalDeadline, want)
				}
			} else if got.ApprovalDeadline != nil {
				t.Errorf("ApprovalDeadline = %v, want cleared", got.ApprovalDeadline)
			}

			// The deadline is set exactly when the letter is Pending.
			if (got.ApprovalDeadline != nil) != (got.Status == letters.StatusPending) {
				t.Errorf("deadline presence %v inconsistent with status %q",
					got.ApprovalDeadline != nil, got.Status)
			}

			if tt.wantSentTo == "" {
				if len(mailer.sent) != 0 {
					t.Errorf("sent = %v, want none", mailer.sent)
				}
			} else {
				if len(mailer.sent) != 1 || mailer.sent[0].to != tt.wantSentTo {
					t.Errorf("sent = %v, want one notification to %s", mailer.sent, tt.wantSentTo)
				}
			}
		})
	}
}

func TestRouteLeavesTerminalStatuses(t *testing.T) {
	for _, status := range []letters.Status{
		letters.StatusApproved,
		letters.StatusRejected,
		letters.StatusOverdue,
		letters.StatusError,
		letters.StatusMLDrafted,
	} {
		t.Run(string(status), func(t *testing.T) {
			letter := &letters.Letter{
				ID:             uuid.New(),
				Status:         status,
				Stage:          letters.StageDean,
				Classification: letters.ClassificationPayment,
			}
			store := newFakeStore(letter)
			mailer := &fakeMailer{}

			if err := workflow.Execute(context.Background(), testRuntime(store, mailer, nil), letter.ID); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if store.updates != 0 {
				t.Errorf("updates = %d, want 0", store.updates)
			}
			if len(mailer.sent) != 0 {
				t.Errorf("sent = %v, want none", mailer.sent)
			}
		})
	}
}

func TestRejectionIsCaseInsensitive(t *testing.T) {
	for _, remark := range []string{"REJECTED", "Reject this", "i reject"} {
		if !strings.Contains(strings.ToLower(remark), "reject") {
			t.Fatalf("test remark %q does not contain the keyword", remark)
		}

		letter := &letters.Letter{
			ID:             uuid.New(),
			Status:         letters.StatusActionTaken,
			Stage:          letters.StageDean,
			Classification: letters.ClassificationPermission,
			Dept:           "Math",
			DeanRemarks:    remark,
		}
		store := newFakeStore(letter)

		if err := workflow.Execute(context.Background(), testRuntime(store, &fakeMailer{}, nil), letter.ID); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if got := store.records[letter.ID].Status; got != letters.StatusRejected {
			t.Errorf("remark %q: Status = %q, want Rejected", remark, got)
		}
	}
}
