// Package letters implements the letter domain for Letterflow. It provides
// the persisted letter record, its lifecycle vocabulary (statuses, approver
// stages, classifications, pipelines), and typed data access against the
// letter store.
package letters

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle tag of a letter record. ML_OCR, Submitted, and
// ActionTaken are produced by the upstream clerk application; the engine
// produces the rest.
type Status string

// Letter statuses.
const (
	StatusMLOCR       Status = "ML_OCR"
	StatusSubmitted   Status = "Submitted"
	StatusMLDrafted   Status = "ML_DRAFTED"
	StatusPrioritized Status = "Prioritized"
	StatusPending     Status = "Pending"
	StatusActionTaken Status = "ActionTaken"
	StatusRejected    Status = "Rejected"
	StatusApproved    Status = "Approved"
	StatusOverdue     Status = "Overdue"
	StatusError       Status = "ERROR"
)

// Stage is the approver role currently responsible for a letter.
type Stage string

// Approver stages.
const (
	StageClerk     Stage = "Clerk"
	StageDean      Stage = "Dean"
	StageRegistrar Stage = "Registrar"
	StageVC        Stage = "VC"
	StageAccounts  Stage = "Accounts"
)

// Classification is the predicted letter category. It selects the approval
// pipeline and gates amount extraction.
type Classification string

// Letter classifications.
const (
	ClassificationPayment    Classification = "Payment"
	ClassificationPermission Classification = "Permission"
)

var (
	paymentPipeline    = []Stage{StageDean, StageRegistrar, StageVC, StageAccounts}
	permissionPipeline = []Stage{StageDean, StageRegistrar, StageVC}
)

// Pipeline returns the fixed ordered approver sequence for a classification.
// Payment letters route through Accounts; everything else ends at the VC.
func Pipeline(c Classification) []Stage {
	if c == ClassificationPayment {
		return paymentPipeline
	}
	return permissionPipeline
}

// EntryStage returns the first approver of every pipeline.
func EntryStage() Stage {
	return StageDean
}

// NextStage resolves the stage after current in the pipeline selected by c.
// The second return is false when current is the pipeline's final stage.
// Returns ErrStageNotInPipeline when current does not belong to the pipeline
// at all, which indicates a corrupted or misclassified record.
func NextStage(c Classification, current Stage) (Stage, bool, error) {
	pipeline := Pipeline(c)
	for i, stage := range pipeline {
		if stage != current {
			continue
		}
		if i == len(pipeline)-1 {
			return "", false, nil
		}
		return pipeline[i+1], true, nil
	}
	return "", false, ErrStageNotInPipeline
}

// Letter represents one piece of correspondence moving through approval.
// It mirrors the letters table; content fields populate progressively as
// the engine's agents process the record.
type Letter struct {
	ID               uuid.UUID      `json:"id"`
	Status           Status         `json:"status"`
	Stage            Stage          `json:"stage,omitempty"`
	Classification   Classification `json:"classification,omitempty"`
	Subject          string         `json:"subject"`
	Amount           int64          `json:"amount"`
	Dept             string         `json:"dept"`
	Date             time.Time      `json:"date"`
	FilePath         string         `json:"file_path"`
	PriorityScore    int            `json:"priority_score"`
	EstimatedTime    string         `json:"estimated_time"`
	ApprovalDeadline *time.Time     `json:"approval_deadline,omitempty"`
	Remarks          string         `json:"remarks"`
	ClerkRemarks     string         `json:"clerk_remarks"`
	DeanRemarks      string         `json:"dean_remarks"`
	RegistrarRemarks string         `json:"registrar_remarks"`
	VCRemarks        string         `json:"vc_remarks"`
	AccountsRemarks  string         `json:"accounts_remarks"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// StageRemarks returns the free-text remark the approver at the given stage
// recorded on this letter. These columns are written by the clerk
// application; the engine only reads them for rejection detection.
func (l *Letter) StageRemarks(s Stage) string {
	switch s {
	case StageClerk:
		return l.ClerkRemarks
	case StageDean:
		return l.DeanRemarks
	case StageRegistrar:
		return l.RegistrarRemarks
	case StageVC:
		return l.VCRemarks
	case StageAccounts:
		return l.AccountsRemarks
	}
	return ""
}

// Update carries a partial mutation of a letter record. Nil fields are left
// untouched by the store. ClearDeadline removes the approval deadline and
// takes precedence over ApprovalDeadline.
type Update struct {
	Status           *Status
	Stage            *Stage
	Classification   *Classification
	Subject          *string
	Amount           *int64
	PriorityScore    *int
	EstimatedTime    *string
	Remarks          *string
	ApprovalDeadline *time.Time
	ClearDeadline    bool
}

// Report summarizes the workload across the approval pipeline, produced by
// the idle-cycle health check and the operational API.
type Report struct {
	// StageLoad counts Pending and Overdue letters per stage (bottlenecks).
	StageLoad map[string]int `json:"stage_load"`
	// StatusTotals counts all letters per status.
	StatusTotals map[string]int `json:"status_totals"`
	GeneratedAt  time.Time      `json:"generated_at"`
}
