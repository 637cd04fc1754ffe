package letters

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/campusworks/letterflow/pkg/query"
	"github.com/campusworks/letterflow/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "letters", "l").
	Project("id", "ID").
	Project("status", "Status").
	Project("stage", "Stage").
	Project("classification", "Classification").
	Project("subject", "Subject").
	Project("amount", "Amount").
	Project("dept", "Dept").
	Project("date", "Date").
	Project("file_path", "FilePath").
	Project("priority_score", "PriorityScore").
	Project("estimated_time", "EstimatedTime").
	Project("approval_deadline", "ApprovalDeadline").
	Project("remarks", "Remarks").
	Project("clerk_remarks", "ClerkRemarks").
	Project("dean_remarks", "DeanRemarks").
	Project("registrar_remarks", "RegistrarRemarks").
	Project("vc_remarks", "VCRemarks").
	Project("accounts_remarks", "AccountsRemarks").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "Date",
	Descending: true,
}

// Filters contains optional filtering criteria for letter queries. Nil
// fields are ignored. Subject uses case-insensitive contains matching; the
// rest use exact matching.
type Filters struct {
	Status         *string `json:"status,omitempty"`
	Stage          *string `json:"stage,omitempty"`
	Classification *string `json:"classification,omitempty"`
	Dept           *string `json:"dept,omitempty"`
	Subject        *string `json:"subject,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Stage", f.Stage).
		WhereEquals("Classification", f.Classification).
		WhereEquals("Dept", f.Dept).
		WhereContains("Subject", f.Subject)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if s := values.Get("stage"); s != "" {
		f.Stage = &s
	}
	if c := values.Get("classification"); c != "" {
		f.Classification = &c
	}
	if d := values.Get("dept"); d != "" {
		f.Dept = &d
	}
	if s := values.Get("subject"); s != "" {
		f.Subject = &s
	}

	return f
}

func scanLetter(s repository.Scanner) (Letter, error) {
	var (
		l              Letter
		stage          sql.NullString
		classification sql.NullString
		deadline       sql.NullTime
	)

	err := s.Scan(
		&l.ID,
		&l.Status,
		&stage,
		&classification,
		&l.Subject,
		&l.Amount,
		&l.Dept,
		&l.Date,
		&l.FilePath,
		&l.PriorityScore,
		&l.EstimatedTime,
		&deadline,
		&l.Remarks,
		&l.ClerkRemarks,
		&l.DeanRemarks,
		&l.RegistrarRemarks,
		&l.VCRemarks,
		&l.AccountsRemarks,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return l, err
	}

	if stage.Valid {
		l.Stage = Stage(stage.String)
	}
	if classification.Valid {
		l.Classification = Classification(classification.String)
	}
	if deadline.Valid {
		t := deadline.Time
		l.ApprovalDeadline = &t
	}

	return l, nil
}

// apply translates the partial update into SET clauses, bumping updated_at
// whenever at least one domain field changes.
func (u Update) apply(b *query.UpdateBuilder, now time.Time) {
	if u.Status != nil {
		b.Set("status", string(*u.Status))
	}
	if u.Stage != nil {
		b.Set("stage", string(*u.Stage))
	}
	if u.Classification != nil {
		b.Set("classification", string(*u.Classification))
	}
	if u.Subject != nil {
		b.Set("subject", *u.Subject)
	}
	if u.Amount != nil {
		b.Set("amount", *u.Amount)
	}
	if u.PriorityScore != nil {
		b.Set("priority_score", *u.PriorityScore)
	}
	if u.EstimatedTime != nil {
		b.Set("estimated_time", *u.EstimatedTime)
	}
	if u.Remarks != nil {
		b.Set("remarks", *u.Remarks)
	}
	if u.ClearDeadline {
		b.SetNull("approval_deadline")
	} else if u.ApprovalDeadline != nil {
		b.Set("approval_deadline", *u.ApprovalDeadline)
	}

	if !b.Empty() {
		b.Set("updated_at", now)
	}
}
