package workflow

import (
	"log/slog"
	"time"

	"github.com/campusworks/letterflow/internal/classifier"
	"github.com/campusworks/letterflow/internal/extraction"
	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/internal/mail"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and
// domain systems. Classifier may be nil when no model file is available;
// classification then fails records into the ERROR status instead of
// crashing the loop.
type Runtime struct {
	Letters    letters.System
	Extraction extraction.System
	Classifier *classifier.Model
	Mail       mail.System
	Logger     *slog.Logger

	// ApprovalWindow is the time each stage gets before a pending letter
	// is flagged overdue.
	ApprovalWindow time.Duration

	// Now overrides the wall clock in tests. Leave nil in production.
	Now func() time.Time
}

func (rt *Runtime) now() time.Time {
	if rt.Now != nil {
		return rt.Now()
	}
	return time.Now()
}
