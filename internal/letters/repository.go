package letters

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campusworks/letterflow/pkg/pagination"
	"github.com/campusworks/letterflow/pkg/query"
	"github.com/campusworks/letterflow/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a letter repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "letters"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Letter], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "Dept", "Remarks")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count letters: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLetter)
	if err != nil {
		return nil, fmt.Errorf("query letters: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Letter, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLetter)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &l, nil
}

// PendingEvents implements the engine's eligibility query: letters awaiting
// automated processing, plus Pending letters whose deadline has elapsed.
// ERROR letters are deliberately excluded; they stay inert until a human
// resets their status.
func (r *repo) PendingEvents(ctx context.Context, now time.Time) ([]Letter, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE l.status IN ($1, $2, $3)
		   OR (l.status = $4 AND l.approval_deadline IS NOT NULL AND l.approval_deadline < $5)
		ORDER BY l.date DESC`,
		projection.Columns(),
		projection.From(),
	)

	args := []any{
		string(StatusMLOCR),
		string(StatusSubmitted),
		string(StatusActionTaken),
		string(StatusPending),
		now,
	}

	results, err := repository.QueryMany(ctx, r.db, q, args, scanLetter)
	if err != nil {
		return nil, fmt.Errorf("query pending events: %w", err)
	}

	return results, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, upd Update) error {
	b := query.NewUpdate("public", "letters")
	upd.apply(b, time.Now().UTC())

	if b.Empty() {
		return nil
	}

	q, args := b.BuildByID("id", id)
	if err := repository.ExecExpectOne(ctx, r.db, q, args...); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return nil
}

func (r *repo) Report(ctx context.Context) (*Report, error) {
	report := &Report{
		StageLoad:    make(map[string]int),
		StatusTotals: make(map[string]int),
		GeneratedAt:  time.Now().UTC(),
	}

	stageQ := `
		SELECT COALESCE(stage, ''), COUNT(*)
		FROM public.letters
		WHERE status IN ($1, $2)
		GROUP BY stage`

	if err := r.groupCounts(ctx, report.StageLoad, stageQ, string(StatusPending), string(StatusOverdue)); err != nil {
		return nil, fmt.Errorf("query stage load: %w", err)
	}

	statusQ := `
		SELECT status, COUNT(*)
		FROM public.letters
		GROUP BY status`

	if err := r.groupCounts(ctx, report.StatusTotals, statusQ); err != nil {
		return nil, fmt.Errorf("query status totals: %w", err)
	}

	return report, nil
}

func (r *repo) groupCounts(ctx context.Context, dst map[string]int, q string, args ...any) error {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dst[key] = count
	}

	return rows.Err()
}
