package query

import (
	"fmt"
	"strings"
)

type setClause struct {
	column string
	value  any
	null   bool
}

// UpdateBuilder constructs partial UPDATE statements. Only columns added
// via Set or SetNull appear in the SET clause, so unspecified fields are
// never clobbered.
type UpdateBuilder struct {
	schema string
	table  string
	sets   []setClause
}

// NewUpdate creates an UpdateBuilder for the given schema and table.
func NewUpdate(schema, table string) *UpdateBuilder {
	return &UpdateBuilder{
		schema: schema,
		table:  table,
		sets:   make([]setClause, 0),
	}
}

// Set adds a column assignment.
func (u *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	u.sets = append(u.sets, setClause{column: column, value: value})
	return u
}

// SetNull adds a column assignment to NULL.
func (u *UpdateBuilder) SetNull(column string) *UpdateBuilder {
	u.sets = append(u.sets, setClause{column: column, null: true})
	return u
}

// Empty reports whether no assignments have been added.
func (u *UpdateBuilder) Empty() bool {
	return len(u.sets) == 0
}

// BuildByID returns the UPDATE statement and args targeting a single row
// by its identifier column. Assignments keep insertion order.
func (u *UpdateBuilder) BuildByID(idColumn string, id any) (string, []any) {
	clauses := make([]string, 0, len(u.sets))
	args := make([]any, 0, len(u.sets)+1)
	paramIdx := 1

	for _, s := range u.sets {
		if s.null {
			clauses = append(clauses, fmt.Sprintf("%s = NULL", s.column))
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", s.column, paramIdx))
		args = append(args, s.value)
		paramIdx++
	}

	sql := fmt.Sprintf(
		"UPDATE %s.%s SET %s WHERE %s = $%d",
		u.schema, u.table,
		strings.Join(clauses, ", "),
		idColumn, paramIdx,
	)
	args = append(args, id)

	return sql, args
}
