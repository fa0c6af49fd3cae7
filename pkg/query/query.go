// Package query provides a small fluent builder for composing parameterized
// SQL statements.
package query

import (
	"fmt"
	"strings"
)

// Builder accumulates the clauses of a SELECT statement.
type Builder struct {
	columns []string
	from    string
	joins   []string
	where   []string
	orderBy []string
	args    []any
}

// NewBuilder creates a builder selecting the given columns.
func NewBuilder(columns ...string) *Builder {
	return &Builder{columns: columns}
}

// From sets the source table.
func (b *Builder) From(table string) *Builder {
	b.from = table
	return b
}

// Join appends a join clause verbatim.
func (b *Builder) Join(clause string) *Builder {
	b.joins = append(b.joins, clause)
	return b
}

// Where appends a condition combined with AND. Placeholders use %s and are
// rewritten to positional parameters.
func (b *Builder) Where(condition string, args ...any) *Builder {
	placeholders := make([]any, len(args))
	for i := range args {
		b.args = append(b.args, args[i])
		placeholders[i] = fmt.Sprintf("$%d", len(b.args))
	}

	b.where = append(b.where, fmt.Sprintf(condition, placeholders...))
	return b
}

// WhereIn appends an IN condition over the given values. Empty value sets
// produce a condition that matches nothing.
func (b *Builder) WhereIn(column string, values []any) *Builder {
	if len(values) == 0 {
		b.where = append(b.where, "FALSE")
		return b
	}

	placeholders := make([]string, len(values))
	for i, v := range values {
		b.args = append(b.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(b.args))
	}

	b.where = append(b.where, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return b
}

// OrderBy appends an ordering term.
func (b *Builder) OrderBy(term string) *Builder {
	b.orderBy = append(b.orderBy, term)
	return b
}

// Build renders the statement and its positional arguments.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.from)

	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	return sb.String(), b.args
}
