// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

package query

import (
	"fmt"
	"strings"
)

// WhereBuilder builds parameterized WHERE clauses joined with AND.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause appends a raw clause with its placeholder arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals appends "column = ?" when value is non-nil.
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	if value == nil {
		return wb
	}
	return wb.AddClause(column+" = ?", value)
}

// AddIn appends "column IN (?, ...)" for a non-empty value list.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// Build returns the clause text and arguments. An empty builder yields "1=1".
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clause was added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
