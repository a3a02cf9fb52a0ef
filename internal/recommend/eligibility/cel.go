// itemrec - Latent-factor top-N recommendation batch job
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemrec

// Package eligibility provides catalog predicates written in CEL
// (Common Expression Language).
//
// An expression sees a single variable, item, with the fields:
//
//	item.index  int     1-based item index
//	item.id     string  external item id
//	item.tags   list    category tags
//
// Examples:
//
//	"electronics" in item.tags
//	!item.id.startsWith("draft-") && size(item.tags) > 0
package eligibility

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/tomtom215/itemrec/internal/recommend"
)

// CEL is a compiled eligibility expression. The compiled program is
// immutable and safe for concurrent use.
type CEL struct {
	expr string
	prg  cel.Program
}

var _ recommend.Eligibility = (*CEL)(nil)

// NewEnv returns the CEL environment eligibility expressions compile in.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
	)
}

// Compile parses and checks expr. An empty expression yields
// recommend.AllowAll.
func Compile(expr string) (recommend.Eligibility, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return recommend.AllowAll, nil
	}

	env, err := NewEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile eligibility expression %q: %w", expr, issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("eligibility expression %q must return bool, got %s", expr, out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build eligibility program: %w", err)
	}

	return &CEL{expr: expr, prg: prg}, nil
}

// Expression returns the source expression.
func (c *CEL) Expression() string {
	return c.expr
}

// Eligible evaluates the expression against one catalog item.
func (c *CEL) Eligible(index int, item recommend.Item) (bool, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}

	out, _, err := c.prg.Eval(map[string]any{
		"item": map[string]any{
			"index": int64(index),
			"id":    item.ID,
			"tags":  tags,
		},
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", c.expr, err)
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("expression %q returned %T, want bool", c.expr, out.Value())
	}
	return ok, nil
}
