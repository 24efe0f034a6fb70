// Copyright 2024 The BlazeDB Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operator

import (
	"fmt"
	"io"
	"strconv"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/eval"
	"github.com/blazedb/blazedb/schema"
)

// SumColumnPrefix names an ungrouped aggregation's output columns:
// SUM_0, SUM_1, ... in the order the SUM arguments were given.
const SumColumnPrefix = "SUM_"

// GroupColumnName and SumColumnName name a grouped aggregation's 2-column
// output.
const (
	GroupColumnName = "Group"
	SumColumnName   = "SUM"
)

// Aggregate computes SUM only, ungrouped or grouped by a single
// expression, exactly as described in the data model: ungrouped emits
// one row of running sums; grouped emits one distinct row per group key.
// It is blocking - the entire child is consumed on the first pull - and
// Reset only rewinds the emission cursor, since the sums are not
// recomputed.
type Aggregate struct {
	child   Operator
	groupBy ast.Expr // nil for ungrouped
	sums    []ast.Expr
	sch     *schema.Schema

	childSchema *schema.Schema
	rows        []schema.Tuple
	cursor      int
	drained     bool
}

// NewAggregate builds an aggregation over child. sums must have exactly
// one element when groupBy is non-nil, per the single-SUM-under-GROUP-BY
// limit the source preserves.
func NewAggregate(child Operator, groupBy ast.Expr, sums []ast.Expr) (*Aggregate, error) {
	if groupBy != nil && len(sums) > 1 {
		return nil, blazeerr.ErrUnsupported.New("GROUP BY supports only a single SUM expression")
	}

	var outSchema *schema.Schema
	if groupBy == nil {
		cols := make([]string, len(sums))
		for i := range sums {
			cols[i] = fmt.Sprintf("%s%d", SumColumnPrefix, i)
		}
		outSchema = schema.New(cols...)
	} else {
		outSchema = schema.New(GroupColumnName, SumColumnName)
	}

	return &Aggregate{
		child:       child,
		groupBy:     groupBy,
		sums:        sums,
		sch:         outSchema,
		childSchema: child.Schema(),
	}, nil
}

// Schema implements Operator.
func (a *Aggregate) Schema() *schema.Schema {
	return a.sch
}

func (a *Aggregate) drain(ctx *blazectx.Context) error {
	if a.groupBy == nil {
		return a.drainUngrouped(ctx)
	}
	return a.drainGrouped(ctx)
}

func (a *Aggregate) drainUngrouped(ctx *blazectx.Context) error {
	sums := make([]int64, len(a.sums))
	for {
		t, err := a.child.Next(ctx)
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		for i, expr := range a.sums {
			v, err := eval.Int(t, a.childSchema, expr)
			if err != nil {
				return err
			}
			sums[i] += v
		}
	}

	out := make(schema.Tuple, len(sums))
	for i, v := range sums {
		out[i] = strconv.FormatInt(v, 10)
	}
	a.rows = []schema.Tuple{out}
	a.drained = true
	return nil
}

func (a *Aggregate) drainGrouped(ctx *blazectx.Context) error {
	order := []string{}
	sums := map[string]int64{}
	sumExpr := a.sums[0]

	for {
		t, err := a.child.Next(ctx)
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		key, err := groupKeyString(t, a.childSchema, a.groupBy)
		if err != nil {
			return err
		}
		v, err := eval.Int(t, a.childSchema, sumExpr)
		if err != nil {
			return err
		}
		if _, ok := sums[key]; !ok {
			order = append(order, key)
		}
		sums[key] += v
	}

	rows := make([]schema.Tuple, 0, len(order))
	for _, key := range order {
		rows = append(rows, schema.Tuple{key, strconv.FormatInt(sums[key], 10)})
	}
	a.rows = rows
	a.drained = true
	return nil
}

// groupKeyString evaluates expr against t to produce the group key: the
// raw field value for a bare column reference (so text group keys are
// preserved as-is), or the decimal string of an evaluated integer
// expression otherwise.
func groupKeyString(t schema.Tuple, s *schema.Schema, expr ast.Expr) (string, error) {
	if col, ok := expr.(ast.ColumnRef); ok {
		i, ok := s.Resolve(col.Qualifier, col.Name)
		if !ok {
			name := col.Name
			if col.Qualifier != "" {
				name = col.Qualifier + "." + name
			}
			return "", blazeerr.ErrSchemaMiss.New(name)
		}
		return t[i], nil
	}
	v, err := eval.Int(t, s, expr)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(v, 10), nil
}

// Next implements Operator.
func (a *Aggregate) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	if !a.drained {
		if err := a.drain(ctx); err != nil {
			return nil, err
		}
	}
	if a.cursor >= len(a.rows) {
		return nil, io.EOF
	}
	t := a.rows[a.cursor]
	a.cursor++
	return t, nil
}

// Reset implements Operator: rewinds only the emission cursor. The sums
// already computed are not recomputed, per the aggregation operator's
// contract.
func (a *Aggregate) Reset(ctx *blazectx.Context) error {
	a.cursor = 0
	return nil
}
