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
	"io"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/eval"
	"github.com/blazedb/blazedb/schema"
)

// Join is a tuple-nested-loop inner join: for every outer tuple, the
// inner child is reset and scanned fully, and the merged (outer ⧺
// inner) tuple is emitted when either there is no predicate or the
// predicate evaluates true against the combined schema. Emission order
// is lexicographic in (outer-order, inner-order).
type Join struct {
	outer, inner Operator
	predicate    ast.Expr // nil means no predicate: emit unconditionally
	sch          *schema.Schema

	currentOuter schema.Tuple
	haveOuter    bool
}

// NewJoin builds a join over outer and inner with an optional predicate,
// and a combined schema (outer's columns followed by inner's, renumbered
// as a concatenation).
func NewJoin(outer, inner Operator, predicate ast.Expr) *Join {
	return &Join{
		outer:     outer,
		inner:     inner,
		predicate: predicate,
		sch:       schema.Concat(outer.Schema(), inner.Schema()),
	}
}

// Schema implements Operator.
func (j *Join) Schema() *schema.Schema {
	return j.sch
}

// Next implements Operator. Matches for the current outer tuple are
// drained (via repeated inner pulls) before the next outer tuple is
// pulled, so no separate output buffer is needed beyond the current
// outer/inner cursor position.
func (j *Join) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	for {
		if !j.haveOuter {
			outer, err := j.outer.Next(ctx)
			if err != nil {
				return nil, err
			}
			j.currentOuter = outer
			j.haveOuter = true
			if err := j.inner.Reset(ctx); err != nil {
				return nil, err
			}
		}

		inner, err := j.inner.Next(ctx)
		if err != nil {
			if err == io.EOF {
				j.haveOuter = false
				continue
			}
			return nil, err
		}

		merged := make(schema.Tuple, 0, len(j.currentOuter)+len(inner))
		merged = append(merged, j.currentOuter...)
		merged = append(merged, inner...)

		if j.predicate == nil {
			return merged, nil
		}

		ok, err := eval.Bool(merged, j.sch, j.predicate)
		if err != nil {
			ctx.Log().WithFields(map[string]interface{}{
				"system": "join",
				"err":    err,
			}).Warn("join predicate evaluation failed, skipping tuple")
			continue
		}
		if ok {
			return merged, nil
		}
	}
}

// Reset resets both children and clears the per-outer cursor.
func (j *Join) Reset(ctx *blazectx.Context) error {
	j.haveOuter = false
	if err := j.outer.Reset(ctx); err != nil {
		return err
	}
	return j.inner.Reset(ctx)
}
