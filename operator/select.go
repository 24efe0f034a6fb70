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
	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/eval"
	"github.com/blazedb/blazedb/schema"
)

// Select drops tuples from its child that fail a predicate. A predicate
// evaluation failure on one tuple is logged and the tuple is treated as
// non-matching - it does not abort the query, so a pipeline tolerates a
// sparse amount of malformed data.
type Select struct {
	child     Operator
	predicate ast.Expr
	sch       *schema.Schema
}

// NewSelect wraps child in a filter over predicate. sch must match
// child's output schema.
func NewSelect(child Operator, predicate ast.Expr, sch *schema.Schema) *Select {
	return &Select{child: child, predicate: predicate, sch: sch}
}

// Schema implements Operator.
func (s *Select) Schema() *schema.Schema {
	return s.sch
}

// Next implements Operator.
func (s *Select) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	for {
		t, err := s.child.Next(ctx)
		if err != nil {
			return nil, err
		}

		ok, err := eval.Bool(t, s.sch, s.predicate)
		if err != nil {
			ctx.Log().WithFields(map[string]interface{}{
				"system": "select",
				"err":    err,
			}).Warn("predicate evaluation failed, skipping tuple")
			continue
		}
		if ok {
			return t, nil
		}
	}
}

// Reset implements Operator by delegating to the child.
func (s *Select) Reset(ctx *blazectx.Context) error {
	return s.child.Reset(ctx)
}
