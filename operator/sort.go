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
	"sort"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/eval"
	"github.com/blazedb/blazedb/schema"
)

// SortKey is one ordering key: an expression (always a column reference
// per the data model) plus a direction.
type SortKey struct {
	Expr ast.Expr
	Desc bool
}

// Sort is a blocking operator: on first pull it drains its child into a
// buffer and stable-sorts it by successive integer-valued keys, then
// streams from the buffer on every subsequent pull.
type Sort struct {
	child Operator
	keys  []SortKey
	sch   *schema.Schema

	buffer  []schema.Tuple
	cursor  int
	drained bool
}

// NewSort builds a sort of child by keys, in the order given. ASC is the
// default direction; a key's Desc flag reverses its comparator. Ties are
// broken by later keys in the list; ties after all keys preserve input
// order, since the underlying sort is stable.
func NewSort(child Operator, keys []SortKey) *Sort {
	return &Sort{child: child, keys: keys, sch: child.Schema()}
}

// Schema implements Operator.
func (s *Sort) Schema() *schema.Schema {
	return s.sch
}

func (s *Sort) drain(ctx *blazectx.Context) error {
	buf, err := Drain(ctx, s.child)
	if err != nil {
		return err
	}
	s.buffer = buf

	var sortErr error
	sort.SliceStable(s.buffer, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := s.less(s.buffer[i], s.buffer[j])
		if err != nil {
			sortErr = err
			return false
		}
		return less
	})
	if sortErr != nil {
		return blazeerr.ErrInvariant.New(sortErr.Error())
	}

	s.drained = true
	return nil
}

func (s *Sort) less(a, b schema.Tuple) (bool, error) {
	for _, k := range s.keys {
		av, err := eval.Int(a, s.sch, k.Expr)
		if err != nil {
			return false, err
		}
		bv, err := eval.Int(b, s.sch, k.Expr)
		if err != nil {
			return false, err
		}
		if av == bv {
			continue
		}
		if k.Desc {
			return av > bv, nil
		}
		return av < bv, nil
	}
	return false, nil
}

// Next implements Operator.
func (s *Sort) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	if !s.drained {
		if err := s.drain(ctx); err != nil {
			return nil, err
		}
	}
	if s.cursor >= len(s.buffer) {
		return nil, io.EOF
	}
	t := s.buffer[s.cursor]
	s.cursor++
	return t, nil
}

// Reset implements Operator: clears the buffer and resets the child, so
// the next pull re-drains and re-sorts from scratch.
func (s *Sort) Reset(ctx *blazectx.Context) error {
	s.buffer = nil
	s.cursor = 0
	s.drained = false
	return s.child.Reset(ctx)
}
