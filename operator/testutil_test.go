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

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/schema"
)

// sliceOp is a fixed, in-memory Operator stub used across this package's
// tests in place of a real Scan, so operator logic can be tested without
// touching disk.
type sliceOp struct {
	sch    *schema.Schema
	rows   []schema.Tuple
	cursor int
}

func newSliceOp(sch *schema.Schema, rows ...schema.Tuple) *sliceOp {
	return &sliceOp{sch: sch, rows: rows}
}

func (s *sliceOp) Schema() *schema.Schema {
	return s.sch
}

func (s *sliceOp) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	if s.cursor >= len(s.rows) {
		return nil, io.EOF
	}
	t := s.rows[s.cursor]
	s.cursor++
	return t, nil
}

func (s *sliceOp) Reset(ctx *blazectx.Context) error {
	s.cursor = 0
	return nil
}
