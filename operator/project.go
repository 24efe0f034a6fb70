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
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/schema"
)

// Project narrows each child tuple to a requested, ordered list of
// columns (duplicates already removed by the caller). A requested
// column missing from the child schema is tolerated: its field is
// emitted as an empty string rather than aborting the query, mirroring
// a tolerant projection contract distinct from the evaluator's fatal
// SchemaMiss.
type Project struct {
	child   Operator
	indices []int // -1 for a requested column missing from child schema
	sch     *schema.Schema

	fastPath bool // requested columns == child width in order: forward unmodified
}

// NewProject builds a projection of child down to columns, in the order
// given. The output schema re-numbers the kept columns starting from 0.
func NewProject(child Operator, columns []string) *Project {
	childSchema := child.Schema()
	indices := make([]int, len(columns))
	fastPath := len(columns) == childSchema.Width()

	for i, c := range columns {
		idx, ok := childSchema.Index(c)
		if !ok {
			indices[i] = -1
			fastPath = false
			continue
		}
		indices[i] = idx
		if fastPath && idx != i {
			fastPath = false
		}
	}

	return &Project{
		child:    child,
		indices:  indices,
		sch:      schema.New(columns...),
		fastPath: fastPath,
	}
}

// Schema implements Operator.
func (p *Project) Schema() *schema.Schema {
	return p.sch
}

// Next implements Operator.
func (p *Project) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	t, err := p.child.Next(ctx)
	if err != nil {
		return nil, err
	}
	if p.fastPath {
		return t, nil
	}

	out := make(schema.Tuple, len(p.indices))
	for i, idx := range p.indices {
		if idx == -1 {
			out[i] = ""
			continue
		}
		out[i] = t[idx]
	}
	return out, nil
}

// Reset implements Operator by delegating to the child.
func (p *Project) Reset(ctx *blazectx.Context) error {
	return p.child.Reset(ctx)
}
