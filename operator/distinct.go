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
	"github.com/mitchellh/hashstructure"

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/schema"
)

// Distinct admits a child tuple only the first time its identity is
// observed. Identity is a structural hash of the tuple's field values
// (unlike the grouped-aggregation operator, which keys on the raw group
// value string), used in place of the ", "-joined string key the output
// format would otherwise suggest.
type Distinct struct {
	child Operator
	sch   *schema.Schema
	seen  map[uint64]struct{}
}

// NewDistinct wraps child in a hash-based duplicate eliminator.
func NewDistinct(child Operator) *Distinct {
	return &Distinct{
		child: child,
		sch:   child.Schema(),
		seen:  make(map[uint64]struct{}),
	}
}

// Schema implements Operator.
func (d *Distinct) Schema() *schema.Schema {
	return d.sch
}

// Next implements Operator.
func (d *Distinct) Next(ctx *blazectx.Context) (schema.Tuple, error) {
	for {
		t, err := d.child.Next(ctx)
		if err != nil {
			return nil, err
		}

		h, err := hashstructure.Hash([]string(t), nil)
		if err != nil {
			return nil, blazeerr.ErrInvariant.New(err.Error())
		}
		if _, ok := d.seen[h]; ok {
			continue
		}
		d.seen[h] = struct{}{}
		return t, nil
	}
}

// Reset implements Operator: clears the seen set and resets the child.
func (d *Distinct) Reset(ctx *blazectx.Context) error {
	d.seen = make(map[uint64]struct{})
	return d.child.Reset(ctx)
}
