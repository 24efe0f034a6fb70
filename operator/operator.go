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

// Package operator holds the physical operator tree BlazeDB executes: a
// polymorphic value exposing "produce next tuple" and "restart from the
// beginning", plus an output schema. Operators form a tree; each
// non-leaf operator exclusively owns its children, and only a parent
// resets its child.
package operator

import (
	"errors"
	"io"

	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/schema"
)

// Operator is the pull-protocol contract every physical node in the plan
// implements. Next returns io.EOF once the operator is exhausted; any
// other error aborts the query. Reset rewinds the operator to produce
// the same sequence of tuples again from the start; most operators do
// so by resetting their children, while Aggregate only rewinds its
// emission cursor.
type Operator interface {
	Schema() *schema.Schema
	Next(ctx *blazectx.Context) (schema.Tuple, error)
	Reset(ctx *blazectx.Context) error
}

// Drain pulls every remaining tuple from op and returns them in order.
// Used by Sort to materialize its entire child stream on first pull, by
// outwriter.Drain, and by tests.
func Drain(ctx *blazectx.Context, op Operator) ([]schema.Tuple, error) {
	var out []schema.Tuple
	for {
		t, err := op.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, t)
	}
}
