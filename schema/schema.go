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

// Package schema holds the two things every operator in BlazeDB agrees
// on: a Tuple of field values, and a Schema describing what each field
// of a tuple at a given point in the pipeline means.
package schema

import "strings"

// Tuple is an ordered, immutable row of field values. Every value is
// conceptually a string; arithmetic and comparison operators parse it as
// a signed 64-bit integer on demand.
type Tuple []string

// Clone returns a copy of t that shares no backing storage with t.
func (t Tuple) Clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

// Key returns the tuple's field values joined with ", ": the line the
// output writer emits for it. The Distinct operator does not use it; it
// keys on a structural hash of the fields instead.
func (t Tuple) Key() string {
	return strings.Join([]string(t), ", ")
}

// Schema is a name-to-index mapping: keys are fully qualified column
// names ("Table.Column"), values are a contiguous [0, n) range, and
// insertion order is significant because it defines the serialization
// order of any tuple built from this schema.
type Schema struct {
	columns []string
	index   map[string]int
}

// New builds a Schema from an ordered list of qualified column names.
// Panics if a name repeats, since the schema-mapping invariant (unique
// keys) is a planner bug, not a runtime condition to recover from.
func New(columns ...string) *Schema {
	s := &Schema{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := s.index[c]; ok {
			panic("schema: duplicate column " + c)
		}
		s.index[c] = i
	}
	return s
}

// Width is the number of columns in the schema, and the required length
// of any tuple produced under it.
func (s *Schema) Width() int {
	return len(s.columns)
}

// Columns returns the qualified column names in schema order. The
// returned slice must not be mutated by the caller.
func (s *Schema) Columns() []string {
	return s.columns
}

// Index returns the zero-based field index for the given qualified
// column name.
func (s *Schema) Index(qualified string) (int, bool) {
	i, ok := s.index[qualified]
	return i, ok
}

// Resolve looks up a column reference that may or may not carry a table
// qualifier. A qualified reference ("Table.Column") is looked up
// directly. A bare reference ("Column") first matches a column named
// exactly "Column" (such as an aggregation's "Group" or "SUM_0");
// otherwise it matches if exactly one column in the schema ends with
// ".Column", and zero or multiple suffix matches is treated as not
// found, since bare-name resolution has no principled way to break the
// tie.
func (s *Schema) Resolve(qualifier, name string) (int, bool) {
	if qualifier != "" {
		return s.Index(qualifier + "." + name)
	}
	if i, ok := s.index[name]; ok {
		return i, true
	}

	suffix := "." + name
	found := -1
	for col, i := range s.index {
		if strings.HasSuffix(col, suffix) {
			if found != -1 {
				return 0, false
			}
			found = i
		}
	}
	if found == -1 {
		return 0, false
	}
	return found, true
}

// Concat builds the schema for a join's merged tuple: left's columns
// kept as-is, right's columns renumbered by shifting their index by
// left's width.
func Concat(left, right *Schema) *Schema {
	columns := make([]string, 0, left.Width()+right.Width())
	columns = append(columns, left.columns...)
	columns = append(columns, right.columns...)
	return New(columns...)
}

// CheckWidth reports an *blazeerr.ErrInvariant-worthy condition: whether
// t's width matches the schema's declared width. Only tests call it; no
// operator checks tuple width during a pull.
func (s *Schema) CheckWidth(t Tuple) bool {
	return len(t) == s.Width()
}
