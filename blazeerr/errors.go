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

// Package blazeerr defines the error kinds BlazeDB's core raises: a
// referenced column missing from a schema mapping, a type mismatch in
// arithmetic or comparison, an unsupported AST shape, I/O failure on a
// scan or the output writer, a malformed query, and an invariant
// violation. Operators and the planner raise these instead of generic
// errors so a driver can tell the categories apart.
package blazeerr

import (
	"github.com/pkg/errors"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrSchemaMiss is raised when a column reference cannot be resolved
	// against the current schema mapping.
	ErrSchemaMiss = goerrors.NewKind("column not found in schema: %s")

	// ErrTypeMismatch is raised when an operand to arithmetic or an
	// inequality comparison cannot be read as a signed integer.
	ErrTypeMismatch = goerrors.NewKind("type mismatch: %s")

	// ErrUnsupported is raised for an AST node or query shape the core
	// does not implement.
	ErrUnsupported = goerrors.NewKind("unsupported: %s")

	// ErrIO is raised when opening, reading, or writing a file fails.
	ErrIO = goerrors.NewKind("io error: %s")

	// ErrParse is raised when a query cannot be parsed.
	ErrParse = goerrors.NewKind("parse error: %s")

	// ErrInvariant is raised when an operator detects a violation of one
	// of its own structural invariants (tuple width, missing sort key
	// resolution, and so on). These should never happen in correct code
	// and are not meant to be recovered from.
	ErrInvariant = goerrors.NewKind("invariant violation: %s")
)

// Wrap annotates err with a message describing what the caller was doing
// when it occurred, preserving err for inspection by the *goerrors.Kind
// machinery above. Used by the planner to say which clause of a query it
// was building when a child operator failed to construct.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
