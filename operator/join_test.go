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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/schema"
)

func TestJoinWithoutPredicateIsCrossProduct(t *testing.T) {
	left := newSliceOp(schema.New("R.A"), schema.Tuple{"1"}, schema.Tuple{"2"})
	right := newSliceOp(schema.New("S.B"), schema.Tuple{"x"}, schema.Tuple{"y"})

	j := NewJoin(left, right, nil)
	require.Equal(t, []string{"R.A", "S.B"}, j.Schema().Columns())

	rows, err := Drain(blazectx.New(), j)
	require.NoError(t, err)
	require.Equal(t, []schema.Tuple{
		{"1", "x"}, {"1", "y"},
		{"2", "x"}, {"2", "y"},
	}, rows)
}

func TestJoinAppliesPredicate(t *testing.T) {
	left := newSliceOp(schema.New("R.A"), schema.Tuple{"1"}, schema.Tuple{"2"})
	right := newSliceOp(schema.New("S.A"), schema.Tuple{"2"}, schema.Tuple{"3"})

	pred := ast.BinaryExpr{
		Op:    ast.OpEq,
		Left:  ast.ColumnRef{Qualifier: "R", Name: "A"},
		Right: ast.ColumnRef{Qualifier: "S", Name: "A"},
	}
	j := NewJoin(left, right, pred)

	rows, err := Drain(blazectx.New(), j)
	require.NoError(t, err)
	require.Equal(t, []schema.Tuple{{"2", "2"}}, rows)
}

func TestJoinResetRestartsBothSides(t *testing.T) {
	left := newSliceOp(schema.New("R.A"), schema.Tuple{"1"})
	right := newSliceOp(schema.New("S.B"), schema.Tuple{"x"})
	j := NewJoin(left, right, nil)

	ctx := blazectx.New()
	first, err := Drain(ctx, j)
	require.NoError(t, err)
	require.NoError(t, j.Reset(ctx))
	second, err := Drain(ctx, j)
	require.NoError(t, err)

	require.Equal(t, first, second)
}
