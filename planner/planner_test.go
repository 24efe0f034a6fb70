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

package planner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/catalog"
	"github.com/blazedb/blazedb/operator"
	"github.com/blazedb/blazedb/schema"
)

func writeTable(t *testing.T, dir, name, header string, rows ...string) {
	t.Helper()
	content := header + "\n"
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0o644))
}

func keys(t *testing.T, rows []schema.Tuple) []string {
	t.Helper()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key()
	}
	return out
}

func col(qualifier, name string) ast.ColumnRef {
	return ast.ColumnRef{Qualifier: qualifier, Name: name}
}

// Scenario 1: SELECT R.A, R.B FROM R WHERE R.B > 15
func TestPlanLocalFilter(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "R", "A,B", "1,10", "2,20", "3,30")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items: []ast.SelectItem{{Col: col("R", "A")}, {Col: col("R", "B")}},
		From:  "R",
		Where: ast.BinaryExpr{Op: ast.OpGt, Left: col("R", "B"), Right: ast.IntLiteral{Value: 15}},
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"2, 20", "3, 30"}, keys(t, rows))
}

// Scenario 2: SELECT R.A, S.D FROM R, S WHERE R.A = S.C
func TestPlanTwoTableJoin(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "R", "A,B", "1,10", "2,20", "3,30")
	writeTable(t, dir, "S", "C,D", "1,100", "2,200", "4,400")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items: []ast.SelectItem{{Col: col("R", "A")}, {Col: col("S", "D")}},
		From:  "R",
		Joins: []ast.JoinItem{{Table: "S"}},
		Where: ast.BinaryExpr{Op: ast.OpEq, Left: col("R", "A"), Right: col("S", "C")},
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"1, 100", "2, 200"}, keys(t, rows))
}

// Scenario 3: SELECT DISTINCT T.K FROM T
func TestPlanDistinct(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "T", "K,N,V", "1,x,5", "1,x,7", "2,y,3")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items:    []ast.SelectItem{{Col: col("T", "K")}},
		From:     "T",
		Distinct: true,
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, keys(t, rows))
}

// Scenario 4: SELECT T.K, SUM(T.V) FROM T GROUP BY T.K
func TestPlanGroupedSum(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "T", "K,N,V", "1,x,5", "1,x,7", "2,y,3")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items:   []ast.SelectItem{{Col: col("T", "K")}, {Sum: &ast.SumCall{Arg: col("T", "V")}}},
		From:    "T",
		GroupBy: col("T", "K"),
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)

	got := keys(t, rows)
	sort.Strings(got)
	require.Equal(t, []string{"1, 12", "2, 3"}, got)
}

// Scenario 4b: same query wrapped with ORDER BY T.K ASC
func TestPlanGroupedSumOrdered(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "T", "K,N,V", "1,x,5", "1,x,7", "2,y,3")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items:   []ast.SelectItem{{Col: col("T", "K")}, {Sum: &ast.SumCall{Arg: col("T", "V")}}},
		From:    "T",
		GroupBy: col("T", "K"),
		OrderBy: []ast.OrderItem{{Col: col("T", "K")}},
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"1, 12", "2, 3"}, keys(t, rows))
}

// Scenario 5: SELECT R.A FROM R ORDER BY R.B DESC
func TestPlanOrderByColumnNotInSelectList(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "R", "A,B", "1,10", "2,20", "3,30")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items:   []ast.SelectItem{{Col: col("R", "A")}},
		From:    "R",
		OrderBy: []ast.OrderItem{{Col: col("R", "B"), Desc: true}},
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"3", "2", "1"}, keys(t, rows))
}

// Scenario 6: SELECT SUM(R.B) FROM R
func TestPlanUngroupedSum(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "R", "A,B", "1,10", "2,20", "3,30")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items: []ast.SelectItem{{Sum: &ast.SumCall{Arg: col("R", "B")}}},
		From:  "R",
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"60"}, keys(t, rows))
}

// Residual WHERE predicate spanning 3+ tables is applied as a top-level
// filter rather than silently dropped.
func TestPlanResidualThreeTablePredicate(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "R", "A,B", "1,10", "2,20")
	writeTable(t, dir, "S", "C,D", "1,90", "2,200")
	writeTable(t, dir, "U", "E,F", "1,100", "2,5000")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	// R.B + S.D = U.F references all three tables at once.
	threeTable := ast.BinaryExpr{
		Op:    ast.OpEq,
		Left:  ast.BinaryExpr{Op: ast.OpAdd, Left: col("R", "B"), Right: col("S", "D")},
		Right: col("U", "F"),
	}
	stmt := &ast.SelectStmt{
		Items: []ast.SelectItem{{Col: col("R", "A")}},
		From:  "R",
		Joins: []ast.JoinItem{{Table: "S"}, {Table: "U"}},
		Where: ast.AndExpr{
			Left:  ast.BinaryExpr{Op: ast.OpEq, Left: col("R", "A"), Right: col("S", "C")},
			Right: ast.AndExpr{Left: ast.BinaryExpr{Op: ast.OpEq, Left: col("S", "C"), Right: col("U", "E")}, Right: threeTable},
		},
	}

	root, _, err := Plan(blazectx.New(), cat, stmt)
	require.NoError(t, err)
	rows, err := operator.Drain(blazectx.New(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, keys(t, rows))
}

func TestPlanRejectsMultipleSumsUnderGroupBy(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "T", "K,V", "1,5")
	cat, err := catalog.Open(dir)
	require.NoError(t, err)

	stmt := &ast.SelectStmt{
		Items: []ast.SelectItem{
			{Col: col("T", "K")},
			{Sum: &ast.SumCall{Arg: col("T", "V")}},
			{Sum: &ast.SumCall{Arg: col("T", "V")}},
		},
		From:    "T",
		GroupBy: col("T", "K"),
	}

	_, _, err = Plan(blazectx.New(), cat, stmt)
	require.Error(t, err)
}
