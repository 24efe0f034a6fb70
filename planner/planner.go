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

// Package planner turns a parsed ast.SelectStmt into an operator tree:
// enumerate tables, push local and join predicates down, build a
// left-deep join tree, narrow to needed columns, apply aggregation or
// duplicate elimination, project the final SELECT list, and sort. This
// is the 24%-of-the-core component the rest of the packages exist to
// serve.
package planner

import (
	"fmt"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazectx"
	"github.com/blazedb/blazedb/blazeerr"
	"github.com/blazedb/blazedb/catalog"
	"github.com/blazedb/blazedb/operator"
	"github.com/blazedb/blazedb/schema"
)

// Plan builds the operator tree and final output schema for stmt against
// cat. The returned root is ready to be pulled to completion by a driver.
func Plan(ctx *blazectx.Context, cat *catalog.Catalog, stmt *ast.SelectStmt) (operator.Operator, *schema.Schema, error) {
	span := ctx.StartSpan("plan")
	defer span.Finish()

	tables := enumerateTables(stmt)

	conjuncts := flattenAnd(stmt.Where)
	consumed := make([]bool, len(conjuncts))

	tableOps, err := buildTableOperators(cat, tables, conjuncts, consumed)
	if err != nil {
		return nil, nil, err
	}

	root, err := buildJoinTree(tables, tableOps, conjuncts, consumed)
	if err != nil {
		return nil, nil, err
	}

	if residual := combineUnconsumed(conjuncts, consumed); residual != nil {
		ctx.Log().WithFields(map[string]interface{}{
			"system": "planner",
		}).Info("applying residual WHERE predicate spanning 3+ tables as a top-level filter")
		root = operator.NewSelect(root, residual, root.Schema())
	}

	hasAgg := stmtHasAggregation(stmt)

	needed := neededColumns(stmt, root.Schema())
	root = maybeProject(root, needed)

	var sums []ast.Expr
	if hasAgg {
		for _, item := range stmt.Items {
			if item.Sum == nil {
				continue
			}
			sums = append(sums, rewriteLiteralSum(item.Sum.Arg))
		}
		agg, err := operator.NewAggregate(root, stmt.GroupBy, sums)
		if err != nil {
			return nil, nil, err
		}
		root = agg
	} else if stmt.Distinct || stmt.GroupBy != nil {
		root = operator.NewDistinct(root)
	}

	// ORDER BY is applied before the final projection, not after: a sort
	// key may reference a column the SELECT list itself does not keep
	// (scenario 5's "ORDER BY R.B" with only R.A selected), so the wider
	// needed-columns schema must still be in scope when Sort is built.
	if len(stmt.OrderBy) > 0 {
		keys, err := sortKeys(stmt, hasAgg, sums)
		if err != nil {
			return nil, nil, err
		}
		root = operator.NewSort(root, keys)
	}

	finalCols, err := finalProjectionColumns(stmt, hasAgg, root.Schema())
	if err != nil {
		return nil, nil, err
	}
	root = operator.NewProject(root, finalCols)

	return root, root.Schema(), nil
}

func enumerateTables(stmt *ast.SelectStmt) []string {
	tables := make([]string, 0, len(stmt.Joins)+1)
	tables = append(tables, stmt.From)
	for _, j := range stmt.Joins {
		tables = append(tables, j.Table)
	}
	return tables
}

func buildTableOperators(cat *catalog.Catalog, tables []string, conjuncts []ast.Expr, consumed []bool) (map[string]operator.Operator, error) {
	ops := make(map[string]operator.Operator, len(tables))
	for _, name := range tables {
		tbl, err := cat.Resolve(name)
		if err != nil {
			return nil, blazeerr.Wrap(err, "resolving table "+name)
		}
		scan, err := operator.NewScan(tbl)
		if err != nil {
			return nil, blazeerr.Wrap(err, "opening scan for "+name)
		}

		var local ast.Expr
		for i, c := range conjuncts {
			if consumed[i] {
				continue
			}
			quals := collectQualifiers(c)
			if len(quals) == 1 {
				if _, ok := quals[name]; ok {
					consumed[i] = true
					local = andTogether(local, c)
				}
			}
		}

		var op operator.Operator = scan
		if local != nil {
			op = operator.NewSelect(scan, local, scan.Schema())
		}
		ops[name] = op
	}
	return ops, nil
}

func buildJoinTree(tables []string, tableOps map[string]operator.Operator, conjuncts []ast.Expr, consumed []bool) (operator.Operator, error) {
	if len(tables) == 0 {
		return nil, blazeerr.ErrInvariant.New("query has no tables")
	}

	root := tableOps[tables[0]]
	leftTables := map[string]struct{}{tables[0]: {}}

	for _, right := range tables[1:] {
		var joinPred ast.Expr
		for i, c := range conjuncts {
			if consumed[i] {
				continue
			}
			quals := collectQualifiers(c)
			if len(quals) != 2 {
				continue
			}
			if _, ok := quals[right]; !ok {
				continue
			}
			otherMatches := false
			for q := range quals {
				if q == right {
					continue
				}
				if _, ok := leftTables[q]; ok {
					otherMatches = true
				}
			}
			if otherMatches {
				consumed[i] = true
				joinPred = andTogether(joinPred, c)
			}
		}

		root = operator.NewJoin(root, tableOps[right], joinPred)
		leftTables[right] = struct{}{}
	}

	return root, nil
}

func combineUnconsumed(conjuncts []ast.Expr, consumed []bool) ast.Expr {
	var residual ast.Expr
	for i, c := range conjuncts {
		if consumed[i] {
			continue
		}
		residual = andTogether(residual, c)
	}
	return residual
}

func stmtHasAggregation(stmt *ast.SelectStmt) bool {
	for _, item := range stmt.Items {
		if item.Sum != nil {
			return true
		}
	}
	return false
}

// neededColumns gathers every qualified column referenced by the SELECT
// list, WHERE clause, GROUP BY, and ORDER BY, in first-seen order. For
// SELECT *, the full current schema is used instead.
func neededColumns(stmt *ast.SelectStmt, current *schema.Schema) []string {
	if stmt.Star {
		return append([]string(nil), current.Columns()...)
	}

	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, item := range stmt.Items {
		if item.Sum != nil {
			collectColumnNames(item.Sum.Arg, add)
			continue
		}
		collectColumnNames(item.Col, add)
	}
	collectColumnNames(stmt.Where, add)
	collectColumnNames(stmt.GroupBy, add)
	for _, o := range stmt.OrderBy {
		if o.Sum != nil {
			collectColumnNames(o.Sum.Arg, add)
			continue
		}
		collectColumnNames(o.Col, add)
	}
	return out
}

func collectColumnNames(expr ast.Expr, add func(string)) {
	switch n := expr.(type) {
	case nil:
		return
	case ast.ColumnRef:
		if n.Qualifier != "" {
			add(n.Qualifier + "." + n.Name)
		} else {
			add(n.Name)
		}
	case ast.BinaryExpr:
		collectColumnNames(n.Left, add)
		collectColumnNames(n.Right, add)
	case ast.AndExpr:
		collectColumnNames(n.Left, add)
		collectColumnNames(n.Right, add)
	}
}

func maybeProject(root operator.Operator, needed []string) operator.Operator {
	if len(needed) == 0 {
		return root
	}
	return operator.NewProject(root, needed)
}

// rewriteLiteralSum replaces a literal SUM argument with the synthetic
// per-row-constant node, so the aggregation operator's inner loop stays
// uniform.
func rewriteLiteralSum(arg ast.Expr) ast.Expr {
	if lit, ok := arg.(ast.IntLiteral); ok {
		return ast.SumRowConstant{Value: lit.Value}
	}
	return arg
}

// finalProjectionColumns builds the column list for the top-level
// ProjectOperator, matching the SELECT list exactly: the plain qualified
// name for a column item, or the aggregation operator's emitted column
// name for a SUM item.
func finalProjectionColumns(stmt *ast.SelectStmt, hasAgg bool, current *schema.Schema) ([]string, error) {
	if stmt.Star {
		return append([]string(nil), current.Columns()...), nil
	}

	cols := make([]string, 0, len(stmt.Items))
	sumIndex := 0
	for _, item := range stmt.Items {
		if item.Sum != nil {
			if !hasAgg {
				return nil, blazeerr.ErrInvariant.New("SUM item present but aggregation was not planned")
			}
			if stmt.GroupBy != nil {
				cols = append(cols, operator.SumColumnName)
			} else {
				cols = append(cols, fmt.Sprintf("%s%d", operator.SumColumnPrefix, sumIndex))
				sumIndex++
			}
			continue
		}

		if hasAgg && stmt.GroupBy != nil {
			cols = append(cols, operator.GroupColumnName)
			continue
		}

		col, ok := item.Col.(ast.ColumnRef)
		if !ok {
			return nil, blazeerr.ErrUnsupported.New("SELECT list item is not a plain column reference")
		}
		cols = append(cols, qualifiedName(col))
	}
	return cols, nil
}

// sortKeys builds the Sort operator's key list, rewriting ORDER BY
// SUM(...) items to the aggregation operator's emitted column name.
func sortKeys(stmt *ast.SelectStmt, hasAgg bool, sums []ast.Expr) ([]operator.SortKey, error) {
	keys := make([]operator.SortKey, 0, len(stmt.OrderBy))
	for _, o := range stmt.OrderBy {
		if o.Sum != nil {
			if !hasAgg {
				return nil, blazeerr.ErrUnsupported.New("ORDER BY SUM(...) without an aggregation in SELECT")
			}
			var name string
			if stmt.GroupBy != nil {
				name = operator.SumColumnName
			} else {
				idx := sumArgIndex(sums, o.Sum.Arg)
				name = fmt.Sprintf("%s%d", operator.SumColumnPrefix, idx)
			}
			keys = append(keys, operator.SortKey{
				Expr: ast.ColumnRef{Name: name},
				Desc: o.Desc,
			})
			continue
		}

		col := o.Col
		if hasAgg {
			// Post-aggregation schemas only expose the synthetic Group/SUM_i
			// columns, so an ORDER BY column matching the GROUP BY expression
			// is rewritten to the aggregation operator's emitted name.
			if stmt.GroupBy == nil || !exprEqual(col, stmt.GroupBy) {
				return nil, blazeerr.ErrUnsupported.New("ORDER BY column does not match the GROUP BY expression")
			}
			col = ast.ColumnRef{Name: operator.GroupColumnName}
		}
		keys = append(keys, operator.SortKey{Expr: col, Desc: o.Desc})
	}
	return keys, nil
}

func sumArgIndex(sums []ast.Expr, arg ast.Expr) int {
	rewritten := rewriteLiteralSum(arg)
	for i, s := range sums {
		if exprEqual(s, rewritten) {
			return i
		}
	}
	return 0
}

func exprEqual(a, b ast.Expr) bool {
	switch x := a.(type) {
	case ast.ColumnRef:
		y, ok := b.(ast.ColumnRef)
		return ok && x == y
	case ast.SumRowConstant:
		y, ok := b.(ast.SumRowConstant)
		return ok && x == y
	case ast.IntLiteral:
		y, ok := b.(ast.IntLiteral)
		return ok && x == y
	default:
		return false
	}
}

func qualifiedName(c ast.ColumnRef) string {
	if c.Qualifier == "" {
		return c.Name
	}
	return c.Qualifier + "." + c.Name
}

// flattenAnd splits a WHERE clause into its top-level AND conjuncts.
func flattenAnd(expr ast.Expr) []ast.Expr {
	if expr == nil {
		return nil
	}
	if and, ok := expr.(ast.AndExpr); ok {
		return append(flattenAnd(and.Left), flattenAnd(and.Right)...)
	}
	return []ast.Expr{expr}
}

// collectQualifiers returns the set of distinct table qualifiers a
// predicate references.
func collectQualifiers(expr ast.Expr) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case ast.ColumnRef:
			if n.Qualifier != "" {
				out[n.Qualifier] = struct{}{}
			}
		case ast.BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case ast.AndExpr:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(expr)
	return out
}

func andTogether(existing, next ast.Expr) ast.Expr {
	if existing == nil {
		return next
	}
	return ast.AndExpr{Left: existing, Right: next}
}
