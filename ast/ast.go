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

// Package ast is the boundary the parser hands off to the planner: a
// sealed set of node kinds covering exactly the grammar BlazeDB supports
// (column refs, integer literals, +, ×, the six comparisons, AND, and
// parenthesization), plus the shape of a SELECT statement. Any node kind
// outside this set simply does not exist in this package - the planner
// and evaluator are total over its domain by construction, the way
// go-mysql-server's visitor-over-a-huge-AST is collapsed here into a
// small closed sum type.
package ast

// Op is a binary operator: arithmetic or comparison.
type Op int

const (
	OpAdd Op = iota
	OpMul
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpEq:
		return "="
	case OpNeq:
		return "<>"
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// IsComparison reports whether o is one of the six comparison operators
// (as opposed to an arithmetic operator).
func (o Op) IsComparison() bool {
	return o >= OpEq
}

// Expr is any supported expression node: ColumnRef, IntLiteral,
// BinaryExpr, AndExpr, or the planner-only SumRowConstant. It is
// intentionally not implemented by any other type in this module.
type Expr interface {
	exprNode()
}

// ColumnRef refers to a column, optionally qualified by its table.
// "R.A" parses as Qualifier: "R", Name: "A"; a bare "A" parses as
// Qualifier: "", Name: "A".
type ColumnRef struct {
	Qualifier string
	Name      string
}

func (ColumnRef) exprNode() {}

// IntLiteral is a signed integer constant.
type IntLiteral struct {
	Value int64
}

func (IntLiteral) exprNode() {}

// BinaryExpr is an arithmetic (+, ×) or comparison (=, ≠, <, ≤, >, ≥)
// node. Parenthesization is transparent: the parser discards grouping
// parens once precedence has been resolved, so no Paren node exists
// here.
type BinaryExpr struct {
	Op          Op
	Left, Right Expr
}

func (BinaryExpr) exprNode() {}

// AndExpr is a logical conjunction of two predicates.
type AndExpr struct {
	Left, Right Expr
}

func (AndExpr) exprNode() {}

// SumRowConstant is a synthetic expression produced only by the planner
// when rewriting a literal SUM argument (SUM(1)): it contributes its
// Value to the accumulator for every row, regardless of the tuple's
// contents. It never appears in a parsed query; the parser only ever
// produces a SumCall wrapping an IntLiteral, which the planner rewrites
// into this node before handing the aggregation operator its argument
// list.
type SumRowConstant struct {
	Value int64
}

func (SumRowConstant) exprNode() {}

// SumCall wraps the argument to a SUM aggregate as it appears in a
// SELECT or ORDER BY item. It is not a general Expr - it only ever
// appears as (part of) a SelectItem or OrderItem, never nested inside
// another expression, matching "aggregation is not an expression type"
// per the data model.
type SumCall struct {
	Arg Expr
}

// SelectItem is one entry of a SELECT list: either a bare column
// reference/arithmetic expression, or a SUM(...) call.
type SelectItem struct {
	Sum *SumCall // non-nil for SUM(...) items
	Col Expr     // non-nil for plain column/expression items
}

// OrderItem is one ORDER BY key: an expression (column ref, or a SUM(...)
// call echoing a SELECT list aggregate) plus a direction.
type OrderItem struct {
	Sum  *SumCall
	Col  Expr
	Desc bool
}

// JoinItem is one more table appended to the FROM list.
type JoinItem struct {
	Table string
}

// SelectStmt is the parsed shape of the single statement kind BlazeDB
// executes.
type SelectStmt struct {
	Star     bool
	Items    []SelectItem
	From     string
	Joins    []JoinItem
	Where    Expr // nil if no WHERE clause
	GroupBy  Expr // nil if no GROUP BY; only a single expression is supported
	OrderBy  []OrderItem
	Distinct bool
}
