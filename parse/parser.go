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

package parse

import (
	"fmt"
	"strings"

	"github.com/blazedb/blazedb/ast"
	"github.com/blazedb/blazedb/blazeerr"
)

// Parse turns query text into a SelectStmt, the only statement shape
// BlazeDB executes.
func Parse(query string) (*ast.SelectStmt, error) {
	toks, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if !p.at(tokEOF) {
		return nil, blazeerr.ErrParse.New(fmt.Sprintf("unexpected trailing input near %q", p.cur().text))
	}
	return stmt, nil
}

func tokenize(query string) ([]token, error) {
	l := newLexer(query)
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token {
	return p.toks[p.pos]
}

func (p *parser) at(k tokenKind) bool {
	return p.cur().kind == k
}

func (p *parser) atKeyword(kw string) bool {
	return p.at(tokIdent) && strings.EqualFold(p.cur().text, kw)
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind) (token, error) {
	if !p.at(k) {
		return token{}, blazeerr.ErrParse.New(fmt.Sprintf("unexpected token %q", p.cur().text))
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return blazeerr.ErrParse.New(fmt.Sprintf("expected %q, found %q", kw, p.cur().text))
	}
	p.advance()
	return nil
}

func (p *parser) parseSelect() (*ast.SelectStmt, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}

	stmt := &ast.SelectStmt{}
	if p.atKeyword("distinct") {
		p.advance()
		stmt.Distinct = true
	}

	if p.at(tokStar) {
		p.advance()
		stmt.Star = true
	} else {
		items, err := p.parseSelectList()
		if err != nil {
			return nil, err
		}
		stmt.Items = items
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	from, joins, err := p.parseFromList()
	if err != nil {
		return nil, err
	}
	stmt.From = from
	stmt.Joins = joins

	if p.atKeyword("where") {
		p.advance()
		where, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.atKeyword("group") {
		p.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		groupBy, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = groupBy
	}

	if p.atKeyword("order") {
		p.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		items, err := p.parseOrderList()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = items
	}

	return stmt, nil
}

func (p *parser) parseSelectList() ([]ast.SelectItem, error) {
	var items []ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.at(tokComma) {
			p.advance()
			continue
		}
		return items, nil
	}
}

func (p *parser) parseSelectItem() (ast.SelectItem, error) {
	if p.atKeyword("sum") {
		call, err := p.parseSumCall()
		if err != nil {
			return ast.SelectItem{}, err
		}
		return ast.SelectItem{Sum: call}, nil
	}
	expr, err := p.parseAdditive()
	if err != nil {
		return ast.SelectItem{}, err
	}
	return ast.SelectItem{Col: expr}, nil
}

func (p *parser) parseSumCall() (*ast.SumCall, error) {
	p.advance() // "sum"
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	arg, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &ast.SumCall{Arg: arg}, nil
}

func (p *parser) parseFromList() (string, []ast.JoinItem, error) {
	first, err := p.parseTableName()
	if err != nil {
		return "", nil, err
	}

	var joins []ast.JoinItem
	for {
		if p.at(tokComma) {
			p.advance()
			name, err := p.parseTableName()
			if err != nil {
				return "", nil, err
			}
			joins = append(joins, ast.JoinItem{Table: name})
			continue
		}
		if p.atKeyword("join") {
			p.advance()
			name, err := p.parseTableName()
			if err != nil {
				return "", nil, err
			}
			joins = append(joins, ast.JoinItem{Table: name})
			continue
		}
		return first, joins, nil
	}
}

func (p *parser) parseTableName() (string, error) {
	tok, err := p.expect(tokIdent)
	if err != nil {
		return "", err
	}
	if isKeyword(tok.text) {
		return "", blazeerr.ErrParse.New(fmt.Sprintf("expected table name, found keyword %q", tok.text))
	}
	return tok.text, nil
}

// parsePredicate parses a WHERE clause: a conjunction of comparisons.
func (p *parser) parsePredicate() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("and") {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	op, ok := comparisonOp(p.cur().kind)
	if !ok {
		return nil, blazeerr.ErrParse.New(fmt.Sprintf("expected a comparison operator, found %q", p.cur().text))
	}
	p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func comparisonOp(k tokenKind) (ast.Op, bool) {
	switch k {
	case tokEq:
		return ast.OpEq, true
	case tokNeq:
		return ast.OpNeq, true
	case tokLt:
		return ast.OpLt, true
	case tokLe:
		return ast.OpLe, true
	case tokGt:
		return ast.OpGt, true
	case tokGe:
		return ast.OpGe, true
	default:
		return 0, false
	}
}

// parseAdditive parses "+"-separated terms, each term possibly a "*"
// product of primaries (factors).
func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.at(tokPlus) {
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpAdd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(tokStar) {
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: ast.OpMul, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	switch {
	case p.at(tokLParen):
		p.advance()
		expr, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case p.at(tokNumber):
		tok := p.advance()
		v, err := parseIntLiteral(tok.text)
		if err != nil {
			return nil, err
		}
		return ast.IntLiteral{Value: v}, nil
	case p.at(tokIdent):
		return p.parseColumnRef()
	default:
		return nil, blazeerr.ErrParse.New(fmt.Sprintf("unexpected token %q in expression", p.cur().text))
	}
}

func (p *parser) parseColumnRef() (ast.ColumnRef, error) {
	tok, err := p.expect(tokIdent)
	if err != nil {
		return ast.ColumnRef{}, err
	}
	if isKeyword(tok.text) {
		return ast.ColumnRef{}, blazeerr.ErrParse.New(fmt.Sprintf("expected column reference, found keyword %q", tok.text))
	}
	if !p.at(tokDot) {
		return ast.ColumnRef{Name: tok.text}, nil
	}
	p.advance()
	name, err := p.expect(tokIdent)
	if err != nil {
		return ast.ColumnRef{}, err
	}
	return ast.ColumnRef{Qualifier: tok.text, Name: name.text}, nil
}

func (p *parser) parseOrderList() ([]ast.OrderItem, error) {
	var items []ast.OrderItem
	for {
		item, err := p.parseOrderItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.at(tokComma) {
			p.advance()
			continue
		}
		return items, nil
	}
}

func (p *parser) parseOrderItem() (ast.OrderItem, error) {
	var item ast.OrderItem
	if p.atKeyword("sum") {
		call, err := p.parseSumCall()
		if err != nil {
			return ast.OrderItem{}, err
		}
		item.Sum = call
	} else {
		col, err := p.parseAdditive()
		if err != nil {
			return ast.OrderItem{}, err
		}
		item.Col = col
	}

	if p.atKeyword("asc") {
		p.advance()
	} else if p.atKeyword("desc") {
		p.advance()
		item.Desc = true
	}
	return item, nil
}
