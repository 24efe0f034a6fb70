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

// Package parse is the external collaborator that turns query text into
// the ast package's node types: a small recursive-descent parser for
// exactly the grammar the core supports, no more.
package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/blazedb/blazedb/blazeerr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokStar
	tokComma
	tokDot
	tokLParen
	tokRParen
	tokPlus
	tokEq
	tokNeq
	tokLt
	tokLe
	tokGt
	tokGe
)

type token struct {
	kind tokenKind
	text string
}

var keywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true,
	"group": true, "by": true, "order": true, "asc": true, "desc": true,
	"distinct": true, "join": true, "sum": true,
}

type lexer struct {
	input []rune
	pos   int
}

func newLexer(query string) *lexer {
	return &lexer{input: []rune(query)}
}

func (l *lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *lexer) skipSpace() {
	for {
		r, ok := l.peekRune()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		l.pos++
	}
}

// next returns the next token, or a tokEOF once the input is exhausted.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	r, ok := l.peekRune()
	if !ok {
		return token{kind: tokEOF}, nil
	}

	switch {
	case r == '*':
		l.pos++
		return token{kind: tokStar, text: "*"}, nil
	case r == ',':
		l.pos++
		return token{kind: tokComma, text: ","}, nil
	case r == '.':
		l.pos++
		return token{kind: tokDot, text: "."}, nil
	case r == '(':
		l.pos++
		return token{kind: tokLParen, text: "("}, nil
	case r == ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case r == '+':
		l.pos++
		return token{kind: tokPlus, text: "+"}, nil
	case r == '=':
		l.pos++
		return token{kind: tokEq, text: "="}, nil
	case r == '<':
		l.pos++
		if r2, ok := l.peekRune(); ok && (r2 == '>' || r2 == '=') {
			l.pos++
			if r2 == '>' {
				return token{kind: tokNeq, text: "<>"}, nil
			}
			return token{kind: tokLe, text: "<="}, nil
		}
		return token{kind: tokLt, text: "<"}, nil
	case r == '>':
		l.pos++
		if r2, ok := l.peekRune(); ok && r2 == '=' {
			l.pos++
			return token{kind: tokGe, text: ">="}, nil
		}
		return token{kind: tokGt, text: ">"}, nil
	case r == '!':
		l.pos++
		if r2, ok := l.peekRune(); ok && r2 == '=' {
			l.pos++
			return token{kind: tokNeq, text: "!="}, nil
		}
		return token{}, blazeerr.ErrParse.New("unexpected '!'")
	case unicode.IsDigit(r):
		return l.lexNumber(), nil
	case unicode.IsLetter(r) || r == '_':
		return l.lexIdent(), nil
	default:
		return token{}, blazeerr.ErrParse.New(fmt.Sprintf("unexpected character %q", r))
	}
}

func (l *lexer) lexNumber() token {
	start := l.pos
	for {
		r, ok := l.peekRune()
		if !ok || !unicode.IsDigit(r) {
			break
		}
		l.pos++
	}
	return token{kind: tokNumber, text: string(l.input[start:l.pos])}
}

func (l *lexer) lexIdent() token {
	start := l.pos
	for {
		r, ok := l.peekRune()
		if !ok || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			break
		}
		l.pos++
	}
	return token{kind: tokIdent, text: string(l.input[start:l.pos])}
}

func isKeyword(text string) bool {
	return keywords[strings.ToLower(text)]
}

func parseIntLiteral(text string) (int64, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, blazeerr.ErrParse.New(fmt.Sprintf("invalid integer literal %q", text))
	}
	return v, nil
}
