// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package parser turns bracketed snailfish text into number trees.
package parser

import (
	"fmt"
	"strconv"

	"nickandperla.net/snailfish/internal/eval"
	"nickandperla.net/snailfish/internal/number"
	"nickandperla.net/snailfish/internal/scanner"
	"nickandperla.net/snailfish/internal/token"
)

// ParseError describes malformed input. Char is the offending rune, or 0 when
// the input ended early.
type ParseError struct {
	Line   int
	Column int
	Char   rune
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("line %d, column %d: %s %q", e.Line, e.Column, e.Msg, e.Char)
}

// frame is an open pair waiting for its children, with their magnitudes.
type frame struct {
	left     number.Node
	right    number.Node
	leftMag  uint64
	rightMag uint64
	comma    bool
}

// wantsValue reports whether the next token should start a child.
func (f *frame) wantsValue() bool {
	return f.left == nil || (f.comma && f.right == nil)
}

// Parser holds the explicit stack of open pairs for one parse.
type Parser struct {
	sc    *scanner.Scanner
	stack []*frame
	root  number.Node
}

// Parse parses a single snailfish number occupying all of text.
func Parse(text string) (number.Node, error) {
	return ParseLine(text, 1)
}

// ParseLine parses text, reporting errors against the given line number.
func ParseLine(text string, line int) (number.Node, error) {
	return NewFromString(text, line).Parse()
}

// NewFromString creates a Parser over a string.
func NewFromString(text string, line int) *Parser {
	return &Parser{sc: scanner.NewFromString(text).WithLine(line)}
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(text string) number.Node {
	n, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return n
}

// Parse consumes the whole input and returns the tree. Regular numbers are
// written without leading zeros, and the magnitude of the tree and of every
// pair in it is at most eval.MaxMagnitude.
func (p *Parser) Parse() (number.Node, error) {
	for {
		item, err := p.sc.Next()
		if err != nil {
			return nil, err
		}

		if item.Token.StartsValue() && !p.acceptsValue() {
			if item.Token == token.NUMBER {
				return nil, errorAt(item, "unexpected digit")
			}
			return nil, errorAt(item, "unexpected character")
		}

		switch item.Token {
		case token.EOF:
			if len(p.stack) > 0 {
				return nil, errorAt(item, "unbalanced brackets: unexpected end of input")
			}
			if p.root == nil {
				return nil, errorAt(item, "empty input")
			}
			return p.root, nil

		case token.NUMBER:
			if len(item.Value) > 1 && item.Value[0] == '0' {
				return nil, errorAt(item, "leading zero in regular number")
			}
			v, err := strconv.ParseUint(item.Value, 10, 64)
			if err != nil || v > eval.MaxMagnitude {
				return nil, errorAt(item, "regular number out of range starting at")
			}
			p.attach(number.NewLeaf(v), v)

		case token.LBRACKET:
			p.stack = append(p.stack, &frame{})

		case token.COMMA:
			top := p.top()
			if top == nil || top.left == nil || top.comma {
				return nil, errorAt(item, "unexpected character")
			}
			top.comma = true

		case token.RBRACKET:
			top := p.top()
			if top == nil {
				return nil, errorAt(item, "unbalanced brackets: unexpected character")
			}
			if top.right == nil {
				return nil, errorAt(item, "incomplete pair before")
			}
			mag, err := eval.Combine(top.leftMag, top.rightMag)
			if err != nil || mag > eval.MaxMagnitude {
				return nil, errorAt(item, "magnitude out of range at")
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.attach(number.NewPair(top.left, top.right), mag)

		default:
			return nil, errorAt(item, "unexpected character")
		}
	}
}

func (p *Parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) acceptsValue() bool {
	if top := p.top(); top != nil {
		return top.wantsValue()
	}
	return p.root == nil
}

// attach places a completed value into the next free slot. Callers check
// acceptsValue first; a closed pair always lands in a slot its parent
// accepted when the pair was opened.
func (p *Parser) attach(n number.Node, mag uint64) {
	top := p.top()
	switch {
	case top == nil:
		p.root = n
	case top.left == nil:
		top.left, top.leftMag = n, mag
	default:
		top.right, top.rightMag = n, mag
	}
}

func errorAt(item *scanner.Item, msg string) *ParseError {
	return &ParseError{
		Line:   item.Line,
		Column: item.Column,
		Char:   item.Rune(),
		Msg:    msg,
	}
}
