// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for snailfish numbers.
package scanner

import (
	"bufio"
	"io"
	"strings"

	"nickandperla.net/snailfish/internal/token"
)

// Scanner tokenizes snailfish input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	line   int // Current line number (1-based)
	column int // Column of the last rune read (1-based, 0 before any read)

	prevLine, prevColumn int // Position before the last read, for unread
}

// Item represents a scanned token with its value.
type Item struct {
	Token  token.Token
	Value  string
	Line   int // Line number where this token started
	Column int // Column where this token started
}

// Rune returns the first rune of the item, or 0 at EOF.
func (it *Item) Rune() rune {
	for _, r := range it.Value {
		return r
	}
	return 0
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// WithLine overrides the starting line number. Used when the input is a
// single line taken from a larger file.
func (s *Scanner) WithLine(line int) *Scanner {
	s.line = line
	return s
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

func (s *Scanner) readRune() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	s.prevLine, s.prevColumn = s.line, s.column
	if r == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}
	return r, nil
}

func (s *Scanner) unreadRune() {
	s.reader.UnreadRune()
	s.line, s.column = s.prevLine, s.prevColumn
}

// Next returns the next token from the input.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	// Position of the rune about to be read.
	startLine, startCol := s.line, s.column+1

	r, err := s.readRune()
	if err == io.EOF {
		return &Item{Token: token.EOF, Line: startLine, Column: startCol}, nil
	}
	if err != nil {
		return nil, err
	}

	tok := token.TokenFromRune(r)
	if tok != token.NUMBER {
		return &Item{Token: tok, Value: string(r), Line: startLine, Column: startCol}, nil
	}

	s.buf.Reset()
	s.buf.WriteRune(r)
	for {
		r, err := s.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !token.IsDigit(r) {
			s.unreadRune()
			break
		}
		s.buf.WriteRune(r)
	}
	return &Item{Token: token.NUMBER, Value: s.buf.String(), Line: startLine, Column: startCol}, nil
}
